package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"legifai-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepositoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewSessionRepository(dir)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "s1.json"))

	retrieved := &store.RetrievedContext{Populated: true, Excerpts: []store.DocumentExcerpt{{Content: "Art. 1", Source: "BOE"}}}
	require.NoError(t, repo.AppendTurn(ctx, "s1", store.Turn{UserText: "q1", AssistantText: "a1"}, retrieved))

	// a fresh repository over the same directory sees the persisted state
	reopened, err := NewSessionRepository(dir)
	require.NoError(t, err)
	got, err := reopened.GetOrCreate(ctx, "s1")
	require.NoError(t, err)

	require.Len(t, got.Turns, 1)
	assert.Equal(t, "a1", got.Turns[0].AssistantText)
	assert.True(t, got.Context.Populated)
	assert.Equal(t, "Art. 1", got.Context.Excerpts[0].Content)
}

func TestFileRepositoryAppendUnknown(t *testing.T) {
	repo, err := NewSessionRepository(t.TempDir())
	require.NoError(t, err)

	err = repo.AppendTurn(context.Background(), "missing", store.Turn{UserText: "q"}, nil)
	assert.ErrorIs(t, err, store.ErrInvalidSession)
}

func TestFileRepositoryClear(t *testing.T) {
	repo, err := NewSessionRepository(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, repo.AppendTurn(ctx, "s1", store.Turn{UserText: "q"}, &store.RetrievedContext{Populated: true}))
	require.NoError(t, repo.Clear(ctx, "s1"))

	got, err := repo.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.Turns)
	assert.False(t, got.Context.Populated)
}

func TestFileRepositoryRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewSessionRepository(dir)
	require.NoError(t, err)

	_, err = repo.GetOrCreate(context.Background(), "../escape")
	assert.ErrorIs(t, err, store.ErrInvalidSessionID)

	entries, err := os.ReadDir(filepath.Dir(dir))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, "escape.json", e.Name())
	}
}

func TestFileRepositoryClearUnknownLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewSessionRepository(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Clear(ctx, "never-created"))
	assert.NoFileExists(t, filepath.Join(dir, "never-created.json"))

	err = repo.AppendTurn(ctx, "never-created", store.Turn{UserText: "q"}, nil)
	assert.ErrorIs(t, err, store.ErrInvalidSession)
}

func TestFileRepositoryEmptyRetrievalStoresEmptyList(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewSessionRepository(dir)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = repo.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, repo.AppendTurn(ctx, "s1", store.Turn{UserText: "q"}, &store.RetrievedContext{}))

	raw, err := os.ReadFile(filepath.Join(dir, "s1.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "null")
}
