package ragcontext

import (
	"context"
	"errors"
	"testing"
	"time"

	"legifai-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingRetriever(calls *int, docs []store.DocumentExcerpt, err error) RetrieveFunc {
	return func(ctx context.Context, query string) ([]store.DocumentExcerpt, error) {
		*calls++
		return docs, err
	}
}

func TestGetOrFetchFirstTurnRetrieves(t *testing.T) {
	cache := NewCache()
	session := store.NewSession("s1", time.Now())
	docs := []store.DocumentExcerpt{{Content: "Art. 1"}, {Content: "Art. 2"}}

	calls := 0
	got, fetched, err := cache.GetOrFetch(context.Background(), session, "despido", countingRetriever(&calls, docs, nil))

	require.NoError(t, err)
	assert.True(t, fetched)
	assert.Equal(t, 1, calls)
	assert.Equal(t, docs, got)
	assert.True(t, session.Context.Populated)
	assert.Equal(t, docs, session.Context.Excerpts)
}

func TestGetOrFetchPopulatedSkipsRetrieval(t *testing.T) {
	cache := NewCache()
	session := store.NewSession("s1", time.Now())
	session.Context = store.RetrievedContext{Populated: true, Excerpts: []store.DocumentExcerpt{{Content: "Art. 1"}}}

	calls := 0
	got, fetched, err := cache.GetOrFetch(context.Background(), session, "otra pregunta",
		countingRetriever(&calls, []store.DocumentExcerpt{{Content: "Art. 99"}}, nil))

	require.NoError(t, err)
	assert.False(t, fetched)
	assert.Equal(t, 0, calls)
	assert.Equal(t, []store.DocumentExcerpt{{Content: "Art. 1"}}, got)
}

func TestGetOrFetchEmptyResultPopulates(t *testing.T) {
	cache := NewCache()
	session := store.NewSession("s1", time.Now())

	calls := 0
	got, fetched, err := cache.GetOrFetch(context.Background(), session, "q", countingRetriever(&calls, nil, nil))
	require.NoError(t, err)
	assert.True(t, fetched)
	assert.Empty(t, got)
	assert.True(t, session.Context.Populated)

	_, fetched, err = cache.GetOrFetch(context.Background(), session, "q2", countingRetriever(&calls, nil, nil))
	require.NoError(t, err)
	assert.False(t, fetched)
	assert.Equal(t, 1, calls)
}

func TestGetOrFetchErrorLeavesSessionUntouched(t *testing.T) {
	cache := NewCache()
	session := store.NewSession("s1", time.Now())
	boom := errors.New("index unavailable")

	calls := 0
	_, fetched, err := cache.GetOrFetch(context.Background(), session, "q", countingRetriever(&calls, nil, boom))

	assert.ErrorIs(t, err, boom)
	assert.False(t, fetched)
	assert.False(t, session.Context.Populated)
}
