package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"legifai-be/pkg/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *redis.Client {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set, skipping redis session store tests")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisSessionLifecycle(t *testing.T) {
	rdb := setupRedis(t)
	repo := NewSessionRepository(rdb, time.Minute)
	ctx := context.Background()
	id := "test-" + uuid.New().String()
	t.Cleanup(func() { rdb.Del(context.Background(), key(id)) })

	err := repo.AppendTurn(ctx, id, store.Turn{UserText: "q"}, nil)
	assert.ErrorIs(t, err, store.ErrInvalidSession)

	s, err := repo.GetOrCreate(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, s.Turns)

	retrieved := &store.RetrievedContext{Populated: true, Excerpts: []store.DocumentExcerpt{{Content: "Art. 1"}}}
	require.NoError(t, repo.AppendTurn(ctx, id, store.Turn{UserText: "q1", AssistantText: "a1"}, retrieved))
	require.NoError(t, repo.AppendTurn(ctx, id, store.Turn{UserText: "q2", AssistantText: "a2"}, nil))

	s, err = repo.GetOrCreate(ctx, id)
	require.NoError(t, err)
	assert.Len(t, s.Turns, 2)
	assert.True(t, s.Context.Populated)

	ttl, err := rdb.TTL(ctx, key(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, repo.Clear(ctx, id))
	s, err = repo.GetOrCreate(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, s.Turns)
	assert.False(t, s.Context.Populated)
}

func TestRedisClearUnknownSession(t *testing.T) {
	rdb := setupRedis(t)
	repo := NewSessionRepository(rdb, time.Minute)
	ctx := context.Background()
	id := "test-" + uuid.New().String()
	t.Cleanup(func() { rdb.Del(context.Background(), key(id)) })

	require.NoError(t, repo.Clear(ctx, id))

	err := repo.AppendTurn(ctx, id, store.Turn{UserText: "q"}, nil)
	assert.ErrorIs(t, err, store.ErrInvalidSession)
}
