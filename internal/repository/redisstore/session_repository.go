package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"legifai-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "legifai:session:"
	maxRetries = 5
)

// SessionRepository stores one JSON document per session with a sliding TTL.
// Appends use WATCH/MULTI so concurrent writers from other instances cannot
// lose turns.
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &SessionRepository{rdb: rdb, ttl: ttl, now: time.Now}
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

func (r *SessionRepository) GetOrCreate(ctx context.Context, sessionID string) (*store.Session, error) {
	fresh, err := json.Marshal(store.NewSession(sessionID, r.now()))
	if err != nil {
		return nil, err
	}

	k := key(sessionID)
	if err := r.rdb.SetNX(ctx, k, fresh, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to create session %s: %w", sessionID, err)
	}

	data, err := r.rdb.GetEx(ctx, k, r.ttl).Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return decode(sessionID, data)
}

func (r *SessionRepository) AppendTurn(ctx context.Context, sessionID string, turn store.Turn, retrieved *store.RetrievedContext) error {
	k := key(sessionID)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", store.ErrInvalidSession, sessionID)
		}
		if err != nil {
			return err
		}

		session, err := decode(sessionID, data)
		if err != nil {
			return err
		}
		session.Apply(turn, retrieved)

		updated, err := json.Marshal(session)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, updated, r.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxRetries; i++ {
		err := r.rdb.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("failed to append turn to session %s: too much contention", sessionID)
}

func (r *SessionRepository) Clear(ctx context.Context, sessionID string) error {
	fresh, err := json.Marshal(store.NewSession(sessionID, r.now()))
	if err != nil {
		return err
	}
	// SetXX leaves unknown sessions absent.
	return r.rdb.SetXX(ctx, key(sessionID), fresh, r.ttl).Err()
}

func (r *SessionRepository) Close() error {
	return nil
}

func decode(sessionID string, data []byte) (*store.Session, error) {
	var session store.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	if session.Turns == nil {
		session.Turns = []store.Turn{}
	}
	return &session, nil
}
