package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"legifai-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps sessions in process memory. Every access refreshes
// the entry's expiration, so idle sessions are evicted after ttl.
type SessionRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
	now   func() time.Time
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	// Purge expired items every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
		now:   time.Now,
	}
}

func (r *SessionRepository) GetOrCreate(ctx context.Context, sessionID string) (*store.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, found := r.get(sessionID)
	if !found {
		session = store.NewSession(sessionID, r.now())
	}
	r.cache.Set(sessionID, session, cache.DefaultExpiration)
	return session.Clone(), nil
}

func (r *SessionRepository) AppendTurn(ctx context.Context, sessionID string, turn store.Turn, retrieved *store.RetrievedContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, found := r.get(sessionID)
	if !found {
		return fmt.Errorf("%w: %s", store.ErrInvalidSession, sessionID)
	}
	session.Apply(turn, retrieved)
	r.cache.Set(sessionID, session, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Clear(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.get(sessionID); !ok {
		return nil
	}
	r.cache.Set(sessionID, store.NewSession(sessionID, r.now()), cache.DefaultExpiration)
	return nil
}

// Count reports the number of live sessions.
func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}

func (r *SessionRepository) Close() error {
	r.cache.Flush()
	return nil
}

func (r *SessionRepository) get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}
