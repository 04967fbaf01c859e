package session

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Locker hands out one mutual-exclusion slot per session id. Entries are
// refcounted and dropped once nobody holds or waits on them.
type Locker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	sem  *semaphore.Weighted
	refs int
}

func NewLocker() *Locker {
	return &Locker{slots: make(map[string]*slot)}
}

// Lock blocks until the session is free or ctx is done. The returned func
// releases the session and must be called exactly once.
func (l *Locker) Lock(ctx context.Context, sessionID string) (func(), error) {
	s := l.acquireRef(sessionID)

	if err := s.sem.Acquire(ctx, 1); err != nil {
		l.releaseRef(sessionID, s)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.sem.Release(1)
			l.releaseRef(sessionID, s)
		})
	}, nil
}

// Len reports how many sessions currently have a slot allocated.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

func (l *Locker) acquireRef(sessionID string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[sessionID]
	if !ok {
		s = &slot{sem: semaphore.NewWeighted(1)}
		l.slots[sessionID] = s
	}
	s.refs++
	return s
}

func (l *Locker) releaseRef(sessionID string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, sessionID)
	}
}
