// Package ragcontext keeps the statutory excerpts retrieved for a session so
// retrieval happens once per session lifetime.
package ragcontext

import (
	"context"
	"time"

	"legifai-be/pkg/store"
)

// RetrieveFunc fetches excerpts ranked by relevance to query.
type RetrieveFunc func(ctx context.Context, query string) ([]store.DocumentExcerpt, error)

// Cache decides between the stored excerpts and a fresh retrieval.
type Cache struct {
	now func() time.Time
}

func NewCache() *Cache {
	return &Cache{now: time.Now}
}

// GetOrFetch returns the session's excerpts. When the session has no populated
// context, retrieve is called exactly once and its result is written to the
// session snapshot (even when empty); fetched reports whether that happened.
// On retrieval failure the snapshot is left untouched.
func (c *Cache) GetOrFetch(ctx context.Context, session *store.Session, query string, retrieve RetrieveFunc) ([]store.DocumentExcerpt, bool, error) {
	if session.Context.Populated {
		return session.Context.Excerpts, false, nil
	}

	excerpts, err := retrieve(ctx, query)
	if err != nil {
		return nil, false, err
	}
	if excerpts == nil {
		excerpts = []store.DocumentExcerpt{}
	}

	session.Context = store.RetrievedContext{
		Populated:   true,
		Excerpts:    excerpts,
		RetrievedAt: c.now(),
	}
	return excerpts, true, nil
}
