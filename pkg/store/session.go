package store

import (
	"context"
	"time"
)

// DocumentExcerpt is an opaque block of retrieved statutory text.
// Content is what the generator sees; Source and Score are informational.
type DocumentExcerpt struct {
	Content string  `json:"content"`
	Source  string  `json:"source,omitempty"`
	Score   float32 `json:"score,omitempty"`
}

// Turn is one user message and the assistant reply to it.
type Turn struct {
	UserText      string    `json:"user_text"`
	AssistantText string    `json:"assistant_text"`
	CreatedAt     time.Time `json:"created_at"`
}

// RetrievedContext holds the excerpts fetched on the first turn of a session.
// Populated is tracked explicitly since a retrieval may return zero excerpts.
type RetrievedContext struct {
	Populated   bool              `json:"populated"`
	Excerpts    []DocumentExcerpt `json:"excerpts"`
	RetrievedAt time.Time         `json:"retrieved_at,omitempty"`
}

// Session represents the state of one consultation.
type Session struct {
	ID        string           `json:"id"`
	Turns     []Turn           `json:"turns"`
	Context   RetrievedContext `json:"context"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewSession returns an empty session with no turns and no context.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Turns:     []Turn{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NextTurnIndex is the 1-based index the next turn will get.
func (s *Session) NextTurnIndex() int {
	return len(s.Turns) + 1
}

// Clone returns a deep copy, so callers can work on a snapshot without
// touching stored state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Turns = append([]Turn(nil), s.Turns...)
	if c.Turns == nil {
		c.Turns = []Turn{}
	}
	c.Context = s.Context.Clone()
	return &c
}

// Apply records a completed turn. The retrieved context is only taken when
// the session has none yet, so it can never be replaced once set.
func (s *Session) Apply(turn Turn, retrieved *RetrievedContext) {
	if !s.Context.Populated && retrieved != nil {
		c := *retrieved
		c.Populated = true
		s.Context = c.Clone()
	}
	s.Turns = append(s.Turns, turn)
	s.UpdatedAt = turn.CreatedAt
}

func (c RetrievedContext) Clone() RetrievedContext {
	out := c
	out.Excerpts = append([]DocumentExcerpt(nil), c.Excerpts...)
	if c.Populated && out.Excerpts == nil {
		out.Excerpts = []DocumentExcerpt{}
	}
	return out
}

// SessionStore maps a session identifier to its conversation state.
//
// GetOrCreate is idempotent and returns a snapshot. AppendTurn is the only
// mutation and fails with ErrInvalidSession for sessions this store never
// created. Clear resets a session to its initial empty state.
type SessionStore interface {
	GetOrCreate(ctx context.Context, sessionID string) (*Session, error)
	AppendTurn(ctx context.Context, sessionID string, turn Turn, retrieved *RetrievedContext) error
	Clear(ctx context.Context, sessionID string) error
	Close() error
}
