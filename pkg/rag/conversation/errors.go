package conversation

import (
	"errors"
	"fmt"
)

// ErrSessionBusy means another turn held the session for longer than the
// lock wait allows.
var ErrSessionBusy = errors.New("session busy")

// RetrievalError wraps a failed document lookup.
type RetrievalError struct {
	SessionID string
	Err       error
}

func (e *RetrievalError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("retrieval failed: %v", e.Err)
	}
	return fmt.Sprintf("retrieval failed for session %s: %v", e.SessionID, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// GenerationError wraps a failed language-model call.
type GenerationError struct {
	SessionID string
	TurnIndex int
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for session %s turn %d: %v", e.SessionID, e.TurnIndex, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
