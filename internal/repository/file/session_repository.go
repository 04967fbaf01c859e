package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"legifai-be/pkg/store"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o600
)

// SessionRepository persists each session as <dir>/<session_id>.json.
// Sessions survive restarts and are only removed by Clear.
type SessionRepository struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

func NewSessionRepository(dir string) (*SessionRepository, error) {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create session directory %s: %w", dir, err)
	}
	return &SessionRepository{dir: dir, now: time.Now}, nil
}

func (r *SessionRepository) GetOrCreate(ctx context.Context, sessionID string) (*store.Session, error) {
	if err := store.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.load(sessionID)
	if errors.Is(err, fs.ErrNotExist) {
		session = store.NewSession(sessionID, r.now())
		if err := r.write(session); err != nil {
			return nil, err
		}
		return session, nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (r *SessionRepository) AppendTurn(ctx context.Context, sessionID string, turn store.Turn, retrieved *store.RetrievedContext) error {
	if err := store.ValidateSessionID(sessionID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.load(sessionID)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", store.ErrInvalidSession, sessionID)
	}
	if err != nil {
		return err
	}

	session.Apply(turn, retrieved)
	return r.write(session)
}

func (r *SessionRepository) Clear(ctx context.Context, sessionID string) error {
	if err := store.ValidateSessionID(sessionID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(r.path(sessionID)); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return r.write(store.NewSession(sessionID, r.now()))
}

func (r *SessionRepository) Close() error {
	return nil
}

func (r *SessionRepository) path(sessionID string) string {
	return filepath.Join(r.dir, sessionID+".json")
}

func (r *SessionRepository) load(sessionID string) (*store.Session, error) {
	data, err := os.ReadFile(r.path(sessionID))
	if err != nil {
		return nil, err
	}

	var session store.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	if session.Turns == nil {
		session.Turns = []store.Turn{}
	}
	return &session, nil
}

// write replaces the session file atomically via a temp file and rename.
func (r *SessionRepository) write(session *store.Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", session.ID, err)
	}

	target := r.path(session.ID)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, filePermissions); err != nil {
		return fmt.Errorf("failed to write session %s: %w", session.ID, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to commit session %s: %w", session.ID, err)
	}
	return nil
}
