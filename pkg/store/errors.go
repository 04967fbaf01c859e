package store

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrInvalidSessionID is returned for identifiers outside ^[A-Za-z0-9_-]+$.
	ErrInvalidSessionID = errors.New("invalid session id")

	// ErrInvalidSession is returned when a turn is appended to a session the
	// store never created.
	ErrInvalidSession = errors.New("invalid session")
)

var validSessionID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateSessionID checks the identifier format.
func ValidateSessionID(sessionID string) error {
	if !validSessionID.MatchString(sessionID) {
		return fmt.Errorf("%w: %q must only contain alphanumeric characters, hyphens, and underscores", ErrInvalidSessionID, sessionID)
	}
	return nil
}
