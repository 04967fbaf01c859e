// Package stage maps a 1-based turn index to the behavior the assistant
// should adopt on that turn.
package stage

import (
	"errors"
	"fmt"
)

type Stage string

const (
	// Initial answers briefly and asks 2-3 clarifying questions.
	Initial Stage = "INITIAL"
	// Followup closes the consultation with a summary for a lawyer.
	Followup Stage = "FOLLOWUP"
	// Subsequent only acknowledges the user.
	Subsequent Stage = "SUBSEQUENT"
)

var ErrInvalidArgument = errors.New("invalid turn index")

// Resolve is pure: 1 is Initial, 2 is Followup, 3 and above are Subsequent.
func Resolve(turnIndex int) (Stage, error) {
	switch {
	case turnIndex <= 0:
		return "", fmt.Errorf("%w: %d", ErrInvalidArgument, turnIndex)
	case turnIndex == 1:
		return Initial, nil
	case turnIndex == 2:
		return Followup, nil
	default:
		return Subsequent, nil
	}
}

func (s Stage) String() string {
	return string(s)
}
