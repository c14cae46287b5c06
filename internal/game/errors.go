package game

import (
	"errors"
	"fmt"

	"github.com/mvg01/liargame/internal/models"
)

var (
	// ErrSessionNotFound is returned when a session identifier is unknown
	ErrSessionNotFound = errors.New("session not found")
	// ErrDuplicateSession is returned when creating a session whose identifier is in use
	ErrDuplicateSession = errors.New("session already exists")
	// ErrInvalidTurn is returned when the wrong participant speaks or a human message is missing or unexpected
	ErrInvalidTurn = errors.New("invalid turn")
	// ErrInvalidVote is returned when the human votes for someone other than an agent
	ErrInvalidVote = errors.New("invalid vote")
	// ErrWrongPhase is returned when an operation is attempted outside its phase
	ErrWrongPhase = errors.New("wrong phase")
	// ErrSessionEnded is returned for any mutation of an ended session
	ErrSessionEnded = errors.New("session ended")
)

// PhaseError reports an operation rejected by the phase state machine.
// It matches ErrWrongPhase, and also ErrSessionEnded once the session is over.
type PhaseError struct {
	Op    string
	Phase models.Phase
}

func (e *PhaseError) Error() string {
	if e.Phase == models.PhaseEnded {
		return fmt.Sprintf("%s: %v", e.Op, ErrSessionEnded)
	}
	return fmt.Sprintf("%s: %v (phase %s)", e.Op, ErrWrongPhase, e.Phase)
}

func (e *PhaseError) Is(target error) bool {
	switch target {
	case ErrWrongPhase:
		return true
	case ErrSessionEnded:
		return e.Phase == models.PhaseEnded
	}
	return false
}

// RequirePhase fails with a *PhaseError unless the session is in phase want
func RequirePhase(s *models.Session, op string, want models.Phase) error {
	if s.Phase != want {
		return &PhaseError{Op: op, Phase: s.Phase}
	}
	return nil
}
