// Package store keeps game sessions and serializes work on each of them.
package store

import (
	"context"

	"github.com/mvg01/liargame/internal/models"
)

// Store abstracts session persistence.
// Implementations must be safe for concurrent use and must hand out copies,
// so a caller's changes become visible only through Save.
type Store interface {
	// Create stores a new session. Returns game.ErrDuplicateSession if the ID is taken.
	Create(ctx context.Context, s *models.Session) error

	// Get returns a copy of the session. Returns game.ErrSessionNotFound if absent.
	Get(ctx context.Context, id string) (*models.Session, error)

	// Save replaces an existing session. Returns game.ErrSessionNotFound if absent.
	Save(ctx context.Context, s *models.Session) error

	// Delete removes a session; deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}

// Locker grants exclusive access to one session at a time.
// Locks on different IDs never block each other.
type Locker interface {
	// Lock blocks until the session's lock is held or ctx is done.
	// The returned function releases the lock and is safe to call more than once.
	Lock(ctx context.Context, id string) (func(), error)
}
