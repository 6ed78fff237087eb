package session

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned when a session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// Store is the minimal contract every session backend satisfies. Opaque
// backends (host-site custom session handling) implement only this.
type Store interface {
	// Create stores a new session.
	Create(ctx context.Context, s *Session) error
	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound if the session doesn't exist.
	Get(ctx context.Context, id string) (*Session, error)
	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}

// QueryableStore is the default store contract: sessions can be enumerated
// by account, which is what bulk invalidation on password change needs.
// A backend that implements only Store is treated as opaque and bulk
// invalidation degrades to a critical diagnostic.
type QueryableStore interface {
	Store
	// ListByAccount returns all sessions belonging to an account.
	ListByAccount(ctx context.Context, uid int64) ([]Session, error)
	// DeleteOthers removes every session of the account except keepID.
	// Returns the number of sessions deleted.
	DeleteOthers(ctx context.Context, uid int64, keepID string) (int, error)
}
