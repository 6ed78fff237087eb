package account

import (
	"context"
	"errors"
	"time"
)

// ErrAccountNotFound is returned when an account does not exist.
var ErrAccountNotFound = errors.New("account not found")

// Store persists and retrieves accounts. Implemented by the sqlite and
// memory adapters; the host's own user storage satisfies it in-process.
type Store interface {
	// Get returns an account by UID.
	// Returns ErrAccountNotFound if the account doesn't exist.
	Get(ctx context.Context, uid int64) (*Account, error)
	// Save creates or updates an account.
	Save(ctx context.Context, a *Account) error
	// UpdateCredential overwrites the stored credential hash of an account.
	// Returns ErrAccountNotFound if the account doesn't exist.
	UpdateCredential(ctx context.Context, uid int64, hash string) error
	// ListStale returns up to limit accounts whose last access is before
	// cutoff, excluding the owner account and accounts whose credential is
	// already locked. Accounts that never authenticated (zero LastAccess)
	// are included.
	ListStale(ctx context.Context, cutoff time.Time, limit int) ([]Account, error)
}
