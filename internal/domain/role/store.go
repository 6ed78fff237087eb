package role

import (
	"context"
	"errors"
)

// ErrRoleNotFound is returned when a role does not exist.
var ErrRoleNotFound = errors.New("role not found")

// Store persists and retrieves roles.
type Store interface {
	// List returns all roles.
	List(ctx context.Context) ([]Role, error)
	// Get returns a role by ID.
	// Returns ErrRoleNotFound if the role doesn't exist.
	Get(ctx context.Context, id string) (*Role, error)
	// Save creates or updates a role.
	Save(ctx context.Context, r *Role) error
}
