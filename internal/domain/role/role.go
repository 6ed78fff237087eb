// Package role contains the domain types for host roles and the
// restricted-permission enforcement logic.
package role

import (
	"sort"

	"github.com/paranoialabs/paranoia/internal/domain/policy"
)

const (
	// Anonymous is the role every unauthenticated visitor holds.
	Anonymous = "anonymous"
	// Authenticated is the role every logged-in account holds.
	Authenticated = "authenticated"
)

// Role is a named set of permissions.
type Role struct {
	// ID is the unique identifier for this role.
	ID string
	// Name is the human-readable label.
	Name string
	// Permissions are the permission IDs granted to this role.
	Permissions []string
}

// HasPermission reports whether the role holds the given permission.
func (r *Role) HasPermission(perm string) bool {
	for _, p := range r.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// StripRestricted removes every permission present in restricted from the
// role. Returns the removed permissions in sorted order; empty means the
// role was already clean. Idempotent: a second call removes nothing.
func (r *Role) StripRestricted(restricted policy.Set) []string {
	if len(restricted) == 0 {
		return nil
	}

	var removed []string
	kept := r.Permissions[:0]
	for _, p := range r.Permissions {
		if restricted.Has(p) {
			removed = append(removed, p)
			continue
		}
		kept = append(kept, p)
	}
	r.Permissions = kept
	sort.Strings(removed)
	return removed
}

// IsBroadRole reports whether the role ID is one of the two roles that any
// visitor can end up holding. Restricted permissions must never be granted
// to these.
func IsBroadRole(id string) bool {
	return id == Anonymous || id == Authenticated
}
