// Package account contains the domain types and credential logic for
// host accounts guarded by the hardening layer.
package account

import "time"

// OwnerUID is the primordial admin account. Its profile fields are only
// editable by itself and it is always exempt from stale-account resets.
const OwnerUID int64 = 1

// Account is the subset of the host's user record this layer reads and
// mutates. Only Pass is ever written back.
type Account struct {
	// UID is the host's unique account identifier.
	UID int64
	// Name is the login name.
	Name string
	// Mail is the notification address. May be empty.
	Mail string
	// Pass is the stored credential hash.
	Pass string
	// Roles are the role IDs assigned to this account.
	Roles []string
	// LastAccess is when the account last authenticated. Zero means never.
	LastAccess time.Time
}

// HasRole reports whether the account holds the given role.
func (a *Account) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
