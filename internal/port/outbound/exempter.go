package outbound

import "github.com/paranoialabs/paranoia/internal/domain/account"

// Exempter decides whether a stale account is kept out of the reset queue.
// Implementations carry the configured exemption policy; a nil Exempter
// exempts nobody.
type Exempter interface {
	// IsExempt reports whether the account must not be reset.
	IsExempt(a *account.Account) bool
}
