// Package memory provides in-memory implementations of the outbound store
// ports. Thread-safe; intended for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/paranoialabs/paranoia/internal/domain/account"
)

// AccountStore implements account.Store with an in-memory map.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[int64]*account.Account
}

// NewAccountStore creates an empty in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[int64]*account.Account)}
}

// Get returns an account by UID.
func (s *AccountStore) Get(ctx context.Context, uid int64) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[uid]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return copyAccount(a), nil
}

// Save creates or updates an account.
func (s *AccountStore) Save(ctx context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[a.UID] = copyAccount(a)
	return nil
}

// UpdateCredential overwrites the stored credential hash.
func (s *AccountStore) UpdateCredential(ctx context.Context, uid int64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[uid]
	if !ok {
		return account.ErrAccountNotFound
	}
	a.Pass = hash
	return nil
}

// ListStale returns up to limit accounts last seen before cutoff, skipping
// the anonymous and owner accounts and anything already locked. Results are
// ordered by UID so repeated sweeps are deterministic.
func (s *AccountStore) ListStale(ctx context.Context, cutoff time.Time, limit int) ([]account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uids := make([]int64, 0, len(s.accounts))
	for uid := range s.accounts {
		uids = append(uids, uid)
	}
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })

	var out []account.Account
	for _, uid := range uids {
		if limit > 0 && len(out) >= limit {
			break
		}
		a := s.accounts[uid]
		if a.UID <= account.OwnerUID {
			continue
		}
		if account.IsLocked(a.Pass) {
			continue
		}
		if !a.LastAccess.Before(cutoff) {
			continue
		}
		out = append(out, *copyAccount(a))
	}
	return out, nil
}

func copyAccount(a *account.Account) *account.Account {
	cp := *a
	cp.Roles = append([]string(nil), a.Roles...)
	return &cp
}

// Compile-time interface verification.
var _ account.Store = (*AccountStore)(nil)
