package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paranoialabs/paranoia/internal/domain/account"
)

// AccountStore implements account.Store on the shared sqlite handle.
type AccountStore struct {
	db *sql.DB
}

// Get returns an account by UID.
func (s *AccountStore) Get(ctx context.Context, uid int64) (*account.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT uid, name, mail, pass, roles, last_access FROM accounts WHERE uid = ?`, uid)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account %d: %w", uid, err)
	}
	return a, nil
}

// Save creates or updates an account.
func (s *AccountStore) Save(ctx context.Context, a *account.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (uid, name, mail, pass, roles, last_access)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(uid) DO UPDATE SET
			name = excluded.name,
			mail = excluded.mail,
			pass = excluded.pass,
			roles = excluded.roles,
			last_access = excluded.last_access`,
		a.UID, a.Name, a.Mail, a.Pass, strings.Join(a.Roles, ","), a.LastAccess.Unix())
	if err != nil {
		return fmt.Errorf("failed to save account %d: %w", a.UID, err)
	}
	return nil
}

// UpdateCredential overwrites the stored credential hash.
func (s *AccountStore) UpdateCredential(ctx context.Context, uid int64, hash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET pass = ? WHERE uid = ?`, hash, uid)
	if err != nil {
		return fmt.Errorf("failed to update credential for account %d: %w", uid, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update credential for account %d: %w", uid, err)
	}
	if n == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

// ListStale returns up to limit accounts last seen before cutoff, skipping
// the anonymous and owner accounts and anything already locked.
func (s *AccountStore) ListStale(ctx context.Context, cutoff time.Time, limit int) ([]account.Account, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT uid, name, mail, pass, roles, last_access FROM accounts
		 WHERE uid > ? AND last_access < ? AND pass NOT LIKE ?
		 ORDER BY uid LIMIT ?`,
		account.OwnerUID, cutoff.Unix(), account.LockedPrefix+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate stale accounts: %w", err)
	}
	defer rows.Close()

	var out []account.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stale account: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to enumerate stale accounts: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*account.Account, error) {
	var (
		a          account.Account
		roles      string
		lastAccess int64
	)
	if err := row.Scan(&a.UID, &a.Name, &a.Mail, &a.Pass, &roles, &lastAccess); err != nil {
		return nil, err
	}
	if roles != "" {
		a.Roles = strings.Split(roles, ",")
	}
	if lastAccess > 0 {
		a.LastAccess = time.Unix(lastAccess, 0).UTC()
	}
	return &a, nil
}

// Compile-time interface verification.
var _ account.Store = (*AccountStore)(nil)
