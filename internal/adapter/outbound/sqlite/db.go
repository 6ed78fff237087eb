// Package sqlite provides database/sql-backed account and session stores
// using the pure-Go modernc.org/sqlite driver. This is the default
// queryable backend: sessions can be enumerated per account, so bulk
// invalidation on password change works.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	uid         INTEGER PRIMARY KEY,
	name        TEXT NOT NULL,
	mail        TEXT NOT NULL DEFAULT '',
	pass        TEXT NOT NULL DEFAULT '',
	roles       TEXT NOT NULL DEFAULT '',
	last_access INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS sessions (
	sid         TEXT PRIMARY KEY,
	uid         INTEGER NOT NULL,
	created_at  INTEGER NOT NULL,
	last_access INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_uid ON sessions (uid);
CREATE INDEX IF NOT EXISTS accounts_last_access ON accounts (last_access);
CREATE TABLE IF NOT EXISTS roles (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	permissions TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS extensions (
	name     TEXT PRIMARY KEY,
	label    TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	enabled  INTEGER NOT NULL DEFAULT 0
);
`

// DB wraps the shared database handle.
type DB struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures the schema exists. Use ":memory:" for an ephemeral database.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent access.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the underlying database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Accounts returns the account store backed by this database.
func (d *DB) Accounts() *AccountStore {
	return &AccountStore{db: d.db}
}

// Sessions returns the session store backed by this database.
func (d *DB) Sessions() *SessionStore {
	return &SessionStore{db: d.db}
}

// Roles returns the role store backed by this database.
func (d *DB) Roles() *RoleStore {
	return &RoleStore{db: d.db}
}

// Extensions returns the extension store backed by this database.
func (d *DB) Extensions() *ExtensionStore {
	return &ExtensionStore{db: d.db}
}
