package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/paranoialabs/paranoia/internal/domain/extension"
)

// ExtensionStore implements extension.Store on the shared sqlite handle.
type ExtensionStore struct {
	db *sql.DB
}

// List returns all installed extensions ordered by name.
func (s *ExtensionStore) List(ctx context.Context) ([]extension.Extension, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, label, category, enabled FROM extensions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list extensions: %w", err)
	}
	defer rows.Close()

	var out []extension.Extension
	for rows.Next() {
		var (
			e       extension.Extension
			enabled int
		)
		if err := rows.Scan(&e.Name, &e.Label, &e.Category, &enabled); err != nil {
			return nil, fmt.Errorf("failed to scan extension: %w", err)
		}
		e.Enabled = enabled != 0
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list extensions: %w", err)
	}
	return out, nil
}

// Get returns an extension by machine name.
func (s *ExtensionStore) Get(ctx context.Context, name string) (*extension.Extension, error) {
	var (
		e       extension.Extension
		enabled int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT name, label, category, enabled FROM extensions WHERE name = ?`, name).
		Scan(&e.Name, &e.Label, &e.Category, &enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, extension.ErrExtensionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load extension %s: %w", name, err)
	}
	e.Enabled = enabled != 0
	return &e, nil
}

// SetEnabled activates or deactivates an extension.
func (s *ExtensionStore) SetEnabled(ctx context.Context, name string, enabled bool) error {
	v := 0
	if enabled {
		v = 1
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE extensions SET enabled = ? WHERE name = ?`, v, name)
	if err != nil {
		return fmt.Errorf("failed to set extension %s enabled=%v: %w", name, enabled, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set extension %s enabled=%v: %w", name, enabled, err)
	}
	if n == 0 {
		return extension.ErrExtensionNotFound
	}
	return nil
}

// Save creates or updates an extension record. Used when mirroring the
// host's installed-extension list into the store.
func (s *ExtensionStore) Save(ctx context.Context, e *extension.Extension) error {
	v := 0
	if e.Enabled {
		v = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extensions (name, label, category, enabled) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			label = excluded.label,
			category = excluded.category,
			enabled = excluded.enabled`,
		e.Name, e.Label, e.Category, v)
	if err != nil {
		return fmt.Errorf("failed to save extension %s: %w", e.Name, err)
	}
	return nil
}

// Compile-time interface verification.
var _ extension.Store = (*ExtensionStore)(nil)
