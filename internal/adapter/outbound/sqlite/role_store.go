package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/paranoialabs/paranoia/internal/domain/role"
)

// RoleStore implements role.Store on the shared sqlite handle.
type RoleStore struct {
	db *sql.DB
}

// List returns all roles ordered by ID.
func (s *RoleStore) List(ctx context.Context) ([]role.Role, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, permissions FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var out []role.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return out, nil
}

// Get returns a role by ID.
func (s *RoleStore) Get(ctx context.Context, id string) (*role.Role, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, permissions FROM roles WHERE id = ?`, id)
	r, err := scanRole(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, role.ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load role %s: %w", id, err)
	}
	return r, nil
}

// Save creates or updates a role.
func (s *RoleStore) Save(ctx context.Context, r *role.Role) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO roles (id, name, permissions) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			permissions = excluded.permissions`,
		r.ID, r.Name, strings.Join(r.Permissions, "\n"))
	if err != nil {
		return fmt.Errorf("failed to save role %s: %w", r.ID, err)
	}
	return nil
}

func scanRole(row rowScanner) (*role.Role, error) {
	var (
		r     role.Role
		perms string
	)
	if err := row.Scan(&r.ID, &r.Name, &perms); err != nil {
		return nil, err
	}
	if perms != "" {
		r.Permissions = strings.Split(perms, "\n")
	}
	return &r, nil
}

// Compile-time interface verification.
var _ role.Store = (*RoleStore)(nil)
