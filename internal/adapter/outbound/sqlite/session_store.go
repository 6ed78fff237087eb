package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/paranoialabs/paranoia/internal/domain/session"
)

// SessionStore implements session.QueryableStore on the shared sqlite handle.
type SessionStore struct {
	db *sql.DB
}

// Create stores a new session.
func (s *SessionStore) Create(ctx context.Context, sess *session.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (sid, uid, created_at, last_access) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.UID, sess.CreatedAt.Unix(), sess.LastAccess.Unix())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	var (
		sess       session.Session
		createdAt  int64
		lastAccess int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT sid, uid, created_at, last_access FROM sessions WHERE sid = ?`, id).
		Scan(&sess.ID, &sess.UID, &createdAt, &lastAccess)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	sess.CreatedAt = time.Unix(createdAt, 0).UTC()
	sess.LastAccess = time.Unix(lastAccess, 0).UTC()
	return &sess, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE sid = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ListByAccount returns all sessions belonging to an account.
func (s *SessionStore) ListByAccount(ctx context.Context, uid int64) ([]session.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sid, uid, created_at, last_access FROM sessions WHERE uid = ? ORDER BY created_at`, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for account %d: %w", uid, err)
	}
	defer rows.Close()

	var out []session.Session
	for rows.Next() {
		var (
			sess       session.Session
			createdAt  int64
			lastAccess int64
		)
		if err := rows.Scan(&sess.ID, &sess.UID, &createdAt, &lastAccess); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sess.CreatedAt = time.Unix(createdAt, 0).UTC()
		sess.LastAccess = time.Unix(lastAccess, 0).UTC()
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions for account %d: %w", uid, err)
	}
	return out, nil
}

// DeleteOthers removes every session of the account except keepID.
func (s *SessionStore) DeleteOthers(ctx context.Context, uid int64, keepID string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE uid = ? AND sid != ?`, uid, keepID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions for account %d: %w", uid, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions for account %d: %w", uid, err)
	}
	return int(n), nil
}

// Compile-time interface verification.
var _ session.QueryableStore = (*SessionStore)(nil)
