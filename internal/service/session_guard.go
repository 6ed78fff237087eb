package service

import (
	"context"
	"log/slog"

	"github.com/paranoialabs/paranoia/internal/domain/session"
)

// SessionGuard invalidates an account's other sessions when its password
// changes. With an opaque session backend the guard degrades to a critical
// diagnostic rather than failing the request: it cannot silently do
// nothing, but it must never abort the password change either.
type SessionGuard struct {
	store  session.Store
	logger *slog.Logger
}

// NewSessionGuard creates a session guard over the given backend.
func NewSessionGuard(store session.Store, logger *slog.Logger) *SessionGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionGuard{store: store, logger: logger.With("channel", "paranoia")}
}

// OnPasswordChange deletes all sessions of the account except the session
// that performed the change. Returns the number of sessions deleted. When
// the backend is not queryable, zero sessions are deleted and one
// critical-severity diagnostic is logged.
func (g *SessionGuard) OnPasswordChange(ctx context.Context, uid int64, actingSessionID string) (int, error) {
	qs, ok := g.store.(session.QueryableStore)
	if !ok {
		g.logger.Error("cannot invalidate sessions: session backend is not queryable",
			"severity", "critical", "uid", uid)
		return 0, nil
	}

	deleted, err := qs.DeleteOthers(ctx, uid, actingSessionID)
	if err != nil {
		g.logger.Error("failed to invalidate sessions", "uid", uid, "error", err)
		return 0, err
	}
	if deleted > 0 {
		g.logger.Info("invalidated sessions after password change",
			"uid", uid, "deleted", deleted, "kept", actingSessionID)
	}
	return deleted, nil
}
