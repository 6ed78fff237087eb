package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paranoialabs/paranoia/internal/domain/account"
)

// CredentialService changes account passwords and applies the session
// invalidation that must follow every change.
type CredentialService struct {
	accounts account.Store
	guard    *SessionGuard
	logger   *slog.Logger
}

// NewCredentialService creates a credential service.
func NewCredentialService(accounts account.Store, guard *SessionGuard, logger *slog.Logger) *CredentialService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialService{
		accounts: accounts,
		guard:    guard,
		logger:   logger.With("channel", "paranoia"),
	}
}

// ChangePassword hashes and stores the new password, then invalidates every
// other session of the account. actingSessionID may be empty when the change
// originates outside a session, in which case all sessions are invalidated.
// Returns the number of sessions deleted.
func (s *CredentialService) ChangePassword(ctx context.Context, uid int64, newPassword, actingSessionID string) (int, error) {
	if _, err := s.accounts.Get(ctx, uid); err != nil {
		return 0, err
	}

	hash, err := account.HashPassword(newPassword)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.accounts.UpdateCredential(ctx, uid, hash); err != nil {
		return 0, fmt.Errorf("failed to store credential: %w", err)
	}

	s.logger.Info("password changed", "uid", uid)
	return s.guard.OnPasswordChange(ctx, uid, actingSessionID)
}
