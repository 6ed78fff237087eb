// Package session contains the session entity and the store contracts used
// by password-change invalidation.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Session is one authenticated browser session of an account.
type Session struct {
	// ID is the opaque session identifier.
	ID string
	// UID is the account this session belongs to.
	UID int64
	// CreatedAt is when the session was established (UTC).
	CreatedAt time.Time
	// LastAccess is when the session last touched the host (UTC).
	LastAccess time.Time
}

// GenerateID creates a cryptographically random session ID.
// Returns 64 hex characters (32 bytes).
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}
