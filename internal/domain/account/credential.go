package account

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
)

// LockedPrefix marks a credential as administratively locked. The
// verification routine rejects any stored hash carrying this prefix before
// it even looks at the hash, so a locked credential can never match a real
// password. The account is soft-disabled, not deleted.
const LockedPrefix = "locked:"

// argon2idParams defines OWASP minimum parameters for Argon2id.
// Memory: 47 MiB, Iterations: 1, Parallelism: 1
var argon2idParams = &argon2id.Params{
	Memory:      47 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// HashPassword returns an Argon2id hash of the plaintext in PHC format.
func HashPassword(plaintext string) (string, error) {
	return argon2id.CreateHash(plaintext, argon2idParams)
}

// IsLocked reports whether a stored credential carries the lock sentinel.
func IsLocked(storedHash string) bool {
	return strings.HasPrefix(storedHash, LockedPrefix)
}

// LockedCredential generates a credential value guaranteed never to verify:
// a fresh random secret is hashed with a fresh salt and the result is
// prefixed with the lock sentinel. Even stripped of the sentinel the hash
// matches nothing the account holder ever typed.
func LockedCredential() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate lock secret: %w", err)
	}
	hash, err := argon2id.CreateHash(hex.EncodeToString(b), argon2idParams)
	if err != nil {
		return "", fmt.Errorf("failed to hash lock secret: %w", err)
	}
	return LockedPrefix + hash, nil
}

// VerifyPassword verifies a plaintext against a stored credential.
// A locked credential always fails. Returns (false, error) for hashes the
// library cannot parse.
func VerifyPassword(plaintext, storedHash string) (bool, error) {
	if IsLocked(storedHash) {
		return false, nil
	}
	return safeArgon2idCompare(plaintext, storedHash)
}

// safeArgon2idCompare wraps argon2id.ComparePasswordAndHash with panic
// recovery. The underlying argon2 library panics on malformed hashes with
// invalid parameters; convert those to errors so verification never panics.
func safeArgon2idCompare(plaintext, storedHash string) (match bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			match = false
			err = fmt.Errorf("invalid argon2id hash parameters: %v", r)
		}
	}()
	return argon2id.ComparePasswordAndHash(plaintext, storedHash)
}
