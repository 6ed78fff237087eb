package account

import (
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("HashPassword() = %q, want PHC argon2id format", hash)
	}

	match, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("VerifyPassword() unexpected error: %v", err)
	}
	if !match {
		t.Error("VerifyPassword() should match the original plaintext")
	}

	match, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword() unexpected error: %v", err)
	}
	if match {
		t.Error("VerifyPassword() should reject a wrong plaintext")
	}
}

func TestLockedCredential_NeverVerifies(t *testing.T) {
	locked, err := LockedCredential()
	if err != nil {
		t.Fatalf("LockedCredential() unexpected error: %v", err)
	}
	if !IsLocked(locked) {
		t.Fatalf("LockedCredential() = %q, want lock sentinel prefix", locked)
	}

	for _, plaintext := range []string{"", "password", locked, strings.TrimPrefix(locked, LockedPrefix)} {
		match, err := VerifyPassword(plaintext, locked)
		if err != nil {
			t.Fatalf("VerifyPassword(%q) unexpected error: %v", plaintext, err)
		}
		if match {
			t.Errorf("VerifyPassword(%q) matched a locked credential", plaintext)
		}
	}
}

func TestLockedCredential_Unique(t *testing.T) {
	a, err := LockedCredential()
	if err != nil {
		t.Fatalf("LockedCredential() unexpected error: %v", err)
	}
	b, err := LockedCredential()
	if err != nil {
		t.Fatalf("LockedCredential() unexpected error: %v", err)
	}
	if a == b {
		t.Error("LockedCredential() returned identical values; secret or salt not random")
	}
}

func TestIsLocked(t *testing.T) {
	tests := []struct {
		name string
		hash string
		want bool
	}{
		{"locked", LockedPrefix + "$argon2id$whatever", true},
		{"plain hash", "$argon2id$v=19$m=48128,t=1,p=1$abc$def", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLocked(tt.hash); got != tt.want {
				t.Errorf("IsLocked(%q) = %v, want %v", tt.hash, got, tt.want)
			}
		})
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	match, err := VerifyPassword("password", "not-a-phc-hash")
	if err == nil {
		t.Error("VerifyPassword() malformed hash should return error")
	}
	if match {
		t.Error("VerifyPassword() malformed hash should never match")
	}
}
