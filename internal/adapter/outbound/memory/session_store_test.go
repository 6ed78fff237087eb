package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/paranoialabs/paranoia/internal/domain/session"
)

func seedSession(t *testing.T, s *SessionStore, id string, uid int64) {
	t.Helper()
	if err := s.Create(context.Background(), &session.Session{ID: id, UID: uid}); err != nil {
		t.Fatalf("Create(%s): %v", id, err)
	}
}

func TestSessionStore_CreateGetDelete(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()

	seedSession(t, s, "sid-1", 42)
	got, err := s.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Get(): %v", err)
	}
	if got.UID != 42 {
		t.Errorf("Get() UID = %d, want 42", got.UID)
	}

	if err := s.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("Delete(): %v", err)
	}
	if _, err := s.Get(ctx, "sid-1"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("Get() after delete = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStore_DeleteOthers(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()

	seedSession(t, s, "keep", 42)
	seedSession(t, s, "laptop", 42)
	seedSession(t, s, "phone", 42)
	seedSession(t, s, "other-account", 7)

	deleted, err := s.DeleteOthers(ctx, 42, "keep")
	if err != nil {
		t.Fatalf("DeleteOthers(): %v", err)
	}
	if deleted != 2 {
		t.Errorf("DeleteOthers() = %d, want 2", deleted)
	}
	if s.Size() != 2 {
		t.Errorf("Size() = %d, want 2", s.Size())
	}
	if _, err := s.Get(ctx, "keep"); err != nil {
		t.Error("DeleteOthers() must keep the named session")
	}
	if _, err := s.Get(ctx, "other-account"); err != nil {
		t.Error("DeleteOthers() must not touch other accounts")
	}
}

func TestSessionStore_ListByAccount(t *testing.T) {
	s := NewSessionStore()
	seedSession(t, s, "a", 42)
	seedSession(t, s, "b", 42)
	seedSession(t, s, "c", 7)

	got, err := s.ListByAccount(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListByAccount(): %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListByAccount() = %d sessions, want 2", len(got))
	}
}
