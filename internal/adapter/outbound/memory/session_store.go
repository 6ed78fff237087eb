package memory

import (
	"context"
	"sync"

	"github.com/paranoialabs/paranoia/internal/domain/session"
)

// SessionStore implements session.QueryableStore with an in-memory map.
// This is the "default" session backend: it can enumerate sessions per
// account, so bulk invalidation on password change works.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*session.Session)}
}

// Create stores a new session.
func (s *SessionStore) Create(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// ListByAccount returns all sessions belonging to an account.
func (s *SessionStore) ListByAccount(ctx context.Context, uid int64) ([]session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []session.Session
	for _, sess := range s.sessions {
		if sess.UID == uid {
			out = append(out, *sess)
		}
	}
	return out, nil
}

// DeleteOthers removes every session of the account except keepID.
func (s *SessionStore) DeleteOthers(ctx context.Context, uid int64, keepID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, sess := range s.sessions {
		if sess.UID == uid && id != keepID {
			delete(s.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

// Size returns the number of sessions currently stored.
// Useful for testing invalidation behavior.
func (s *SessionStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Compile-time interface verification.
var _ session.QueryableStore = (*SessionStore)(nil)
