package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/paranoialabs/paranoia/internal/domain/role"
)

// RoleStore implements role.Store with an in-memory map.
type RoleStore struct {
	mu    sync.RWMutex
	roles map[string]*role.Role
}

// NewRoleStore creates an in-memory role store seeded with the given roles.
func NewRoleStore(seed ...role.Role) *RoleStore {
	s := &RoleStore{roles: make(map[string]*role.Role, len(seed))}
	for i := range seed {
		s.roles[seed[i].ID] = copyRole(&seed[i])
	}
	return s
}

// List returns all roles sorted by ID.
func (s *RoleStore) List(ctx context.Context) ([]role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.roles))
	for id := range s.roles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]role.Role, 0, len(ids))
	for _, id := range ids {
		out = append(out, *copyRole(s.roles[id]))
	}
	return out, nil
}

// Get returns a role by ID.
func (s *RoleStore) Get(ctx context.Context, id string) (*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.roles[id]
	if !ok {
		return nil, role.ErrRoleNotFound
	}
	return copyRole(r), nil
}

// Save creates or updates a role.
func (s *RoleStore) Save(ctx context.Context, r *role.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roles[r.ID] = copyRole(r)
	return nil
}

func copyRole(r *role.Role) *role.Role {
	cp := *r
	cp.Permissions = append([]string(nil), r.Permissions...)
	return &cp
}

// Compile-time interface verification.
var _ role.Store = (*RoleStore)(nil)
