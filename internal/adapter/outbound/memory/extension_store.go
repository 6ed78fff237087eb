package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/paranoialabs/paranoia/internal/domain/extension"
)

// ExtensionStore implements extension.Store with an in-memory map.
type ExtensionStore struct {
	mu         sync.RWMutex
	extensions map[string]*extension.Extension
}

// NewExtensionStore creates an in-memory extension store seeded with the
// given extensions.
func NewExtensionStore(seed ...extension.Extension) *ExtensionStore {
	s := &ExtensionStore{extensions: make(map[string]*extension.Extension, len(seed))}
	for i := range seed {
		cp := seed[i]
		s.extensions[cp.Name] = &cp
	}
	return s
}

// List returns all installed extensions sorted by name.
func (s *ExtensionStore) List(ctx context.Context) ([]extension.Extension, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.extensions))
	for name := range s.extensions {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]extension.Extension, 0, len(names))
	for _, name := range names {
		out = append(out, *s.extensions[name])
	}
	return out, nil
}

// Get returns an extension by machine name.
func (s *ExtensionStore) Get(ctx context.Context, name string) (*extension.Extension, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.extensions[name]
	if !ok {
		return nil, extension.ErrExtensionNotFound
	}
	cp := *e
	return &cp, nil
}

// SetEnabled activates or deactivates an extension.
func (s *ExtensionStore) SetEnabled(ctx context.Context, name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.extensions[name]
	if !ok {
		return extension.ErrExtensionNotFound
	}
	e.Enabled = enabled
	return nil
}

// Compile-time interface verification.
var _ extension.Store = (*ExtensionStore)(nil)
