package policy

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Registry collects declarations from registered collaborators.
// Aggregation is best-effort: a collaborator that fails or panics is
// skipped and the remaining replies are still unioned.
type Registry struct {
	mu            sync.RWMutex
	collaborators []Collaborator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a collaborator. Registering the same name twice is an error
// so manifest misconfiguration surfaces at startup rather than as doubled
// declarations.
func (r *Registry) Register(c Collaborator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.collaborators {
		if existing.Name() == c.Name() {
			return fmt.Errorf("collaborator %q already registered", c.Name())
		}
	}
	r.collaborators = append(r.collaborators, c)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(c Collaborator) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Names returns the registered collaborator names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.collaborators))
	for _, c := range r.collaborators {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	return names
}

// Collect broadcasts the named contract to all collaborators and unions the
// replies into a deduplicated set. No ordering contract between
// collaborators; failures are skipped.
func (r *Registry) Collect(ctx context.Context, category Category) Set {
	out := make(Set)
	for _, c := range r.snapshot() {
		ids, err := askList(ctx, c, category)
		if err != nil {
			slog.Debug("collaborator skipped", "collaborator", c.Name(), "category", string(category), "error", err)
			continue
		}
		for _, id := range ids {
			if id != "" {
				out.Add(id)
			}
		}
	}
	return out
}

// CollectHiddenExtensions merges the hide-extension declarations of all
// collaborators. When two collaborators hide the same extension under
// different listing labels, either label may win; the hide itself is what
// matters.
func (r *Registry) CollectHiddenExtensions(ctx context.Context) map[string]string {
	out := make(map[string]string)
	for _, c := range r.snapshot() {
		p, ok := c.(HiddenExtensionsProvider)
		if !ok {
			continue
		}
		m, err := safeHiddenExtensions(ctx, p)
		if err != nil {
			slog.Debug("collaborator skipped", "collaborator", c.Name(), "category", string(CategoryHiddenExtensions), "error", err)
			continue
		}
		for id, label := range m {
			if id != "" {
				out[id] = label
			}
		}
	}
	return out
}

func (r *Registry) snapshot() []Collaborator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Collaborator(nil), r.collaborators...)
}

// askList dispatches a list-valued contract by category. Collaborators that
// do not implement the contract contribute nothing.
func askList(ctx context.Context, c Collaborator, category Category) (ids []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ids = nil
			err = fmt.Errorf("collaborator panic: %v", rec)
		}
	}()

	switch category {
	case CategoryHiddenPermissions:
		if p, ok := c.(HiddenPermissionsProvider); ok {
			return p.HiddenPermissions(ctx)
		}
	case CategoryHiddenPaths:
		if p, ok := c.(HiddenPathsProvider); ok {
			return p.HiddenPaths(ctx)
		}
	case CategoryDisabledExtensions:
		if p, ok := c.(DisabledExtensionsProvider); ok {
			return p.DisabledExtensions(ctx)
		}
	case CategoryRiskyForms:
		if p, ok := c.(RiskyFormsProvider); ok {
			return p.RiskyForms(ctx)
		}
	case CategoryHiddenExtensions:
		if p, ok := c.(HiddenExtensionsProvider); ok {
			m, err := safeHiddenExtensions(ctx, p)
			if err != nil {
				return nil, err
			}
			keys := make([]string, 0, len(m))
			for id := range m {
				keys = append(keys, id)
			}
			return keys, nil
		}
	}
	return nil, nil
}

func safeHiddenExtensions(ctx context.Context, p HiddenExtensionsProvider) (m map[string]string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			m = nil
			err = fmt.Errorf("collaborator panic: %v", rec)
		}
	}()
	return p.HiddenExtensions(ctx)
}

// Snapshot is the full unioned declaration state at one point in time.
type Snapshot struct {
	HiddenExtensions   map[string]string
	HiddenPermissions  Set
	HiddenPaths        Set
	DisabledExtensions Set
	RiskyForms         Set
}

// Snapshot collects every category in one pass.
func (r *Registry) Snapshot(ctx context.Context) Snapshot {
	return Snapshot{
		HiddenExtensions:   r.CollectHiddenExtensions(ctx),
		HiddenPermissions:  r.Collect(ctx, CategoryHiddenPermissions),
		HiddenPaths:        r.Collect(ctx, CategoryHiddenPaths),
		DisabledExtensions: r.Collect(ctx, CategoryDisabledExtensions),
		RiskyForms:         r.Collect(ctx, CategoryRiskyForms),
	}
}

// Fingerprint returns a stable hash of the snapshot contents. Two snapshots
// with the same declarations produce the same fingerprint regardless of the
// order collaborators replied in.
func (s Snapshot) Fingerprint() uint64 {
	h := xxhash.New()

	writeSorted := func(section string, ids []string) {
		sort.Strings(ids)
		_, _ = h.WriteString(section)
		_, _ = h.Write([]byte{0})
		for _, id := range ids {
			_, _ = h.WriteString(id)
			_, _ = h.Write([]byte{0})
		}
	}

	exts := make([]string, 0, len(s.HiddenExtensions))
	for id, label := range s.HiddenExtensions {
		exts = append(exts, id+"="+label)
	}
	writeSorted("hidden_modules", exts)
	writeSorted("hidden_permissions", s.HiddenPermissions.Sorted())
	writeSorted("hidden_paths", s.HiddenPaths.Sorted())
	writeSorted("disabled_modules", s.DisabledExtensions.Sorted())
	writeSorted("risky_forms", s.RiskyForms.Sorted())

	return h.Sum64()
}

// FingerprintString returns the fingerprint as a fixed-width hex string.
func (s Snapshot) FingerprintString() string {
	return fmt.Sprintf("%016x", s.Fingerprint())
}

// Sorted returns the set contents as a sorted slice.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Global registry instance, populated by init()-time self-registration of
// built-in collaborators and by manifest loading at startup.
var globalRegistry = NewRegistry()

// RegisterCollaborator registers a collaborator globally.
func RegisterCollaborator(c Collaborator) error {
	return globalRegistry.Register(c)
}

// MustRegisterCollaborator registers a collaborator globally, panics on error.
func MustRegisterCollaborator(c Collaborator) {
	globalRegistry.MustRegister(c)
}

// Default returns the global registry instance.
func Default() *Registry {
	return globalRegistry
}
