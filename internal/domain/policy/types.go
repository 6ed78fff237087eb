// Package policy contains the declaration categories and collaborator
// contracts for the hardening policy registry.
package policy

import "context"

// Category names a policy contract that collaborators can implement.
type Category string

const (
	// CategoryHiddenExtensions hides extensions from the admin extension listing.
	CategoryHiddenExtensions Category = "hidden_modules"
	// CategoryHiddenPermissions hides permissions from the permission admin page
	// and strips them from any role holding them.
	CategoryHiddenPermissions Category = "hidden_permissions"
	// CategoryHiddenPaths hides admin paths from navigation.
	CategoryHiddenPaths Category = "hidden_paths"
	// CategoryDisabledExtensions hard-disables extensions that are active.
	CategoryDisabledExtensions Category = "disabled_modules"
	// CategoryRiskyForms locks forms that must never be submittable.
	CategoryRiskyForms Category = "risky_forms"
)

// Collaborator is the base contract for anything contributing declarations.
// A collaborator additionally implements one or more of the provider
// interfaces below; the registry discovers which by type assertion.
type Collaborator interface {
	// Name identifies the collaborator in logs.
	Name() string
}

// HiddenExtensionsProvider declares extensions to hide from the admin
// extension listing. The map value is the listing category label the
// extension appears under.
type HiddenExtensionsProvider interface {
	HiddenExtensions(ctx context.Context) (map[string]string, error)
}

// HiddenPermissionsProvider declares permissions that are too dangerous to
// show or grant. These are both hidden from the permission admin page and
// stripped from roles during enforcement.
type HiddenPermissionsProvider interface {
	HiddenPermissions(ctx context.Context) ([]string, error)
}

// HiddenPathsProvider declares admin paths to hide from navigation.
type HiddenPathsProvider interface {
	HiddenPaths(ctx context.Context) ([]string, error)
}

// DisabledExtensionsProvider declares extensions that must be deactivated
// whenever they are found active.
type DisabledExtensionsProvider interface {
	DisabledExtensions(ctx context.Context) ([]string, error)
}

// RiskyFormsProvider declares form IDs that must be locked against both
// rendering and direct submission.
type RiskyFormsProvider interface {
	RiskyForms(ctx context.Context) ([]string, error)
}

// Set is a deduplicated collection of string identifiers.
type Set map[string]struct{}

// NewSet builds a Set from the given identifiers.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts an identifier.
func (s Set) Add(id string) {
	s[id] = struct{}{}
}

// Has reports whether the identifier is present.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Merge adds every identifier from other.
func (s Set) Merge(other Set) {
	for id := range other {
		s[id] = struct{}{}
	}
}
