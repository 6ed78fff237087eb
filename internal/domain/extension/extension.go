// Package extension contains the domain types for host extensions
// (installable modules) and the listing-hide logic.
package extension

import (
	"context"
	"errors"
)

// ErrExtensionNotFound is returned when an extension is not installed.
var ErrExtensionNotFound = errors.New("extension not found")

// Extension is an installable host module.
type Extension struct {
	// Name is the machine name (unique).
	Name string
	// Label is the human-readable name shown in listings.
	Label string
	// Category is the listing group the extension appears under.
	Category string
	// Enabled indicates whether the extension is currently active.
	Enabled bool
}

// Store reads and mutates the host's installed-extension records.
type Store interface {
	// List returns all installed extensions.
	List(ctx context.Context) ([]Extension, error)
	// Get returns an extension by machine name.
	// Returns ErrExtensionNotFound if not installed.
	Get(ctx context.Context, name string) (*Extension, error)
	// SetEnabled activates or deactivates an extension.
	// Returns ErrExtensionNotFound if not installed.
	SetEnabled(ctx context.Context, name string, enabled bool) error
}

// HideFromListing filters the rendered extension listing: any extension
// declared hidden is dropped. Purely presentational; the underlying
// capability is untouched (DisableDeclared handles that).
func HideFromListing(list []Extension, hidden map[string]string) []Extension {
	if len(hidden) == 0 {
		return list
	}
	out := make([]Extension, 0, len(list))
	for _, e := range list {
		if _, ok := hidden[e.Name]; ok {
			continue
		}
		out = append(out, e)
	}
	return out
}
