// Package manifest loads file-declared collaborators: YAML documents that
// contribute policy declarations without shipping Go code. This is how
// site operators extend the built-in hardening surface.
package manifest

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/paranoialabs/paranoia/internal/domain/policy"
)

// document is the on-disk manifest schema.
type document struct {
	Name               string            `yaml:"name"`
	HiddenExtensions   map[string]string `yaml:"hidden_modules"`
	HiddenPermissions  []string          `yaml:"hidden_permissions"`
	HiddenPaths        []string          `yaml:"hidden_paths"`
	DisabledExtensions []string          `yaml:"disabled_modules"`
	RiskyForms         []string          `yaml:"risky_forms"`
}

// Collaborator is a policy collaborator whose declarations come from a
// YAML manifest file. Declarations are fixed at load time.
type Collaborator struct {
	doc document
}

// Load parses a manifest file into a collaborator.
func Load(path string) (*Collaborator, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse parses manifest bytes into a collaborator.
func Parse(raw []byte) (*Collaborator, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("manifest missing required field: name")
	}
	return &Collaborator{doc: doc}, nil
}

// Name identifies the collaborator in logs.
func (c *Collaborator) Name() string { return c.doc.Name }

// HiddenExtensions implements policy.HiddenExtensionsProvider.
func (c *Collaborator) HiddenExtensions(ctx context.Context) (map[string]string, error) {
	return c.doc.HiddenExtensions, nil
}

// HiddenPermissions implements policy.HiddenPermissionsProvider.
func (c *Collaborator) HiddenPermissions(ctx context.Context) ([]string, error) {
	return c.doc.HiddenPermissions, nil
}

// HiddenPaths implements policy.HiddenPathsProvider.
func (c *Collaborator) HiddenPaths(ctx context.Context) ([]string, error) {
	return c.doc.HiddenPaths, nil
}

// DisabledExtensions implements policy.DisabledExtensionsProvider.
func (c *Collaborator) DisabledExtensions(ctx context.Context) ([]string, error) {
	return c.doc.DisabledExtensions, nil
}

// RiskyForms implements policy.RiskyFormsProvider.
func (c *Collaborator) RiskyForms(ctx context.Context) ([]string, error) {
	return c.doc.RiskyForms, nil
}

// Compile-time contract verification.
var (
	_ policy.Collaborator               = (*Collaborator)(nil)
	_ policy.HiddenExtensionsProvider   = (*Collaborator)(nil)
	_ policy.HiddenPermissionsProvider  = (*Collaborator)(nil)
	_ policy.HiddenPathsProvider        = (*Collaborator)(nil)
	_ policy.DisabledExtensionsProvider = (*Collaborator)(nil)
	_ policy.RiskyFormsProvider         = (*Collaborator)(nil)
)
