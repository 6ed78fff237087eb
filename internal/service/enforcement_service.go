// Package service contains the application services gluing the policy
// registry to the host's stores and lifecycle events.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/paranoialabs/paranoia/internal/domain/extension"
	"github.com/paranoialabs/paranoia/internal/domain/form"
	"github.com/paranoialabs/paranoia/internal/domain/policy"
	"github.com/paranoialabs/paranoia/internal/domain/role"
)

// Notice is a user-visible message emitted by an enforcement action.
type Notice struct {
	Message string
}

// EnforcementService applies registry declarations to the host: hiding
// listings, deactivating extensions, stripping role permissions and
// altering forms. Every method re-derives its declarations from the
// registry, so enforcement holds even after direct data manipulation.
type EnforcementService struct {
	registry   *policy.Registry
	roles      role.Store
	extensions extension.Store
	logger     *slog.Logger
	metrics    *Metrics

	lastFingerprint atomic.Uint64
}

// NewEnforcementService creates an enforcement service.
// metrics may be nil.
func NewEnforcementService(registry *policy.Registry, roles role.Store, extensions extension.Store, logger *slog.Logger, metrics *Metrics) *EnforcementService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnforcementService{
		registry:   registry,
		roles:      roles,
		extensions: extensions,
		logger:     logger.With("channel", "paranoia"),
		metrics:    metrics,
	}
}

// Snapshot returns the current unioned declaration state.
func (s *EnforcementService) Snapshot(ctx context.Context) policy.Snapshot {
	return s.registry.Snapshot(ctx)
}

// Collaborators returns the registered collaborator names in sorted order.
func (s *EnforcementService) Collaborators() []string {
	return s.registry.Names()
}

// VisibleExtensions returns the extension listing with hidden entries
// removed. Presentational only.
func (s *EnforcementService) VisibleExtensions(ctx context.Context) ([]extension.Extension, error) {
	list, err := s.extensions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list extensions: %w", err)
	}
	return extension.HideFromListing(list, s.registry.CollectHiddenExtensions(ctx)), nil
}

// VisiblePermissions filters a rendered permission listing.
func (s *EnforcementService) VisiblePermissions(ctx context.Context, perms []string) []string {
	hidden := s.registry.Collect(ctx, policy.CategoryHiddenPermissions)
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if !hidden.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// VisiblePaths filters a rendered navigation path list.
func (s *EnforcementService) VisiblePaths(ctx context.Context, paths []string) []string {
	hidden := s.registry.Collect(ctx, policy.CategoryHiddenPaths)
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !hidden.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// DisableDeclared deactivates every declared extension that is currently
// active, emitting one notice per transition. Extensions already inactive
// or not installed produce no notice. Idempotent.
func (s *EnforcementService) DisableDeclared(ctx context.Context) ([]Notice, error) {
	var notices []Notice
	for _, name := range s.registry.Collect(ctx, policy.CategoryDisabledExtensions).Sorted() {
		ext, err := s.extensions.Get(ctx, name)
		if errors.Is(err, extension.ErrExtensionNotFound) {
			continue // not installed, nothing to do
		}
		if err != nil {
			s.logger.Error("failed to load extension", "extension", name, "error", err)
			continue
		}
		if !ext.Enabled {
			continue
		}
		if err := s.extensions.SetEnabled(ctx, name, false); err != nil {
			s.logger.Error("failed to disable extension", "extension", name, "error", err)
			continue
		}
		s.logger.Info("disabled extension", "extension", name)
		if s.metrics != nil {
			s.metrics.ExtensionsDisabled.Inc()
		}
		notices = append(notices, Notice{
			Message: fmt.Sprintf("The %s extension has been disabled for security reasons.", name),
		})
	}
	return notices, nil
}

// StripRestrictedPermissions removes every declared-hidden permission from
// every role holding one and persists only roles that changed. Returns the
// number of permissions removed. Idempotent: re-running with the same
// declarations is a no-op.
func (s *EnforcementService) StripRestrictedPermissions(ctx context.Context) (int, error) {
	restricted := s.registry.Collect(ctx, policy.CategoryHiddenPermissions)
	if len(restricted) == 0 {
		return 0, nil
	}

	roles, err := s.roles.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list roles: %w", err)
	}

	stripped := 0
	for i := range roles {
		r := roles[i]
		removed := r.StripRestricted(restricted)
		if len(removed) == 0 {
			continue
		}
		if err := s.roles.Save(ctx, &r); err != nil {
			// Logged and skipped; the next enforcement pass retries.
			s.logger.Error("failed to save role after stripping permissions",
				"role", r.ID, "removed", removed, "error", err)
			continue
		}
		s.logger.Info("stripped restricted permissions", "role", r.ID, "removed", removed)
		stripped += len(removed)
		if s.metrics != nil {
			s.metrics.PermissionsStripped.Add(float64(len(removed)))
		}
	}
	return stripped, nil
}

// AlterForm applies form-build-time policy to a form descriptor:
// risky-form lockdown, the owner-account field guard on the profile form,
// and the grant gate on the permission admin form. subjectUID is the
// account a profile form edits; actorUID is the acting user.
func (s *EnforcementService) AlterForm(ctx context.Context, f *form.Form, subjectUID, actorUID int64) {
	if s.registry.Collect(ctx, policy.CategoryRiskyForms).Has(f.ID) {
		form.LockRisky(f)
		return
	}

	switch f.ID {
	case form.ProfileFormID:
		form.GuardOwnerFields(f, subjectUID, actorUID)
	case form.PermissionAdminFormID:
		f.AddValidator(form.GrantGateValidator(s.registry.Collect(ctx, policy.CategoryHiddenPermissions)))
	}
}

// Run executes a full enforcement pass: deactivate declared extensions and
// strip restricted permissions. Fired on extension enable/install and on
// demand from the admin API. The declaration fingerprint is logged when it
// changes so drift between passes is visible.
func (s *EnforcementService) Run(ctx context.Context) ([]Notice, error) {
	snap := s.Snapshot(ctx)
	fp := snap.Fingerprint()
	if prev := s.lastFingerprint.Swap(fp); prev != fp {
		s.logger.Info("policy declarations changed",
			"fingerprint", fmt.Sprintf("%016x", fp),
			"collaborators", s.registry.Names())
	}

	notices, err := s.DisableDeclared(ctx)
	if err != nil {
		return notices, err
	}
	if _, err := s.StripRestrictedPermissions(ctx); err != nil {
		return notices, err
	}
	return notices, nil
}
