package form

import (
	"testing"

	"github.com/paranoialabs/paranoia/internal/domain/policy"
	"github.com/paranoialabs/paranoia/internal/domain/role"
)

// --- LockRisky Tests ---

func TestLockRisky(t *testing.T) {
	f := New("php_execute", &Field{Name: "code", Editable: true})
	LockRisky(f)

	if !f.AccessDenied {
		t.Error("LockRisky() should deny access to the form")
	}

	errs := f.Validate()
	if len(errs) != 1 {
		t.Fatalf("Validate() errors = %d, want 1", len(errs))
	}
	if errs[0].Message != "This form has been disabled for security reasons." {
		t.Errorf("Validate() message = %q", errs[0].Message)
	}
}

func TestLockRisky_ValidatorFailsRegardlessOfInput(t *testing.T) {
	// A direct POST bypassing the render-side hide must still fail.
	f := New("php_execute", &Field{Name: "code", Value: "<?php echo 1;", Editable: true})
	LockRisky(f)

	if errs := f.Validate(); len(errs) == 0 {
		t.Error("Validate() should fail every submission of a locked form")
	}
}

// --- GuardOwnerFields Tests ---

func TestGuardOwnerFields(t *testing.T) {
	tests := []struct {
		name         string
		subjectUID   int64
		actorUID     int64
		wantEditable bool
	}{
		{"owner form, other actor", 1, 42, false},
		{"owner form, owner acting", 1, 1, true},
		{"other form, other actor", 42, 7, true},
		{"other form, owner acting", 42, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(ProfileFormID,
				&Field{Name: "name", Editable: true},
				&Field{Name: "mail", Editable: true},
				&Field{Name: "pass", Editable: true},
				&Field{Name: "current_pass", Editable: true},
				&Field{Name: "signature", Editable: true},
			)
			GuardOwnerFields(f, tt.subjectUID, tt.actorUID)

			for _, name := range []string{"name", "mail", "pass", "current_pass"} {
				if got := f.Field(name).Editable; got != tt.wantEditable {
					t.Errorf("field %q Editable = %v, want %v", name, got, tt.wantEditable)
				}
			}
			if !f.Field("signature").Editable {
				t.Error("unguarded field should stay editable")
			}
		})
	}
}

func TestGuardOwnerFields_MissingFields(t *testing.T) {
	// Profile variants without every guarded element must not panic.
	f := New(ProfileFormID, &Field{Name: "mail", Editable: true})
	GuardOwnerFields(f, 1, 42)
	if f.Field("mail").Editable {
		t.Error("present guarded field should be locked")
	}
}

// --- Grant Gate Tests ---

func TestValidateGrants(t *testing.T) {
	restricted := policy.NewSet("use php for settings")

	tests := []struct {
		name     string
		grants   GrantSubmission
		wantErrs int
	}{
		{"restricted to anonymous", GrantSubmission{role.Anonymous: {"use php for settings"}}, 1},
		{"restricted to authenticated", GrantSubmission{role.Authenticated: {"use php for settings"}}, 1},
		{"restricted to custom role", GrantSubmission{"editor": {"use php for settings"}}, 0},
		{"safe to anonymous", GrantSubmission{role.Anonymous: {"view content"}}, 0},
		{"both broad roles", GrantSubmission{
			role.Anonymous:     {"use php for settings"},
			role.Authenticated: {"use php for settings"},
		}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateGrants(tt.grants, restricted)
			if len(errs) != tt.wantErrs {
				t.Errorf("ValidateGrants() errors = %d, want %d (%v)", len(errs), tt.wantErrs, errs)
			}
		})
	}
}

func TestValidateGrants_ErrorTargetsCheckbox(t *testing.T) {
	errs := ValidateGrants(GrantSubmission{role.Anonymous: {"use php for settings"}}, policy.NewSet("use php for settings"))
	if len(errs) != 1 {
		t.Fatalf("ValidateGrants() errors = %d, want 1", len(errs))
	}
	if errs[0].Field != "anonymous[use php for settings]" {
		t.Errorf("ValidateGrants() field = %q, want the offending checkbox", errs[0].Field)
	}
}

func TestGrantGateValidator(t *testing.T) {
	restricted := policy.NewSet("use php for settings")
	f := New(PermissionAdminFormID,
		&Field{Name: "anonymous[use php for settings]", Value: "1"},
		&Field{Name: "anonymous[view content]", Value: "1"},
		&Field{Name: "editor[use php for settings]", Value: "1"},
		&Field{Name: "authenticated[use php for settings]", Value: ""},
	)
	f.AddValidator(GrantGateValidator(restricted))

	errs := f.Validate()
	if len(errs) != 1 {
		t.Fatalf("Validate() errors = %d, want 1 (%v)", len(errs), errs)
	}
	if errs[0].Field != "anonymous[use php for settings]" {
		t.Errorf("Validate() field = %q, want anonymous checkbox", errs[0].Field)
	}
}

func TestSplitGrantField(t *testing.T) {
	tests := []struct {
		in     string
		roleID string
		perm   string
		ok     bool
	}{
		{"anonymous[view content]", "anonymous", "view content", true},
		{"editor[use php for settings]", "editor", "use php for settings", true},
		{"no brackets", "", "", false},
		{"[leading bracket]", "", "", false},
		{"trailing[open", "", "", false},
	}
	for _, tt := range tests {
		roleID, perm, ok := splitGrantField(tt.in)
		if roleID != tt.roleID || perm != tt.perm || ok != tt.ok {
			t.Errorf("splitGrantField(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.in, roleID, perm, ok, tt.roleID, tt.perm, tt.ok)
		}
	}
}
