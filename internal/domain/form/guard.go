package form

import (
	"fmt"

	"github.com/paranoialabs/paranoia/internal/domain/account"
	"github.com/paranoialabs/paranoia/internal/domain/policy"
	"github.com/paranoialabs/paranoia/internal/domain/role"
)

// ownerGuardedFields are the profile elements only the owner account may
// edit on its own record.
var ownerGuardedFields = []string{"name", "mail", "pass", "current_pass"}

// LockRisky marks a form access-denied and attaches a validator that
// unconditionally fails. The validator defends against direct submission
// that bypasses the rendering-side hide.
func LockRisky(f *Form) {
	f.AccessDenied = true
	f.AddValidator(func(*Form) []FieldError {
		return []FieldError{{
			Message: "This form has been disabled for security reasons.",
		}}
	})
}

// GuardOwnerFields makes the name, mail and password elements of the owner
// account's profile form non-editable unless the acting user is the owner
// account itself. Forms for other accounts are untouched.
func GuardOwnerFields(f *Form, subjectUID, actorUID int64) {
	if subjectUID != account.OwnerUID || actorUID == account.OwnerUID {
		return
	}
	for _, name := range ownerGuardedFields {
		if fld := f.Field(name); fld != nil {
			fld.Editable = false
		}
	}
}

// GrantSubmission is the proposed permission matrix of a permission-admin
// form submission: role ID to the permissions it would hold after save.
type GrantSubmission map[string][]string

// ValidateGrants rejects any attempt to grant a restricted permission to
// the anonymous or authenticated role. Failures are field-level so the
// admin sees exactly which checkbox was refused; the save must not proceed
// while any failure exists (fail closed, not silent strip).
func ValidateGrants(grants GrantSubmission, restricted policy.Set) []FieldError {
	var errs []FieldError
	for roleID, perms := range grants {
		if !role.IsBroadRole(roleID) {
			continue
		}
		for _, perm := range perms {
			if restricted.Has(perm) {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("%s[%s]", roleID, perm),
					Message: fmt.Sprintf("The %q permission cannot be granted to the %s role.", perm, roleID),
				})
			}
		}
	}
	return errs
}

// GrantGateValidator returns a validator enforcing ValidateGrants against
// the submission carried by the form. The permission-admin form encodes its
// matrix as fields named "role[permission]" with value "1" when checked.
func GrantGateValidator(restricted policy.Set) Validator {
	return func(f *Form) []FieldError {
		return ValidateGrants(parseGrantFields(f), restricted)
	}
}

// parseGrantFields reconstructs the grant matrix from checkbox fields.
func parseGrantFields(f *Form) GrantSubmission {
	grants := make(GrantSubmission)
	for name, fld := range f.Fields {
		if fld.Value != "1" {
			continue
		}
		roleID, perm, ok := splitGrantField(name)
		if !ok {
			continue
		}
		grants[roleID] = append(grants[roleID], perm)
	}
	return grants
}

// splitGrantField splits "role[permission]" into its parts.
func splitGrantField(name string) (roleID, perm string, ok bool) {
	open := -1
	for i, c := range name {
		if c == '[' {
			open = i
			break
		}
	}
	if open <= 0 || name[len(name)-1] != ']' {
		return "", "", false
	}
	return name[:open], name[open+1 : len(name)-1], true
}
