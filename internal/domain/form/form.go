// Package form models the host's form descriptors far enough to express
// the three alterations this layer performs: risky-form lockdown, the
// owner-account field guard, and the permission grant gate.
package form

// Well-known form IDs this layer alters.
const (
	// ProfileFormID is the account profile edit form.
	ProfileFormID = "account_profile"
	// PermissionAdminFormID is the permission management form.
	PermissionAdminFormID = "permission_admin"
)

// Field is a single form element.
type Field struct {
	// Name is the element key within the form.
	Name string
	// Value is the current (or submitted) value.
	Value string
	// Editable controls whether the element accepts input. A non-editable
	// field renders read-only and its submitted value is ignored.
	Editable bool
}

// FieldError attaches a validation failure to a form element. An empty
// Field targets the form as a whole.
type FieldError struct {
	Field   string
	Message string
}

// Validator inspects a form at submit time and returns any failures.
type Validator func(f *Form) []FieldError

// Form is a mutable form descriptor passed through alteration hooks before
// rendering and through validators on submission.
type Form struct {
	// ID identifies the form.
	ID string
	// Fields are the form elements, keyed by name.
	Fields map[string]*Field
	// AccessDenied blocks rendering of the form entirely.
	AccessDenied bool

	validators []Validator
}

// New creates a form with the given ID and fields.
func New(id string, fields ...*Field) *Form {
	f := &Form{
		ID:     id,
		Fields: make(map[string]*Field, len(fields)),
	}
	for _, fld := range fields {
		f.Fields[fld.Name] = fld
	}
	return f
}

// Field returns the named element, or nil.
func (f *Form) Field(name string) *Field {
	return f.Fields[name]
}

// AddValidator appends a submit-time validator.
func (f *Form) AddValidator(v Validator) {
	f.validators = append(f.validators, v)
}

// Validate runs all attached validators and collects their failures.
// An empty result means the submission may be persisted.
func (f *Form) Validate() []FieldError {
	var errs []FieldError
	for _, v := range f.validators {
		errs = append(errs, v(f)...)
	}
	return errs
}
