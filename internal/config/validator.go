package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	policycel "github.com/paranoialabs/paranoia/internal/adapter/outbound/cel"
)

// RegisterCustomValidators registers paranoia-specific validation rules.
// Must be called before validating Config.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("duration", validateDuration); err != nil {
		return fmt.Errorf("failed to register duration validator: %w", err)
	}
	return nil
}

// validateDuration validates a Go duration string (e.g. "30m", "1h").
func validateDuration(fl validator.FieldLevel) bool {
	d, err := time.ParseDuration(fl.Field().String())
	return err == nil && d > 0
}

// Validate validates the Config using struct tags and custom cross-field
// rules. Returns an error with actionable messages on failure.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := RegisterCustomValidators(v); err != nil {
		return err
	}

	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if err := c.validateMail(); err != nil {
		return err
	}

	// Exemption rules must compile; a typo here must fail startup, not
	// silently widen or narrow the sweep.
	if _, err := policycel.Compile(c.Sweep.Exemptions); err != nil {
		return fmt.Errorf("sweep.exemptions: %w", err)
	}

	return nil
}

// validateMail ensures smtp mode carries a relay address and sender.
func (c *Config) validateMail() error {
	if c.Mail.Mode != "smtp" {
		return nil
	}
	if c.Mail.Addr == "" {
		return errors.New("mail: smtp mode requires addr")
	}
	if c.Mail.From == "" {
		return errors.New("mail: smtp mode requires from")
	}
	return nil
}

// SweepInterval returns the parsed sweep interval.
// Call after Validate; an unparsable value falls back to one hour.
func (c *Config) SweepInterval() time.Duration {
	d, err := time.ParseDuration(c.Sweep.Interval)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// AccessThreshold returns the inactivity threshold as a duration.
// Zero means the stale-account feature is off.
func (c *Config) AccessThreshold() time.Duration {
	return time.Duration(c.Settings.AccessThresholdDays) * 24 * time.Hour
}

// formatValidationErrors converts validator.ValidationErrors to
// user-friendly messages.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			messages = append(messages, formatSingleValidationError(e))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}

// formatSingleValidationError creates a user-friendly message for a single
// validation error.
func formatSingleValidationError(e validator.FieldError) string {
	field := e.Namespace()
	tag := e.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be a valid host:port", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "duration":
		return fmt.Sprintf("%s must be a positive duration (e.g. \"30m\", \"1h\")", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, tag)
	}
}
