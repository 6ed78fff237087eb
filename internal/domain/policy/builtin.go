package policy

import "context"

// coreHardening is the built-in collaborator. It declares the classic
// arbitrary-code-execution surface every install should lose: the inline
// code-execution extension, its permissions, and the forms that evaluate
// submitted code.
type coreHardening struct{}

func (coreHardening) Name() string { return "core-hardening" }

func (coreHardening) HiddenExtensions(ctx context.Context) (map[string]string, error) {
	return map[string]string{
		"php": "Core",
	}, nil
}

func (coreHardening) HiddenPermissions(ctx context.Context) ([]string, error) {
	return []string{
		"use php for settings",
		"administer software updates",
	}, nil
}

func (coreHardening) HiddenPaths(ctx context.Context) ([]string, error) {
	return []string{
		"admin/config/development/php",
	}, nil
}

func (coreHardening) DisabledExtensions(ctx context.Context) ([]string, error) {
	return []string{"php"}, nil
}

func (coreHardening) RiskyForms(ctx context.Context) ([]string, error) {
	return []string{
		"php_execute",
		"php_filter_settings",
	}, nil
}

func init() {
	MustRegisterCollaborator(coreHardening{})
}
