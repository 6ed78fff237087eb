// Package config provides configuration types and loading for paranoia.
package config

// Config is the top-level configuration.
type Config struct {
	// SiteName labels the host site in notification mails.
	SiteName string `yaml:"site_name" mapstructure:"site_name"`

	// Server configures the admin API listener.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Settings are the persisted hardening settings.
	Settings SettingsConfig `yaml:"settings" mapstructure:"settings"`

	// Sweep configures the stale-account sweep scheduler.
	Sweep SweepConfig `yaml:"sweep" mapstructure:"sweep"`

	// Store configures the account/session backend.
	Store StoreConfig `yaml:"store" mapstructure:"store"`

	// Mail configures notification delivery.
	Mail MailConfig `yaml:"mail" mapstructure:"mail"`

	// Manifests are paths to collaborator manifest files loaded at startup.
	Manifests []string `yaml:"manifests" mapstructure:"manifests"`

	// DevMode enables development features (verbose logging, etc).
	DevMode bool `yaml:"dev_mode" mapstructure:"dev_mode"`
}

// ServerConfig configures the admin API listener.
type ServerConfig struct {
	// HTTPAddr is the address to listen on. Defaults to "127.0.0.1:8089"
	// (localhost only) if empty.
	HTTPAddr string `yaml:"http_addr" mapstructure:"http_addr" validate:"omitempty,hostname_port"`

	// LogLevel sets the minimum log level.
	// Valid values: "debug", "info", "warn", "error".
	// Defaults to "info" if empty. DevMode=true overrides to "debug".
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// AdminToken gates the admin API. Requests must carry it in the
	// X-Admin-Token header. Empty disables the admin API entirely.
	AdminToken string `yaml:"admin_token" mapstructure:"admin_token"`
}

// SettingsConfig are the hardening settings the admin surface exposes.
type SettingsConfig struct {
	// AccessThresholdDays is the inactivity threshold for stale-account
	// resets, in days. 0 disables the feature.
	AccessThresholdDays int `yaml:"access_threshold" mapstructure:"access_threshold" validate:"min=0"`

	// EmailNotification controls whether reset accounts are notified.
	EmailNotification bool `yaml:"email_notification" mapstructure:"email_notification"`
}

// SweepConfig configures the stale-account sweep.
type SweepConfig struct {
	// Interval is how often the scheduler runs a sweep (e.g. "1h").
	// Defaults to "1h".
	Interval string `yaml:"interval" mapstructure:"interval" validate:"omitempty,duration"`

	// BatchSize caps how many accounts one sweep enqueues.
	// Defaults to 250.
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size" validate:"omitempty,min=1"`

	// Exemptions are CEL predicates over `account`; a matching account is
	// never enqueued (e.g. `"admin" in account.roles`). The owner account
	// is always exempt.
	Exemptions []string `yaml:"exemptions" mapstructure:"exemptions"`
}

// StoreConfig configures the account/session backend.
type StoreConfig struct {
	// Driver selects the backend: "sqlite" (default queryable store) or
	// "memory" (development).
	Driver string `yaml:"driver" mapstructure:"driver" validate:"omitempty,oneof=sqlite memory"`

	// Path is the sqlite database file. Required for the sqlite driver.
	Path string `yaml:"path" mapstructure:"path"`
}

// MailConfig configures notification delivery.
type MailConfig struct {
	// Mode selects delivery: "log" (default) or "smtp".
	Mode string `yaml:"mode" mapstructure:"mode" validate:"omitempty,oneof=log smtp"`

	// Addr is the SMTP relay (host:port). Required for smtp mode.
	Addr string `yaml:"addr" mapstructure:"addr" validate:"omitempty,hostname_port"`

	// From is the envelope sender. Required for smtp mode.
	From string `yaml:"from" mapstructure:"from" validate:"omitempty,email"`
}

// SetDefaults applies sensible default values to the configuration.
func (c *Config) SetDefaults() {
	if c.SiteName == "" {
		c.SiteName = "this site"
	}

	// Bind to localhost only; the admin API is an operator surface.
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = "127.0.0.1:8089"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	if c.Sweep.Interval == "" {
		c.Sweep.Interval = "1h"
	}
	if c.Sweep.BatchSize == 0 {
		c.Sweep.BatchSize = 250
	}

	if c.Store.Driver == "" {
		c.Store.Driver = "sqlite"
	}
	if c.Store.Driver == "sqlite" && c.Store.Path == "" {
		c.Store.Path = "paranoia.db"
	}

	if c.Mail.Mode == "" {
		c.Mail.Mode = "log"
	}
}
