package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// InitViper initializes Viper with the configuration file and environment
// variables. If configFile is empty, it searches for paranoia.yaml/.yml in
// standard locations. The search requires an explicit YAML extension to
// avoid matching the binary itself.
func InitViper(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		viper.SetConfigFile(found)
	} else {
		// No config file found in any standard location. Set name/type so
		// ReadInConfig returns ConfigFileNotFoundError, handled gracefully
		// by callers.
		viper.SetConfigName("paranoia")
		viper.SetConfigType("yaml")
	}

	// Environment variable support: PARANOIA_SERVER_HTTP_ADDR
	viper.SetEnvPrefix("PARANOIA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	bindNestedEnvKeys()
}

// findConfigFile searches standard locations for a paranoia config file
// with an explicit YAML extension.
func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{
		".",
		filepath.Join(home, ".paranoia"),
		"/etc/paranoia",
	}
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, "paranoia"+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// bindNestedEnvKeys binds config keys for environment variable support.
// Example: PARANOIA_SETTINGS_ACCESS_THRESHOLD overrides
// settings.access_threshold.
func bindNestedEnvKeys() {
	_ = viper.BindEnv("site_name")
	_ = viper.BindEnv("dev_mode")

	_ = viper.BindEnv("server.http_addr")
	_ = viper.BindEnv("server.log_level")
	_ = viper.BindEnv("server.admin_token")

	_ = viper.BindEnv("settings.access_threshold")
	_ = viper.BindEnv("settings.email_notification")

	_ = viper.BindEnv("sweep.interval")
	_ = viper.BindEnv("sweep.batch_size")
	// Note: sweep.exemptions is an array; use the config file for it.

	_ = viper.BindEnv("store.driver")
	_ = viper.BindEnv("store.path")

	_ = viper.BindEnv("mail.mode")
	_ = viper.BindEnv("mail.addr")
	_ = viper.BindEnv("mail.from")
}

// LoadConfig reads the configuration file, applies environment overrides,
// sets defaults, validates and returns the Config.
func LoadConfig() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - continue with env vars only.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// ConfigFileUsed returns the path to the configuration file that was
// loaded, or empty if env-only.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
