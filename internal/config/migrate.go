package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Legacy flat key-value store keys. Earlier releases persisted settings as
// two entries in the host's variable table; a one-time migration moves them
// into the structured settings record.
const (
	legacyThresholdKey    = "paranoia_access_threshold"
	legacyNotificationKey = "paranoia_email_notification"
)

// MigrateLegacySettings extracts the two legacy values from a flat
// key-value map. Returns the structured settings and whether any legacy
// key was present. Unparsable values are an error rather than silently
// becoming zero: a threshold that vanishes in migration would turn the
// feature off without anyone deciding that.
func MigrateLegacySettings(kv map[string]string) (SettingsConfig, bool, error) {
	var (
		out   SettingsConfig
		found bool
	)

	if raw, ok := kv[legacyThresholdKey]; ok {
		found = true
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			return SettingsConfig{}, false, fmt.Errorf("legacy %s: invalid value %q", legacyThresholdKey, raw)
		}
		out.AccessThresholdDays = days
	}

	if raw, ok := kv[legacyNotificationKey]; ok {
		found = true
		switch raw {
		case "1", "true":
			out.EmailNotification = true
		case "0", "false", "":
			out.EmailNotification = false
		default:
			return SettingsConfig{}, false, fmt.Errorf("legacy %s: invalid value %q", legacyNotificationKey, raw)
		}
	}

	return out, found, nil
}

// MigrateLegacyFile reads a legacy flat key-value YAML file and returns the
// structured settings without applying anything. A missing file is not an
// error; it means there is nothing to migrate.
func MigrateLegacyFile(path string) (SettingsConfig, bool, error) {
	kv, err := readLegacyStore(path)
	if err != nil {
		return SettingsConfig{}, false, err
	}
	return MigrateLegacySettings(kv)
}

// MigrationStatus is the outcome of ApplyLegacyMigration.
type MigrationStatus int

const (
	// MigrationApplied means legacy values were moved into the config file.
	MigrationApplied MigrationStatus = iota
	// MigrationAlreadyDone means the config file already carries a
	// structured settings record; nothing was changed.
	MigrationAlreadyDone
	// MigrationNothingToDo means the legacy store holds no settings keys.
	MigrationNothingToDo
)

// ApplyLegacyMigration moves the legacy flat values into the structured
// settings record at configPath. The migration is one-time: a config file
// that already has a settings section is left untouched, and on success the
// legacy keys are removed from the legacy store, so re-running finds
// nothing to migrate.
func ApplyLegacyMigration(legacyPath, configPath string) (SettingsConfig, MigrationStatus, error) {
	doc, err := readConfigDoc(configPath)
	if err != nil {
		return SettingsConfig{}, MigrationAlreadyDone, err
	}
	if _, ok := doc["settings"]; ok {
		return SettingsConfig{}, MigrationAlreadyDone, nil
	}

	kv, err := readLegacyStore(legacyPath)
	if err != nil {
		return SettingsConfig{}, MigrationNothingToDo, err
	}
	settings, found, err := MigrateLegacySettings(kv)
	if err != nil {
		return SettingsConfig{}, MigrationNothingToDo, err
	}
	if !found {
		return SettingsConfig{}, MigrationNothingToDo, nil
	}

	if doc == nil {
		doc = map[string]any{}
	}
	doc["settings"] = settings
	out, err := yaml.Marshal(doc)
	if err != nil {
		return SettingsConfig{}, MigrationNothingToDo, fmt.Errorf("failed to render config: %w", err)
	}
	if err := os.WriteFile(configPath, out, 0o644); err != nil {
		return SettingsConfig{}, MigrationNothingToDo, fmt.Errorf("failed to write config %s: %w", configPath, err)
	}

	// Prune the migrated keys so the legacy store no longer reports them.
	delete(kv, legacyThresholdKey)
	delete(kv, legacyNotificationKey)
	pruned, err := yaml.Marshal(kv)
	if err != nil {
		return SettingsConfig{}, MigrationNothingToDo, fmt.Errorf("failed to render legacy store: %w", err)
	}
	if err := os.WriteFile(legacyPath, pruned, 0o644); err != nil {
		return SettingsConfig{}, MigrationNothingToDo, fmt.Errorf("failed to write legacy store %s: %w", legacyPath, err)
	}

	return settings, MigrationApplied, nil
}

func readLegacyStore(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy store %s: %w", path, err)
	}

	var kv map[string]string
	if err := yaml.Unmarshal(raw, &kv); err != nil {
		return nil, fmt.Errorf("failed to parse legacy store %s: %w", path, err)
	}
	return kv, nil
}

func readConfigDoc(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return doc, nil
}

// RenderSettings serializes a structured settings record as YAML, ready to
// paste into (or write as) the settings section of paranoia.yaml.
func RenderSettings(s SettingsConfig) ([]byte, error) {
	doc := struct {
		Settings SettingsConfig `yaml:"settings"`
	}{Settings: s}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render settings: %w", err)
	}
	return out, nil
}
