package service

import (
	"sync"
	"time"
)

// Settings are the live hardening settings the admin surface exposes.
type Settings struct {
	// AccessThresholdDays is the inactivity threshold for stale-account
	// resets, in days. 0 disables the feature.
	AccessThresholdDays int `json:"access_threshold"`
	// EmailNotification controls whether reset accounts are notified.
	EmailNotification bool `json:"email_notification"`
}

// Threshold returns the inactivity threshold as a duration. Zero means the
// stale-account feature is off.
func (s Settings) Threshold() time.Duration {
	return time.Duration(s.AccessThresholdDays) * 24 * time.Hour
}

// SettingsStore holds the live settings. The sweep and worker read it on
// every pass, so admin updates take effect without a restart.
type SettingsStore struct {
	mu sync.RWMutex
	s  Settings
}

// NewSettingsStore creates a settings store with the given initial values.
func NewSettingsStore(s Settings) *SettingsStore {
	return &SettingsStore{s: s}
}

// Get returns the current settings.
func (st *SettingsStore) Get() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s
}

// Update replaces the settings.
func (st *SettingsStore) Update(s Settings) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s = s
}
