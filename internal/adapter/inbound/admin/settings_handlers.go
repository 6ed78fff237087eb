package admin

import (
	"net/http"
)

// getSettings returns the live hardening settings.
// GET /admin/api/settings
func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.settings.Get())
}

// updateSettingsRequest is the JSON body for a settings update.
type updateSettingsRequest struct {
	AccessThresholdDays *int  `json:"access_threshold"`
	EmailNotification   *bool `json:"email_notification"`
}

// updateSettings updates the live hardening settings. Fields omitted
// from the body keep their current value.
// PUT /admin/api/settings
func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := h.readJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cur := h.settings.Get()
	if req.AccessThresholdDays != nil {
		if *req.AccessThresholdDays < 0 {
			h.respondError(w, http.StatusBadRequest, "access_threshold must be >= 0")
			return
		}
		cur.AccessThresholdDays = *req.AccessThresholdDays
	}
	if req.EmailNotification != nil {
		cur.EmailNotification = *req.EmailNotification
	}

	h.settings.Update(cur)
	h.logger.Info("settings updated",
		"access_threshold_days", cur.AccessThresholdDays,
		"email_notification", cur.EmailNotification)
	h.respondJSON(w, http.StatusOK, cur)
}

// policyResponse is the JSON view of the current declaration snapshot.
type policyResponse struct {
	Collaborators      []string          `json:"collaborators"`
	HiddenExtensions   map[string]string `json:"hidden_modules"`
	HiddenPermissions  []string          `json:"hidden_permissions"`
	HiddenPaths        []string          `json:"hidden_paths"`
	DisabledExtensions []string          `json:"disabled_modules"`
	RiskyForms         []string          `json:"risky_forms"`
	Fingerprint        string            `json:"fingerprint"`
}

// getPolicy returns the current unioned declarations.
// GET /admin/api/policy
func (h *Handler) getPolicy(w http.ResponseWriter, r *http.Request) {
	snap := h.enforcement.Snapshot(r.Context())
	h.respondJSON(w, http.StatusOK, policyResponse{
		Collaborators:      h.enforcement.Collaborators(),
		HiddenExtensions:   snap.HiddenExtensions,
		HiddenPermissions:  snap.HiddenPermissions.Sorted(),
		HiddenPaths:        snap.HiddenPaths.Sorted(),
		DisabledExtensions: snap.DisabledExtensions.Sorted(),
		RiskyForms:         snap.RiskyForms.Sorted(),
		Fingerprint:        snap.FingerprintString(),
	})
}

// triggerEnforce runs a full enforcement pass immediately.
// POST /admin/api/enforce
func (h *Handler) triggerEnforce(w http.ResponseWriter, r *http.Request) {
	notices, err := h.enforcement.Run(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	msgs := make([]string, 0, len(notices))
	for _, n := range notices {
		msgs = append(msgs, n.Message)
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"notices": msgs})
}

// triggerSweep runs one sweep-and-drain cycle immediately.
// POST /admin/api/sweep
func (h *Handler) triggerSweep(w http.ResponseWriter, r *http.Request) {
	if h.scheduler == nil {
		h.respondError(w, http.StatusServiceUnavailable, "sweep scheduler not available")
		return
	}
	h.scheduler.Tick(r.Context())
	h.respondJSON(w, http.StatusAccepted, map[string]string{"status": "sweep complete"})
}
