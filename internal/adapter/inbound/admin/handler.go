// Package admin provides the HTTP admin API: settings management, manual
// enforcement/sweep triggers, the current policy snapshot and the metrics
// endpoint.
package admin

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paranoialabs/paranoia/internal/service"
)

// tokenHeader carries the admin token on every API request.
const tokenHeader = "X-Admin-Token"

// Handler serves the admin API routes.
type Handler struct {
	settings    *service.SettingsStore
	enforcement *service.EnforcementService
	scheduler   *service.Scheduler
	credentials *service.CredentialService
	token       string
	logger      *slog.Logger
}

// NewHandler creates the admin API handler. An empty token disables every
// route except /metrics.
func NewHandler(settings *service.SettingsStore, enforcement *service.EnforcementService, scheduler *service.Scheduler, credentials *service.CredentialService, token string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		settings:    settings,
		enforcement: enforcement,
		scheduler:   scheduler,
		credentials: credentials,
		token:       token,
		logger:      logger.With("channel", "paranoia"),
	}
}

// Routes returns an http.Handler with all admin routes.
func (h *Handler) Routes(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /admin/api/settings", h.requireAuth(h.getSettings))
	mux.HandleFunc("PUT /admin/api/settings", h.requireAuth(h.updateSettings))
	mux.HandleFunc("GET /admin/api/policy", h.requireAuth(h.getPolicy))
	mux.HandleFunc("POST /admin/api/enforce", h.requireAuth(h.triggerEnforce))
	mux.HandleFunc("POST /admin/api/sweep", h.requireAuth(h.triggerSweep))
	mux.HandleFunc("POST /admin/api/accounts/{uid}/password", h.requireAuth(h.changePassword))

	return mux
}

// isLocalhost checks if the request originates from a loopback address.
// X-Forwarded-For is intentionally not trusted.
func isLocalhost(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return host == "127.0.0.1" || host == "::1" || host == "localhost"
}

// requireAuth enforces localhost origin plus the admin token. An empty
// configured token disables the admin API outright.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.token == "" {
			h.respondError(w, http.StatusForbidden, "admin API is disabled")
			return
		}
		if !isLocalhost(r) {
			h.respondError(w, http.StatusForbidden, "admin API requires localhost access")
			return
		}
		got := r.Header.Get(tokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
			h.respondError(w, http.StatusUnauthorized, "invalid admin token")
			return
		}
		next(w, r)
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
