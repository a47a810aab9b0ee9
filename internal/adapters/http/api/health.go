package api

import (
	"net/http"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	provider StatsProvider
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(provider StatsProvider) *HealthHandler {
	return &HealthHandler{provider: provider}
}

type healthResponse struct {
	Status string `json:"status"`
}

// HandleHealth handles GET /healthz. It answers 503 until the first
// snapshot has been scored.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
		return
	}
	if !h.provider.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "loading"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
