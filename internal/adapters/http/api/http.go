// Package api exposes the operational HTTP surface of a running engine:
// liveness, snapshot statistics and Prometheus metrics.
package api

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/rigscore/pkg/metrics"
)

// StatsProvider reports the state of the loaded snapshot.
type StatsProvider interface {
	// Ready reports whether a scored snapshot is being served.
	Ready() bool
	// Stats returns a JSON-encodable view of the engine state.
	Stats() any
}

// Server wires the operational HTTP routes.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	metrics       http.Handler
}

// NewServer creates a new API server with all handlers.
func NewServer(provider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(provider),
		statsHandler:  NewStatsHandler(provider),
		metrics:       promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.Handle("/metrics", s.metrics)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorResponse{Code: code, Message: http.StatusText(status)})
}
