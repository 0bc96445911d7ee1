// Package metrics exposes the framework's /health and /metrics HTTP
// surface, grounded on internal/api/server.go's healthCheck and
// HealthResponse — generalized from the teacher's session/database
// health fields to this framework's connection and route counts, and
// built on the same stdlib net/http + encoding/json the teacher uses
// rather than a metrics client library (see DESIGN.md).
package metrics

import (
	"encoding/json"
	"net/http"
	"time"

	"wsforge/internal/router"
)

// HealthResponse mirrors the teacher's HealthResponse shape, trimmed to
// what this framework actually tracks: no database, since history
// persistence is optional and has no connectivity check of its own.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UptimeSec float64   `json:"uptime_seconds"`
}

// MetricsResponse reports the router's current Stats alongside uptime.
type MetricsResponse struct {
	Timestamp   time.Time     `json:"timestamp"`
	UptimeSec   float64       `json:"uptime_seconds"`
	router.Stats `json:"stats"`
}

// Handler serves /health and /metrics for a single Router.
type Handler struct {
	router    *router.Router
	startedAt time.Time
}

// NewHandler constructs a Handler timestamped at construction, so uptime
// is measured from that moment (the acceptor builds its Handler in
// acceptor.New).
func NewHandler(r *router.Router) *Handler {
	return &Handler{router: r, startedAt: time.Now()}
}

// ServeHealth always reports "healthy": the framework core has no
// external dependency of its own to probe (history stores, if any, are
// caller-supplied and out of scope for this liveness check).
func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		UptimeSec: time.Since(h.startedAt).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// ServeMetrics reports the router's connection and route counts.
func (h *Handler) ServeMetrics(w http.ResponseWriter, r *http.Request) {
	resp := MetricsResponse{
		Timestamp: time.Now(),
		UptimeSec: time.Since(h.startedAt).Seconds(),
		Stats:     h.router.Stats(),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
