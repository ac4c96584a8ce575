// Package api provides HTTP handlers for the decoy API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/decoynet/decoy/internal/engine"
	"github.com/decoynet/decoy/internal/report"
	"github.com/decoynet/decoy/internal/voice"
)

// Handler provides common handler utilities and dependencies.
type Handler struct {
	engine  *engine.Engine
	archive report.Repository
	voice   *voice.Detector
}

// NewHandler creates a new Handler. archive may be nil.
func NewHandler(eng *engine.Engine, archive report.Repository, detector *voice.Detector) *Handler {
	return &Handler{engine: eng, archive: archive, voice: detector}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Root reports service identity for probes hitting /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"service": "decoy",
		"status":  "operational",
		"endpoints": map[string]string{
			"honeypot": "/honeypot (POST)",
			"voice":    "/voice/detect (POST)",
			"health":   "/health (GET)",
			"feed":     "/ws/feed (GET)",
		},
	})
}

// Health reports liveness, including archive connectivity when configured.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if h.archive != nil {
		if err := h.archive.Ping(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	JSON(w, code, map[string]string{"status": status, "service": "decoy"})
}
