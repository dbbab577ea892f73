package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

var startTime = time.Now()

const version = "1.3.0"

// Pinger reports backing-store connectivity. The in-memory store has no
// external dependency and passes nil.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime,omitempty"`
	Database string `json:"database,omitempty"`
}

// HealthHandler provides health check endpoints
type HealthHandler struct {
	db     Pinger
	logger *zap.SugaredLogger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, logger *zap.SugaredLogger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Check handles GET /api/v1/health (liveness probe)
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthStatus{
		Status:  "ok",
		Version: version,
		Uptime:  time.Since(startTime).String(),
	})
}

// Ready handles GET /api/v1/health/ready (readiness probe)
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, healthStatus{
				Status:   "not ready",
				Version:  version,
				Database: "disconnected",
			})
			return
		}
		respondJSON(w, http.StatusOK, healthStatus{
			Status:   "ready",
			Version:  version,
			Uptime:   time.Since(startTime).String(),
			Database: "connected",
		})
		return
	}

	respondJSON(w, http.StatusOK, healthStatus{
		Status:  "ready",
		Version: version,
		Uptime:  time.Since(startTime).String(),
	})
}
