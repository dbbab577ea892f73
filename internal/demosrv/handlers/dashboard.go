package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/roadguard/roadguard-go/internal/demosrv/store"
	"github.com/roadguard/roadguard-go/internal/models"
)

const (
	cacheKeyStats   = "dashboard:stats"
	cacheKeyHeatmap = "dashboard:heatmap"
	cacheKeyTrends  = "dashboard:trends"
)

// DashboardHandler serves the official dashboard aggregates, with an
// optional Redis cache in front of the store.
type DashboardHandler struct {
	st     store.Store
	cache  *store.Cache // optional, nil when Redis is not configured
	logger *zap.SugaredLogger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(st store.Store, cache *store.Cache, logger *zap.SugaredLogger) *DashboardHandler {
	return &DashboardHandler{st: st, cache: cache, logger: logger}
}

// Stats handles GET /api/v1/dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var stats models.DashboardStats
	if h.cache != nil && h.cache.GetJSON(r.Context(), cacheKeyStats, &stats) {
		respondJSON(w, http.StatusOK, stats)
		return
	}

	stats, err := h.st.Stats(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to compute stats", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	if h.cache != nil {
		h.cache.SetJSON(r.Context(), cacheKeyStats, stats)
	}
	respondJSON(w, http.StatusOK, stats)
}

// Heatmap handles GET /api/v1/dashboard/heatmap
func (h *DashboardHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	var points []models.HeatmapPoint
	if h.cache != nil && h.cache.GetJSON(r.Context(), cacheKeyHeatmap, &points) {
		respondJSON(w, http.StatusOK, points)
		return
	}

	points, err := h.st.Heatmap(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch heatmap")
		return
	}
	if h.cache != nil {
		h.cache.SetJSON(r.Context(), cacheKeyHeatmap, points)
	}
	respondJSON(w, http.StatusOK, points)
}

// Trends handles GET /api/v1/dashboard/trends
func (h *DashboardHandler) Trends(w http.ResponseWriter, r *http.Request) {
	var trends []models.TrendData
	if h.cache != nil && h.cache.GetJSON(r.Context(), cacheKeyTrends, &trends) {
		respondJSON(w, http.StatusOK, trends)
		return
	}

	trends, err := h.st.Trends(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch trends")
		return
	}
	if h.cache != nil {
		h.cache.SetJSON(r.Context(), cacheKeyTrends, trends)
	}
	respondJSON(w, http.StatusOK, trends)
}
