package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roadguard/roadguard-go/internal/demo"
	"github.com/roadguard/roadguard-go/internal/demosrv/authn"
	"github.com/roadguard/roadguard-go/internal/demosrv/ids"
	"github.com/roadguard/roadguard-go/internal/demosrv/store"
	"github.com/roadguard/roadguard-go/internal/models"
)

// statusRank orders the complaint lifecycle. Status only moves forward.
var statusRank = map[models.Status]int{
	models.StatusPending:    0,
	models.StatusInProgress: 1,
	models.StatusResolved:   2,
}

// ComplaintHandler handles complaint-related HTTP endpoints
type ComplaintHandler struct {
	st     store.Store
	cache  *store.Cache // optional, nil when Redis is not configured
	logger *zap.SugaredLogger
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(st store.Store, cache *store.Cache, logger *zap.SugaredLogger) *ComplaintHandler {
	return &ComplaintHandler{st: st, cache: cache, logger: logger}
}

// Create handles POST /api/v1/complaints
func (h *ComplaintHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, _ := authn.FromContext(r.Context())

	var req models.ComplaintCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}

	citizenName := ""
	if user, err := h.st.UserByID(r.Context(), claims.Subject); err == nil {
		citizenName = user.Name
	}

	c := models.Complaint{
		ID:              uuid.NewString(),
		ComplaintNumber: ids.ComplaintNumber(),
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Status:          models.StatusPending,
		Priority:        priorityFor(models.Severity(req.SeverityLevel)),
		Region:          req.Region,
		Address:         req.Address,
		DamageType:      req.DamageType,
		SeverityLevel:   models.Severity(req.SeverityLevel),
		SeverityScore:   req.SeverityScore,
		Confidence:      req.Confidence,
		CitizenID:       claims.Subject,
		CitizenName:     citizenName,
		OfficerName:     officerForRegion(req.Region),
		CreatedAt:       time.Now(),
	}

	created, err := h.st.CreateComplaint(r.Context(), c)
	if err != nil {
		h.logger.Errorw("Failed to create complaint", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to submit complaint")
		return
	}
	h.invalidateDashboard(r)

	h.logger.Infow("Complaint submitted",
		"id", created.ID,
		"complaint_number", created.ComplaintNumber,
		"severity", created.SeverityLevel,
	)
	respondJSON(w, http.StatusCreated, created)
}

// Mine handles GET /api/v1/complaints/mine
func (h *ComplaintHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims, _ := authn.FromContext(r.Context())
	items, err := h.st.ComplaintsByCitizen(r.Context(), claims.Subject)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch complaints")
		return
	}
	if items == nil {
		items = []models.Complaint{}
	}
	respondJSON(w, http.StatusOK, items)
}

// List handles GET /api/v1/complaints (officials only)
func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	f := store.ComplaintFilters{
		Severity: r.URL.Query().Get("severity"),
		Status:   r.URL.Query().Get("status"),
		Search:   r.URL.Query().Get("search"),
	}
	items, err := h.st.Complaints(r.Context(), f)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch complaints")
		return
	}
	if items == nil {
		items = []models.Complaint{}
	}
	respondJSON(w, http.StatusOK, items)
}

// Get handles GET /api/v1/complaints/{id}
func (h *ComplaintHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.st.Complaint(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Complaint not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch complaint")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// UpdateStatus handles PATCH /api/v1/complaints/{id}/status
func (h *ComplaintHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, ok := statusRank[req.Status]; !ok {
		respondError(w, http.StatusBadRequest, "Unknown status")
		return
	}

	id := chi.URLParam(r, "id")
	current, err := h.st.Complaint(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Complaint not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch complaint")
		return
	}
	if statusRank[req.Status] < statusRank[current.Status] {
		respondError(w, http.StatusUnprocessableEntity, "Status cannot move backwards")
		return
	}

	updated, err := h.st.UpdateComplaintStatus(r.Context(), id, req.Status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}
	h.invalidateDashboard(r)

	h.logger.Infow("Complaint status updated", "id", id, "status", req.Status)
	respondJSON(w, http.StatusOK, updated)
}

// Respond handles POST /api/v1/complaints/{id}/respond (officials only).
// An official response may carry a status change, applied atomically with
// the message from the citizen's point of view.
func (h *ComplaintHandler) Respond(w http.ResponseWriter, r *http.Request) {
	claims, _ := authn.FromContext(r.Context())

	var req struct {
		Message         string        `json:"message"`
		StatusChangedTo models.Status `json:"status_changed_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "Message is required")
		return
	}

	id := chi.URLParam(r, "id")
	current, err := h.st.Complaint(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Complaint not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch complaint")
		return
	}

	if req.StatusChangedTo != "" {
		if _, ok := statusRank[req.StatusChangedTo]; !ok {
			respondError(w, http.StatusBadRequest, "Unknown status")
			return
		}
		if statusRank[req.StatusChangedTo] < statusRank[current.Status] {
			respondError(w, http.StatusUnprocessableEntity, "Status cannot move backwards")
			return
		}
		if _, err := h.st.UpdateComplaintStatus(r.Context(), id, req.StatusChangedTo); err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to update status")
			return
		}
		h.invalidateDashboard(r)
	}

	officerName := ""
	if user, err := h.st.UserByID(r.Context(), claims.Subject); err == nil {
		officerName = user.Name
	}

	resp := models.OfficialResponse{
		ID:              uuid.NewString(),
		ComplaintID:     id,
		OfficerID:       claims.Subject,
		OfficerName:     officerName,
		Message:         strings.TrimSpace(req.Message),
		StatusChangedTo: req.StatusChangedTo,
		CreatedAt:       time.Now(),
	}
	created, err := h.st.AddResponse(r.Context(), resp)
	if err != nil {
		h.logger.Errorw("Failed to record response", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to record response")
		return
	}

	h.logger.Infow("Official responded", "complaint_id", id, "officer_id", claims.Subject)
	respondJSON(w, http.StatusCreated, created)
}

// Responses handles GET /api/v1/complaints/{id}/responses
func (h *ComplaintHandler) Responses(w http.ResponseWriter, r *http.Request) {
	items, err := h.st.Responses(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch responses")
		return
	}
	if items == nil {
		items = []models.OfficialResponse{}
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *ComplaintHandler) invalidateDashboard(r *http.Request) {
	if h.cache != nil {
		h.cache.Invalidate(r.Context(), cacheKeyStats, cacheKeyHeatmap, cacheKeyTrends)
	}
}

func priorityFor(severity models.Severity) string {
	switch severity {
	case models.SeverityHigh:
		return "HIGH"
	case models.SeverityMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// officerForRegion assigns the official responsible for a region, falling
// back to the default officer when no regional match exists.
func officerForRegion(region string) string {
	for _, entry := range demo.Users() {
		if entry.Role == models.RoleOfficial && strings.EqualFold(entry.Region, region) {
			return entry.Name
		}
	}
	return demo.DefaultOfficer
}
