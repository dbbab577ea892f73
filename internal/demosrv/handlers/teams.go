package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roadguard/roadguard-go/internal/demosrv/authn"
	"github.com/roadguard/roadguard-go/internal/demosrv/store"
	"github.com/roadguard/roadguard-go/internal/models"
)

// TeamHandler handles the field-team roster and work orders.
type TeamHandler struct {
	st     store.Store
	logger *zap.SugaredLogger
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(st store.Store, logger *zap.SugaredLogger) *TeamHandler {
	return &TeamHandler{st: st, logger: logger}
}

// List handles GET /api/v1/teams
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.st.Teams(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch teams")
		return
	}
	respondJSON(w, http.StatusOK, teams)
}

// WorkOrders handles GET /api/v1/teams/work-orders
func (h *TeamHandler) WorkOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.st.WorkOrders(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch work orders")
		return
	}
	if orders == nil {
		orders = []models.WorkOrder{}
	}
	respondJSON(w, http.StatusOK, orders)
}

// IssueWorkOrder handles POST /api/v1/teams/work-orders. The referenced
// team and complaint must exist; the order is denormalized with their
// display fields so list views need no joins.
func (h *TeamHandler) IssueWorkOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := authn.FromContext(r.Context())

	var req models.WorkOrderCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ComplaintID == "" || req.TeamID == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: complaint_id, team_id")
		return
	}

	team, err := h.st.Team(r.Context(), req.TeamID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Team not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch team")
		return
	}
	complaint, err := h.st.Complaint(r.Context(), req.ComplaintID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Complaint not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch complaint")
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = complaint.Priority
	}

	wo := models.WorkOrder{
		ID:              uuid.NewString(),
		ComplaintID:     complaint.ID,
		ComplaintNumber: complaint.ComplaintNumber,
		TeamID:          team.ID,
		TeamName:        team.Name,
		Instructions:    req.Instructions,
		Priority:        priority,
		Status:          "Issued",
		IssuedBy:        claims.Subject,
		CreatedAt:       time.Now(),
	}
	created, err := h.st.CreateWorkOrder(r.Context(), wo)
	if err != nil {
		h.logger.Errorw("Failed to create work order", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to issue work order")
		return
	}

	h.logger.Infow("Work order issued",
		"work_order_id", created.ID,
		"complaint_number", created.ComplaintNumber,
		"team", created.TeamName,
	)
	respondJSON(w, http.StatusCreated, created)
}
