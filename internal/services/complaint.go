package services

import (
	"context"
	"net/url"

	"github.com/roadguard/roadguard-go/internal/demo"
	"github.com/roadguard/roadguard-go/internal/gateway"
	"github.com/roadguard/roadguard-go/internal/models"
	"go.uber.org/zap"
)

// ComplaintService is the façade for complaint CRUD, dashboards and teams.
// List and aggregate reads mask connectivity failures with demo fixtures
// and report the substitution through the usedFallback return. Official
// actions (respond, status update, work-order issue) are never masked.
type ComplaintService struct {
	api    *gateway.Client
	logger *zap.SugaredLogger
}

// NewComplaintService creates a new complaint façade.
func NewComplaintService(api *gateway.Client, logger *zap.SugaredLogger) *ComplaintService {
	return &ComplaintService{api: api, logger: logger}
}

// ListFilters narrows the official complaint list.
type ListFilters struct {
	Severity string
	Status   string
	Search   string
}

// Create files a new complaint. It cannot fail: on any error the placeholder
// confirmation is returned so the wizard always reaches its terminal state.
// The usedFallback return tells the caller whether the complaint was really
// persisted.
func (s *ComplaintService) Create(ctx context.Context, req models.ComplaintCreate) (models.Complaint, bool) {
	var c models.Complaint
	err := s.api.Post(ctx, "/api/v1/complaints", req, &c)
	if err == nil {
		return c, false
	}
	s.logger.Warnw("complaint submission failed, substituting placeholder confirmation",
		"detection_id", req.DetectionID,
		"error", err,
	)
	return demo.SubmittedComplaint(), true
}

// Mine lists the current citizen's complaints.
func (s *ComplaintService) Mine(ctx context.Context) ([]models.Complaint, bool, error) {
	var items []models.Complaint
	err := s.api.Get(ctx, "/api/v1/complaints/mine", nil, &items)
	if err == nil {
		return items, false, nil
	}
	if !gateway.IsConnectivity(err) {
		return nil, false, err
	}
	s.logger.Warnw("backend unreachable, listing demo complaints", "error", err)
	return demo.MyComplaints(), true, nil
}

// All lists every complaint, optionally filtered (official view).
func (s *ComplaintService) All(ctx context.Context, f ListFilters) ([]models.Complaint, bool, error) {
	query := url.Values{}
	if f.Severity != "" {
		query.Set("severity", f.Severity)
	}
	if f.Status != "" {
		query.Set("status", f.Status)
	}
	if f.Search != "" {
		query.Set("search", f.Search)
	}

	var items []models.Complaint
	err := s.api.Get(ctx, "/api/v1/complaints", query, &items)
	if err == nil {
		return items, false, nil
	}
	if !gateway.IsConnectivity(err) {
		return nil, false, err
	}
	s.logger.Warnw("backend unreachable, listing demo complaints", "error", err)
	return demo.AllComplaints(), true, nil
}

// Get fetches one complaint by id. Not masked.
func (s *ComplaintService) Get(ctx context.Context, id string) (models.Complaint, error) {
	var c models.Complaint
	if err := s.api.Get(ctx, "/api/v1/complaints/"+id, nil, &c); err != nil {
		return models.Complaint{}, err
	}
	return c, nil
}

// UpdateStatus moves a complaint forward in its lifecycle. An official
// action: failures surface to the caller.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id string, status models.Status) (models.Complaint, error) {
	var c models.Complaint
	err := s.api.Patch(ctx, "/api/v1/complaints/"+id+"/status", map[string]models.Status{"status": status}, &c)
	if err != nil {
		return models.Complaint{}, err
	}
	return c, nil
}

// Respond sends an official response, optionally changing status. Failures
// surface to the caller; this is never masked.
func (s *ComplaintService) Respond(ctx context.Context, id, message string, statusChangedTo models.Status) (models.OfficialResponse, error) {
	body := map[string]any{"message": message}
	if statusChangedTo != "" {
		body["status_changed_to"] = statusChangedTo
	}
	var r models.OfficialResponse
	if err := s.api.Post(ctx, "/api/v1/complaints/"+id+"/respond", body, &r); err != nil {
		return models.OfficialResponse{}, err
	}
	return r, nil
}

// Responses lists the response history for a complaint. Connectivity
// failures yield an empty history.
func (s *ComplaintService) Responses(ctx context.Context, id string) ([]models.OfficialResponse, error) {
	var items []models.OfficialResponse
	err := s.api.Get(ctx, "/api/v1/complaints/"+id+"/responses", nil, &items)
	if err == nil {
		return items, nil
	}
	if !gateway.IsConnectivity(err) {
		return nil, err
	}
	return nil, nil
}

// Stats fetches dashboard counters.
func (s *ComplaintService) Stats(ctx context.Context) (models.DashboardStats, bool, error) {
	var stats models.DashboardStats
	err := s.api.Get(ctx, "/api/v1/dashboard/stats", nil, &stats)
	if err == nil {
		return stats, false, nil
	}
	if !gateway.IsConnectivity(err) {
		return models.DashboardStats{}, false, err
	}
	return demo.Stats(), true, nil
}

// Heatmap fetches complaint density points.
func (s *ComplaintService) Heatmap(ctx context.Context) ([]models.HeatmapPoint, bool, error) {
	var points []models.HeatmapPoint
	err := s.api.Get(ctx, "/api/v1/dashboard/heatmap", nil, &points)
	if err == nil {
		return points, false, nil
	}
	if !gateway.IsConnectivity(err) {
		return nil, false, err
	}
	return demo.Heatmap(), true, nil
}

// Trends fetches the weekly complaint trend.
func (s *ComplaintService) Trends(ctx context.Context) ([]models.TrendData, bool, error) {
	var trends []models.TrendData
	err := s.api.Get(ctx, "/api/v1/dashboard/trends", nil, &trends)
	if err == nil {
		return trends, false, nil
	}
	if !gateway.IsConnectivity(err) {
		return nil, false, err
	}
	return demo.Trends(), true, nil
}

// Teams lists field repair teams.
func (s *ComplaintService) Teams(ctx context.Context) ([]models.Team, bool, error) {
	var teams []models.Team
	err := s.api.Get(ctx, "/api/v1/teams", nil, &teams)
	if err == nil {
		return teams, false, nil
	}
	if !gateway.IsConnectivity(err) {
		return nil, false, err
	}
	return demo.Teams(), true, nil
}

// WorkOrders lists issued work orders.
func (s *ComplaintService) WorkOrders(ctx context.Context) ([]models.WorkOrder, bool, error) {
	var orders []models.WorkOrder
	err := s.api.Get(ctx, "/api/v1/teams/work-orders", nil, &orders)
	if err == nil {
		return orders, false, nil
	}
	if !gateway.IsConnectivity(err) {
		return nil, false, err
	}
	return demo.WorkOrders(), true, nil
}

// IssueWorkOrder assigns a complaint to a team. An official action:
// failures surface to the caller.
func (s *ComplaintService) IssueWorkOrder(ctx context.Context, req models.WorkOrderCreate) (models.WorkOrder, error) {
	var wo models.WorkOrder
	if err := s.api.Post(ctx, "/api/v1/teams/work-orders", req, &wo); err != nil {
		return models.WorkOrder{}, err
	}
	return wo, nil
}
