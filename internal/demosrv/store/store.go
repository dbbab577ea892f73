// Package store persists demo backend state. The in-memory implementation
// seeds itself from the shared demo dataset so a freshly started server
// serves the same world the client falls back to offline. An optional
// Postgres implementation persists complaints across restarts.
package store

import (
	"context"
	"errors"

	"github.com/roadguard/roadguard-go/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique constraint would be violated,
// e.g. registering an email that already exists.
var ErrConflict = errors.New("already exists")

// User is an account row. PasswordHash is a bcrypt hash, never the
// plaintext password.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         models.Role
	Region       string
	City         string
	Phone        string
	PasswordHash []byte
}

// ComplaintFilters narrows the official complaint listing.
type ComplaintFilters struct {
	Severity string
	Status   string
	Search   string
}

// Store is the persistence boundary of the demo backend.
type Store interface {
	UserByEmail(ctx context.Context, email string) (User, error)
	UserByID(ctx context.Context, id string) (User, error)
	CreateUser(ctx context.Context, u User) error

	SaveDetection(ctx context.Context, d models.Detection) error
	Detection(ctx context.Context, id string) (models.Detection, error)

	CreateComplaint(ctx context.Context, c models.Complaint) (models.Complaint, error)
	Complaint(ctx context.Context, id string) (models.Complaint, error)
	Complaints(ctx context.Context, f ComplaintFilters) ([]models.Complaint, error)
	ComplaintsByCitizen(ctx context.Context, citizenID string) ([]models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id string, status models.Status) (models.Complaint, error)

	AddResponse(ctx context.Context, r models.OfficialResponse) (models.OfficialResponse, error)
	Responses(ctx context.Context, complaintID string) ([]models.OfficialResponse, error)

	Teams(ctx context.Context) ([]models.Team, error)
	Team(ctx context.Context, id string) (models.Team, error)
	WorkOrders(ctx context.Context) ([]models.WorkOrder, error)
	CreateWorkOrder(ctx context.Context, wo models.WorkOrder) (models.WorkOrder, error)

	Stats(ctx context.Context) (models.DashboardStats, error)
	Heatmap(ctx context.Context) ([]models.HeatmapPoint, error)
	Trends(ctx context.Context) ([]models.TrendData, error)
}
