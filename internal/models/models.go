// Package models defines the data structures exchanged with the RoadGuard
// backend API. Field tags match the wire format (snake_case JSON).
package models

import "time"

// Role distinguishes the two kinds of authenticated users.
type Role string

const (
	RoleCitizen  Role = "citizen"
	RoleOfficial Role = "official"
)

// Status is the lifecycle state of a complaint. Transitions are monotonic:
// Pending -> In Progress -> Resolved. The client never moves a complaint
// backwards; a regression would be an administrative action on the server.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// Severity is the AI-assigned damage severity.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// DamageType is the AI damage classification.
type DamageType string

const (
	DamagePothole DamageType = "Pothole"
	DamageCrack   DamageType = "Crack"
	DamageNone    DamageType = "No Damage"
)

// User is the authenticated identity held by the session context.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Region string `json:"region,omitempty"`
	City   string `json:"city,omitempty"`
}

// AuthResponse is returned by the login and register endpoints.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Role         Role   `json:"role"`
	Name         string `json:"name"`
	UserID       string `json:"user_id"`
	Region       string `json:"region,omitempty"`
}

// RegisterRequest is the payload for citizen self-registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
	City     string `json:"city,omitempty"`
}

// Detection is the result of one AI inference run over a road photo.
// Immutable once produced; a complaint draft is pre-filled from it.
type Detection struct {
	DetectionID       string     `json:"detection_id"`
	DamageType        DamageType `json:"damage_type"`
	Confidence        float64    `json:"confidence"`
	SeverityLevel     Severity   `json:"severity_level"`
	SeverityScore     float64    `json:"severity_score"`
	DamageCount       int        `json:"damage_count"`
	AnnotatedImageURL string     `json:"annotated_image_url,omitempty"`
	Latitude          float64    `json:"latitude,omitempty"`
	Longitude         float64    `json:"longitude,omitempty"`
	Address           string     `json:"address,omitempty"`
}

// Complaint is a persisted road-damage complaint. It keeps a reference to
// the detection it originated from via DetectionID on creation.
type Complaint struct {
	ID                string    `json:"id"`
	ComplaintNumber   string    `json:"complaint_number"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	Status            Status    `json:"status"`
	Priority          string    `json:"priority"`
	Region            string    `json:"region,omitempty"`
	Address           string    `json:"address,omitempty"`
	DamageType        string    `json:"damage_type,omitempty"`
	SeverityLevel     Severity  `json:"severity_level,omitempty"`
	SeverityScore     string    `json:"severity_score,omitempty"`
	Confidence        string    `json:"confidence,omitempty"`
	CitizenID         string    `json:"citizen_id"`
	AssignedOfficerID string    `json:"assigned_officer_id,omitempty"`
	CreatedAt         time.Time `json:"created_at,omitempty"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
	OfficerName       string    `json:"officer_name,omitempty"`
	CitizenName       string    `json:"citizen_name,omitempty"`
}

// ComplaintCreate is the request body for filing a new complaint.
// Numeric detection fields travel as strings, matching the API contract.
type ComplaintCreate struct {
	DetectionID   string `json:"detection_id,omitempty"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Latitude      string `json:"latitude,omitempty"`
	Longitude     string `json:"longitude,omitempty"`
	Address       string `json:"address,omitempty"`
	DamageType    string `json:"damage_type,omitempty"`
	SeverityLevel string `json:"severity_level,omitempty"`
	SeverityScore string `json:"severity_score,omitempty"`
	Confidence    string `json:"confidence,omitempty"`
	Region        string `json:"region,omitempty"`
}

// OfficialResponse is one message in a complaint's response history.
type OfficialResponse struct {
	ID              string    `json:"id"`
	ComplaintID     string    `json:"complaint_id"`
	OfficerID       string    `json:"officer_id"`
	Message         string    `json:"message"`
	StatusChangedTo Status    `json:"status_changed_to,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	OfficerName     string    `json:"officer_name,omitempty"`
}

// Team is a field repair crew visible to officials.
type Team struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	LeadName        string `json:"lead_name"`
	Region          string `json:"region"`
	Status          string `json:"status"` // "Active" | "On Break"
	CurrentLocation string `json:"current_location,omitempty"`
	TasksCount      string `json:"tasks_count,omitempty"`
}

// WorkOrder assigns a complaint to a repair team.
type WorkOrder struct {
	ID              string    `json:"id"`
	ComplaintID     string    `json:"complaint_id"`
	TeamID          string    `json:"team_id"`
	Instructions    string    `json:"instructions,omitempty"`
	Priority        string    `json:"priority"`
	Status          string    `json:"status"`
	IssuedBy        string    `json:"issued_by"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	TeamName        string    `json:"team_name,omitempty"`
	ComplaintNumber string    `json:"complaint_number,omitempty"`
}

// WorkOrderCreate is the request body for issuing a work order.
type WorkOrderCreate struct {
	ComplaintID  string `json:"complaint_id"`
	TeamID       string `json:"team_id"`
	Instructions string `json:"instructions,omitempty"`
	Priority     string `json:"priority"`
}

// DashboardStats are the headline counters on the official dashboard.
type DashboardStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
}

// HeatmapPoint is one area aggregate for the density map.
type HeatmapPoint struct {
	Area           string   `json:"area"`
	ComplaintCount int      `json:"complaint_count"`
	Severity       Severity `json:"severity"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
}

// TrendData is one day's complaint count for the weekly chart.
type TrendData struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}
