// Package demo centralizes the demonstration data substituted by the
// service façades when the backend is unreachable. Keeping every fixture in
// one place guarantees cross-call consistency: the officer named on a demo
// complaint exists in the demo user directory, the teams referenced by demo
// work orders exist in the demo team list, and so on.
package demo

import (
	"fmt"
	"time"

	"github.com/roadguard/roadguard-go/internal/models"
)

// Tokens issued by any demo-mode login or registration.
const (
	AccessToken  = "demo-token"
	RefreshToken = "demo-refresh"
)

// PlaceholderComplaintNumber is used when complaint submission falls back.
const PlaceholderComplaintNumber = "RG-2406"

// DefaultOfficer is the officer assigned to demo complaints in Kukatpally.
const DefaultOfficer = "Officer Ravi Kumar"

// UserEntry is one seeded identity in the offline login directory.
type UserEntry struct {
	UserID   string
	Password string
	Name     string
	Role     models.Role
	Region   string
}

// Users returns the demo login directory keyed by normalized email
// (lower-cased, trimmed). A demo login succeeds only when both the email
// and the password match an entry exactly.
func Users() map[string]UserEntry {
	return map[string]UserEntry{
		"prasanna@test.com": {
			UserID: "demo-c1", Password: "Test@123",
			Name: "Prasanna Kumar", Role: models.RoleCitizen,
		},
		"ravi@telangana.gov.in": {
			UserID: "demo-o1", Password: "Official@123",
			Name: DefaultOfficer, Role: models.RoleOfficial, Region: "Kukatpally",
		},
		"sunita@telangana.gov.in": {
			UserID: "demo-o2", Password: "Official@123",
			Name: "Officer Sunita Rao", Role: models.RoleOfficial, Region: "Mehdipatnam",
		},
		"priya@telangana.gov.in": {
			UserID: "demo-o3", Password: "Official@123",
			Name: "Officer Priya Sharma", Role: models.RoleOfficial, Region: "Gachibowli",
		},
	}
}

// Detection returns the deterministic fallback inference result used when
// the AI backend cannot be reached. Only the id varies between runs.
func Detection() models.Detection {
	return models.Detection{
		DetectionID:   fmt.Sprintf("demo-%d", time.Now().UnixMilli()),
		DamageType:    models.DamagePothole,
		Confidence:    94.2,
		SeverityLevel: models.SeverityHigh,
		SeverityScore: 32.4,
		DamageCount:   3,
		Latitude:      17.4947,
		Longitude:     78.3996,
		Address:       "Kukatpally, Hyderabad",
	}
}

// SubmittedComplaint is the placeholder confirmation shown when complaint
// submission falls back to demo mode.
func SubmittedComplaint() models.Complaint {
	return models.Complaint{
		ID:              "demo",
		ComplaintNumber: PlaceholderComplaintNumber,
		Title:           "Demo",
		Status:          models.StatusPending,
		Priority:        "HIGH",
		CitizenID:       "demo-c1",
		OfficerName:     DefaultOfficer,
	}
}

// MyComplaints is the citizen's demo complaint list.
func MyComplaints() []models.Complaint {
	return []models.Complaint{
		{
			ID: "1", ComplaintNumber: "RG-2401", Title: "Pothole at Kukatpally",
			Status: models.StatusPending, Priority: "HIGH", SeverityLevel: models.SeverityHigh,
			Address: "Kukatpally, Hyderabad", OfficerName: DefaultOfficer,
			CitizenID: "demo-c1", Description: "Large pothole near KPHB Phase 6.",
		},
		{
			ID: "2", ComplaintNumber: "RG-2402", Title: "Crack at Mehdipatnam",
			Status: models.StatusInProgress, Priority: "MEDIUM", SeverityLevel: models.SeverityMedium,
			Address: "Mehdipatnam, Hyderabad", OfficerName: "Officer Sunita Rao",
			CitizenID: "demo-c1", Description: "Multiple cracks along main road.",
		},
		{
			ID: "3", ComplaintNumber: "RG-2404", Title: "Surface Crack Kukatpally",
			Status: models.StatusResolved, Priority: "LOW", SeverityLevel: models.SeverityLow,
			Address: "Kukatpally, Hyderabad", OfficerName: DefaultOfficer,
			CitizenID: "demo-c1", Description: "Minor surface cracks.",
		},
	}
}

// AllComplaints is the official's demo complaint list.
func AllComplaints() []models.Complaint {
	now := time.Now()
	return []models.Complaint{
		{
			ID: "1", ComplaintNumber: "RG-2401", Title: "Pothole at Kukatpally",
			Status: models.StatusPending, Priority: "HIGH", SeverityLevel: models.SeverityHigh,
			DamageType: string(models.DamagePothole), Address: "KPHB Phase 6, Kukatpally",
			CitizenID: "demo-c1", CitizenName: "Prasanna Kumar", OfficerName: DefaultOfficer,
			CreatedAt: now, Description: "Large pothole near bus stop.",
		},
		{
			ID: "2", ComplaintNumber: "RG-2402", Title: "Crack at Mehdipatnam",
			Status: models.StatusInProgress, Priority: "MEDIUM", SeverityLevel: models.SeverityMedium,
			DamageType: string(models.DamageCrack), Address: "Mehdipatnam Circle",
			CitizenID: "demo-c1", CitizenName: "Prasanna Kumar", OfficerName: "Officer Sunita Rao",
			CreatedAt: now, Description: "Multiple cracks visible.",
		},
		{
			ID: "3", ComplaintNumber: "RG-2405", Title: "Potholes after rain",
			Status: models.StatusInProgress, Priority: "MEDIUM", SeverityLevel: models.SeverityMedium,
			DamageType: string(models.DamagePothole), Address: "Mehdipatnam Flyover",
			CitizenID: "demo-c1", CitizenName: "Prasanna Kumar", OfficerName: "Officer Sunita Rao",
			CreatedAt: now, Description: "Cluster of potholes.",
		},
	}
}

// Stats are the demo dashboard counters.
func Stats() models.DashboardStats {
	return models.DashboardStats{Total: 18, Pending: 7, InProgress: 6, Resolved: 5}
}

// Trends is the demo weekly complaint trend.
func Trends() []models.TrendData {
	return []models.TrendData{
		{Day: "Mon", Count: 3}, {Day: "Tue", Count: 5}, {Day: "Wed", Count: 2},
		{Day: "Thu", Count: 7}, {Day: "Fri", Count: 4}, {Day: "Sat", Count: 6},
		{Day: "Sun", Count: 1},
	}
}

// Heatmap is the demo complaint density map.
func Heatmap() []models.HeatmapPoint {
	return []models.HeatmapPoint{
		{Area: "Kukatpally", ComplaintCount: 8, Severity: models.SeverityHigh, Latitude: 17.4947, Longitude: 78.3996},
		{Area: "Mehdipatnam", ComplaintCount: 5, Severity: models.SeverityMedium, Latitude: 17.3945, Longitude: 78.4440},
		{Area: "Gachibowli", ComplaintCount: 3, Severity: models.SeverityHigh, Latitude: 17.4401, Longitude: 78.3489},
		{Area: "Begumpet", ComplaintCount: 2, Severity: models.SeverityLow, Latitude: 17.4441, Longitude: 78.4646},
	}
}

// Teams is the demo field-team roster for the Kukatpally region.
func Teams() []models.Team {
	return []models.Team{
		{ID: "t1", Name: "Team Alpha", LeadName: "Suresh M.", Region: "Kukatpally", Status: "Active", CurrentLocation: "KPHB Phase 1", TasksCount: "3"},
		{ID: "t2", Name: "Team Beta", LeadName: "Kavitha R.", Region: "Kukatpally", Status: "Active", CurrentLocation: "Kukatpally Main Road", TasksCount: "2"},
		{ID: "t3", Name: "Team Gamma", LeadName: "Raju K.", Region: "Kukatpally", Status: "On Break", CurrentLocation: "Kukatpally Depot", TasksCount: "1"},
	}
}

// WorkOrders is the demo work-order backlog. Entries reference complaints
// from AllComplaints and teams from Teams.
func WorkOrders() []models.WorkOrder {
	return []models.WorkOrder{
		{
			ID: "wo1", ComplaintID: "1", ComplaintNumber: "RG-2401",
			TeamID: "t1", TeamName: "Team Alpha",
			Instructions: "Patch pothole near bus stop, cone off lane first.",
			Priority:     "HIGH", Status: "Issued", IssuedBy: "demo-o1",
			CreatedAt: time.Now(),
		},
	}
}
