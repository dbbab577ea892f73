package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/roadguard/roadguard-go/internal/demo"
	"github.com/roadguard/roadguard-go/internal/models"
)

// Memory is an in-memory Store seeded from the demo dataset.
type Memory struct {
	mu         sync.RWMutex
	users      map[string]User // keyed by normalized email
	usersByID  map[string]User
	detections map[string]models.Detection
	complaints []models.Complaint
	responses  map[string][]models.OfficialResponse // keyed by complaint id
	teams      []models.Team
	workOrders []models.WorkOrder
}

// NewMemory builds a Memory store pre-loaded with the demo directory,
// complaints, teams and work orders. Passwords are bcrypt-hashed at seed
// time so the login path exercises the same comparison as real accounts.
func NewMemory() (*Memory, error) {
	m := &Memory{
		users:      make(map[string]User),
		usersByID:  make(map[string]User),
		detections: make(map[string]models.Detection),
		responses:  make(map[string][]models.OfficialResponse),
		teams:      demo.Teams(),
		workOrders: demo.WorkOrders(),
		complaints: demo.AllComplaints(),
	}

	for email, entry := range demo.Users() {
		hash, err := bcrypt.GenerateFromPassword([]byte(entry.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u := User{
			ID:           entry.UserID,
			Name:         entry.Name,
			Email:        email,
			Role:         entry.Role,
			Region:       entry.Region,
			PasswordHash: hash,
		}
		m.users[email] = u
		m.usersByID[u.ID] = u
	}
	return m, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *Memory) UserByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[normalizeEmail(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) UserByID(_ context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.usersByID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) CreateUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	email := normalizeEmail(u.Email)
	if _, ok := m.users[email]; ok {
		return ErrConflict
	}
	u.Email = email
	m.users[email] = u
	m.usersByID[u.ID] = u
	return nil
}

func (m *Memory) SaveDetection(_ context.Context, d models.Detection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detections[d.DetectionID] = d
	return nil
}

func (m *Memory) Detection(_ context.Context, id string) (models.Detection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.detections[id]
	if !ok {
		return models.Detection{}, ErrNotFound
	}
	return d, nil
}

func (m *Memory) CreateComplaint(_ context.Context, c models.Complaint) (models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.complaints = append(m.complaints, c)
	return c, nil
}

func (m *Memory) Complaint(_ context.Context, id string) (models.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.complaints {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Complaint{}, ErrNotFound
}

func (m *Memory) Complaints(_ context.Context, f ComplaintFilters) ([]models.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Complaint, 0, len(m.complaints))
	for _, c := range m.complaints {
		if !matchesFilters(c, f) {
			continue
		}
		out = append(out, c)
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *Memory) ComplaintsByCitizen(_ context.Context, citizenID string) ([]models.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Complaint
	for _, c := range m.complaints {
		if c.CitizenID == citizenID {
			out = append(out, c)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *Memory) UpdateComplaintStatus(_ context.Context, id string, status models.Status) (models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.complaints {
		if m.complaints[i].ID == id {
			m.complaints[i].Status = status
			return m.complaints[i], nil
		}
	}
	return models.Complaint{}, ErrNotFound
}

func (m *Memory) AddResponse(_ context.Context, r models.OfficialResponse) (models.OfficialResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[r.ComplaintID] = append(m.responses[r.ComplaintID], r)
	return r, nil
}

func (m *Memory) Responses(_ context.Context, complaintID string) ([]models.OfficialResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.OfficialResponse(nil), m.responses[complaintID]...), nil
}

func (m *Memory) Teams(_ context.Context) ([]models.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Team(nil), m.teams...), nil
}

func (m *Memory) Team(_ context.Context, id string) (models.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.teams {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Team{}, ErrNotFound
}

func (m *Memory) WorkOrders(_ context.Context) ([]models.WorkOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.WorkOrder(nil), m.workOrders...), nil
}

func (m *Memory) CreateWorkOrder(_ context.Context, wo models.WorkOrder) (models.WorkOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workOrders = append(m.workOrders, wo)
	return wo, nil
}

// Stats counts live complaints rather than returning canned numbers, so
// new submissions show up on the dashboard immediately.
func (m *Memory) Stats(_ context.Context) (models.DashboardStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var s models.DashboardStats
	for _, c := range m.complaints {
		s.Total++
		switch c.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusResolved:
			s.Resolved++
		}
	}
	return s, nil
}

func (m *Memory) Heatmap(_ context.Context) ([]models.HeatmapPoint, error) {
	return demo.Heatmap(), nil
}

func (m *Memory) Trends(_ context.Context) ([]models.TrendData, error) {
	return demo.Trends(), nil
}

func matchesFilters(c models.Complaint, f ComplaintFilters) bool {
	if f.Severity != "" && !strings.EqualFold(string(c.SeverityLevel), f.Severity) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(string(c.Status), f.Status) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.Title), q) &&
			!strings.Contains(strings.ToLower(c.ComplaintNumber), q) &&
			!strings.Contains(strings.ToLower(c.Address), q) {
			return false
		}
	}
	return true
}

func sortNewestFirst(cs []models.Complaint) {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].CreatedAt.After(cs[j].CreatedAt)
	})
}
