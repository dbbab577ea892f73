// Package track derives progress presentation for complaint lists and
// loads the citizen's complaints lazily through the façade.
package track

import (
	"context"
	"sync"

	"github.com/roadguard/roadguard-go/internal/models"
	"github.com/roadguard/roadguard-go/internal/services"
	"go.uber.org/zap"
)

// ProgressPercent maps a complaint status to its progress bar fill.
func ProgressPercent(s models.Status) int {
	switch s {
	case models.StatusPending:
		return 20
	case models.StatusInProgress:
		return 65
	case models.StatusResolved:
		return 100
	default:
		return 0
	}
}

// timeline is the fixed five-stage lifecycle shown under each complaint.
var timeline = [...]string{"Submitted", "Under Review", "Team Assigned", "In Progress", "Resolved"}

// Stage is one timeline entry with its completion flag.
type Stage struct {
	Name string
	Done bool
}

// Timeline returns the five lifecycle stages for a status. A stage is done
// when its position within the timeline is at or below the status's
// progress percentage.
func Timeline(s models.Status) []Stage {
	pct := ProgressPercent(s)
	stages := make([]Stage, len(timeline))
	for i, name := range timeline {
		stages[i] = Stage{
			Name: name,
			Done: i*100/(len(timeline)-1) <= pct,
		}
	}
	return stages
}

// Viewer lazily loads the citizen's complaint list. Nothing is fetched
// until the first Load call; afterwards the result is cached for the view.
type Viewer struct {
	complaints *services.ComplaintService
	logger     *zap.SugaredLogger

	mu           sync.Mutex
	loaded       bool
	items        []models.Complaint
	usedFallback bool
}

// NewViewer creates a tracking view over the complaint façade.
func NewViewer(complaints *services.ComplaintService, logger *zap.SugaredLogger) *Viewer {
	return &Viewer{complaints: complaints, logger: logger}
}

// Load fetches the complaint list on first use and returns the cached list
// afterwards. The bool reports whether the data is demo fallback.
func (v *Viewer) Load(ctx context.Context) ([]models.Complaint, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loaded {
		return v.items, v.usedFallback, nil
	}

	items, usedFallback, err := v.complaints.Mine(ctx)
	if err != nil {
		return nil, false, err
	}
	v.items = items
	v.usedFallback = usedFallback
	v.loaded = true
	v.logger.Infow("complaints loaded", "count", len(items), "fallback", usedFallback)
	return items, usedFallback, nil
}

// Refresh drops the cache so the next Load refetches.
func (v *Viewer) Refresh() {
	v.mu.Lock()
	v.loaded = false
	v.items = nil
	v.usedFallback = false
	v.mu.Unlock()
}
