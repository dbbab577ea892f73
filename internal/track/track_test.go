package track

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/roadguard/roadguard-go/internal/gateway"
	"github.com/roadguard/roadguard-go/internal/models"
	"github.com/roadguard/roadguard-go/internal/services"
	"github.com/roadguard/roadguard-go/internal/token"
	"go.uber.org/zap"
)

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		status models.Status
		want   int
	}{
		{models.StatusPending, 20},
		{models.StatusInProgress, 65},
		{models.StatusResolved, 100},
		{models.Status("Unknown"), 0},
	}
	for _, tt := range tests {
		if got := ProgressPercent(tt.status); got != tt.want {
			t.Errorf("ProgressPercent(%q) = %d, want %d", tt.status, got, tt.want)
		}
	}
}

func TestTimelineDoneFlags(t *testing.T) {
	tests := []struct {
		status   models.Status
		wantDone int
	}{
		{models.StatusPending, 1},    // only "Submitted" at 0%
		{models.StatusInProgress, 3}, // 0%, 25%, 50% stages
		{models.StatusResolved, 5},   // everything
	}
	for _, tt := range tests {
		stages := Timeline(tt.status)
		if len(stages) != 5 {
			t.Fatalf("expected five stages, got %d", len(stages))
		}
		done := 0
		for _, s := range stages {
			if s.Done {
				done++
			}
		}
		if done != tt.wantDone {
			t.Errorf("Timeline(%q): %d done stages, want %d", tt.status, done, tt.wantDone)
		}
	}
}

func TestViewerIsLazyAndCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[{"id":"1","complaint_number":"RG-9001","title":"t","status":"Pending","priority":"LOW","citizen_id":"c1"}]`))
	}))
	defer srv.Close()

	logger := zap.NewNop().Sugar()
	api := gateway.NewClient(srv.URL, token.NewStore(), 5*time.Second, logger)
	v := NewViewer(services.NewComplaintService(api, logger), logger)

	if calls.Load() != 0 {
		t.Fatal("viewer must not fetch before first Load")
	}

	items, usedFallback, err := v.Load(context.Background())
	if err != nil || usedFallback || len(items) != 1 {
		t.Fatalf("unexpected load result: %v %v %d", err, usedFallback, len(items))
	}
	if _, _, err := v.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one fetch for two loads, got %d", calls.Load())
	}

	v.Refresh()
	if _, _, err := v.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected refetch after Refresh, got %d calls", calls.Load())
	}
}

func TestViewerFallsBackOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	logger := zap.NewNop().Sugar()
	api := gateway.NewClient(url, token.NewStore(), 2*time.Second, logger)
	v := NewViewer(services.NewComplaintService(api, logger), logger)

	items, usedFallback, err := v.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !usedFallback || len(items) == 0 {
		t.Fatalf("expected demo fallback list, got fb=%v n=%d", usedFallback, len(items))
	}
}
