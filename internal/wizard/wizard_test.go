package wizard

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/roadguard/roadguard-go/internal/clock"
	"github.com/roadguard/roadguard-go/internal/demo"
	"github.com/roadguard/roadguard-go/internal/models"
	"github.com/roadguard/roadguard-go/internal/services"
	"go.uber.org/zap"
)

// instantDetector resolves inference immediately.
type instantDetector struct {
	res *services.DetectionResult
}

func (d instantDetector) Predict(ctx context.Context, filename string, file io.Reader) *services.DetectionResult {
	return d.res
}

// blockingDetector parks every call on its own channel until the test
// releases it. It deliberately ignores cancellation so tests can deliver a
// late result from an abandoned run.
type blockingDetector struct {
	mu    sync.Mutex
	calls []chan *services.DetectionResult
}

func (d *blockingDetector) Predict(ctx context.Context, filename string, file io.Reader) *services.DetectionResult {
	ch := make(chan *services.DetectionResult, 1)
	d.mu.Lock()
	d.calls = append(d.calls, ch)
	d.mu.Unlock()
	return <-ch
}

func (d *blockingDetector) release(i int, res *services.DetectionResult) {
	d.mu.Lock()
	ch := d.calls[i]
	d.mu.Unlock()
	ch <- res
}

func (d *blockingDetector) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

// recordingFiler returns a fixed confirmation and records the last draft.
type recordingFiler struct {
	mu   sync.Mutex
	last models.ComplaintCreate
	c    models.Complaint
	fb   bool
}

func (f *recordingFiler) Create(ctx context.Context, req models.ComplaintCreate) (models.Complaint, bool) {
	f.mu.Lock()
	f.last = req
	f.mu.Unlock()
	return f.c, f.fb
}

func (f *recordingFiler) lastDraft() models.ComplaintCreate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// blockingFiler parks submissions until released.
type blockingFiler struct {
	mu    sync.Mutex
	calls []chan models.Complaint
}

func (f *blockingFiler) Create(ctx context.Context, req models.ComplaintCreate) (models.Complaint, bool) {
	ch := make(chan models.Complaint, 1)
	f.mu.Lock()
	f.calls = append(f.calls, ch)
	f.mu.Unlock()
	return <-ch, true
}

func (f *blockingFiler) release(i int, c models.Complaint) {
	deadline := time.Now().Add(2 * time.Second)
	for {
		f.mu.Lock()
		if i < len(f.calls) {
			ch := f.calls[i]
			f.mu.Unlock()
			ch <- c
			return
		}
		f.mu.Unlock()
		if !time.Now().Before(deadline) {
			panic("timed out waiting for filer call")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func fallbackResult() *services.DetectionResult {
	return &services.DetectionResult{Detection: demo.Detection(), UsedFallback: true}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestWizard(det Detector, filer Filer) (*Wizard, *clock.Fake) {
	fc := clock.NewFake(time.Unix(0, 0))
	if filer == nil {
		filer = &recordingFiler{c: demo.SubmittedComplaint(), fb: true}
	}
	return New(det, filer, fc, zap.NewNop().Sugar()), fc
}

func TestNonImageFileRefused(t *testing.T) {
	w, _ := newTestWizard(instantDetector{res: fallbackResult()}, nil)

	if w.Upload("notes.txt", "text/plain", []byte("hello")) {
		t.Fatal("non-image upload must be refused")
	}
	if got := w.Snapshot().Stage; got != StageUpload {
		t.Fatalf("refused upload must not change stage, got %v", got)
	}
}

func TestScanPhasesAdvanceOnSchedule(t *testing.T) {
	w, fc := newTestWizard(instantDetector{res: fallbackResult()}, nil)

	if !w.Upload("road.jpg", "image/jpeg", []byte("jpeg")) {
		t.Fatal("image upload refused")
	}
	waitFor(t, "inference", func() bool { return w.Snapshot().DetectionReady })

	steps := []struct {
		advance   time.Duration
		wantPhase int
	}{
		{599 * time.Millisecond, 0},
		{1 * time.Millisecond, 1},
		{800 * time.Millisecond, 2},
		{800 * time.Millisecond, 3},
	}
	for _, step := range steps {
		fc.Advance(step.advance)
		if got := w.Snapshot().ScanPhase; got != step.wantPhase {
			t.Fatalf("expected phase %d, got %d", step.wantPhase, got)
		}
		if got := w.Snapshot().Stage; got != StageAnalysing {
			t.Fatalf("phases fire inside Analysing, got %v", got)
		}
	}
}

func TestResultNotBeforeMinimumDwell(t *testing.T) {
	// Inference resolves instantly; Result must still wait for the dwell.
	w, fc := newTestWizard(instantDetector{res: fallbackResult()}, nil)

	w.Upload("road.jpg", "image/jpeg", []byte("jpeg"))
	waitFor(t, "inference", func() bool { return w.Snapshot().DetectionReady })

	fc.Advance(2500 * time.Millisecond)
	if got := w.Snapshot().Stage; got != StageAnalysing {
		t.Fatalf("revealed before minimum dwell: %v", got)
	}
	fc.Advance(100 * time.Millisecond)
	if got := w.Snapshot().Stage; got != StageResult {
		t.Fatalf("expected Result after dwell, got %v", got)
	}
}

func TestResultWaitsForInference(t *testing.T) {
	// Dwell elapses first; Result must still wait for the detection.
	det := &blockingDetector{}
	w, fc := newTestWizard(det, nil)

	w.Upload("road.jpg", "image/jpeg", []byte("jpeg"))
	waitFor(t, "inference call", func() bool { return det.callCount() == 1 })

	fc.Advance(3 * time.Second)
	if got := w.Snapshot().Stage; got != StageAnalysing {
		t.Fatalf("revealed before inference resolved: %v", got)
	}

	det.release(0, fallbackResult())
	waitFor(t, "reveal", func() bool { return w.Snapshot().Stage == StageResult })

	snap := w.Snapshot()
	if snap.Detection == nil || snap.Detection.DamageType != models.DamagePothole {
		t.Fatalf("result stage must carry the detection: %+v", snap)
	}
	if !snap.DetectionFallback {
		t.Fatal("fallback detection must be flagged")
	}
}

func TestResetInvalidatesAbandonedRun(t *testing.T) {
	det := &blockingDetector{}
	w, fc := newTestWizard(det, nil)

	w.Upload("first.jpg", "image/jpeg", []byte("a"))
	waitFor(t, "first inference call", func() bool { return det.callCount() == 1 })
	fc.Advance(1 * time.Second)

	w.Reset()
	if got := w.Snapshot().Stage; got != StageUpload {
		t.Fatalf("reset must return to Upload, got %v", got)
	}

	w.Upload("second.jpg", "image/jpeg", []byte("b"))
	waitFor(t, "second inference call", func() bool { return det.callCount() == 2 })

	// The abandoned run's inference arrives late; it must be discarded.
	stale := &services.DetectionResult{Detection: models.Detection{
		DetectionID: "stale", DamageType: models.DamageCrack, SeverityLevel: models.SeverityLow,
	}}
	det.release(0, stale)
	time.Sleep(50 * time.Millisecond)

	snap := w.Snapshot()
	if snap.Stage != StageAnalysing || snap.DetectionReady {
		t.Fatalf("stale detection corrupted the new run: %+v", snap)
	}
	if snap.Filename != "second.jpg" {
		t.Fatalf("expected second run's file, got %q", snap.Filename)
	}
	if snap.ScanPhase != 0 {
		t.Fatalf("abandoned run's phase timers leaked: phase %d", snap.ScanPhase)
	}

	// The new run completes normally.
	det.release(1, fallbackResult())
	fc.Advance(MinAnalysisDwell)
	waitFor(t, "second reveal", func() bool { return w.Snapshot().Stage == StageResult })
	if got := w.Snapshot().Detection.DetectionID; got == "stale" {
		t.Fatal("new run revealed the abandoned run's detection")
	}
}

func TestResetDuringSubmissionDiscardsConfirmation(t *testing.T) {
	filer := &blockingFiler{}
	w, fc := newTestWizard(instantDetector{res: fallbackResult()}, filer)

	w.Upload("road.jpg", "image/jpeg", []byte("jpeg"))
	waitFor(t, "inference", func() bool { return w.Snapshot().DetectionReady })
	fc.Advance(MinAnalysisDwell)
	w.RaiseComplaint()
	w.Submit("stale submission")

	w.Reset()
	filer.release(0, demo.SubmittedComplaint())
	time.Sleep(50 * time.Millisecond)

	snap := w.Snapshot()
	if snap.Stage != StageUpload || snap.Complaint != nil {
		t.Fatalf("late confirmation corrupted the reset wizard: %+v", snap)
	}
}

func TestBackNavigationKeepsData(t *testing.T) {
	w, fc := newTestWizard(instantDetector{res: fallbackResult()}, nil)

	w.Upload("road.jpg", "image/jpeg", []byte("jpeg"))
	waitFor(t, "inference", func() bool { return w.Snapshot().DetectionReady })
	fc.Advance(MinAnalysisDwell)

	if !w.RaiseComplaint() {
		t.Fatal("Result -> ComplaintForm refused")
	}
	if !w.Back() {
		t.Fatal("ComplaintForm -> Result refused")
	}
	snap := w.Snapshot()
	if snap.Stage != StageResult || snap.Detection == nil {
		t.Fatalf("back navigation must not discard data: %+v", snap)
	}
}

func TestEndToEndSubmission(t *testing.T) {
	filer := &recordingFiler{c: demo.SubmittedComplaint(), fb: true}
	w, fc := newTestWizard(instantDetector{res: fallbackResult()}, filer)

	if !w.Upload("road.jpg", "image/jpeg", []byte("jpegbytes")) {
		t.Fatal("upload refused")
	}
	if got := w.Snapshot().Stage; got != StageAnalysing {
		t.Fatalf("expected Analysing after upload, got %v", got)
	}
	waitFor(t, "inference", func() bool { return w.Snapshot().DetectionReady })
	fc.Advance(MinAnalysisDwell)
	waitFor(t, "reveal", func() bool { return w.Snapshot().Stage == StageResult })

	if !w.RaiseComplaint() {
		t.Fatal("could not open complaint form")
	}
	draft, ok := w.Draft("test")
	if !ok {
		t.Fatal("draft unavailable at complaint form")
	}
	if draft.Title != "Pothole at Kukatpally" {
		t.Fatalf("unexpected draft title: %q", draft.Title)
	}
	if draft.SeverityLevel != "HIGH" || draft.DamageType != "Pothole" {
		t.Fatalf("draft not pre-filled from detection: %+v", draft)
	}
	if draft.DetectionID == "" {
		t.Fatal("draft must reference the detection")
	}

	if !w.Submit("test") {
		t.Fatal("submit refused")
	}
	waitFor(t, "confirmation", func() bool { return w.Snapshot().Stage == StageConfirmation })

	snap := w.Snapshot()
	if snap.Complaint == nil || snap.Complaint.ComplaintNumber == "" {
		t.Fatalf("confirmation must carry a complaint number: %+v", snap)
	}
	if !snap.ComplaintFallback {
		t.Fatal("placeholder confirmation must be flagged")
	}
	if filer.lastDraft().Description != "test" {
		t.Fatalf("description not forwarded: %+v", filer.lastDraft())
	}
	if filer.lastDraft().DetectionID != draft.DetectionID {
		t.Fatal("submitted draft must reference the same detection")
	}

	// "Report another" resets for a fresh run.
	w.Reset()
	snap = w.Snapshot()
	if snap.Stage != StageUpload || snap.Detection != nil || snap.Complaint != nil || snap.Filename != "" {
		t.Fatalf("reset must discard all held data: %+v", snap)
	}
}

func TestUploadRefusedMidRun(t *testing.T) {
	w, _ := newTestWizard(&blockingDetector{}, nil)
	w.Upload("road.jpg", "image/jpeg", []byte("a"))
	if w.Upload("another.jpg", "image/jpeg", []byte("b")) {
		t.Fatal("upload must only be accepted at the Upload stage")
	}
}

func TestSubmitRequiresComplaintForm(t *testing.T) {
	w, _ := newTestWizard(instantDetector{res: fallbackResult()}, nil)
	if w.Submit("too early") {
		t.Fatal("submit must be refused outside the complaint form")
	}
}
