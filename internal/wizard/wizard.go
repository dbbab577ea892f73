// Package wizard implements the five-stage complaint submission flow:
// Upload -> Analysing -> Result -> ComplaintForm -> Confirmation, with a
// reset back to Upload from anywhere.
//
// Analysing runs a fixed-duration simulated scan independent of the real
// inference latency: three phase advances for UI affordance, and a minimum
// dwell so the transition to Result never truncates the scan visibly. The
// transition fires only once both the dwell and the inference have
// completed, in either order.
//
// Every wizard run carries a generation number. Scheduled callbacks and
// in-flight calls capture their generation and are discarded when it no
// longer matches, so an abandoned run can never corrupt its successor.
package wizard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/roadguard/roadguard-go/internal/clock"
	"github.com/roadguard/roadguard-go/internal/models"
	"github.com/roadguard/roadguard-go/internal/services"
	"go.uber.org/zap"
)

// Stage is one of the five wizard stages.
type Stage int

const (
	StageUpload Stage = iota + 1
	StageAnalysing
	StageResult
	StageComplaintForm
	StageConfirmation
)

func (s Stage) String() string {
	switch s {
	case StageUpload:
		return "Upload"
	case StageAnalysing:
		return "Analysing"
	case StageResult:
		return "Result"
	case StageComplaintForm:
		return "Complaint"
	case StageConfirmation:
		return "Done"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// ScanPhaseDelays are the offsets, from entering Analysing, at which the
// simulated scan advances a phase.
var ScanPhaseDelays = [...]time.Duration{
	600 * time.Millisecond,
	1400 * time.Millisecond,
	2200 * time.Millisecond,
}

// ScanPhaseText labels each simulated scan phase.
var ScanPhaseText = [...]string{
	"Loading AI model…",
	"Detecting damage regions…",
	"Calculating severity score…",
}

// MinAnalysisDwell is the minimum time spent in Analysing before Result,
// regardless of how fast inference resolves.
const MinAnalysisDwell = 2600 * time.Millisecond

// Detector runs damage inference. It never fails; a fallback result is
// substituted internally (see services.DetectionService).
type Detector interface {
	Predict(ctx context.Context, filename string, file io.Reader) *services.DetectionResult
}

// Filer submits complaints. It never fails; a placeholder confirmation is
// substituted internally (see services.ComplaintService).
type Filer interface {
	Create(ctx context.Context, req models.ComplaintCreate) (models.Complaint, bool)
}

// Snapshot is an immutable view of the wizard for rendering. Detection and
// Complaint are only populated from the stage that reveals them.
type Snapshot struct {
	Stage          Stage
	ScanPhase      int
	Filename       string
	DetectionReady bool
	Submitting     bool

	Detection         *models.Detection
	DetectionFallback bool
	Complaint         *models.Complaint
	ComplaintFallback bool
}

// Wizard is the submission state machine for one user at a time.
type Wizard struct {
	detector   Detector
	complaints Filer
	clk        clock.Clock
	logger     *zap.SugaredLogger

	mu                sync.Mutex
	gen               int
	stage             Stage
	scanPhase         int
	filename          string
	image             []byte
	detection         models.Detection
	detectionFallback bool
	detectionReady    bool
	dwellDone         bool
	submitting        bool
	complaint         models.Complaint
	complaintSet      bool
	complaintFallback bool
	timers            []clock.Timer
	cancelRun         context.CancelFunc
	runCtx            context.Context

	onChange func(Snapshot)
}

// New creates a wizard at the Upload stage.
func New(detector Detector, complaints Filer, clk clock.Clock, logger *zap.SugaredLogger) *Wizard {
	return &Wizard{
		detector:   detector,
		complaints: complaints,
		clk:        clk,
		logger:     logger,
		stage:      StageUpload,
	}
}

// OnChange registers a listener for state changes. The listener runs on the
// goroutine that caused the change and must not call back into the wizard.
func (w *Wizard) OnChange(fn func(Snapshot)) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// Snapshot returns the current state.
func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Wizard) snapshotLocked() Snapshot {
	s := Snapshot{
		Stage:          w.stage,
		ScanPhase:      w.scanPhase,
		Filename:       w.filename,
		DetectionReady: w.detectionReady,
		Submitting:     w.submitting,
	}
	if w.stage >= StageResult && w.detectionReady {
		det := w.detection
		s.Detection = &det
		s.DetectionFallback = w.detectionFallback
	}
	if w.stage == StageConfirmation && w.complaintSet {
		c := w.complaint
		s.Complaint = &c
		s.ComplaintFallback = w.complaintFallback
	}
	return s
}

// Upload accepts a photo and moves to Analysing. Files without an image
// content type are refused: no state change, no error.
func (w *Wizard) Upload(filename, contentType string, image []byte) bool {
	w.mu.Lock()
	if w.stage != StageUpload {
		w.mu.Unlock()
		return false
	}
	if !strings.HasPrefix(contentType, "image/") {
		w.mu.Unlock()
		w.logger.Debugw("refusing non-image upload", "file", filename, "content_type", contentType)
		return false
	}

	gen := w.gen
	w.filename = filename
	w.image = image
	w.stage = StageAnalysing
	w.scanPhase = 0
	w.detectionReady = false
	w.dwellDone = false

	for i, delay := range ScanPhaseDelays {
		phase := i + 1
		w.timers = append(w.timers, w.clk.AfterFunc(delay, func() {
			w.advancePhase(gen, phase)
		}))
	}
	w.timers = append(w.timers, w.clk.AfterFunc(MinAnalysisDwell, func() {
		w.markDwellDone(gen)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	w.runCtx = ctx
	w.cancelRun = cancel

	snap := w.snapshotLocked()
	cb := w.onChange
	w.mu.Unlock()
	w.logger.Infow("analysis started", "file", filename, "bytes", len(image))

	go func() {
		res := w.detector.Predict(ctx, filename, bytes.NewReader(image))
		w.applyDetection(gen, res)
	}()

	if cb != nil {
		cb(snap)
	}
	return true
}

func (w *Wizard) advancePhase(gen, phase int) {
	w.mu.Lock()
	if gen != w.gen || w.stage != StageAnalysing || phase <= w.scanPhase {
		w.mu.Unlock()
		return
	}
	w.scanPhase = phase
	snap := w.snapshotLocked()
	cb := w.onChange
	w.mu.Unlock()
	if cb != nil {
		cb(snap)
	}
}

func (w *Wizard) markDwellDone(gen int) {
	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		return
	}
	w.dwellDone = true
	w.maybeRevealLocked()
	snap := w.snapshotLocked()
	cb := w.onChange
	w.mu.Unlock()
	if cb != nil {
		cb(snap)
	}
}

func (w *Wizard) applyDetection(gen int, res *services.DetectionResult) {
	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		w.logger.Debugw("discarding detection from abandoned run", "detection_id", res.DetectionID)
		return
	}
	w.detection = res.Detection
	w.detectionFallback = res.UsedFallback
	w.detectionReady = true
	w.maybeRevealLocked()
	snap := w.snapshotLocked()
	cb := w.onChange
	w.mu.Unlock()
	if cb != nil {
		cb(snap)
	}
}

// maybeRevealLocked moves Analysing to Result once both the minimum dwell
// and the inference have completed.
func (w *Wizard) maybeRevealLocked() {
	if w.stage != StageAnalysing || !w.dwellDone || !w.detectionReady {
		return
	}
	w.stage = StageResult
	w.scanPhase = len(ScanPhaseDelays)
	w.logger.Infow("detection revealed",
		"detection_id", w.detection.DetectionID,
		"damage_type", w.detection.DamageType,
		"severity", w.detection.SeverityLevel,
		"fallback", w.detectionFallback,
	)
}

// RaiseComplaint moves from Result to the complaint form.
func (w *Wizard) RaiseComplaint() bool {
	return w.navigate(StageResult, StageComplaintForm)
}

// Back returns from the complaint form to the result. Pure navigation; no
// data is discarded.
func (w *Wizard) Back() bool {
	return w.navigate(StageComplaintForm, StageResult)
}

func (w *Wizard) navigate(from, to Stage) bool {
	w.mu.Lock()
	if w.stage != from {
		w.mu.Unlock()
		return false
	}
	w.stage = to
	snap := w.snapshotLocked()
	cb := w.onChange
	w.mu.Unlock()
	if cb != nil {
		cb(snap)
	}
	return true
}

// Draft returns the complaint draft pre-filled from the detection result,
// with the caller's free-text description. Only available once a detection
// has been produced.
func (w *Wizard) Draft(description string) (models.ComplaintCreate, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.detectionReady {
		return models.ComplaintCreate{}, false
	}
	return w.draftLocked(description), true
}

func (w *Wizard) draftLocked(description string) models.ComplaintCreate {
	det := w.detection
	return models.ComplaintCreate{
		DetectionID:   det.DetectionID,
		Title:         draftTitle(det),
		Description:   description,
		Latitude:      formatCoord(det.Latitude),
		Longitude:     formatCoord(det.Longitude),
		Address:       det.Address,
		DamageType:    string(det.DamageType),
		SeverityLevel: string(det.SeverityLevel),
		SeverityScore: strconv.FormatFloat(det.SeverityScore, 'f', -1, 64),
		Confidence:    strconv.FormatFloat(det.Confidence, 'f', -1, 64),
	}
}

// Submit files the complaint and moves to Confirmation once the façade
// resolves. Submission never visibly fails: a placeholder confirmation is
// substituted on error, reported via the snapshot's ComplaintFallback.
func (w *Wizard) Submit(description string) bool {
	w.mu.Lock()
	if w.stage != StageComplaintForm || !w.detectionReady || w.submitting {
		w.mu.Unlock()
		return false
	}
	gen := w.gen
	req := w.draftLocked(description)
	ctx := w.runCtx
	w.submitting = true
	snap := w.snapshotLocked()
	cb := w.onChange
	w.mu.Unlock()
	if cb != nil {
		cb(snap)
	}

	go func() {
		c, usedFallback := w.complaints.Create(ctx, req)
		w.applyComplaint(gen, c, usedFallback)
	}()
	return true
}

func (w *Wizard) applyComplaint(gen int, c models.Complaint, usedFallback bool) {
	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		w.logger.Debugw("discarding confirmation from abandoned run", "complaint_number", c.ComplaintNumber)
		return
	}
	w.complaint = c
	w.complaintSet = true
	w.complaintFallback = usedFallback
	w.submitting = false
	w.stage = StageConfirmation
	snap := w.snapshotLocked()
	cb := w.onChange
	w.mu.Unlock()
	w.logger.Infow("complaint filed", "complaint_number", c.ComplaintNumber, "fallback", usedFallback)
	if cb != nil {
		cb(snap)
	}
}

// Reset abandons the current run from any stage and returns to Upload. All
// held data is discarded; pending timers and in-flight calls of the
// abandoned run are invalidated.
func (w *Wizard) Reset() {
	w.mu.Lock()
	w.gen++
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = nil
	if w.cancelRun != nil {
		w.cancelRun()
		w.cancelRun = nil
	}
	w.runCtx = nil
	w.stage = StageUpload
	w.scanPhase = 0
	w.filename = ""
	w.image = nil
	w.detection = models.Detection{}
	w.detectionFallback = false
	w.detectionReady = false
	w.dwellDone = false
	w.submitting = false
	w.complaint = models.Complaint{}
	w.complaintSet = false
	w.complaintFallback = false
	snap := w.snapshotLocked()
	cb := w.onChange
	w.mu.Unlock()
	if cb != nil {
		cb(snap)
	}
}

// draftTitle derives the complaint title from the detection, e.g.
// "Pothole at Kukatpally".
func draftTitle(det models.Detection) string {
	area, _, _ := strings.Cut(det.Address, ",")
	area = strings.TrimSpace(area)
	if area == "" {
		return string(det.DamageType)
	}
	return fmt.Sprintf("%s at %s", det.DamageType, area)
}

func formatCoord(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
