// Package main is the RoadGuard command-line client. It drives the same
// client core a UI would: login, the five-stage report wizard, complaint
// tracking, and the official dashboard. When the backend is unreachable
// the core substitutes demo data, so every command works offline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/roadguard/roadguard-go/internal/clock"
	"github.com/roadguard/roadguard-go/internal/config"
	"github.com/roadguard/roadguard-go/internal/gateway"
	"github.com/roadguard/roadguard-go/internal/guard"
	"github.com/roadguard/roadguard-go/internal/models"
	"github.com/roadguard/roadguard-go/internal/services"
	"github.com/roadguard/roadguard-go/internal/session"
	"github.com/roadguard/roadguard-go/internal/token"
	"github.com/roadguard/roadguard-go/internal/track"
	"github.com/roadguard/roadguard-go/internal/wizard"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("Failed to load config: %v", err)
	}

	app := newApp(cfg, sugar)

	switch os.Args[1] {
	case "register":
		err = app.register(os.Args[2:])
	case "report":
		err = app.report(os.Args[2:])
	case "track":
		err = app.track(os.Args[2:])
	case "dashboard":
		err = app.dashboard(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: roadguard <command> [flags]

commands:
  register   create a citizen account
  report     upload a road photo and file a complaint
  track      list your complaints with repair progress
  dashboard  show the official dashboard (official accounts only)

common flags:
  -email     account email (default prasanna@test.com)
  -password  account password (default Test@123)`)
}

type app struct {
	cfg        *config.Config
	sugar      *zap.SugaredLogger
	session    *session.Context
	detection  *services.DetectionService
	complaints *services.ComplaintService
}

func newApp(cfg *config.Config, sugar *zap.SugaredLogger) *app {
	tokens := token.NewStore()
	api := gateway.NewClient(cfg.APIBaseURL, tokens, cfg.RequestTimeout, sugar)
	auth := services.NewAuthService(api, sugar)
	return &app{
		cfg:        cfg,
		sugar:      sugar,
		session:    session.New(auth, api, tokens, sugar),
		detection:  services.NewDetectionService(api, sugar),
		complaints: services.NewComplaintService(api, sugar),
	}
}

func commonFlags(fs *flag.FlagSet) (email, password *string) {
	email = fs.String("email", "prasanna@test.com", "account email")
	password = fs.String("password", "Test@123", "account password")
	return
}

func (a *app) login(ctx context.Context, email, password string) error {
	role, err := a.session.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	user, _ := a.session.User()
	fmt.Printf("Signed in as %s (%s)\n", user.Name, role)
	return nil
}

func (a *app) register(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email, password := commonFlags(fs)
	name := fs.String("name", "", "full name (required)")
	city := fs.String("city", "", "city")
	phone := fs.String("phone", "", "phone number")
	fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("-name is required")
	}

	err := a.session.Register(context.Background(), models.RegisterRequest{
		Name:     *name,
		Email:    *email,
		Password: *password,
		City:     *city,
		Phone:    *phone,
	})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	user, _ := a.session.User()
	fmt.Printf("Registered %s as a citizen account\n", user.Name)
	return nil
}

func (a *app) report(args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	email, password := commonFlags(fs)
	image := fs.String("image", "", "path to road photo (required)")
	description := fs.String("description", "", "complaint description")
	fs.Parse(args)

	if *image == "" {
		return fmt.Errorf("-image is required")
	}
	data, err := os.ReadFile(*image)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := a.login(ctx, *email, *password); err != nil {
		return err
	}

	w := wizard.New(a.detection, a.complaints, clock.New(), a.sugar)
	done := make(chan wizard.Snapshot, 1)
	lastPhase := -1
	w.OnChange(func(s wizard.Snapshot) {
		switch s.Stage {
		case wizard.StageAnalysing:
			if s.ScanPhase != lastPhase && s.ScanPhase < len(wizard.ScanPhaseText) {
				lastPhase = s.ScanPhase
				fmt.Println("  " + wizard.ScanPhaseText[s.ScanPhase])
			}
		case wizard.StageResult:
			if s.Detection != nil && !s.Submitting {
				printDetection(*s.Detection, s.DetectionFallback)
			}
		case wizard.StageConfirmation:
			select {
			case done <- s:
			default:
			}
		}
	})

	fmt.Printf("Analysing %s...\n", filepath.Base(*image))
	if !w.Upload(filepath.Base(*image), contentTypeFor(*image), data) {
		return fmt.Errorf("upload refused: only image files are accepted")
	}

	// Wait for the wizard to reach Result, then file the complaint.
	waitForStage(w, wizard.StageResult)
	if !w.RaiseComplaint() {
		return fmt.Errorf("wizard did not reach the result stage")
	}
	if !w.Submit(*description) {
		return fmt.Errorf("complaint submission was not accepted")
	}

	select {
	case s := <-done:
		fmt.Printf("\nComplaint filed: %s\n", s.Complaint.ComplaintNumber)
		if s.ComplaintFallback {
			fmt.Println("(backend unreachable: filed against demo data)")
		}
	case <-time.After(2 * time.Minute):
		return fmt.Errorf("timed out waiting for confirmation")
	}
	return nil
}

func (a *app) track(args []string) error {
	fs := flag.NewFlagSet("track", flag.ExitOnError)
	email, password := commonFlags(fs)
	fs.Parse(args)

	ctx := context.Background()
	if err := a.login(ctx, *email, *password); err != nil {
		return err
	}

	viewer := track.NewViewer(a.complaints, a.sugar)
	items, usedFallback, err := viewer.Load(ctx)
	if err != nil {
		return err
	}
	if usedFallback {
		fmt.Println("(backend unreachable: showing demo data)")
	}

	for _, c := range items {
		fmt.Printf("\n%s  %s  [%s]\n", c.ComplaintNumber, c.Title, c.Status)
		for _, stage := range track.Timeline(c.Status) {
			mark := " "
			if stage.Done {
				mark = "x"
			}
			fmt.Printf("  [%s] %s\n", mark, stage.Name)
		}
	}
	return nil
}

func (a *app) dashboard(args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	email, password := commonFlags(fs)
	fs.Parse(args)

	ctx := context.Background()
	if err := a.login(ctx, *email, *password); err != nil {
		return err
	}

	user, ok := a.session.User()
	if d := guard.Check(user, ok, models.RoleOfficial); !d.Allowed {
		return fmt.Errorf("the dashboard needs an official account (try ravi@telangana.gov.in)")
	}

	stats, usedFallback, err := a.complaints.Stats(ctx)
	if err != nil {
		return err
	}
	if usedFallback {
		fmt.Println("(backend unreachable: showing demo data)")
	}
	fmt.Printf("Complaints: %d total, %d pending, %d in progress, %d resolved\n",
		stats.Total, stats.Pending, stats.InProgress, stats.Resolved)

	points, _, err := a.complaints.Heatmap(ctx)
	if err != nil {
		return err
	}
	fmt.Println("\nHotspots:")
	for _, p := range points {
		fmt.Printf("  %-14s %2d complaints (%s)\n", p.Area, p.ComplaintCount, p.Severity)
	}
	return nil
}

func printDetection(d models.Detection, usedFallback bool) {
	fmt.Printf("\nDetection: %s (%.1f%% confidence)\n", d.DamageType, d.Confidence)
	fmt.Printf("Severity:  %s (score %.1f, %d region(s))\n", d.SeverityLevel, d.SeverityScore, d.DamageCount)
	if d.Address != "" {
		fmt.Printf("Location:  %s\n", d.Address)
	}
	fmt.Println(wizard.SeverityNote(d.SeverityLevel))
	if usedFallback {
		fmt.Println("(backend unreachable: showing demo detection)")
	}
}

func waitForStage(w *wizard.Wizard, stage wizard.Stage) {
	for w.Snapshot().Stage < stage {
		time.Sleep(50 * time.Millisecond)
	}
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
