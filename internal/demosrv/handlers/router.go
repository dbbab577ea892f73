package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/roadguard/roadguard-go/internal/config"
	"github.com/roadguard/roadguard-go/internal/demosrv/authn"
	"github.com/roadguard/roadguard-go/internal/demosrv/middleware"
	"github.com/roadguard/roadguard-go/internal/demosrv/store"
	"github.com/roadguard/roadguard-go/internal/models"
)

// NewRouter assembles the full demo backend: middleware stack, public
// auth endpoints, and the authenticated citizen/official API.
func NewRouter(cfg *config.Config, st store.Store, cache *store.Cache, logger *zap.Logger) http.Handler {
	sugar := logger.Sugar()

	authHandler := NewAuthHandler(st, cfg.JWTSecret, sugar)
	detectHandler := NewDetectHandler(st, sugar)
	complaintHandler := NewComplaintHandler(st, cache, sugar)
	dashboardHandler := NewDashboardHandler(st, cache, sugar)
	teamHandler := NewTeamHandler(st, sugar)

	var pinger Pinger
	if p, ok := st.(Pinger); ok {
		pinger = p
	}
	healthHandler := NewHealthHandler(pinger, sugar)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.Instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit(cfg.RateLimitRPM))

	r.Handle("/metrics", middleware.MetricsHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)
		r.Get("/health/ready", healthHandler.Ready)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
		})

		// Everything below requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(authn.RequireAuth(cfg.JWTSecret))

			r.Route("/detect", func(r chi.Router) {
				r.Post("/predict", detectHandler.Predict)
				r.Get("/{id}", detectHandler.Get)
			})

			r.Route("/complaints", func(r chi.Router) {
				r.Post("/", complaintHandler.Create)
				r.Get("/mine", complaintHandler.Mine)
				r.Get("/{id}", complaintHandler.Get)
				r.Get("/{id}/responses", complaintHandler.Responses)

				// Official-only complaint management
				r.Group(func(r chi.Router) {
					r.Use(authn.RequireRole(models.RoleOfficial))
					r.Get("/", complaintHandler.List)
					r.Patch("/{id}/status", complaintHandler.UpdateStatus)
					r.Post("/{id}/respond", complaintHandler.Respond)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(authn.RequireRole(models.RoleOfficial))

				r.Route("/dashboard", func(r chi.Router) {
					r.Get("/stats", dashboardHandler.Stats)
					r.Get("/heatmap", dashboardHandler.Heatmap)
					r.Get("/trends", dashboardHandler.Trends)
				})

				r.Route("/teams", func(r chi.Router) {
					r.Get("/", teamHandler.List)
					r.Get("/work-orders", teamHandler.WorkOrders)
					r.Post("/work-orders", teamHandler.IssueWorkOrder)
				})
			})
		})
	})

	return r
}
