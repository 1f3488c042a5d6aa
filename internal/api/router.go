// Package api provides the HTTP API for gymmate.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/gymmate/gymmate/internal/advice"
	"github.com/gymmate/gymmate/internal/api/handler"
	"github.com/gymmate/gymmate/internal/api/middleware"
	"github.com/gymmate/gymmate/internal/auth"
	"github.com/gymmate/gymmate/internal/catalog"
	"github.com/gymmate/gymmate/internal/dashboard"
	"github.com/gymmate/gymmate/internal/diet"
	"github.com/gymmate/gymmate/internal/profile"
	"github.com/gymmate/gymmate/internal/provider/resilience"
	"github.com/gymmate/gymmate/internal/workout"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	// AllowedOrigins enables CORS for the listed frontend origins.
	AllowedOrigins []string
	// RequireTLS rejects plain HTTP requests not forwarded from TLS.
	RequireTLS bool

	Storage          handler.Pinger
	Providers        *resilience.Registry
	Catalog          *catalog.Catalog
	AuthService      *auth.Service
	ProfileService   *profile.Service
	WorkoutService   *workout.Service
	DietService      *diet.Service
	DashboardService *dashboard.Service
	AdviceService    *advice.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "gymmate-api"
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.RequireJSON)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Storage, cfg.Providers)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	catalogHandler := handler.NewCatalogHandler(cfg.Catalog)
	profileHandler := handler.NewProfileHandler(cfg.ProfileService)
	workoutHandler := handler.NewWorkoutHandler(cfg.WorkoutService)
	dietHandler := handler.NewDietHandler(cfg.DietService)
	dashboardHandler := handler.NewDashboardHandler(cfg.DashboardService)
	adviceHandler := handler.NewAdviceHandler(cfg.AdviceService, cfg.DashboardService, cfg.ProfileService)

	authMiddleware := middleware.Auth(cfg.AuthService)

	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)         // 10 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min
	adviceRateLimit := middleware.RateLimitByUser(middleware.AdviceRateLimit)   // 30 req/min per user
	userRateLimit := middleware.RateLimitByUser(middleware.StandardRateLimit)   // 100 req/min per user

	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit)
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/session", authHandler.Session)
		})

		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/exercises", catalogHandler.Exercises)
			r.Get("/foods", catalogHandler.SearchFoods)
			r.Get("/foods/frequent", catalogHandler.FrequentFoods)
		})

		// Me endpoints (authenticated) - user-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)

			r.Group(func(r chi.Router) {
				r.Use(userRateLimit)

				r.Route("/profile", func(r chi.Router) {
					r.Get("/", profileHandler.GetProfile)
					r.Patch("/", profileHandler.UpdateProfile)
					r.Get("/summary", profileHandler.GetSummary)
					r.Get("/weight/progress", profileHandler.WeightProgress)
					r.Get("/weight/history", profileHandler.WeightHistory)
				})

				r.Route("/workouts", func(r chi.Router) {
					r.Get("/templates", workoutHandler.ListTemplates)
					r.Post("/templates", workoutHandler.SaveTemplate)
					r.Get("/logs", workoutHandler.LogDates)
					r.Get("/logs/{date}", workoutHandler.GetLog)
					r.Put("/logs/{date}", workoutHandler.SaveLog)
					r.Get("/activity", workoutHandler.ActivityHistory)
					r.Get("/activity/weekly", workoutHandler.WeeklyActivity)
					r.Get("/activity/heatmap", workoutHandler.Heatmap)
					r.Get("/volume", workoutHandler.VolumeHistory)
					r.Get("/strength/{exerciseId}", workoutHandler.StrengthProgression)
				})

				r.Route("/diet", func(r chi.Router) {
					r.Get("/logs", dietHandler.LogDates)
					r.Get("/logs/{date}", dietHandler.GetLog)
					r.Post("/logs/{date}/meals", dietHandler.LogMeal)
					r.Delete("/logs/{date}/meals/{mealId}", dietHandler.DeleteMeal)
					r.Post("/cheat-meals", dietHandler.LogCheatMeal)
					r.Get("/templates", dietHandler.ListTemplates)
					r.Post("/templates", dietHandler.SaveTemplate)
					r.Post("/templates/{templateId}/log", dietHandler.LogFromTemplate)
					r.Get("/calories/weekly", dietHandler.WeeklyCalories)
				})

				r.Route("/dashboard", func(r chi.Router) {
					r.Get("/focus", dashboardHandler.Focus)
					r.Get("/yesterday", dashboardHandler.Yesterday)
					r.Get("/fuel", dashboardHandler.Fuel)
				})
			})

			// Advice calls a paid provider - stricter per-user limit
			r.Route("/advice", func(r chi.Router) {
				r.Use(adviceRateLimit)
				r.Get("/tip", adviceHandler.GenericTip)
				r.Post("/tip", adviceHandler.Tip)
				r.Post("/briefing", adviceHandler.Briefing)
				r.Post("/goal-plan", adviceHandler.GoalPlan)
				r.Get("/weekly-plan", adviceHandler.WeeklyPlan)
				r.Get("/meal-suggestion", adviceHandler.MealSuggestion)
				r.Get("/workout-suggestion", adviceHandler.WorkoutSuggestion)
			})
		})
	})

	return r
}
