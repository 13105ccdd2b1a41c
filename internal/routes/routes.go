package routes

import (
	"net/http"

	"github.com/templui/goalpace/internal/app"
	"github.com/templui/goalpace/internal/handler"
	"github.com/templui/goalpace/internal/metrics"
	"github.com/templui/goalpace/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	goal := handler.NewGoalHandler(app.GoalService, app.StatsService)
	stats := handler.NewStatsHandler(app.StatsService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)
	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth(app.Done())

	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))

	// ============================================================================
	// PROTECTED ROUTES (require bearer token)
	// ============================================================================

	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(auth.Me))

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals/overview", middleware.RequireAuth(goal.Overview))
	mux.HandleFunc("GET /api/goals/export", middleware.RequireAuth(goal.Export))
	mux.HandleFunc("POST /api/goals/export/archive", middleware.RequireAuth(goal.Archive))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("PUT /api/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))
	mux.HandleFunc("POST /api/goals/{id}/progress", middleware.RequireAuth(goal.RecordProgress))
	mux.HandleFunc("POST /api/goals/{id}/complete", middleware.RequireAuth(goal.Complete))
	mux.HandleFunc("GET /api/goals/{id}/history", middleware.RequireAuth(goal.History))

	// Stats
	mux.HandleFunc("GET /api/stats", middleware.RequireAuth(stats.Stats))

	// Global middleware; Metrics wraps the mux directly to see the matched pattern
	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService),
		middleware.Metrics,
	)
}
