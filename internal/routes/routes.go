package routes

import (
	"net/http"

	"github.com/goalpulse/goalpulse/internal/app"
	"github.com/goalpulse/goalpulse/internal/handler"
	"github.com/goalpulse/goalpulse/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	var entries handler.EntryLister
	if app.Scheduler != nil {
		entries = app.Scheduler
	}
	home := handler.NewHomeHandler(app.Cfg.AppName, app.DB, entries)
	auth := handler.NewAuthHandler(app.AuthService, app.UserService)
	goal := handler.NewGoalHandler(app.GoalService)
	notification := handler.NewNotificationHandler(app.NotificationService)

	requireAuth := middleware.RequireAuth(app.AuthService, app.UserService)
	protected := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}
	rateLimited := middleware.RateLimitAuth(app.Cfg.TrustProxy)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /{$}", home.Home)
	mux.HandleFunc("GET /healthz", home.Health)

	// Auth (rate limited)
	mux.Handle("POST /api/auth/register", rateLimited(http.HandlerFunc(auth.Register)))
	mux.Handle("POST /api/auth/login", rateLimited(http.HandlerFunc(auth.Login)))

	// ============================================================================
	// PROTECTED ROUTES (/api/*, bearer token)
	// ============================================================================

	// Account
	mux.Handle("GET /api/auth/me", protected(auth.Me))
	mux.Handle("PUT /api/auth/notification-preference", protected(auth.UpdateNotificationPreference))
	mux.Handle("POST /api/auth/test-sms", rateLimited(protected(auth.TestSMS)))

	// Goals
	mux.Handle("GET /api/goals", protected(goal.List))
	mux.Handle("POST /api/goals", protected(goal.Create))
	mux.Handle("PUT /api/goals/{id}", protected(goal.Update))
	mux.Handle("DELETE /api/goals/{id}", protected(goal.Delete))
	mux.Handle("PATCH /api/goals/{id}/complete", protected(goal.ToggleComplete))

	// Notifications
	mux.Handle("GET /api/notifications", protected(notification.List))

	// 404
	mux.HandleFunc("/", home.NotFound)

	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.CORS(app.Cfg.CORSOrigin),
	)
}
