package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fernwell/contact-api/internal/api"
	apiMiddleware "github.com/fernwell/contact-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	contactHandler := api.NewContactHandler(app.contactService, app.logger)
	adminHandler := api.NewAdminHandler(app.contactService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Public contact form
	r.Get("/", contactHandler.ShowForm)
	r.Post("/", contactHandler.SubmitForm)

	r.Route("/api", func(r chi.Router) {
		// Submission endpoint (public)
		r.Post("/messages", contactHandler.SubmitJSON)

		// Admin endpoints (JWT protected, read only)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/admin/messages", adminHandler.ListMessages)
			r.Get("/admin/messages/{id}", adminHandler.GetMessage)
		})
	})

	r.Get("/healthz", app.healthCheck)

	return r
}

// healthCheck reports readiness by pinging both backing stores.
func (app *application) healthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		app.logger.Error("Health check failed: database unreachable", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	if err := app.redis.Ping(ctx).Err(); err != nil {
		app.logger.Error("Health check failed: broker unreachable", "error", err)
		http.Error(w, "broker unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("Failed to write health check response", "error", err)
	}
}
