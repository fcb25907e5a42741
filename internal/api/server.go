// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires the HTTP router, the middleware chain and the domain
handlers into a runnable [http.Server].

Two surfaces share one router:

  - Screens (/login, the dashboards, the credential panels) identify the
    browser by its profile cookie and are gated by the route guard.
  - The REST API under /api/v1 authenticates with a Bearer JWT.

Both run behind [auth.Provider.Sessions], so every request carries the
profile's auth context.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/taibuivan/farmreg/internal/dashboard"
	"github.com/taibuivan/farmreg/internal/farmer"
	"github.com/taibuivan/farmreg/internal/platform/config"
	"github.com/taibuivan/farmreg/internal/platform/constants"
	"github.com/taibuivan/farmreg/internal/platform/middleware"
	"github.com/taibuivan/farmreg/internal/users/account"
	"github.com/taibuivan/farmreg/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups the handler sets mounted by [NewServer].
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler.
	Readiness http.HandlerFunc

	// Sessions attaches the profile's auth context to each request.
	Sessions func(http.Handler) http.Handler

	// Auth serves the login screens and the session API.
	Auth *auth.Handler

	// Account serves credential changes over REST.
	Account *account.Handler

	// Farmer serves registry reads.
	Farmer *farmer.Handler

	// Dashboard serves the role dashboards and the credential panels.
	Dashboard *dashboard.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. The rate limiter sweeper stops with context.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", constants.HeaderXRequestID},
		ExposedHeaders:   []string{constants.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	r.Group(func(app chi.Router) {
		app.Use(h.Sessions)

		// # Screens
		h.Auth.MountScreens(app)
		h.Dashboard.MountScreens(app)

		// # Application API
		app.Route("/api/v1", func(api chi.Router) {
			api.Use(middleware.Authenticate(verifier))

			api.Mount("/auth", h.Auth.Routes())
			api.Mount("/farmers", h.Farmer.Routes())
			api.With(middleware.RequireAuth).Mount("/account", h.Account.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
