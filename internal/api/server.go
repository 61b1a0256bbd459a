// Copyright (c) 2026 Promptix. All rights reserved.

/*
Package api wires the HTTP router, the middleware chain, and the domain handlers
into a runnable [http.Server].

Routes under /api/v1 other than /session require a Bearer token that belongs to
the agent's active session. While the session is still loading they answer 503.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/promptix/portal/internal/platform/config"
	"github.com/promptix/portal/internal/platform/constants"
	"github.com/promptix/portal/internal/platform/middleware"
	"github.com/promptix/portal/internal/portal"
	"github.com/promptix/portal/internal/users/employee"
	"github.com/promptix/portal/internal/workspace/budget"
	"github.com/promptix/portal/internal/workspace/project"
	"github.com/promptix/portal/internal/workspace/request"
	"github.com/promptix/portal/internal/workspace/task"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups the HTTP handler sets mounted by [NewServer].
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler.
	Readiness http.HandlerFunc

	// Session serves sign-in, sign-out, refresh, and the session snapshot.
	Session *portal.Handler

	Tasks     *task.Handler
	Projects  *project.Handler
	Requests  *request.Handler
	Budgets   *budget.Handler
	Employees *employee.Handler
}

// # Server Initialization

/*
NewServer constructs the chi router with the full middleware chain and registers
all route groups.

Parameters:
  - context: context.Context (stops the rate limiter janitor)
  - cfg: *config.Config
  - log: *slog.Logger
  - verifier: middleware.TokenVerifier (access token signatures)
  - sessions: middleware.SessionSource (the active session the tokens must match)
  - h: Handlers

Returns:
  - *Server: ready to [Server.ListenAndServe]
*/
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, sessions middleware.SessionSource, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)
	r.Use(middleware.Authenticate(verifier))

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/session", h.Session.Routes())

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireSession(sessions))

			protected.Route("/tasks", h.Tasks.RegisterRoutes)
			protected.Route("/projects", h.Projects.RegisterRoutes)
			protected.Route("/requests", h.Requests.RegisterRoutes)
			protected.Route("/budgets", h.Budgets.RegisterRoutes)
			protected.Mount("/users", h.Employees.Routes())
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

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server. It blocks until the server is closed.
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
