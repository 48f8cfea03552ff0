// Copyright (c) 2026 Bisik. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/bisik/internal/messaging"
	"github.com/taibuivan/bisik/internal/platform/config"
	"github.com/taibuivan/bisik/internal/platform/constants"
	"github.com/taibuivan/bisik/internal/platform/middleware"
	"github.com/taibuivan/bisik/internal/platform/session"
	"github.com/taibuivan/bisik/internal/users/account"
	"github.com/taibuivan/bisik/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the login ritual and session endpoints.
	Auth *auth.Handler

	// Account serves the public member directory.
	Account *account.Handler

	// Messaging handles anonymous sends and inbox reads.
	Messaging *messaging.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, transport session.Transport, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(transport))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// The web client talks to these paths directly, so no version prefix.
	r.Mount("/auth", h.Auth.Routes())
	r.Mount("/users", h.Account.Routes())
	r.Mount("/messages", h.Messaging.Routes())

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

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
