/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package server exposes the operational HTTP endpoints.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/friendsincode/grimnir_timer/internal/clock"
	"github.com/friendsincode/grimnir_timer/internal/telemetry"
	"github.com/friendsincode/grimnir_timer/internal/version"
)

// StatusSource reports the scheduler state shown on /healthz.
type StatusSource interface {
	Active() bool
	Len() int
}

// Server serves /healthz and /metrics.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	status     StatusSource
	clock      clock.Clock
	logger     zerolog.Logger
}

// New constructs the ops server listening on addr.
func New(addr string, status StatusSource, clk clock.Clock, logger zerolog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(telemetry.TracingMiddleware("grimnir-timer-ops"))
	router.Use(telemetry.MetricsMiddleware)

	srv := &Server{
		router: router,
		status: status,
		clock:  clk,
		logger: logger.With().Str("component", "ops").Logger(),
	}
	srv.configureRoutes()

	srv.httpServer = &http.Server{
		Addr:              addr,
		Handler:           srv.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *Server) configureRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", telemetry.Handler())
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Active  bool   `json:"active"`
	Slots   int    `json:"slots"`
	Clock   string `json:"clock"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:  "ok",
		Version: version.Version,
		Active:  s.status.Active(),
		Slots:   s.status.Len(),
		Clock:   s.clock.Now().Format(time.RFC3339),
	})
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("ops server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("ops server shutdown error")
		return err
	}
	return nil
}
