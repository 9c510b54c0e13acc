package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/nflxtrakt/internal/api/handlers"
	"github.com/amaumene/nflxtrakt/internal/api/middleware"
	"github.com/amaumene/nflxtrakt/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Dependencies are the sources the HTTP endpoints report on
type Dependencies struct {
	Runs      handlers.RunReporter
	Snapshots handlers.SnapshotSource
	Ledger    handlers.LedgerStats
	Syncing   func() bool
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	deps   Dependencies
	logger *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, deps Dependencies, logger *logrus.Logger) *Server {
	s := &Server{
		deps:   deps,
		logger: logger,
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed handler wrapped in the logging middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.setupRoutes(mux)
	return middleware.Logging(mux, s.logger)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	mux.Handle("/health", handlers.NewHealthHandler(s.deps.Syncing, s.logger))
	mux.Handle("/status", handlers.NewStatusHandler(s.deps.Runs, s.deps.Ledger, s.logger))
	mux.Handle("/history", handlers.NewHistoryHandler(s.deps.Snapshots, s.logger))
	mux.Handle("/metrics", promhttp.Handler())
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
