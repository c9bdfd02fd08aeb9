// Package server provides the HTTP entry points for the attendance backend.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rollcall-hq/rollcall/pkg/attendance"
	"rollcall-hq/rollcall/pkg/config"
	"rollcall-hq/rollcall/pkg/sheets"
	"rollcall-hq/rollcall/pkg/telemetry/metrics"
	"rollcall-hq/rollcall/pkg/tenant"
	"rollcall-hq/rollcall/pkg/userimport"
)

// Dependencies carries the wired services the server exposes over HTTP.
// Sheets may be nil when the spreadsheet integration is disabled; its status
// endpoint is then not registered. Registry may be nil when metrics are
// disabled.
type Dependencies struct {
	Attendance  *attendance.Service
	Provisioner *tenant.Provisioner
	Importer    *userimport.Importer
	Sheets      *sheets.Service
	Registry    *prometheus.Registry
}

// Server is the HTTP server for the attendance backend.
type Server struct {
	config       config.ServerConfig
	metricsCfg   config.MetricsConfig
	deps         Dependencies
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new server from the given configuration and wired
// dependencies.
func NewServer(cfg config.ServerConfig, metricsCfg config.MetricsConfig, deps Dependencies) *Server {
	return &Server{
		config:       cfg,
		metricsCfg:   metricsCfg,
		deps:         deps,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting attendance server", "address", s.config.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("attendance server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /v1/tenants", NewProvisionHandler(s.deps.Provisioner))
	mux.Handle("POST /v1/tenants/{tenant}/checkins", NewCheckInHandler(s.deps.Attendance))
	mux.Handle("POST /v1/tenants/{tenant}/checkins/{record}/checkout", NewCheckOutHandler(s.deps.Attendance))
	mux.Handle("POST /v1/tenants/{tenant}/checkins/{record}/decision", NewDecisionHandler(s.deps.Attendance))
	mux.Handle("POST /v1/tenants/{tenant}/users/import", NewImportHandler(s.deps.Importer))
	mux.Handle("GET /health", NewHealthHandler())

	if s.deps.Sheets != nil {
		mux.Handle("GET /v1/tenants/{tenant}/sheets/status", NewSheetsStatusHandler(s.deps.Sheets))
	}

	var httpMetrics *metrics.HTTPMetrics
	if s.metricsCfg.Enabled {
		registry := s.deps.Registry
		httpMetrics = metrics.NewHTTPMetrics(registry)
		if registry != nil {
			mux.Handle("GET "+s.metricsCfg.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		} else {
			mux.Handle("GET "+s.metricsCfg.Path, promhttp.Handler())
		}
	}

	// Middleware chain, innermost first: metrics, logging, request id,
	// recovery.
	var handler http.Handler = mux
	handler = metricsMiddleware(httpMetrics)(handler)
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler. Intended for tests.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
