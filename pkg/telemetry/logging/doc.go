// Package logging configures structured logging for the backend.
//
// # Overview
//
// The logging package builds on Go's standard log/slog package to provide:
//   - Structured logging with JSON and text formats
//   - A process-wide default logger installed once at startup
//   - Context-aware logging with request, tenant, and user identifiers
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	// At startup, from the loaded configuration
//	logger, err := logging.Setup(cfg.Telemetry.Logging)
//
//	// Components tag themselves once
//	log := logging.Component("archival.coordinator")
//	log.Info("starting archival run for all tenants")
//
//	// Request handlers enrich from context
//	ctx = logging.WithRequestID(ctx, requestID)
//	logging.FromContext(ctx).Info("check-in recorded")
package logging
