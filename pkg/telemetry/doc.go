// Package telemetry provides observability for the attendance backend.
//
// # Components
//
//   - logging: structured slog-based logging with per-component child
//     loggers and request-scoped context fields
//   - metrics: Prometheus metrics for the HTTP API surface
//
// Archival pipeline metrics are defined alongside the pipeline in
// pkg/archival; they share the same registry and the rollcall namespace.
//
// # Usage
//
//	logger, err := logging.Setup(cfg.Telemetry.Logging)
//	if err != nil {
//		return err
//	}
//	componentLogger := logging.Component("archival.coordinator")
package telemetry
