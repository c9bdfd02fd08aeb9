// Package metrics provides Prometheus metrics for the HTTP API surface.
//
// Archival pipeline metrics live with the pipeline itself in pkg/archival.
// This package covers the remaining surface: request counts and latency for
// the HTTP server, labeled by method and status code. Route paths are not
// used as labels; tenant and record ids would make the cardinality
// unbounded.
//
// Usage:
//
//	registry := prometheus.NewRegistry()
//	httpMetrics := metrics.NewHTTPMetrics(registry)
//	httpMetrics.RecordRequest(r.Method, status, latency)
package metrics
