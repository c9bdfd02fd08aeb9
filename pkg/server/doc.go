// Package server exposes the attendance backend over HTTP.
//
// It ties the wired services together and manages server lifecycle:
// start, graceful shutdown, and OS signal handling (SIGTERM, SIGINT).
//
// # Routes
//
//   - POST /v1/tenants - provision a tenant with defaults and an admin user
//   - POST /v1/tenants/{tenant}/checkins - record a check-in
//   - POST /v1/tenants/{tenant}/checkins/{record}/checkout - close a check-in
//   - POST /v1/tenants/{tenant}/checkins/{record}/decision - approve or reject
//   - POST /v1/tenants/{tenant}/users/import - bulk user import from CSV
//   - GET /v1/tenants/{tenant}/sheets/status - spreadsheet sync status
//   - GET /health - liveness probe
//   - GET /metrics - prometheus metrics (when enabled)
//
// # Middleware Chain
//
// Requests pass through recovery, request id, and logging middleware, in
// that order from the outside in. Every response carries an X-Request-ID
// header correlated with the request logs.
//
// # Graceful Shutdown
//
// Start blocks until the context is cancelled, a shutdown signal arrives,
// or the listener fails. Shutdown stops accepting connections and waits up
// to the configured shutdown timeout for in-flight requests to finish.
package server
