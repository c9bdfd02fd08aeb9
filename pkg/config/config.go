package config

import "time"

// Config is the root configuration structure for the Rollcall backend.
// It contains all configuration sections for the HTTP server, storage
// backends, the archival pipeline, telemetry, and the outbound
// integrations (geocoding, notifications, spreadsheet export).
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and shutdown behavior.
	Server ServerConfig `yaml:"server"`

	// Storage contains configuration for the live record store and the
	// tenant directory.
	Storage StorageConfig `yaml:"storage"`

	// Archival contains configuration for the data retention pipeline
	// including schedule, page size, and fan-out bounds.
	Archival ArchivalConfig `yaml:"archival"`

	// Telemetry contains configuration for observability including logging
	// and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Geocode contains configuration for reverse geocoding of check-in
	// coordinates.
	Geocode GeocodeConfig `yaml:"geocode"`

	// Notify contains configuration for push notification delivery.
	Notify NotifyConfig `yaml:"notify"`

	// Sheets contains configuration for the spreadsheet export integration.
	Sheets SheetsConfig `yaml:"sheets"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. A zero or negative value means no timeout.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. A zero or negative value means no timeout.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled. If IdleTimeout is zero, ReadTimeout is used.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// If requests are still in-flight after this timeout, the server will
	// force shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// StorageConfig contains configuration for persistence backends.
type StorageConfig struct {
	// Backend selects the storage implementation.
	// Options: "sqlite" (persistent), "memory" (tests and local development)
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite backend configuration. Only used when Backend
	// is "sqlite".
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SQLiteConfig contains configuration for the SQLite backend. The live
// record store and the tenant directory share one database file.
type SQLiteConfig struct {
	// Path is the database file path. The parent directory must exist.
	// Default: "./data/rollcall.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// ArchivalConfig contains configuration for the data retention pipeline.
type ArchivalConfig struct {
	// Enabled controls whether the scheduled pipeline runs at all.
	// Per-tenant retention windows still gate each tenant individually.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Schedule is the cron expression for scheduled runs, in standard
	// 5-field cron syntax.
	// Default: "0 2 * * *" (daily at 2:00 AM)
	Schedule string `yaml:"schedule"`

	// Timezone is the IANA timezone the schedule is evaluated in.
	// Default: "UTC"
	Timezone string `yaml:"timezone"`

	// PageSize is the number of records fetched, archived, and purged per
	// batch. Must stay at or below the store's atomic purge ceiling of 500.
	// Default: 400
	PageSize int `yaml:"page_size"`

	// ArchiveRoot is the directory archive files are written under. Files
	// are laid out as <root>/archives/{tenant_id}/{file}.
	// Default: "./data"
	ArchiveRoot string `yaml:"archive_root"`

	// MaxConcurrentTenants bounds how many tenants are processed at once
	// during a run. Zero means unbounded.
	// Default: 8
	MaxConcurrentTenants int `yaml:"max_concurrent_tenants"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format selects the log output encoding.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path the metrics are served on.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// GeocodeConfig contains configuration for reverse geocoding.
type GeocodeConfig struct {
	// Enabled controls whether check-in coordinates are reverse geocoded.
	// When disabled, records keep their raw coordinates only.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// BaseURL is the base URL of the reverse geocoding service.
	// Example: "https://nominatim.openstreetmap.org"
	BaseURL string `yaml:"base_url"`

	// Timeout is the maximum duration for a geocoding request. Geocoding is
	// best effort: a timeout degrades the address, never the check-in.
	// Default: 5s
	Timeout time.Duration `yaml:"timeout"`

	// CacheTTL is how long resolved addresses are cached per coordinate.
	// Default: 24h
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// NotifyConfig contains configuration for push notification delivery.
type NotifyConfig struct {
	// Enabled controls whether notifications are sent at all.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// WebhookURL is the endpoint notification payloads are posted to.
	WebhookURL string `yaml:"webhook_url"`

	// Timeout is the maximum duration for a delivery attempt. Delivery is
	// best effort and never blocks the triggering operation.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// SheetsConfig contains configuration for the spreadsheet export
// integration.
type SheetsConfig struct {
	// Enabled controls whether approved records are mirrored to a
	// spreadsheet.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// BaseURL is the base URL of the spreadsheet API.
	BaseURL string `yaml:"base_url"`

	// SpreadsheetID identifies the target spreadsheet.
	SpreadsheetID string `yaml:"spreadsheet_id"`

	// Timeout is the maximum duration for an export request.
	// Default: 15s
	Timeout time.Duration `yaml:"timeout"`
}
