package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// Storage defaults
	DefaultStorageBackend    = "sqlite"
	DefaultSQLitePath        = "./data/rollcall.db"
	DefaultMaxOpenConns      = 10
	DefaultMaxIdleConns      = 5
	DefaultSQLiteWALMode     = true
	DefaultSQLiteBusyTimeout = 5 * time.Second

	// Archival defaults
	DefaultArchivalEnabled      = true
	DefaultArchivalSchedule     = "0 2 * * *"
	DefaultArchivalTimezone     = "UTC"
	DefaultArchivalPageSize     = 400
	DefaultArchiveRoot          = "./data"
	DefaultMaxConcurrentTenants = 8

	// Telemetry defaults
	DefaultLoggingLevel   = "info"
	DefaultLoggingFormat  = "json"
	DefaultMetricsEnabled = true
	DefaultMetricsPath    = "/metrics"

	// Integration defaults
	DefaultGeocodeTimeout  = 5 * time.Second
	DefaultGeocodeCacheTTL = 24 * time.Hour
	DefaultNotifyTimeout   = 10 * time.Second
	DefaultSheetsTimeout   = 15 * time.Second
)

// ApplyDefaults fills in default values for any zero-valued fields in the
// configuration. It should be called after loading and before validation.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	applyServerDefaults(&cfg.Server)
	applyStorageDefaults(&cfg.Storage)
	applyArchivalDefaults(&cfg.Archival)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyIntegrationDefaults(cfg)
}

func applyServerDefaults(server *ServerConfig) {
	if server.ListenAddress == "" {
		server.ListenAddress = DefaultListenAddress
	}
	if server.ReadTimeout == 0 {
		server.ReadTimeout = DefaultReadTimeout
	}
	if server.WriteTimeout == 0 {
		server.WriteTimeout = DefaultWriteTimeout
	}
	if server.IdleTimeout == 0 {
		server.IdleTimeout = DefaultIdleTimeout
	}
	if server.ShutdownTimeout == 0 {
		server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if server.MaxHeaderBytes == 0 {
		server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
}

func applyStorageDefaults(storage *StorageConfig) {
	if storage.Backend == "" {
		storage.Backend = DefaultStorageBackend
	}
	if storage.SQLite.Path == "" {
		storage.SQLite.Path = DefaultSQLitePath
	}
	if storage.SQLite.MaxOpenConns == 0 {
		storage.SQLite.MaxOpenConns = DefaultMaxOpenConns
	}
	if storage.SQLite.MaxIdleConns == 0 {
		storage.SQLite.MaxIdleConns = DefaultMaxIdleConns
	}
	if storage.SQLite.BusyTimeout == 0 {
		storage.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
		storage.SQLite.WALMode = DefaultSQLiteWALMode
	}
}

func applyArchivalDefaults(archival *ArchivalConfig) {
	if archival.Schedule == "" {
		archival.Enabled = DefaultArchivalEnabled
		archival.Schedule = DefaultArchivalSchedule
	}
	if archival.Timezone == "" {
		archival.Timezone = DefaultArchivalTimezone
	}
	if archival.PageSize == 0 {
		archival.PageSize = DefaultArchivalPageSize
	}
	if archival.ArchiveRoot == "" {
		archival.ArchiveRoot = DefaultArchiveRoot
	}
	if archival.MaxConcurrentTenants == 0 {
		archival.MaxConcurrentTenants = DefaultMaxConcurrentTenants
	}
}

func applyTelemetryDefaults(telemetry *TelemetryConfig) {
	if telemetry.Logging.Level == "" {
		telemetry.Logging.Level = DefaultLoggingLevel
	}
	if telemetry.Logging.Format == "" {
		telemetry.Logging.Format = DefaultLoggingFormat
	}
	if telemetry.Metrics.Path == "" {
		telemetry.Metrics.Enabled = DefaultMetricsEnabled
		telemetry.Metrics.Path = DefaultMetricsPath
	}
}

func applyIntegrationDefaults(cfg *Config) {
	if cfg.Geocode.Timeout == 0 {
		cfg.Geocode.Timeout = DefaultGeocodeTimeout
	}
	if cfg.Geocode.CacheTTL == 0 {
		cfg.Geocode.CacheTTL = DefaultGeocodeCacheTTL
	}
	if cfg.Notify.Timeout == 0 {
		cfg.Notify.Timeout = DefaultNotifyTimeout
	}
	if cfg.Sheets.Timeout == 0 {
		cfg.Sheets.Timeout = DefaultSheetsTimeout
	}
}
