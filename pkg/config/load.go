package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a fully defaulted configuration, as if an empty file
// had been loaded. Useful when no configuration file is supplied.
func DefaultConfig() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention ROLLCALL_SECTION_FIELD (e.g., ROLLCALL_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format ROLLCALL_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("ROLLCALL_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("ROLLCALL_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("ROLLCALL_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("ROLLCALL_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	// Storage overrides
	if val := os.Getenv("ROLLCALL_STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("ROLLCALL_STORAGE_SQLITE_PATH"); val != "" {
		cfg.Storage.SQLite.Path = val
	}
	if val := os.Getenv("ROLLCALL_STORAGE_SQLITE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Storage.SQLite.BusyTimeout = d
		}
	}

	// Archival overrides
	if val := os.Getenv("ROLLCALL_ARCHIVAL_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Archival.Enabled = b
		}
	}
	if val := os.Getenv("ROLLCALL_ARCHIVAL_SCHEDULE"); val != "" {
		cfg.Archival.Schedule = val
	}
	if val := os.Getenv("ROLLCALL_ARCHIVAL_TIMEZONE"); val != "" {
		cfg.Archival.Timezone = val
	}
	if val := os.Getenv("ROLLCALL_ARCHIVAL_PAGE_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Archival.PageSize = i
		}
	}
	if val := os.Getenv("ROLLCALL_ARCHIVAL_ARCHIVE_ROOT"); val != "" {
		cfg.Archival.ArchiveRoot = val
	}
	if val := os.Getenv("ROLLCALL_ARCHIVAL_MAX_CONCURRENT_TENANTS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Archival.MaxConcurrentTenants = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("ROLLCALL_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("ROLLCALL_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("ROLLCALL_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("ROLLCALL_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}

	// Integration overrides
	if val := os.Getenv("ROLLCALL_GEOCODE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Geocode.Enabled = b
		}
	}
	if val := os.Getenv("ROLLCALL_GEOCODE_BASE_URL"); val != "" {
		cfg.Geocode.BaseURL = val
	}
	if val := os.Getenv("ROLLCALL_NOTIFY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Notify.Enabled = b
		}
	}
	if val := os.Getenv("ROLLCALL_NOTIFY_WEBHOOK_URL"); val != "" {
		cfg.Notify.WebhookURL = val
	}
	if val := os.Getenv("ROLLCALL_SHEETS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Sheets.Enabled = b
		}
	}
	if val := os.Getenv("ROLLCALL_SHEETS_BASE_URL"); val != "" {
		cfg.Sheets.BaseURL = val
	}
	if val := os.Getenv("ROLLCALL_SHEETS_SPREADSHEET_ID"); val != "" {
		cfg.Sheets.SpreadsheetID = val
	}
}
