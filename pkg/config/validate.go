package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// maxPageSize is the hard ceiling on the archival page size, matching the
// store's atomic purge limit.
const maxPageSize = 500

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateArchival(&cfg.Archival)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateIntegrations(cfg)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates HTTP server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid address %q: must be host:port", cfg.ListenAddress),
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must not be negative",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must not be negative",
		})
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must not be negative",
		})
	}

	return errs
}

// validateStorage validates persistence configuration.
func validateStorage(cfg *StorageConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "storage.sqlite.path",
				Message: "database path is required for the sqlite backend",
			})
		}
		if cfg.SQLite.MaxOpenConns < 1 {
			errs = append(errs, FieldError{
				Field:   "storage.sqlite.max_open_conns",
				Message: "must be at least 1",
			})
		}
		if cfg.SQLite.MaxIdleConns < 0 {
			errs = append(errs, FieldError{
				Field:   "storage.sqlite.max_idle_conns",
				Message: "must not be negative",
			})
		}
		if cfg.SQLite.BusyTimeout < 0 {
			errs = append(errs, FieldError{
				Field:   "storage.sqlite.busy_timeout",
				Message: "must not be negative",
			})
		}
	case "memory":
		// Nothing to validate.
	default:
		errs = append(errs, FieldError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("unknown backend %q: must be \"sqlite\" or \"memory\"", cfg.Backend),
		})
	}

	return errs
}

// validateArchival validates retention pipeline configuration.
func validateArchival(cfg *ArchivalConfig) []FieldError {
	var errs []FieldError

	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "archival.schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Schedule, err),
			})
		}
	}
	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			errs = append(errs, FieldError{
				Field:   "archival.timezone",
				Message: fmt.Sprintf("unknown timezone %q", cfg.Timezone),
			})
		}
	}
	if cfg.PageSize < 1 || cfg.PageSize > maxPageSize {
		errs = append(errs, FieldError{
			Field:   "archival.page_size",
			Message: fmt.Sprintf("must be between 1 and %d", maxPageSize),
		})
	}
	if cfg.ArchiveRoot == "" {
		errs = append(errs, FieldError{
			Field:   "archival.archive_root",
			Message: "archive root directory is required",
		})
	}
	if cfg.MaxConcurrentTenants < 0 {
		errs = append(errs, FieldError{
			Field:   "archival.max_concurrent_tenants",
			Message: "must not be negative (zero means unbounded)",
		})
	}

	return errs
}

// validateTelemetry validates observability configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q: must be debug, info, warn, or error", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q: must be json or text", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	return errs
}

// validateIntegrations validates the outbound integration sections. Each is
// only checked when enabled, so a default configuration stays valid without
// external endpoints.
func validateIntegrations(cfg *Config) []FieldError {
	var errs []FieldError

	if cfg.Geocode.Enabled {
		errs = append(errs, requireURL("geocode.base_url", cfg.Geocode.BaseURL)...)
		if cfg.Geocode.Timeout <= 0 {
			errs = append(errs, FieldError{
				Field:   "geocode.timeout",
				Message: "timeout must be positive",
			})
		}
	}

	if cfg.Notify.Enabled {
		errs = append(errs, requireURL("notify.webhook_url", cfg.Notify.WebhookURL)...)
		if cfg.Notify.Timeout <= 0 {
			errs = append(errs, FieldError{
				Field:   "notify.timeout",
				Message: "timeout must be positive",
			})
		}
	}

	if cfg.Sheets.Enabled {
		errs = append(errs, requireURL("sheets.base_url", cfg.Sheets.BaseURL)...)
		if cfg.Sheets.SpreadsheetID == "" {
			errs = append(errs, FieldError{
				Field:   "sheets.spreadsheet_id",
				Message: "spreadsheet id is required when the integration is enabled",
			})
		}
	}

	return errs
}

func requireURL(field, raw string) []FieldError {
	if raw == "" {
		return []FieldError{{Field: field, Message: "url is required when the integration is enabled"}}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return []FieldError{{Field: field, Message: fmt.Sprintf("invalid url %q", raw)}}
	}
	return nil
}
