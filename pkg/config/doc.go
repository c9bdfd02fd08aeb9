// Package config provides configuration management for the Rollcall backend.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// When no file is supplied, DefaultConfig returns a fully defaulted
// configuration.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention ROLLCALL_SECTION_FIELD.
// For example:
//
//   - ROLLCALL_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - ROLLCALL_ARCHIVAL_SCHEDULE overrides archival.schedule
//   - ROLLCALL_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// Components receive their configuration by explicit injection; there is no
// process-global configuration state.
//
// # Validation
//
// All configuration is validated automatically during loading. Validation includes:
//
//   - Required field checks (e.g., archive root, storage path)
//   - Range validation (e.g., archival page size must be 1-500)
//   - Format validation (e.g., cron expressions, IANA timezones, URLs)
//
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - archival.page_size: must be between 1 and 500
//	  - storage.backend: unknown backend "postgres": must be "sqlite" or "memory"
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	server:
//	  listen_address: "127.0.0.1:8080"
//
//	storage:
//	  backend: "sqlite"
//	  sqlite:
//	    path: "./data/rollcall.db"
//
//	archival:
//	  enabled: true
//	  schedule: "0 2 * * *"
//	  page_size: 400
//	  archive_root: "./data"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
