package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file failed: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q, want %q", cfg.Server.ListenAddress, DefaultListenAddress)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if !cfg.Archival.Enabled {
		t.Error("archival should be enabled by default")
	}
	if cfg.Archival.Schedule != "0 2 * * *" {
		t.Errorf("Schedule = %q, want daily at 2 AM", cfg.Archival.Schedule)
	}
	if cfg.Archival.PageSize != 400 {
		t.Errorf("PageSize = %d, want 400", cfg.Archival.PageSize)
	}
	if cfg.Archival.MaxConcurrentTenants != DefaultMaxConcurrentTenants {
		t.Errorf("MaxConcurrentTenants = %d, want %d", cfg.Archival.MaxConcurrentTenants, DefaultMaxConcurrentTenants)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("logging defaults = %+v", cfg.Telemetry.Logging)
	}

	// The defaulted configuration must validate cleanly.
	if err := Validate(cfg); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "0.0.0.0:9090"
  read_timeout: 10s
storage:
  backend: "memory"
archival:
  schedule: "30 3 * * *"
  enabled: true
  page_size: 250
  archive_root: "/var/lib/rollcall"
telemetry:
  logging:
    level: "debug"
    format: "text"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("ReadTimeout = %v, want 10s", cfg.Server.ReadTimeout)
	}
	// Unset fields still take defaults.
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v, want default", cfg.Server.WriteTimeout)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}
	if cfg.Archival.Schedule != "30 3 * * *" || cfg.Archival.PageSize != 250 {
		t.Errorf("archival = %+v", cfg.Archival)
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("logging = %+v", cfg.Telemetry.Logging)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not a mapping")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "127.0.0.1:8080"
`)

	t.Setenv("ROLLCALL_SERVER_LISTEN_ADDRESS", "0.0.0.0:7000")
	t.Setenv("ROLLCALL_ARCHIVAL_SCHEDULE", "15 4 * * *")
	t.Setenv("ROLLCALL_ARCHIVAL_PAGE_SIZE", "100")
	t.Setenv("ROLLCALL_ARCHIVAL_ENABLED", "false")
	t.Setenv("ROLLCALL_TELEMETRY_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:7000" {
		t.Errorf("env override lost: ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Archival.Schedule != "15 4 * * *" || cfg.Archival.PageSize != 100 {
		t.Errorf("archival overrides lost: %+v", cfg.Archival)
	}
	if cfg.Archival.Enabled {
		t.Error("ROLLCALL_ARCHIVAL_ENABLED=false must disable the pipeline")
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Telemetry.Logging.Level)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.ListenAddress = "no-port"
	cfg.Storage.Backend = "postgres"
	cfg.Archival.PageSize = 900
	cfg.Archival.Schedule = "every day at noon"
	cfg.Telemetry.Logging.Level = "verbose"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	verr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected a ValidationError, got %T", err)
	}
	if len(verr.Errors) != 5 {
		t.Errorf("expected 5 field errors, got %d: %v", len(verr.Errors), verr)
	}

	fields := make(map[string]bool)
	for _, fe := range verr.Errors {
		fields[fe.Field] = true
	}
	for _, want := range []string{
		"server.listen_address",
		"storage.backend",
		"archival.page_size",
		"archival.schedule",
		"telemetry.logging.level",
	} {
		if !fields[want] {
			t.Errorf("missing error for %s", want)
		}
	}
}

func TestValidate_PageSizeCeiling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Archival.PageSize = maxPageSize
	if err := Validate(cfg); err != nil {
		t.Errorf("page size at the ceiling must validate: %v", err)
	}

	cfg.Archival.PageSize = maxPageSize + 1
	if err := Validate(cfg); err == nil {
		t.Error("page size above the ceiling must fail validation")
	}
}

func TestValidate_IntegrationsOnlyCheckedWhenEnabled(t *testing.T) {
	cfg := DefaultConfig()
	// Disabled integrations need no endpoints.
	if err := Validate(cfg); err != nil {
		t.Fatalf("disabled integrations must not require urls: %v", err)
	}

	cfg.Geocode.Enabled = true
	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "geocode.base_url") {
		t.Errorf("enabled geocode without url must fail, got %v", err)
	}

	cfg.Geocode.BaseURL = "https://nominatim.example.org"
	if err := Validate(cfg); err != nil {
		t.Errorf("valid geocode url must pass: %v", err)
	}
}

func TestValidate_Timezone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Archival.Timezone = "America/New_York"
	if err := Validate(cfg); err != nil {
		t.Errorf("valid timezone rejected: %v", err)
	}
	cfg.Archival.Timezone = "Mars/Olympus_Mons"
	if err := Validate(cfg); err == nil {
		t.Error("unknown timezone must fail validation")
	}
}
