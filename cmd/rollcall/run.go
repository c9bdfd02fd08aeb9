package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"rollcall-hq/rollcall/pkg/approval"
	"rollcall-hq/rollcall/pkg/archival"
	"rollcall-hq/rollcall/pkg/attendance"
	"rollcall-hq/rollcall/pkg/attendance/storage"
	"rollcall-hq/rollcall/pkg/cli"
	"rollcall-hq/rollcall/pkg/config"
	"rollcall-hq/rollcall/pkg/geocode"
	"rollcall-hq/rollcall/pkg/notify"
	"rollcall-hq/rollcall/pkg/server"
	"rollcall-hq/rollcall/pkg/sheets"
	"rollcall-hq/rollcall/pkg/telemetry/logging"
	"rollcall-hq/rollcall/pkg/tenant"
	"rollcall-hq/rollcall/pkg/userimport"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	once          bool
	dryRun        bool
	output        string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the attendance server and archival scheduler",
	Long: `Start the attendance server with the specified configuration.

The server exposes the check-in, approval, and import endpoints. When
archival is enabled, a cron scheduler runs the archive-before-purge
pipeline across all tenants on the configured schedule.

Examples:
  # Start with default config
  rollcall run

  # Start with custom config
  rollcall run --config /etc/rollcall/config.yaml

  # Override listen address
  rollcall run --listen 0.0.0.0:8080

  # Run a single archival pass and exit
  rollcall run --once

  # Validate config without starting the server
  rollcall run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.once, "once", false, "run a single archival pass and exit")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
	runCmd.Flags().StringVarP(&runFlags.output, "output", "o", "text", "output format for --once results (text, json)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.Setup(cfg.Telemetry.Logging); err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("Configuration valid")
		return nil
	}

	// Open stores
	tenants, records, cleanup, err := openStores(cfg)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer cleanup()

	var registry *prometheus.Registry
	if cfg.Telemetry.Metrics.Enabled {
		registry = prometheus.NewRegistry()
	}

	ctx := cli.SetupSignalHandler()

	if runFlags.once {
		return runArchivalOnce(ctx, cfg, tenants, records, registry)
	}

	// Archival scheduler
	if cfg.Archival.Enabled {
		coordinator, err := buildCoordinator(cfg, tenants, records, registry)
		if err != nil {
			return cli.NewCommandError("run", err)
		}

		location, err := time.LoadLocation(cfg.Archival.Timezone)
		if err != nil {
			return cli.NewConfigError("archival.timezone", err.Error())
		}

		scheduler := archival.NewScheduler(coordinator, cfg.Archival.Schedule, location)
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewCommandError("run", err)
		}
		defer scheduler.Stop()

		slog.Info("archival scheduler started",
			"schedule", cfg.Archival.Schedule,
			"timezone", cfg.Archival.Timezone,
		)
	}

	srv := server.NewServer(cfg.Server, cfg.Telemetry.Metrics, buildDependencies(cfg, tenants, records, registry))

	fmt.Printf("Rollcall %s listening on %s\n", Version, cfg.Server.ListenAddress)
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}

// openStores builds the tenant directory and the live record store for the
// configured backend. The returned cleanup closes both.
func openStores(cfg *config.Config) (tenant.Store, attendance.Store, func(), error) {
	switch cfg.Storage.Backend {
	case "memory":
		t := tenant.NewMemoryStore()
		r := storage.NewMemoryStore()
		return t, r, func() {
			_ = r.Close()
			_ = t.Close()
		}, nil

	case "sqlite":
		t, err := tenant.NewSQLiteStore(cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open tenant store: %w", err)
		}

		r, err := storage.NewSQLiteStore(&storage.SQLiteConfig{
			Path:         cfg.Storage.SQLite.Path,
			MaxOpenConns: cfg.Storage.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.Storage.SQLite.MaxIdleConns,
			WALMode:      cfg.Storage.SQLite.WALMode,
			BusyTimeout:  cfg.Storage.SQLite.BusyTimeout,
		})
		if err != nil {
			_ = t.Close()
			return nil, nil, nil, fmt.Errorf("open record store: %w", err)
		}

		return t, r, func() {
			_ = r.Close()
			_ = t.Close()
		}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}

// buildDependencies wires the optional integrations and the attendance
// service for the HTTP server.
func buildDependencies(cfg *config.Config, tenants tenant.Store, records attendance.Store, registry *prometheus.Registry) server.Dependencies {
	var geocoder attendance.Geocoder
	if cfg.Geocode.Enabled {
		geocoder = geocode.NewCachingClient(geocode.NewHTTPClient(cfg.Geocode), cfg.Geocode.CacheTTL)
	}

	var notifier attendance.Notifier
	if cfg.Notify.Enabled {
		notifier = notify.NewAttendanceNotifier(notify.NewDispatcher(notify.NewHTTPSender(cfg.Notify), tenants))
	}

	var sheetsService *sheets.Service
	var exporter attendance.Exporter
	if cfg.Sheets.Enabled {
		sheetsService = sheets.NewService(sheets.NewHTTPClient(cfg.Sheets), cfg.Sheets.SpreadsheetID)
		exporter = sheetsService
	}

	svc := attendance.NewService(
		records,
		geocoder,
		approval.NewResolver(tenants),
		approval.NewPolicy(tenants),
		notifier,
		exporter,
	)

	return server.Dependencies{
		Attendance:  svc,
		Provisioner: tenant.NewProvisioner(tenants),
		Importer:    userimport.NewImporter(tenants),
		Sheets:      sheetsService,
		Registry:    registry,
	}
}

// buildCoordinator assembles the archival pipeline.
func buildCoordinator(cfg *config.Config, tenants tenant.Store, records attendance.Store, registry *prometheus.Registry) (*archival.Coordinator, error) {
	var metrics *archival.Metrics
	if registry != nil {
		metrics = archival.NewMetrics(registry)
	}

	policy := archival.NewPolicyResolver(tenants)
	archiver := archival.NewBatchArchiver(records, archival.NewFileWriter(cfg.Archival.ArchiveRoot), cfg.Archival.PageSize, metrics)

	return archival.NewCoordinator(tenants, policy, archiver, cfg.Archival.MaxConcurrentTenants, metrics), nil
}

// outcomeSummary is the printable form of one tenant's archival outcome.
type outcomeSummary struct {
	TenantID        string `json:"tenant_id"`
	Status          string `json:"status"`
	RecordsArchived int    `json:"records_archived"`
	BatchesWritten  int    `json:"batches_written"`
	Error           string `json:"error,omitempty"`
	Critical        bool   `json:"critical,omitempty"`
}

// runArchivalOnce runs a single fan-out pass and prints per-tenant outcomes.
func runArchivalOnce(ctx context.Context, cfg *config.Config, tenants tenant.Store, records attendance.Store, registry *prometheus.Registry) error {
	coordinator, err := buildCoordinator(cfg, tenants, records, registry)
	if err != nil {
		return cli.NewCommandError("run --once", err)
	}

	outcomes, err := coordinator.Run(ctx)
	if err != nil {
		return cli.NewCommandError("run --once", err)
	}

	summaries := make([]outcomeSummary, 0, len(outcomes))
	for _, o := range outcomes {
		s := outcomeSummary{
			TenantID:        o.TenantID,
			Status:          string(o.Status),
			RecordsArchived: o.Stats.Records,
			BatchesWritten:  o.Stats.Batches,
			Critical:        o.Critical,
		}
		if o.Err != nil {
			s.Error = o.Err.Error()
		}
		summaries = append(summaries, s)
	}

	formatter := cli.NewFormatter(cli.OutputFormat(runFlags.output))
	return formatter.FormatTo(os.Stdout, summaries)
}
