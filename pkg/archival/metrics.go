package archival

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks the archival pipeline's operational counters.
//
// Metrics:
//   - rollcall_archival_runs_total: Fan-out runs started
//   - rollcall_archival_tenants_total: Tenant outcomes by status
//   - rollcall_archival_batches_total: Batches archived and purged
//   - rollcall_archival_records_archived_total: Records durably archived
//   - rollcall_archival_archive_bytes_total: Bytes written to archive storage
//   - rollcall_archival_purge_failures_total: Archived-but-not-purged batches (critical)
//   - rollcall_archival_run_duration_seconds: Fan-out run duration histogram
type Metrics struct {
	runsTotal       prometheus.Counter
	tenantsTotal    *prometheus.CounterVec
	batchesTotal    prometheus.Counter
	recordsArchived prometheus.Counter
	archiveBytes    prometheus.Counter
	purgeFailures   prometheus.Counter
	runDuration     prometheus.Histogram
}

// NewMetrics creates and registers archival metrics with the provided
// registry. If registry is nil, the default Prometheus registry is used.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rollcall",
			Subsystem: "archival",
			Name:      "runs_total",
			Help:      "Total number of archival fan-out runs started",
		}),
		tenantsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rollcall",
			Subsystem: "archival",
			Name:      "tenants_total",
			Help:      "Tenant archival outcomes by status",
		}, []string{"outcome"}),
		batchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rollcall",
			Subsystem: "archival",
			Name:      "batches_total",
			Help:      "Total number of batches archived and purged",
		}),
		recordsArchived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rollcall",
			Subsystem: "archival",
			Name:      "records_archived_total",
			Help:      "Total number of records durably archived",
		}),
		archiveBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rollcall",
			Subsystem: "archival",
			Name:      "archive_bytes_total",
			Help:      "Total bytes written to archive storage",
		}),
		purgeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rollcall",
			Subsystem: "archival",
			Name:      "purge_failures_total",
			Help:      "Batches archived but not purged; each one needs manual reconciliation",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rollcall",
			Subsystem: "archival",
			Name:      "run_duration_seconds",
			Help:      "Duration of archival fan-out runs in seconds",
			Buckets:   []float64{1, 5, 15, 60, 300, 900, 3600},
		}),
	}

	if registry != nil {
		registry.MustRegister(
			m.runsTotal, m.tenantsTotal, m.batchesTotal,
			m.recordsArchived, m.archiveBytes, m.purgeFailures, m.runDuration,
		)
	} else {
		prometheus.MustRegister(
			m.runsTotal, m.tenantsTotal, m.batchesTotal,
			m.recordsArchived, m.archiveBytes, m.purgeFailures, m.runDuration,
		)
	}
	return m
}

// All recording methods are nil-safe so the pipeline can run without metrics.

func (m *Metrics) RunStarted() {
	if m != nil {
		m.runsTotal.Inc()
	}
}

func (m *Metrics) RunFinished(d time.Duration) {
	if m != nil {
		m.runDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) TenantOutcome(outcome string) {
	if m != nil {
		m.tenantsTotal.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) BatchArchived(records, bytes int) {
	if m != nil {
		m.batchesTotal.Inc()
		m.recordsArchived.Add(float64(records))
		m.archiveBytes.Add(float64(bytes))
	}
}

func (m *Metrics) PurgeFailure() {
	if m != nil {
		m.purgeFailures.Inc()
	}
}
