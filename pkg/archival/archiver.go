package archival

import (
	"context"
	"log/slog"
	"time"

	"rollcall-hq/rollcall/pkg/attendance"
)

// DefaultPageSize is the number of records fetched and purged per batch. It
// leaves headroom under the store's atomic purge ceiling
// (attendance.MaxPurgeBatch).
const DefaultPageSize = 400

// RecordSource is the slice of the live store the archiver needs.
type RecordSource interface {
	QueryArchivable(ctx context.Context, tenantID string, cutoff time.Time, limit int, after *attendance.Cursor) ([]*attendance.Record, error)
	PurgeBatch(ctx context.Context, tenantID string, ids []string) error
}

// TenantStats summarizes one tenant's archival pass.
type TenantStats struct {
	Batches int // batches archived and purged
	Records int // records archived and purged
	Bytes   int // bytes written to archive storage
}

// BatchArchiver drives one tenant's records from live-and-old to
// archived-and-purged, batch by batch, until none remain.
type BatchArchiver struct {
	records  RecordSource
	archive  Writer
	pageSize int
	now      func() time.Time
	logger   *slog.Logger
	metrics  *Metrics
}

// NewBatchArchiver creates a BatchArchiver. pageSize must stay at or below
// attendance.MaxPurgeBatch; values outside (0, MaxPurgeBatch] fall back to
// DefaultPageSize. metrics may be nil.
func NewBatchArchiver(records RecordSource, archive Writer, pageSize int, metrics *Metrics) *BatchArchiver {
	if pageSize <= 0 || pageSize > attendance.MaxPurgeBatch {
		pageSize = DefaultPageSize
	}
	return &BatchArchiver{
		records:  records,
		archive:  archive,
		pageSize: pageSize,
		now:      time.Now,
		logger:   slog.Default().With("component", "archival.archiver"),
		metrics:  metrics,
	}
}

// WithClock overrides the archiver's clock (used for archive file naming).
// Returns the archiver for chaining.
func (a *BatchArchiver) WithClock(now func() time.Time) *BatchArchiver {
	a.now = now
	return a
}

// ArchiveTenant paginates through the tenant's archivable records and, per
// batch: serialize, write the archive object, then purge. The purge of a
// batch is issued only after that batch's write has returned success in this
// same invocation; no path purges unwritten records.
//
// Failure semantics: a query or write failure aborts the tenant immediately,
// leaving the batch live for the next run; batches already archived and
// purged in this run stay purged. A purge failure after a confirmed write
// also aborts, returning a PurgeError so the caller can flag the
// archived-but-not-purged state distinctly.
func (a *BatchArchiver) ArchiveTenant(ctx context.Context, tenantID string, cutoff time.Time, runID string) (TenantStats, error) {
	log := a.logger.With("tenant_id", tenantID, "run_id", runID)

	var stats TenantStats
	var cursor *attendance.Cursor
	batch := 0

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		batch++

		page, err := a.records.QueryArchivable(ctx, tenantID, cutoff, a.pageSize, cursor)
		if err != nil {
			return stats, &QueryError{TenantID: tenantID, Batch: batch, Cause: err}
		}
		if len(page) == 0 {
			log.Info("no more records to archive", "batches", stats.Batches, "records", stats.Records)
			return stats, nil
		}

		last := page[len(page)-1]

		content, err := ToNDJSON(page)
		if err != nil {
			return stats, err
		}

		if content != "" {
			fileName := ArchiveFileName(a.now(), batch)

			if err := a.archive.Write(ctx, tenantID, fileName, []byte(content)); err != nil {
				log.Error("archive write failed, batch was not purged",
					"batch", batch,
					"records", len(page),
					"error", err,
				)
				return stats, NewWriteError(tenantID, fileName, err)
			}
			log.Info("batch archived",
				"batch", batch,
				"records", len(page),
				"file", fileName,
			)

			// The write above is confirmed; only now may this batch be purged.
			ids := make([]string, len(page))
			for i, record := range page {
				ids[i] = record.ID
			}
			if err := a.records.PurgeBatch(ctx, tenantID, ids); err != nil {
				a.metrics.PurgeFailure()
				log.Error("CRITICAL: purge failed after confirmed archive write; records are duplicated, not lost",
					"batch", batch,
					"records", len(page),
					"file", fileName,
					"error", err,
				)
				return stats, NewPurgeError(tenantID, fileName, batch, len(page), err)
			}
			log.Info("batch purged", "batch", batch, "records", len(page))

			stats.Batches++
			stats.Records += len(page)
			stats.Bytes += len(content)
			a.metrics.BatchArchived(len(page), len(content))
		}

		cursor = &attendance.Cursor{CheckInTime: last.CheckInTime, ID: last.ID}

		// A short page means the query source is exhausted.
		if len(page) < a.pageSize {
			log.Info("tenant archival complete", "batches", stats.Batches, "records", stats.Records)
			return stats, nil
		}
	}
}
