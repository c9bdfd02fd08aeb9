package archival

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"rollcall-hq/rollcall/pkg/tenant"
)

// TenantLister enumerates the tenants a run fans out over.
type TenantLister interface {
	ListTenants(ctx context.Context) ([]*tenant.Tenant, error)
}

// OutcomeStatus classifies one tenant's result within a run.
type OutcomeStatus string

const (
	// OutcomeSkipped means the tenant has archival disabled by configuration.
	OutcomeSkipped OutcomeStatus = "skipped"
	// OutcomeArchived means the tenant's archivable records were fully processed.
	OutcomeArchived OutcomeStatus = "archived"
	// OutcomeFailed means the tenant's loop aborted; unprocessed records stay live.
	OutcomeFailed OutcomeStatus = "failed"
)

// Outcome is one tenant's settled result.
type Outcome struct {
	TenantID string
	Status   OutcomeStatus
	Stats    TenantStats
	Err      error
	// Critical marks the archived-but-not-purged failure class, which
	// needs manual reconciliation.
	Critical bool
}

// Coordinator runs the archival pipeline across all tenants as independent
// units of work. One tenant's failure never affects the queries, writes, or
// purge decisions of any other tenant.
type Coordinator struct {
	tenants       TenantLister
	policy        *PolicyResolver
	archiver      *BatchArchiver
	maxConcurrent int64
	logger        *slog.Logger
	metrics       *Metrics
}

// NewCoordinator creates a Coordinator. maxConcurrent bounds how many
// tenants are processed at once; zero or negative means unbounded, matching
// the behavior of running every tenant as its own task. metrics may be nil.
func NewCoordinator(tenants TenantLister, policy *PolicyResolver, archiver *BatchArchiver, maxConcurrent int, metrics *Metrics) *Coordinator {
	return &Coordinator{
		tenants:       tenants,
		policy:        policy,
		archiver:      archiver,
		maxConcurrent: int64(maxConcurrent),
		logger:        slog.Default().With("component", "archival.coordinator"),
		metrics:       metrics,
	}
}

// Run executes one fan-out pass and settles every tenant's outcome. It is a
// settle-all join: outcomes are collected for every tenant, never
// short-circuited by a sibling's failure. Only a failure to list tenants is
// fatal for the whole run.
func (c *Coordinator) Run(ctx context.Context) ([]Outcome, error) {
	runID := uuid.NewString()
	start := time.Now()
	log := c.logger.With("run_id", runID)

	c.metrics.RunStarted()
	log.Info("starting archival run for all tenants")

	tenants, err := c.tenants.ListTenants(ctx)
	if err != nil {
		log.Error("failed to list tenants, aborting run", "error", err)
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	if len(tenants) == 0 {
		log.Info("no tenants found, archival run finished")
		c.metrics.RunFinished(time.Since(start))
		return nil, nil
	}
	log.Info("tenants discovered", "count", len(tenants))

	var sem *semaphore.Weighted
	if c.maxConcurrent > 0 {
		sem = semaphore.NewWeighted(c.maxConcurrent)
	}

	outcomes := make([]Outcome, len(tenants))
	var wg sync.WaitGroup
	for i, t := range tenants {
		wg.Add(1)
		go func(i int, t *tenant.Tenant) {
			defer wg.Done()
			if sem != nil {
				if err := sem.Acquire(ctx, 1); err != nil {
					outcomes[i] = Outcome{TenantID: t.ID, Status: OutcomeFailed, Err: err}
					return
				}
				defer sem.Release(1)
			}
			outcomes[i] = c.processTenant(ctx, t, runID)
		}(i, t)
	}
	wg.Wait()

	for _, outcome := range outcomes {
		c.metrics.TenantOutcome(string(outcome.Status))
		switch outcome.Status {
		case OutcomeFailed:
			log.Error("tenant archival failed",
				"tenant_id", outcome.TenantID,
				"critical", outcome.Critical,
				"error", outcome.Err,
			)
		default:
			log.Info("tenant archival settled",
				"tenant_id", outcome.TenantID,
				"outcome", string(outcome.Status),
				"batches", outcome.Stats.Batches,
				"records", outcome.Stats.Records,
			)
		}
	}

	c.metrics.RunFinished(time.Since(start))
	log.Info("archival run completed",
		"tenants", len(tenants),
		"duration", time.Since(start).String(),
	)
	return outcomes, nil
}

// processTenant runs one tenant end to end and converts any error into a
// settled outcome. All failure containment for the fan-out lives here.
func (c *Coordinator) processTenant(ctx context.Context, t *tenant.Tenant, runID string) Outcome {
	cutoff, ok, err := c.policy.Resolve(ctx, t.ID)
	if err != nil {
		return Outcome{TenantID: t.ID, Status: OutcomeFailed, Err: err}
	}
	if !ok {
		return Outcome{TenantID: t.ID, Status: OutcomeSkipped}
	}

	stats, err := c.archiver.ArchiveTenant(ctx, t.ID, cutoff, runID)
	if err != nil {
		return Outcome{
			TenantID: t.ID,
			Status:   OutcomeFailed,
			Stats:    stats,
			Err:      err,
			Critical: IsCritical(err),
		}
	}
	return Outcome{TenantID: t.ID, Status: OutcomeArchived, Stats: stats}
}
