package archival

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rollcall-hq/rollcall/pkg/tenant"
)

// ConfigSource looks up a tenant's configuration document.
type ConfigSource interface {
	GetConfig(ctx context.Context, tenantID string) (*tenant.Config, error)
}

// PolicyResolver computes the retention cutoff for a tenant from its
// configured retention window.
type PolicyResolver struct {
	configs ConfigSource
	now     func() time.Time
	logger  *slog.Logger
}

// NewPolicyResolver creates a PolicyResolver. The clock defaults to time.Now
// and can be overridden for tests via WithClock.
func NewPolicyResolver(configs ConfigSource) *PolicyResolver {
	return &PolicyResolver{
		configs: configs,
		now:     time.Now,
		logger:  slog.Default().With("component", "archival.policy"),
	}
}

// WithClock overrides the resolver's clock. Returns the resolver for chaining.
func (r *PolicyResolver) WithClock(now func() time.Time) *PolicyResolver {
	r.now = now
	return r
}

// Resolve returns the absolute cutoff instant for the tenant. Records at or
// before the cutoff are archivable.
//
// A missing configuration document or a non-positive retention window
// disables archival for the tenant: Resolve returns ok=false and a nil
// error, because that is a deliberate configuration choice, not a failure.
//
// The cutoff is computed by calendar-day subtraction (AddDate), not elapsed
// seconds, so day-boundary semantics match the tenant's expectation of
// "N days of history".
func (r *PolicyResolver) Resolve(ctx context.Context, tenantID string) (cutoff time.Time, ok bool, err error) {
	cfg, err := r.configs.GetConfig(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrConfigNotFound) {
			r.logger.Warn("no configuration document, skipping archival", "tenant_id", tenantID)
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("fetch tenant config: %w", err)
	}

	if cfg.DataRetentionDays <= 0 {
		r.logger.Warn("no valid retention window configured, skipping archival",
			"tenant_id", tenantID,
			"data_retention_days", cfg.DataRetentionDays,
		)
		return time.Time{}, false, nil
	}

	cutoff = r.now().AddDate(0, 0, -cfg.DataRetentionDays)
	r.logger.Info("retention cutoff resolved",
		"tenant_id", tenantID,
		"retention_days", cfg.DataRetentionDays,
		"cutoff", cutoff.UTC().Format(time.RFC3339),
	)
	return cutoff, true, nil
}
