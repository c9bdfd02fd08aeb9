package approval

import (
	"context"
	"errors"
	"fmt"

	"rollcall-hq/rollcall/pkg/tenant"
)

// DefaultApprovalLevels applies when a tenant has no stored configuration.
const DefaultApprovalLevels = 1

// ConfigSource is the slice of the tenant directory the policy needs.
type ConfigSource interface {
	GetConfig(ctx context.Context, tenantID string) (*tenant.Config, error)
}

// Policy reads the required approval depth from tenant configuration.
type Policy struct {
	configs ConfigSource
}

// NewPolicy creates a Policy backed by the given configuration source.
func NewPolicy(configs ConfigSource) *Policy {
	return &Policy{configs: configs}
}

// ApprovalLevels returns the tenant's configured approval depth. A tenant
// without stored configuration gets DefaultApprovalLevels; a negative
// configured value is treated as zero.
func (p *Policy) ApprovalLevels(ctx context.Context, tenantID string) (int, error) {
	cfg, err := p.configs.GetConfig(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrConfigNotFound) {
			return DefaultApprovalLevels, nil
		}
		return 0, fmt.Errorf("load tenant config: %w", err)
	}
	if cfg.ApprovalLevels < 0 {
		return 0, nil
	}
	return cfg.ApprovalLevels, nil
}
