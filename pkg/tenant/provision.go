package tenant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default configuration values for a newly provisioned tenant.
const (
	DefaultRetentionDays  = 365
	DefaultApprovalLevels = 1
	DefaultTimezone       = "UTC"
)

// Provisioner creates new tenants with their default configuration and an
// initial admin account.
type Provisioner struct {
	store  Store
	now    func() time.Time
	logger *slog.Logger
}

// NewProvisioner creates a Provisioner backed by the given directory store.
func NewProvisioner(store Store) *Provisioner {
	return &Provisioner{
		store:  store,
		now:    time.Now,
		logger: slog.Default().With("component", "tenant.provisioner"),
	}
}

// ProvisionRequest carries the inputs for onboarding a new tenant.
type ProvisionRequest struct {
	OrganizationName string
	AdminName        string
	AdminEmail       string
}

// Provision creates the tenant, writes its default configuration, and creates
// the admin user. Returns the new tenant and admin.
func (p *Provisioner) Provision(ctx context.Context, req ProvisionRequest) (*Tenant, *User, error) {
	org := strings.TrimSpace(req.OrganizationName)
	if org == "" {
		return nil, nil, fmt.Errorf("organization name is required")
	}
	email := strings.TrimSpace(req.AdminEmail)
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, fmt.Errorf("valid admin email is required")
	}

	now := p.now().UTC()
	t := &Tenant{
		ID:               uuid.NewString(),
		OrganizationName: org,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := p.store.PutTenant(ctx, t); err != nil {
		return nil, nil, fmt.Errorf("create tenant: %w", err)
	}

	cfg := &Config{
		TenantID:          t.ID,
		DataRetentionDays: DefaultRetentionDays,
		ApprovalLevels:    DefaultApprovalLevels,
		Timezone:          DefaultTimezone,
	}
	if err := p.store.PutConfig(ctx, cfg); err != nil {
		return nil, nil, fmt.Errorf("write default config: %w", err)
	}

	admin := &User{
		ID:        uuid.NewString(),
		TenantID:  t.ID,
		Name:      strings.TrimSpace(req.AdminName),
		Email:     email,
		Role:      RoleAdmin,
		Status:    UserInvited,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.store.PutUser(ctx, admin); err != nil {
		return nil, nil, fmt.Errorf("create admin user: %w", err)
	}

	p.logger.Info("tenant provisioned",
		"tenant_id", t.ID,
		"organization", t.OrganizationName,
		"retention_days", cfg.DataRetentionDays,
	)
	return t, admin, nil
}
