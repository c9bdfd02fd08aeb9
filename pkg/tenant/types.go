package tenant

import (
	"context"
	"time"
)

// Tenant represents a single organization in the multi-tenant architecture.
type Tenant struct {
	ID               string    `json:"id"`
	OrganizationName string    `json:"organization_name"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Config stores tenant-specific configuration settings.
//
// DataRetentionDays controls the archival pipeline: records older than the
// window become archivable. A missing config document or a non-positive value
// disables archival for the tenant; that is a configuration choice, not an
// error.
type Config struct {
	TenantID          string    `json:"tenant_id"`
	DataRetentionDays int       `json:"data_retention_days"`
	ApprovalLevels    int       `json:"approval_levels"`
	Timezone          string    `json:"timezone"` // IANA format, e.g. "America/New_York"
	Geofence          *Geofence `json:"geofence,omitempty"`
}

// Geofence bounds the area inside which check-ins are considered on-site.
type Geofence struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	RadiusMeters float64 `json:"radius_meters"`
}

// Role is a user's role within a tenant.
type Role string

const (
	RoleAdmin       Role = "Admin"
	RoleSupervisor  Role = "Supervisor"
	RoleSubordinate Role = "Subordinate"
)

// UserStatus is the lifecycle state of a user account.
type UserStatus string

const (
	UserActive      UserStatus = "Active"
	UserInvited     UserStatus = "Invited"
	UserDeactivated UserStatus = "Deactivated"
)

// User is an individual account within a tenant.
type User struct {
	ID           string     `json:"id"`
	TenantID     string     `json:"tenant_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	SupervisorID string     `json:"supervisor_id,omitempty"`
	PushToken    string     `json:"push_token,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleSubordinate:
		return true
	}
	return false
}

// Store is the tenant directory boundary.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// PutTenant inserts or replaces a tenant.
	PutTenant(ctx context.Context, t *Tenant) error

	// GetTenant returns a tenant by id, or ErrTenantNotFound.
	GetTenant(ctx context.Context, id string) (*Tenant, error)

	// ListTenants returns all tenants.
	ListTenants(ctx context.Context) ([]*Tenant, error)

	// PutConfig inserts or replaces a tenant's configuration.
	PutConfig(ctx context.Context, cfg *Config) error

	// GetConfig returns a tenant's configuration, or ErrConfigNotFound.
	GetConfig(ctx context.Context, tenantID string) (*Config, error)

	// PutUser inserts or replaces a user.
	PutUser(ctx context.Context, u *User) error

	// GetUser returns a user by id, or ErrUserNotFound.
	GetUser(ctx context.Context, tenantID, userID string) (*User, error)

	// ListUsers returns all users of a tenant.
	ListUsers(ctx context.Context, tenantID string) ([]*User, error)

	// Close releases any resources held by the store.
	Close() error
}
