package tenant

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore implements the Store interface in memory. Intended for tests
// and local development.
type MemoryStore struct {
	tenants map[string]*Tenant
	configs map[string]*Config
	users   map[string]map[string]*User // tenantID -> userID -> user
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory tenant directory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tenants: make(map[string]*Tenant),
		configs: make(map[string]*Config),
		users:   make(map[string]map[string]*User),
	}
}

// PutTenant inserts or replaces a tenant.
func (s *MemoryStore) PutTenant(ctx context.Context, t *Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *t
	s.tenants[t.ID] = &copied
	return nil
}

// GetTenant returns a tenant by id, or ErrTenantNotFound.
func (s *MemoryStore) GetTenant(ctx context.Context, id string) (*Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tenants[id]
	if !ok {
		return nil, ErrTenantNotFound
	}
	copied := *t
	return &copied, nil
}

// ListTenants returns all tenants sorted by id for deterministic iteration.
func (s *MemoryStore) ListTenants(ctx context.Context) ([]*Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		copied := *t
		results = append(results, &copied)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

// PutConfig inserts or replaces a tenant's configuration.
func (s *MemoryStore) PutConfig(ctx context.Context, cfg *Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *cfg
	s.configs[cfg.TenantID] = &copied
	return nil
}

// GetConfig returns a tenant's configuration, or ErrConfigNotFound.
func (s *MemoryStore) GetConfig(ctx context.Context, tenantID string) (*Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[tenantID]
	if !ok {
		return nil, ErrConfigNotFound
	}
	copied := *cfg
	return &copied, nil
}

// PutUser inserts or replaces a user.
func (s *MemoryStore) PutUser(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := s.users[u.TenantID]
	if users == nil {
		users = make(map[string]*User)
		s.users[u.TenantID] = users
	}
	copied := *u
	users[u.ID] = &copied
	return nil
}

// GetUser returns a user by id, or ErrUserNotFound.
func (s *MemoryStore) GetUser(ctx context.Context, tenantID, userID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[tenantID][userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// ListUsers returns all users of a tenant sorted by id.
func (s *MemoryStore) ListUsers(ctx context.Context, tenantID string) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*User, 0, len(s.users[tenantID]))
	for _, u := range s.users[tenantID] {
		copied := *u
		results = append(results, &copied)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

// Close releases resources; a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
