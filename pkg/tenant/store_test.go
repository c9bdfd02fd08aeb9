package tenant

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func testBackends(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "directory.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() failed: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStore_TenantLifecycle(t *testing.T) {
	for name, store := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

			if _, err := store.GetTenant(ctx, "missing"); !errors.Is(err, ErrTenantNotFound) {
				t.Errorf("GetTenant(missing) err = %v, want ErrTenantNotFound", err)
			}

			for _, id := range []string{"t2", "t1"} {
				if err := store.PutTenant(ctx, &Tenant{
					ID: id, OrganizationName: "org-" + id, CreatedAt: now, UpdatedAt: now,
				}); err != nil {
					t.Fatalf("PutTenant() failed: %v", err)
				}
			}

			got, err := store.GetTenant(ctx, "t1")
			if err != nil {
				t.Fatalf("GetTenant() failed: %v", err)
			}
			if got.OrganizationName != "org-t1" || !got.CreatedAt.Equal(now) {
				t.Errorf("tenant mismatch: %+v", got)
			}

			// Replace updates in place.
			if err := store.PutTenant(ctx, &Tenant{
				ID: "t1", OrganizationName: "renamed", CreatedAt: now, UpdatedAt: now.Add(time.Hour),
			}); err != nil {
				t.Fatalf("PutTenant() replace failed: %v", err)
			}

			tenants, err := store.ListTenants(ctx)
			if err != nil {
				t.Fatalf("ListTenants() failed: %v", err)
			}
			if len(tenants) != 2 || tenants[0].ID != "t1" || tenants[1].ID != "t2" {
				t.Errorf("ListTenants() order wrong: %+v", tenants)
			}
			if tenants[0].OrganizationName != "renamed" {
				t.Errorf("replace did not stick: %+v", tenants[0])
			}
		})
	}
}

func TestStore_ConfigLifecycle(t *testing.T) {
	for name, store := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := store.GetConfig(ctx, "t1"); !errors.Is(err, ErrConfigNotFound) {
				t.Errorf("GetConfig(missing) err = %v, want ErrConfigNotFound", err)
			}

			cfg := &Config{
				TenantID:          "t1",
				DataRetentionDays: 90,
				ApprovalLevels:    2,
				Timezone:          "America/New_York",
				Geofence:          &Geofence{Lat: 40.7, Lng: -74.0, RadiusMeters: 150},
			}
			if err := store.PutConfig(ctx, cfg); err != nil {
				t.Fatalf("PutConfig() failed: %v", err)
			}

			got, err := store.GetConfig(ctx, "t1")
			if err != nil {
				t.Fatalf("GetConfig() failed: %v", err)
			}
			if got.DataRetentionDays != 90 || got.Timezone != "America/New_York" {
				t.Errorf("config mismatch: %+v", got)
			}
			if got.Geofence == nil || got.Geofence.RadiusMeters != 150 {
				t.Errorf("geofence lost: %+v", got.Geofence)
			}
		})
	}
}

func TestStore_UserLifecycle(t *testing.T) {
	for name, store := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

			if _, err := store.GetUser(ctx, "t1", "missing"); !errors.Is(err, ErrUserNotFound) {
				t.Errorf("GetUser(missing) err = %v, want ErrUserNotFound", err)
			}

			users := []*User{
				{ID: "u2", TenantID: "t1", Name: "B", Email: "b@example.com", Role: RoleSupervisor, Status: UserActive, CreatedAt: now, UpdatedAt: now},
				{ID: "u1", TenantID: "t1", Name: "A", Email: "a@example.com", Role: RoleSubordinate, Status: UserActive, SupervisorID: "u2", CreatedAt: now, UpdatedAt: now},
				{ID: "u3", TenantID: "t2", Name: "C", Email: "c@example.com", Role: RoleAdmin, Status: UserInvited, CreatedAt: now, UpdatedAt: now},
			}
			for _, u := range users {
				if err := store.PutUser(ctx, u); err != nil {
					t.Fatalf("PutUser() failed: %v", err)
				}
			}

			got, err := store.GetUser(ctx, "t1", "u1")
			if err != nil {
				t.Fatalf("GetUser() failed: %v", err)
			}
			if got.SupervisorID != "u2" || got.Role != RoleSubordinate {
				t.Errorf("user mismatch: %+v", got)
			}

			// Users are tenant scoped.
			if _, err := store.GetUser(ctx, "t1", "u3"); !errors.Is(err, ErrUserNotFound) {
				t.Errorf("cross-tenant GetUser must miss, got err=%v", err)
			}

			list, err := store.ListUsers(ctx, "t1")
			if err != nil {
				t.Fatalf("ListUsers() failed: %v", err)
			}
			if len(list) != 2 || list[0].ID != "u1" || list[1].ID != "u2" {
				t.Errorf("ListUsers() = %+v, want [u1 u2]", list)
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleSupervisor, RoleSubordinate} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	if ValidRole("Manager") {
		t.Error(`ValidRole("Manager") = true, want false`)
	}
}
