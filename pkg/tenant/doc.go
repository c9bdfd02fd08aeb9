// Package tenant holds the tenant directory: tenant organizations, their
// per-tenant configuration, and their user accounts.
//
// Tenants are created once at onboarding through the provisioning service and
// are read-only to the rest of the system. The configuration document carries
// the data retention window the archival pipeline resolves against.
package tenant
