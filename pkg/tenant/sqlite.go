package tenant

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// tenantSchema contains the SQL statements to create the directory schema.
// Config and user documents are stored as JSON, the same document idiom the
// attendance store uses.
const tenantSchema = `
CREATE TABLE IF NOT EXISTS tenants (
    id TEXT PRIMARY KEY,
    organization_name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS tenant_configs (
    tenant_id TEXT PRIMARY KEY,
    doc TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
    tenant_id TEXT NOT NULL,
    id TEXT NOT NULL,
    doc TEXT NOT NULL,
    PRIMARY KEY (tenant_id, id)
);
`

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the tenant directory at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, NewStoreError("sqlite", "open", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, NewStoreError("sqlite", "enable_wal", err)
	}
	if _, err := db.Exec(tenantSchema); err != nil {
		db.Close()
		return nil, NewStoreError("sqlite", "create_schema", err)
	}

	logger := slog.Default().With("component", "tenant.store.sqlite")
	logger.Info("SQLite tenant directory initialized", "path", path)

	return &SQLiteStore{db: db, logger: logger}, nil
}

// PutTenant inserts or replaces a tenant.
func (s *SQLiteStore) PutTenant(ctx context.Context, t *Tenant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tenants (id, organization_name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			organization_name = excluded.organization_name,
			updated_at = excluded.updated_at;`,
		t.ID, t.OrganizationName, t.CreatedAt.UTC().Format(time.RFC3339Nano), t.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return NewStoreError("sqlite", "put_tenant", err)
	}
	return nil
}

// GetTenant returns a tenant by id, or ErrTenantNotFound.
func (s *SQLiteStore) GetTenant(ctx context.Context, id string) (*Tenant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, organization_name, created_at, updated_at FROM tenants WHERE id = ?;`, id)
	return scanTenant(row)
}

// ListTenants returns all tenants ordered by id.
func (s *SQLiteStore) ListTenants(ctx context.Context) ([]*Tenant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, organization_name, created_at, updated_at FROM tenants ORDER BY id;`)
	if err != nil {
		return nil, NewStoreError("sqlite", "list_tenants", err)
	}
	defer rows.Close()

	var results []*Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStoreError("sqlite", "list_tenants", err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*Tenant, error) {
	var t Tenant
	var created, updated string
	err := row.Scan(&t.ID, &t.OrganizationName, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, NewStoreError("sqlite", "scan_tenant", err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, NewStoreError("sqlite", "scan_tenant", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, NewStoreError("sqlite", "scan_tenant", err)
	}
	return &t, nil
}

// PutConfig inserts or replaces a tenant's configuration.
func (s *SQLiteStore) PutConfig(ctx context.Context, cfg *Config) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return NewStoreError("sqlite", "put_config", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tenant_configs (tenant_id, doc) VALUES (?, ?)
		ON CONFLICT(tenant_id) DO UPDATE SET doc = excluded.doc;`,
		cfg.TenantID, string(doc),
	)
	if err != nil {
		return NewStoreError("sqlite", "put_config", err)
	}
	return nil
}

// GetConfig returns a tenant's configuration, or ErrConfigNotFound.
func (s *SQLiteStore) GetConfig(ctx context.Context, tenantID string) (*Config, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM tenant_configs WHERE tenant_id = ?;`, tenantID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, NewStoreError("sqlite", "get_config", err)
	}
	var cfg Config
	if err := json.Unmarshal([]byte(doc), &cfg); err != nil {
		return nil, NewStoreError("sqlite", "get_config", err)
	}
	return &cfg, nil
}

// PutUser inserts or replaces a user.
func (s *SQLiteStore) PutUser(ctx context.Context, u *User) error {
	doc, err := json.Marshal(u)
	if err != nil {
		return NewStoreError("sqlite", "put_user", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (tenant_id, id, doc) VALUES (?, ?, ?)
		ON CONFLICT(tenant_id, id) DO UPDATE SET doc = excluded.doc;`,
		u.TenantID, u.ID, string(doc),
	)
	if err != nil {
		return NewStoreError("sqlite", "put_user", err)
	}
	return nil
}

// GetUser returns a user by id, or ErrUserNotFound.
func (s *SQLiteStore) GetUser(ctx context.Context, tenantID, userID string) (*User, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM users WHERE tenant_id = ? AND id = ?;`, tenantID, userID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, NewStoreError("sqlite", "get_user", err)
	}
	var u User
	if err := json.Unmarshal([]byte(doc), &u); err != nil {
		return nil, NewStoreError("sqlite", "get_user", err)
	}
	return &u, nil
}

// ListUsers returns all users of a tenant ordered by id.
func (s *SQLiteStore) ListUsers(ctx context.Context, tenantID string) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM users WHERE tenant_id = ? ORDER BY id;`, tenantID)
	if err != nil {
		return nil, NewStoreError("sqlite", "list_users", err)
	}
	defer rows.Close()

	var results []*User
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, NewStoreError("sqlite", "list_users", err)
		}
		var u User
		if err := json.Unmarshal([]byte(doc), &u); err != nil {
			return nil, NewStoreError("sqlite", "list_users", err)
		}
		results = append(results, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStoreError("sqlite", "list_users", err)
	}
	return results, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
