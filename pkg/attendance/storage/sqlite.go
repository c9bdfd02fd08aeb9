package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"rollcall-hq/rollcall/pkg/attendance"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/rollcall.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements the attendance.Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite attendance store.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "attendance.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, attendance.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite attendance store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return attendance.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return attendance.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return attendance.NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return attendance.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return attendance.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return attendance.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Put inserts or replaces a record.
func (s *SQLiteStore) Put(ctx context.Context, record *attendance.Record) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return attendance.NewStorageError("sqlite", "put", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO attendance (id, tenant_id, user_id, check_in_unix, status, doc)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(tenant_id, id) DO UPDATE SET
			user_id = excluded.user_id,
			check_in_unix = excluded.check_in_unix,
			status = excluded.status,
			doc = excluded.doc;`,
		record.ID, record.TenantID, record.UserID,
		record.CheckInTime.UnixNano(), string(statusOrPending(record.Status)), string(doc),
	)
	if err != nil {
		return attendance.NewStorageError("sqlite", "put", err)
	}
	return nil
}

func statusOrPending(status attendance.Status) attendance.Status {
	if status == "" {
		return attendance.StatusPending
	}
	return status
}

// Get returns a record by id, or attendance.ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, tenantID, id string) (*attendance.Record, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM attendance WHERE tenant_id = ? AND id = ?;`, tenantID, id,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, attendance.ErrNotFound
	}
	if err != nil {
		return nil, attendance.NewStorageError("sqlite", "get", err)
	}
	return decodeDoc(doc)
}

// QueryArchivable returns up to limit records at or before the cutoff,
// ordered ascending by (check-in time, id), starting after the cursor.
//
// The query orders and bounds strictly on the age field, so records written
// past the cutoff while a run is in flight cannot perturb pages already
// returned in that run.
func (s *SQLiteStore) QueryArchivable(ctx context.Context, tenantID string, cutoff time.Time, limit int, after *attendance.Cursor) ([]*attendance.Record, error) {
	query := `
		SELECT doc FROM attendance
		WHERE tenant_id = ? AND check_in_unix <= ?`
	args := []any{tenantID, cutoff.UnixNano()}

	if after != nil {
		query += ` AND (check_in_unix > ? OR (check_in_unix = ? AND id > ?))`
		afterUnix := after.CheckInTime.UnixNano()
		args = append(args, afterUnix, afterUnix, after.ID)
	}

	query += ` ORDER BY check_in_unix ASC, id ASC LIMIT ?;`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, attendance.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	var results []*attendance.Record
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, attendance.NewStorageError("sqlite", "query", err)
		}
		record, err := decodeDoc(doc)
		if err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, attendance.NewStorageError("sqlite", "query", err)
	}
	return results, nil
}

// PurgeBatch deletes exactly the given record ids in a single transaction.
func (s *SQLiteStore) PurgeBatch(ctx context.Context, tenantID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if len(ids) > attendance.MaxPurgeBatch {
		return attendance.NewStorageError("sqlite", "purge", &attendance.BatchSizeError{Size: len(ids), Ceiling: attendance.MaxPurgeBatch})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return attendance.NewStorageError("sqlite", "purge", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, tenantID)
	for _, id := range ids {
		args = append(args, id)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM attendance WHERE tenant_id = ? AND id IN (`+placeholders+`);`, args...)
	if err != nil {
		return attendance.NewStorageError("sqlite", "purge", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return attendance.NewStorageError("sqlite", "purge", err)
	}
	if deleted != int64(len(ids)) {
		return attendance.NewStorageError("sqlite", "purge",
			fmt.Errorf("expected to delete %d records, deleted %d", len(ids), deleted))
	}

	if err := tx.Commit(); err != nil {
		return attendance.NewStorageError("sqlite", "purge", err)
	}

	s.logger.Debug("purged record batch", "tenant_id", tenantID, "count", len(ids))
	return nil
}

// Count returns the number of live records for the tenant.
func (s *SQLiteStore) Count(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance WHERE tenant_id = ?;`, tenantID,
	).Scan(&count)
	if err != nil {
		return 0, attendance.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func decodeDoc(doc string) (*attendance.Record, error) {
	var record attendance.Record
	if err := json.Unmarshal([]byte(doc), &record); err != nil {
		return nil, attendance.NewStorageError("sqlite", "decode", err)
	}
	return &record, nil
}
