package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the attendance database schema.
//
// The typed record core is indexed in columns; the full document, including
// any fields this system does not know about, lives in the doc column as
// JSON. check_in_unix carries the age field as unix nanoseconds so cursor
// comparisons are exact regardless of timestamp text formats.
const Schema = `
-- Attendance records table
CREATE TABLE IF NOT EXISTS attendance (
    id TEXT NOT NULL,
    tenant_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    check_in_unix INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'Pending',
    doc TEXT NOT NULL,
    PRIMARY KEY (tenant_id, id)
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Index driving the retention range query
CREATE INDEX IF NOT EXISTS idx_attendance_tenant_checkin ON attendance(tenant_id, check_in_unix, id);
CREATE INDEX IF NOT EXISTS idx_attendance_tenant_user ON attendance(tenant_id, user_id);
CREATE INDEX IF NOT EXISTS idx_attendance_tenant_status ON attendance(tenant_id, status);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
