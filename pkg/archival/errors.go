package archival

import (
	"errors"
	"fmt"
)

// WriteError represents a failed archive write. The batch was not purged;
// the records remain live and will be retried on the next run.
type WriteError struct {
	TenantID string
	FileName string
	Cause    error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("archive write failed [tenant=%s, file=%s]: %v", e.TenantID, e.FileName, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *WriteError) Unwrap() error {
	return e.Cause
}

// NewWriteError creates a new WriteError.
func NewWriteError(tenantID, fileName string, cause error) *WriteError {
	return &WriteError{TenantID: tenantID, FileName: fileName, Cause: cause}
}

// PurgeError represents the most severe failure class: the archive write was
// confirmed but the purge of the same batch failed. The batch is duplicated
// (archived once, still live), never lost. Requires manual reconciliation.
type PurgeError struct {
	TenantID string
	FileName string
	Batch    int
	Records  int
	Cause    error
}

// Error implements the error interface.
func (e *PurgeError) Error() string {
	return fmt.Sprintf("purge failed after confirmed archive write [tenant=%s, file=%s, batch=%d, records=%d]: %v",
		e.TenantID, e.FileName, e.Batch, e.Records, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *PurgeError) Unwrap() error {
	return e.Cause
}

// NewPurgeError creates a new PurgeError.
func NewPurgeError(tenantID, fileName string, batch, records int, cause error) *PurgeError {
	return &PurgeError{TenantID: tenantID, FileName: fileName, Batch: batch, Records: records, Cause: cause}
}

// SerializeError represents a record that could not be serialized. Fatal for
// its batch: dropping the record would break the archive-before-purge
// invariant.
type SerializeError struct {
	RecordID string
	Cause    error
}

// Error implements the error interface.
func (e *SerializeError) Error() string {
	return fmt.Sprintf("record serialization failed [record=%s]: %v", e.RecordID, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *SerializeError) Unwrap() error {
	return e.Cause
}

// QueryError represents a failed live-store query during pagination.
type QueryError struct {
	TenantID string
	Batch    int
	Cause    error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("archivable query failed [tenant=%s, batch=%d]: %v", e.TenantID, e.Batch, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

// IsCritical reports whether err belongs to the archived-but-not-purged
// failure class that requires manual reconciliation.
func IsCritical(err error) bool {
	var purgeErr *PurgeError
	return errors.As(err, &purgeErr)
}
