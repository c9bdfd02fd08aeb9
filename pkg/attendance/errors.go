package attendance

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("attendance record not found")

// ErrAlreadyCheckedOut is returned when a check-out targets a closed record.
var ErrAlreadyCheckedOut = errors.New("record already checked out")

// ErrAlreadyDecided is returned when a decision targets a non-pending record.
var ErrAlreadyDecided = errors.New("record already decided")

// StorageError represents an error from a store backend.
type StorageError struct {
	Backend   string // backend type ("sqlite", "memory")
	Operation string // operation that failed ("put", "query", "purge", ...)
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("attendance storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// BatchSizeError is returned when a purge batch exceeds MaxPurgeBatch.
type BatchSizeError struct {
	Size    int
	Ceiling int
}

// Error implements the error interface.
func (e *BatchSizeError) Error() string {
	return fmt.Sprintf("purge batch of %d records exceeds ceiling of %d", e.Size, e.Ceiling)
}
