package tenant

import (
	"errors"
	"fmt"
)

// Sentinel errors for directory lookups.
var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrConfigNotFound = errors.New("tenant config not found")
	ErrUserNotFound   = errors.New("user not found")
)

// StoreError represents an error from a directory store backend.
type StoreError struct {
	Backend   string
	Operation string
	Cause     error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("tenant store error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewStoreError creates a new StoreError.
func NewStoreError(backend, operation string, cause error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
