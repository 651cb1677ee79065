package errors

import (
	"errors"
	"fmt"
)

// Application-specific errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("resource conflict")
	ErrCapacityExceeded = errors.New("department at capacity")
	ErrNoDepartment     = errors.New("no suitable department")
)

// ConfigurationError signals a malformed rule table or engine setting. It is
// raised at construction time, before any analysis call runs.
type ConfigurationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in '%s': %s", e.Field, e.Message)
}

// StoreError wraps a failure in the corpus or department store.
type StoreError struct {
	Operation string
	Err       error
}

func (e StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Operation, e.Err)
}

func (e StoreError) Unwrap() error {
	return e.Err
}
