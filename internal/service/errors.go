package service

import (
	"errors"
	"fmt"
)

// Common service errors. Callers check them with errors.Is; the API layer maps
// them to HTTP status codes.
var (
	// ErrInvalidRequest indicates the request was rejected before any
	// upstream call. API layer should map this to HTTP 400 Bad Request.
	ErrInvalidRequest = errors.New("invalid bouquet request")
)

// BouquetServiceError wraps errors from the bouquet service with context.
type BouquetServiceError struct {
	// Operation is the pipeline step that failed (e.g. "generate_plan").
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for BouquetServiceError.
func (e *BouquetServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bouquet service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("bouquet service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *BouquetServiceError) Unwrap() error {
	return e.Err
}

// NewBouquetServiceError creates a new BouquetServiceError, or returns nil
// when err is nil.
func NewBouquetServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	return &BouquetServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
