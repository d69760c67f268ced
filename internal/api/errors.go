package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/bouquet-api/internal/api/shared"
	"github.com/phrazzld/bouquet-api/internal/domain"
	"github.com/phrazzld/bouquet-api/internal/generation"
	"github.com/phrazzld/bouquet-api/internal/service"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Bad request errors
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, domain.ErrDescriptionTooLong),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	case errors.Is(err, shared.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType

	// Generation failures are the one fatal pipeline outcome
	case errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusInternalServerError

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return "Description is too long"

	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, domain.ErrValidation):
		return "Invalid request"

	case errors.Is(err, shared.ErrUnsupportedMediaType):
		return "Unsupported content type"

	case errors.Is(err, generation.ErrContentBlocked):
		return "The description could not be processed"

	case errors.Is(err, generation.ErrGenerationFailed):
		return "Failed to generate bouquet plan"

	default:
		return "An unexpected error occurred"
	}
}
