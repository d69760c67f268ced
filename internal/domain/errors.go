package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrDescriptionTooLong is returned when a bouquet description exceeds the
	// configured maximum length.
	ErrDescriptionTooLong = errors.New("description is too long")

	// ErrEmptyImageData is returned when an image artifact is built from no bytes.
	ErrEmptyImageData = errors.New("image data cannot be empty")

	// ErrEmptyImageReference is returned when a referenced image has no URL.
	ErrEmptyImageReference = errors.New("image reference cannot be empty")
)
