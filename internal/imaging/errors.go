package imaging

import "errors"

var (
	// ErrImageFailed is wrapped by every error Synthesize returns.
	ErrImageFailed = errors.New("image generation failed")

	// ErrEmptyPrompt is returned when there is nothing to render.
	ErrEmptyPrompt = errors.New("image prompt cannot be empty")

	// ErrNotAnImage is returned when the service answers with bytes that are
	// not an image, such as a JSON error body sent with a success status.
	ErrNotAnImage = errors.New("image service returned non-image content")
)
