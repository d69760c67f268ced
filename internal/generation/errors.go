package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is wrapped by every error Generate returns. A caller
	// that only needs to know whether a plan could be produced checks for it.
	ErrGenerationFailed = errors.New("failed to generate bouquet plan")

	// ErrNoJSONFound is returned when the model reply contains no
	// brace-delimited region.
	ErrNoJSONFound = errors.New("no JSON found in language model response")

	// ErrInvalidJSON is returned when the extracted payload is not a JSON object.
	ErrInvalidJSON = errors.New("invalid JSON in language model response")

	// ErrTransport is returned when the language model service could not be
	// reached or answered with an error.
	ErrTransport = errors.New("language model request failed")

	// ErrContentBlocked is returned when the model refuses the content due to
	// safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrEmptyResponse is returned when the model answers with no text.
	ErrEmptyResponse = errors.New("empty response from language model")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
