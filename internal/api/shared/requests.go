package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MaxRequestBodyBytes bounds request bodies read by this package.
const MaxRequestBodyBytes = 64 << 10

// ErrUnsupportedMediaType is returned for bodies that are neither JSON nor
// form-encoded.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// Global validator instance for reuse
var validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// FormOrJSONValue reads one string field from a request body that is either
// JSON or form-encoded (urlencoded or multipart). A missing field yields "".
func FormOrJSONValue(w http.ResponseWriter, r *http.Request, field string) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)

	mediaType := ""
	if ct := r.Header.Get("Content-Type"); ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
		}
		mediaType = parsed
	}

	switch mediaType {
	case "application/json":
		var body map[string]json.RawMessage
		if err := DecodeJSON(r, &body); err != nil {
			return "", fmt.Errorf("decode json body: %w", err)
		}
		raw, ok := body[field]
		if !ok || string(raw) == "null" {
			return "", nil
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return "", fmt.Errorf("field %s must be a string: %w", field, err)
		}
		return value, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(MaxRequestBodyBytes); err != nil {
			return "", fmt.Errorf("parse multipart form: %w", err)
		}
		return r.PostFormValue(field), nil

	case "application/x-www-form-urlencoded", "":
		if err := r.ParseForm(); err != nil {
			return "", fmt.Errorf("parse form: %w", err)
		}
		return r.PostFormValue(field), nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
}

// ValidateVar validates a single value against a validator tag, e.g. "max=2000".
func ValidateVar(v interface{}, tag string) error {
	return validate.Var(v, tag)
}
