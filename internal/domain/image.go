package domain

import (
	"encoding/base64"
	"strings"
)

// DefaultImageMIMEType is assumed when the image service does not say otherwise.
const DefaultImageMIMEType = "image/png"

// ImageArtifact is a generated bouquet image, either hosted somewhere and
// referenced by URL or carried inline as a base64 data URI.
type ImageArtifact struct {
	// Reference is the value handed to the client: an absolute or
	// site-relative URL, or a data URI when Inline is true.
	Reference string `json:"reference"`

	// MIMEType is the media type of the image bytes.
	MIMEType string `json:"mime_type"`

	// Inline is true when Reference is a data URI.
	Inline bool `json:"inline"`
}

// NewInlineImage encodes data as a data URI.
func NewInlineImage(data []byte, mimeType string) (*ImageArtifact, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImageData
	}
	mimeType = normalizeMIMEType(mimeType)

	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mimeType) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))

	return &ImageArtifact{
		Reference: b.String(),
		MIMEType:  mimeType,
		Inline:    true,
	}, nil
}

// NewReferencedImage wraps the URL of an externally stored image.
func NewReferencedImage(url, mimeType string) (*ImageArtifact, error) {
	if url == "" {
		return nil, ErrEmptyImageReference
	}
	return &ImageArtifact{
		Reference: url,
		MIMEType:  normalizeMIMEType(mimeType),
	}, nil
}

// ReferenceOrEmpty returns the artifact's reference, or "" for a nil artifact.
// Absence of an image is a valid outcome, not an error.
func (a *ImageArtifact) ReferenceOrEmpty() string {
	if a == nil {
		return ""
	}
	return a.Reference
}

func normalizeMIMEType(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return DefaultImageMIMEType
	}
	return mimeType
}
