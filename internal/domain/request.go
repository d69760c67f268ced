package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// BouquetRequest is the free-text description a user submits. It is deliberately
// not validated for content: an empty description is forwarded to the language
// model as-is and simply yields a sparse plan.
type BouquetRequest struct {
	Description string `json:"description"`
}

// NewBouquetRequest creates a BouquetRequest from raw user input, trimming
// surrounding whitespace.
func NewBouquetRequest(description string) BouquetRequest {
	return BouquetRequest{Description: strings.TrimSpace(description)}
}

// CheckLength returns ErrDescriptionTooLong if the description has more than
// maxRunes characters. A non-positive maxRunes disables the check.
func (r BouquetRequest) CheckLength(maxRunes int) error {
	if maxRunes <= 0 {
		return nil
	}
	if n := utf8.RuneCountInString(r.Description); n > maxRunes {
		return fmt.Errorf("%w: %d characters (max %d)", ErrDescriptionTooLong, n, maxRunes)
	}
	return nil
}
