package api

import "github.com/phrazzld/bouquet-api/internal/domain"

// GenerateRequest is the body of POST /generate, form-encoded or JSON.
type GenerateRequest struct {
	Description string `json:"description" form:"description"`
}

// GenerateResponse is the body of every POST /generate answer that reached
// the pipeline, successful or not.
type GenerateResponse struct {
	// Presentation is the rendered plan, or a rendered error message when OK
	// is false.
	Presentation string `json:"presentation"`

	// Image is a data URI, an external URL, or "" when no image was produced.
	Image string `json:"image"`

	// OK is false only when plan generation failed.
	OK bool `json:"ok"`

	// HTML mirrors Presentation for the form page, which reads this field.
	HTML string `json:"html"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// newGenerateResponse converts a pipeline result to its wire form.
func newGenerateResponse(result *domain.BouquetResult) GenerateResponse {
	if result == nil {
		return GenerateResponse{}
	}
	return GenerateResponse{
		Presentation: result.Presentation,
		Image:        result.Image.ReferenceOrEmpty(),
		OK:           result.OK,
		HTML:         result.Presentation,
	}
}
