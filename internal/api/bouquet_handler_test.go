package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/phrazzld/bouquet-api/internal/api/shared"
	"github.com/phrazzld/bouquet-api/internal/domain"
	"github.com/phrazzld/bouquet-api/internal/generation"
	"github.com/phrazzld/bouquet-api/internal/mocks"
	"github.com/phrazzld/bouquet-api/internal/platform/logger"
	"github.com/phrazzld/bouquet-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okResult(image *domain.ImageArtifact) *domain.BouquetResult {
	return &domain.BouquetResult{
		Presentation: "<h3>רשימת פרחים:</h3><ul><li>ורד: 3</li></ul>",
		Image:        image,
		OK:           true,
		Trace: []domain.PipelineState{
			domain.StateReceived, domain.StatePlanGenerated, domain.StateImageAttempted, domain.StateAssembled,
		},
	}
}

func serve(t *testing.T, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	log := logger.NewDiscardLogger()
	req = req.WithContext(logger.WithLogger(shared.WithTraceID(req.Context(), "trace-123"), log))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func formRequest(description string) *http.Request {
	form := url.Values{"description": {description}}
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeGenerateResponse(t *testing.T, rec *httptest.ResponseRecorder) GenerateResponse {
	t.Helper()
	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestBouquetHandler_Generate(t *testing.T) {
	t.Parallel()

	t.Run("form request succeeds", func(t *testing.T) {
		t.Parallel()

		image, err := domain.NewReferencedImage("https://cdn.example.com/b.png", "image/png")
		require.NoError(t, err)
		svc := &mocks.MockBouquetService{Result: okResult(image)}
		h := NewBouquetHandler(svc, 2000)

		rec := serve(t, h.Generate, formRequest("  זר אביבי לאמא  "))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "זר אביבי לאמא", svc.LastRequest().Description)

		resp := decodeGenerateResponse(t, rec)
		assert.True(t, resp.OK)
		assert.Equal(t, "https://cdn.example.com/b.png", resp.Image)
		assert.Contains(t, resp.Presentation, "רשימת פרחים:")
		assert.Equal(t, resp.Presentation, resp.HTML)
		assert.Equal(t, domain.StateResponded, svc.Result.State())
	})

	t.Run("json request succeeds", func(t *testing.T) {
		t.Parallel()

		svc := &mocks.MockBouquetService{Result: okResult(nil)}
		h := NewBouquetHandler(svc, 2000)

		req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"description":"white lilies"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(t, h.Generate, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "white lilies", svc.LastRequest().Description)

		resp := decodeGenerateResponse(t, rec)
		assert.True(t, resp.OK)
		assert.Empty(t, resp.Image, "missing image is an empty string")
	})

	t.Run("empty description is still forwarded", func(t *testing.T) {
		t.Parallel()

		svc := &mocks.MockBouquetService{Result: okResult(nil)}
		h := NewBouquetHandler(svc, 2000)

		rec := serve(t, h.Generate, formRequest(""))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, svc.GenerateCalls.Count)
		assert.Equal(t, "", svc.LastRequest().Description)
	})

	t.Run("too long description is rejected", func(t *testing.T) {
		t.Parallel()

		svc := &mocks.MockBouquetService{Result: okResult(nil)}
		h := NewBouquetHandler(svc, 5)

		rec := serve(t, h.Generate, formRequest("שושנים לבנות"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, svc.GenerateCalls.Count)

		var resp shared.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Description is too long", resp.Error)
		assert.Equal(t, "trace-123", resp.TraceID)
	})

	t.Run("unsupported content type", func(t *testing.T) {
		t.Parallel()

		svc := &mocks.MockBouquetService{Result: okResult(nil)}
		h := NewBouquetHandler(svc, 2000)

		req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader("roses"))
		req.Header.Set("Content-Type", "text/plain")
		rec := serve(t, h.Generate, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		assert.Zero(t, svc.GenerateCalls.Count)
	})

	t.Run("generation failure returns rendered failure", func(t *testing.T) {
		t.Parallel()

		failed := &domain.BouquetResult{
			Presentation: "<p>שגיאה בעיבוד הבקשה: נסו שוב</p>",
			OK:           false,
			Trace:        []domain.PipelineState{domain.StateReceived, domain.StateFailed},
		}
		svc := &mocks.MockBouquetService{
			Result: failed,
			Err: service.NewBouquetServiceError("generate_plan", "plan generation failed",
				fmt.Errorf("%w: upstream timeout", generation.ErrGenerationFailed)),
		}
		h := NewBouquetHandler(svc, 2000)

		rec := serve(t, h.Generate, formRequest("roses"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeGenerateResponse(t, rec)
		assert.False(t, resp.OK)
		assert.Empty(t, resp.Image)
		assert.Contains(t, resp.Presentation, "שגיאה בעיבוד הבקשה")
		assert.NotContains(t, resp.Presentation, "upstream timeout")
	})

	t.Run("service rejection without result", func(t *testing.T) {
		t.Parallel()

		svc := &mocks.MockBouquetService{
			Err: fmt.Errorf("%w: %w", service.ErrInvalidRequest, domain.ErrDescriptionTooLong),
		}
		h := NewBouquetHandler(svc, 0)

		rec := serve(t, h.Generate, formRequest("roses"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp shared.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Description is too long", resp.Error)
	})
}

func TestBouquetHandler_Health(t *testing.T) {
	t.Parallel()

	h := NewBouquetHandler(&mocks.MockBouquetService{}, 0)
	rec := serve(t, h.Health, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid request", service.ErrInvalidRequest, http.StatusBadRequest},
		{"too long", fmt.Errorf("wrapped: %w", domain.ErrDescriptionTooLong), http.StatusBadRequest},
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"media type", shared.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{"generation", generation.ErrGenerationFailed, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	blocked := fmt.Errorf("%w: %w", generation.ErrGenerationFailed, generation.ErrContentBlocked)
	assert.Equal(t, "The description could not be processed", GetSafeErrorMessage(blocked))
	assert.Equal(t, "Failed to generate bouquet plan", GetSafeErrorMessage(generation.ErrGenerationFailed))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(errors.New("sk-secret leaked")))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}
