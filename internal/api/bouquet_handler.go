package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/bouquet-api/internal/api/shared"
	"github.com/phrazzld/bouquet-api/internal/domain"
	"github.com/phrazzld/bouquet-api/internal/platform/logger"
	"github.com/phrazzld/bouquet-api/internal/service"
)

// BouquetHandler handles bouquet-related HTTP requests
type BouquetHandler struct {
	bouquetService       service.BouquetService
	maxDescriptionLength int
}

// NewBouquetHandler creates a new BouquetHandler. maxDescriptionLength is
// counted in characters; zero disables the check.
func NewBouquetHandler(bouquetService service.BouquetService, maxDescriptionLength int) *BouquetHandler {
	return &BouquetHandler{
		bouquetService:       bouquetService,
		maxDescriptionLength: maxDescriptionLength,
	}
}

// Generate handles POST /generate requests
func (h *BouquetHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, nil)

	description, err := shared.FormOrJSONValue(w, r, "description")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, statusForDecodeError(err), "Invalid request format", err,
			shared.WithElevatedLogLevel())
		return
	}

	req := GenerateRequest{Description: strings.TrimSpace(description)}
	if h.maxDescriptionLength > 0 {
		if err := shared.ValidateVar(req.Description, fmt.Sprintf("max=%d", h.maxDescriptionLength)); err != nil {
			err = fmt.Errorf("%w: %w", domain.ErrDescriptionTooLong, err)
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
	}

	result, err := h.bouquetService.Generate(ctx, domain.NewBouquetRequest(req.Description))
	if err != nil {
		status := MapErrorToStatusCode(err)
		if result == nil {
			shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
			return
		}

		shared.LogError(r, status, GetSafeErrorMessage(err), err)
		result.Record(domain.StateResponded)
		shared.RespondWithJSON(w, r, status, newGenerateResponse(result))
		return
	}

	result.Record(domain.StateResponded)
	log.DebugContext(ctx, "bouquet request finished", "trace", result.Trace)

	shared.RespondWithJSON(w, r, http.StatusOK, newGenerateResponse(result))
}

// Health handles GET /health requests. It is the keep-alive target and does
// not touch upstream services.
func (h *BouquetHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

func statusForDecodeError(err error) int {
	if status := MapErrorToStatusCode(err); status == http.StatusUnsupportedMediaType {
		return status
	}
	if strings.Contains(err.Error(), "http: request body too large") {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
