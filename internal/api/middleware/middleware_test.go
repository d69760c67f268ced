package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/bouquet-api/internal/api/middleware"
	"github.com/phrazzld/bouquet-api/internal/api/shared"
	"github.com/phrazzld/bouquet-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	var traceID string
	handler := chimiddleware.RequestID(middleware.TraceMiddleware(log)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID = shared.GetTraceID(r.Context())
			logger.FromContext(r.Context()).InfoContext(r.Context(), "inside handler")
			w.WriteHeader(http.StatusNoContent)
		})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Len(t, traceID, 32)
	assert.Equal(t, traceID, w.Header().Get(middleware.TraceIDHeader))

	logger.AssertLogContains(t, buf, "inside handler")
	logger.AssertLogField(t, buf, "trace_id", traceID)

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEmpty(t, e["request_id"], "every line carries the chi request id")
	}
}

func TestRequestLoggerLogsStatus(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	handler := middleware.TraceMiddleware(log)(middleware.RequestLogger(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generate", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	logger.AssertLogContains(t, buf, "request completed")
	logger.AssertLogField(t, buf, "level", "WARN")
	logger.AssertLogField(t, buf, "status", float64(http.StatusBadRequest))
}

func TestRequestLoggerRecoversPanics(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	handler := middleware.TraceMiddleware(log)(middleware.RequestLogger(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("vase shattered")
		})))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generate", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Internal server error", resp.Error)
	assert.NotEmpty(t, resp.TraceID)

	logger.AssertLogContains(t, buf, "panic recovered")
	logger.AssertLogContains(t, buf, "vase shattered")
}
