package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/phrazzld/bouquet-api/internal/api/shared"
	"github.com/phrazzld/bouquet-api/internal/platform/logger"
)

// statusRecorder remembers the status code written by the handler. Only the
// first WriteHeader reaches the client.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.status = code
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.wroteHeader = true
	}
	return r.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLogger logs one line per request, recovers panics and wires a Sentry
// hub and transaction into the request context. It must run after
// TraceMiddleware so the context logger carries the trace ID.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		hub := sentry.GetHubFromContext(ctx)
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
			ctx = sentry.SetHubOnContext(ctx, hub)
		}

		transaction := sentry.StartTransaction(ctx,
			fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			sentry.WithOpName("http.server"),
			sentry.ContinueFromRequest(r),
			sentry.WithTransactionSource(sentry.SourceURL),
		)
		defer transaction.Finish()

		r = r.WithContext(transaction.Context())
		ctx = r.Context()
		hub.Scope().SetRequest(r)
		if traceID := shared.GetTraceID(ctx); traceID != "" {
			hub.Scope().SetTag("trace_id", traceID)
		}

		log := logger.FromContextOrDefault(ctx, nil)
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			transaction.Status = sentry.SpanStatusInternalError
			hub.RecoverWithContext(ctx, rec)
			log.ErrorContext(ctx, "panic recovered",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", fmt.Sprint(rec))

			if !recorder.wroteHeader {
				shared.RespondWithError(recorder, r, http.StatusInternalServerError, "Internal server error")
			}
		}()

		next.ServeHTTP(recorder, r)

		transaction.Status = sentry.HTTPtoSpanStatus(recorder.status)
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		switch {
		case recorder.status >= 500:
			log.ErrorContext(ctx, "request completed", attrs...)
		case recorder.status >= 400:
			log.WarnContext(ctx, "request completed", attrs...)
		default:
			log.Log(ctx, levelForPath(r.URL.Path), "request completed", attrs...)
		}
	})
}

// levelForPath keeps health checks and static assets out of INFO logs.
func levelForPath(path string) slog.Level {
	if path == "/generate" {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}
