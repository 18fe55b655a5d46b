package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestIDExtractor surfaces the chi request id on every log entry
// written with a request context. Pass it to logger.New so services
// never thread the id by hand.
func RequestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id := middleware.GetReqID(ctx); id != "" {
		return slog.String("request_id", id), true
	}
	return slog.Attr{}, false
}

// requestLogger logs one line per request with method, path, status,
// size, and duration; the request id rides in via the context
// extractor.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				log.InfoContext(r.Context(), "request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
