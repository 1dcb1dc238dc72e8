package logging

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestLogger tags every request with an id, threads it through the
// context so handler logs carry it, and writes one completion line per
// request. A caller-supplied X-Request-ID is kept so ids stay stable across
// the preview page's fetches.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		ctx := WithRequestID(r.Context(), id)
		w.Header().Set("X-Request-ID", id)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r.WithContext(ctx))

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"durationMs", time.Since(start).Milliseconds(),
		}
		switch {
		case sw.status >= 500:
			ErrorContext(ctx, "request", args...)
		case sw.status >= 400:
			WarnContext(ctx, "request", args...)
		default:
			InfoContext(ctx, "request", args...)
		}
	})
}

// statusWriter captures the response status for the completion line.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer; the SSE stream sits behind this
// middleware and needs it.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
