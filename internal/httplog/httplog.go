// Package httplog provides a log/slog logging middleware for http servers.
package httplog

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// New returns a logging http handler based on slog.
// The next handler is returned unwrapped when level is not enabled.
func New(next http.Handler, log *slog.Logger, level slog.Level) http.Handler {
	if !log.Enabled(context.Background(), level) {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &respWrap{
			ResponseWriter: w,
			status:         http.StatusOK,
		}
		start := time.Now()
		next.ServeHTTP(rw, r)
		log.Log(r.Context(), level, "request",
			"duration", time.Since(start),
			"method", r.Method,
			"url", r.URL.String(),
			"status", rw.status,
			"if-none-match", r.Header.Get("If-None-Match"),
			"etag", rw.Header().Get("ETag"))
	})
}

type respWrap struct {
	http.ResponseWriter
	status int
}

func (rw *respWrap) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}
