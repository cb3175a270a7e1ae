package middleware

import (
	"net/http"
	"time"

	"fashionhub/internal/logger"
)

type options struct {
	skips map[string]struct{}
}

// Option configures the request logger.
type Option func(*options)

// WithSkips suppresses logging for the given paths (health probes and the like).
func WithSkips(paths ...string) Option {
	return func(o *options) {
		for _, p := range paths {
			o.skips[p] = struct{}{}
		}
	}
}

// statusWriter captures the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// LogRequests logs method, path, status and duration for every request.
func LogRequests(opts ...Option) func(http.Handler) http.Handler {
	o := &options{skips: map[string]struct{}{}}
	for _, opt := range opts {
		opt(o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, skip := o.skips[r.URL.Path]; skip {
				next.ServeHTTP(w, r)
				return
			}

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)

			logger.Infof("%s %s -> %d (%s) reqid=%s",
				r.Method, r.URL.Path, sw.status, time.Since(start), RequestIDFrom(r.Context()))
		})
	}
}
