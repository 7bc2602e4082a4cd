package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/discovery/logger"
)

// quietPaths are polled by probes and scrapers and are not logged.
var quietPaths = map[string]bool{
	"/health":  true,
	"/alive":   true,
	"/ready":   true,
	"/metrics": true,
}

// RequestLogger logs each request with its status, size and duration.
// 5xx responses log at error level, 4xx at warn, the rest at debug.
func RequestLogger(log *logger.Logger) Middleware {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rw := record(w)
			next.ServeHTTP(rw, r)
			duration := time.Since(start)
			status := rw.Status()

			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       rw.bytes,
				"duration_ms": duration.Milliseconds(),
			}
			if duration > 500*time.Millisecond {
				fields["slow"] = true
			}

			reqLog := log.WithContext(r.Context())
			switch {
			case status >= 500:
				reqLog.Error("Request completed", fields)
			case status >= 400:
				reqLog.Warn("Request completed", fields)
			default:
				reqLog.Debug("Request completed", fields)
			}
		})
	}
}
