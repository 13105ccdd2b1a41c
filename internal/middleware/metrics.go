package middleware

import (
	"net/http"
	"time"

	"github.com/templui/goalpace/internal/metrics"
)

// Metrics records request counts and latency per mux pattern. It must wrap
// the ServeMux directly so the matched pattern is visible after serving.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := wrap(w)

		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequest(route, r.Method, rw.statusCode, time.Since(start).Seconds())
	})
}
