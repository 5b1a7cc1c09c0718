// Package middleware holds the HTTP middleware for the report-engine API.
package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
)

// HTTPObserver receives per-request measurements for metrics exposition.
type HTTPObserver interface {
	ObserveHTTPRequest(method, route string, status int, elapsed time.Duration)
}

// RequestLogger logs each request on completion and feeds the observer.
// The route pattern, not the raw path, is used as the metrics label so
// per-report URLs do not explode label cardinality.
func RequestLogger(log logging.Logger, observer HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			log.Info("http request",
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", ww.Status()),
				logging.Int("bytes", ww.BytesWritten()),
				logging.Duration("elapsed", elapsed),
				logging.String("request_id", chimw.GetReqID(r.Context())))
			if observer != nil {
				observer.ObserveHTTPRequest(r.Method, route, ww.Status(), elapsed)
			}
		})
	}
}
