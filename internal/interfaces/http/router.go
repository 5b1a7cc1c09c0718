// Package http wires the report-engine HTTP API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
	"github.com/radassist/report-engine/internal/interfaces/http/handlers"
	"github.com/radassist/report-engine/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies for the
// route tree.
type RouterConfig struct {
	DedupHandler       *handlers.DedupHandler
	RestructureHandler *handlers.RestructureHandler
	KeywordHandler     *handlers.KeywordHandler
	HealthHandler      *handlers.HealthHandler

	MetricsHandler http.Handler
	HTTPObserver   middleware.HTTPObserver
	Logger         logging.Logger
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogger(log, cfg.HTTPObserver))

	if cfg.HealthHandler != nil {
		r.Get("/health/live", cfg.HealthHandler.Liveness)
		r.Get("/health/ready", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/reports/{id}", func(r chi.Router) {
			if cfg.DedupHandler != nil {
				r.Post("/sentences/classify", cfg.DedupHandler.Classify)
				r.Post("/sentences/save", cfg.DedupHandler.Save)
			}
			if cfg.RestructureHandler != nil {
				r.Post("/restructure/split", cfg.RestructureHandler.Split)
				r.Post("/restructure/merge", cfg.RestructureHandler.Merge)
			}
			if cfg.KeywordHandler != nil {
				r.Get("/keywords", cfg.KeywordHandler.ListByReport)
			}
		})
		if cfg.KeywordHandler != nil {
			r.Get("/profiles/{id}/keywords", cfg.KeywordHandler.ListByProfile)
		}
	})
	return r
}
