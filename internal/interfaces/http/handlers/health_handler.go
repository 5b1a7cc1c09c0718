package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
)

// HealthChecker is a named dependency probe.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves liveness and readiness endpoints.
type HealthHandler struct {
	checkers map[string]HealthChecker
	logger   logging.Logger
}

// NewHealthHandler builds the handler; checkers maps dependency names
// (e.g. "postgres", "redis") to their probes.
func NewHealthHandler(checkers map[string]HealthChecker, log logging.Logger) *HealthHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &HealthHandler{checkers: checkers, logger: log}
}

// Liveness handles GET /health/live.  It only confirms the process serves
// requests.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /health/ready.  It probes every registered
// dependency and reports 503 if any fails.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checkers))
	for name, checker := range h.checkers {
		if err := checker.HealthCheck(ctx); err != nil {
			h.logger.Warn("dependency check failed",
				logging.String("dependency", name), logging.Err(err))
			deps[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	body := map[string]interface{}{"dependencies": deps}
	if status == http.StatusOK {
		body["status"] = "ok"
	} else {
		body["status"] = "degraded"
	}
	writeJSON(w, status, body)
}
