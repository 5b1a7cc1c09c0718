package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radassist/report-engine/internal/application/dedup"
	"github.com/radassist/report-engine/internal/domain/profile"
	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

// DedupHandler serves the sentence classification and save endpoints.
type DedupHandler struct {
	classifier *dedup.Classifier
	saver      *dedup.Saver
	contexts   profile.ContextLoader
	logger     logging.Logger
}

// NewDedupHandler builds the handler.
func NewDedupHandler(classifier *dedup.Classifier, saver *dedup.Saver, contexts profile.ContextLoader, log logging.Logger) *DedupHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &DedupHandler{classifier: classifier, saver: saver, contexts: contexts, logger: log}
}

type classifyRequest struct {
	ProfileID  common.ID         `json:"profile_id"`
	Candidates []dedup.Candidate `json:"candidates"`
}

// Classify handles POST /api/v1/reports/{id}/sentences/classify.  It
// partitions the submitted candidates without persisting anything.
func (h *DedupHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if req.ProfileID.IsZero() {
		writeAppError(w, errors.InvalidParam("profile_id is required"))
		return
	}

	profCtx, err := h.contexts.Load(r.Context(), req.ProfileID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	result, err := h.classifier.ClassifyBatch(r.Context(), req.Candidates, profCtx)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Save handles POST /api/v1/reports/{id}/sentences/save.  Unique sentences
// are persisted; duplicates bump the weight of their stored match.
func (h *DedupHandler) Save(w http.ResponseWriter, r *http.Request) {
	reportID := common.ID(chi.URLParam(r, "id"))
	if reportID.IsZero() {
		writeAppError(w, errors.InvalidParam("report id is required"))
		return
	}

	var req classifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if req.ProfileID.IsZero() {
		writeAppError(w, errors.InvalidParam("profile_id is required"))
		return
	}

	profCtx, err := h.contexts.Load(r.Context(), req.ProfileID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	result, err := h.saver.SaveBatch(r.Context(), reportID, req.Candidates, profCtx)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
