package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radassist/report-engine/internal/application/restructure"
	"github.com/radassist/report-engine/internal/domain/report"
	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

// MergeFailureRecorder counts merge verification failures for metrics.
type MergeFailureRecorder interface {
	RecordMergeFailure(kind string)
}

type nopMergeRecorder struct{}

func (nopMergeRecorder) RecordMergeFailure(string) {}

// reportLoader is the slice of the report repository the handler needs.
type reportLoader interface {
	GetTree(ctx context.Context, id common.ID) (*report.Report, error)
}

// RestructureHandler serves the AI structure round-trip endpoints.
type RestructureHandler struct {
	service  *restructure.Service
	reports  reportLoader
	recorder MergeFailureRecorder
	logger   logging.Logger
}

// NewRestructureHandler builds the handler.  recorder may be nil.
func NewRestructureHandler(service *restructure.Service, reports reportLoader, recorder MergeFailureRecorder, log logging.Logger) *RestructureHandler {
	if recorder == nil {
		recorder = nopMergeRecorder{}
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &RestructureHandler{service: service, reports: reports, recorder: recorder, logger: log}
}

type splitResponse struct {
	Skeleton restructure.Skeleton `json:"skeleton"`
	AIInput  restructure.AIInput  `json:"ai_input"`
}

// Split handles POST /api/v1/reports/{id}/restructure/split.  It loads the
// report tree and projects it into the skeleton and the AI-facing input.
func (h *RestructureHandler) Split(w http.ResponseWriter, r *http.Request) {
	reportID := common.ID(chi.URLParam(r, "id"))
	if reportID.IsZero() {
		writeAppError(w, errors.InvalidParam("report id is required"))
		return
	}

	tree, err := h.reports.GetTree(r.Context(), reportID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	skeleton, aiInput := h.service.SplitForAI(tree)
	writeJSON(w, http.StatusOK, splitResponse{Skeleton: skeleton, AIInput: aiInput})
}

type mergeRequest struct {
	Skeleton     restructure.Skeleton   `json:"skeleton"`
	AIResponse   restructure.AIResponse `json:"ai_response"`
	VerifyTitles bool                   `json:"verify_titles"`
}

type mergeResponse struct {
	Skeleton      restructure.Skeleton       `json:"skeleton"`
	Miscellaneous []restructure.HeadSentence `json:"miscellaneous,omitempty"`
}

// Merge handles POST /api/v1/reports/{id}/restructure/merge.  With
// verify_titles set it runs the strict title-verified path; otherwise the AI
// response is merged by ID with the catch-all paragraph extracted.
func (h *RestructureHandler) Merge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	if req.VerifyTitles {
		before := len(req.Skeleton.Paragraphs)
		merged, err := h.service.FuzzyVerifyAndReplace(r.Context(), req.Skeleton, req.AIResponse)
		if err != nil {
			h.recorder.RecordMergeFailure("title_mismatch")
			writeAppError(w, err)
			return
		}
		if len(req.AIResponse.Paragraphs) != before {
			h.recorder.RecordMergeFailure("paragraph_count")
		}
		writeJSON(w, http.StatusOK, mergeResponse{Skeleton: merged})
		return
	}

	merged, misc := h.service.MergeAIResponse(r.Context(), req.Skeleton, req.AIResponse)
	writeJSON(w, http.StatusOK, mergeResponse{Skeleton: merged, Miscellaneous: misc})
}
