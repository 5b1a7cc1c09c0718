package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radassist/report-engine/internal/domain/keyword"
	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

// KeywordHandler serves grouped keyword listings.
type KeywordHandler struct {
	keywords keyword.Repository
	logger   logging.Logger
}

// NewKeywordHandler builds the handler.
func NewKeywordHandler(keywords keyword.Repository, log logging.Logger) *KeywordHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &KeywordHandler{keywords: keywords, logger: log}
}

// ListByProfile handles GET /api/v1/profiles/{id}/keywords?mode=...
//
// mode selects the grouping shape: plain (default), with_index, or
// with_report.  Plain groups are additionally sorted alphabetically by the
// first word of each group.
func (h *KeywordHandler) ListByProfile(w http.ResponseWriter, r *http.Request) {
	profileID := common.ID(chi.URLParam(r, "id"))
	if profileID.IsZero() {
		writeAppError(w, errors.InvalidParam("profile id is required"))
		return
	}

	mode := keyword.GroupMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = keyword.ModePlain
	}
	if !mode.IsValid() {
		writeAppError(w, errors.InvalidParam("unknown grouping mode: "+string(mode)))
		return
	}

	kws, err := h.keywords.ListByProfile(r.Context(), profileID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	if mode == keyword.ModePlain {
		groups := keyword.GroupPlain(kws)
		keyword.SortByFirstLetter(groups)
		writeJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
		return
	}
	grouped, err := keyword.Group(kws, mode)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": grouped})
}

// ListByReport handles GET /api/v1/reports/{id}/keywords.
func (h *KeywordHandler) ListByReport(w http.ResponseWriter, r *http.Request) {
	reportID := common.ID(chi.URLParam(r, "id"))
	if reportID.IsZero() {
		writeAppError(w, errors.InvalidParam("report id is required"))
		return
	}

	kws, err := h.keywords.ListByReport(r.Context(), reportID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	groups := keyword.GroupPlain(kws)
	keyword.SortByFirstLetter(groups)
	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}
