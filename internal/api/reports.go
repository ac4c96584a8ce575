package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/decoynet/decoy/internal/report"
)

// ListReports returns recently archived session reports, newest first.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		Error(w, http.StatusNotFound, "report archive not configured")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	reports, err := h.archive.ListRecent(r.Context(), limit)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}

// GetReport returns the archived report for one session.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		Error(w, http.StatusNotFound, "report archive not configured")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	rep, err := h.archive.GetReport(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, report.ErrReportNotFound) {
			Error(w, http.StatusNotFound, "report not found")
			return
		}
		Error(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	JSON(w, http.StatusOK, rep)
}
