package v1handler

import (
	"net/http"
	"stockscan/pkg/domain"
)

// HistoryResponse lists the confirmed scans, newest first.
type HistoryResponse struct {
	Entries []domain.ScanEntry `json:"entries"`
	Count   int                `json:"count"`
}

// ListHistory returns the confirmed scans.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	entries := h.deps.Session.History().List()
	writeJSON(w, r, http.StatusOK, HistoryResponse{Entries: entries, Count: len(entries)})
}

// ClearHistory empties the history.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	h.deps.Session.ClearHistory(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
