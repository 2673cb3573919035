package v1handler

import (
	"net/http"
	"net/url"
	"stockscan/pkg/domain"
	"stockscan/pkg/serrors"

	"github.com/go-chi/chi/v5"
)

// ReconciliationResponse is the aggregated view of the history.
type ReconciliationResponse struct {
	Products []domain.AggregatedProduct `json:"products"`
	Total    int                        `json:"total"`
}

// AdjustCountRequest changes the count of one product.
type AdjustCountRequest struct {
	Delta int `json:"delta"`
}

// SubmitResponse reports the number of items sent.
type SubmitResponse struct {
	Total int `json:"total"`
}

// GetReconciliation aggregates the history against the stock API.
func (h *Handler) GetReconciliation(w http.ResponseWriter, r *http.Request) {
	products, err := h.deps.Session.LoadAggregatedView(r.Context())
	if err != nil {
		h.writeError(w, r, err)

		return
	}
	writeJSON(w, r, http.StatusOK, ReconciliationResponse{
		Products: products,
		Total:    h.deps.Session.Reconciler().Total(),
	})
}

// AdjustCount changes the count of the product behind {barcode}.
func (h *Handler) AdjustCount(w http.ResponseWriter, r *http.Request) {
	var req AdjustCountRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}
	if req.Delta == 0 {
		h.writeError(w, r, serrors.With(serrors.ErrBadRequest, "delta must not be zero"))

		return
	}

	// barcodes may contain an escaped '/'
	barcode, err := url.PathUnescape(chi.URLParam(r, "barcode"))
	if err != nil {
		h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid barcode"))

		return
	}

	p, err := h.deps.Session.Reconciler().AdjustCount(barcode, req.Delta)
	if err != nil {
		h.writeError(w, r, err)

		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

// SubmitReconciliation sends the aggregated counts to the stock API.
func (h *Handler) SubmitReconciliation(w http.ResponseWriter, r *http.Request) {
	total, err := h.deps.Session.Submit(r.Context())
	if err != nil {
		h.writeError(w, r, err)

		return
	}
	writeJSON(w, r, http.StatusOK, SubmitResponse{Total: total})
}
