package v1handler

import (
	"errors"
	"net/http"
	"stockscan/internal/camera"
	"stockscan/internal/session"
	"stockscan/pkg/serrors"
)

// SymbolRequest carries a barcode read outside the camera.
type SymbolRequest struct {
	Barcode string `json:"barcode"`
}

// SymbolResponse reports whether the symbol started a lookup.
type SymbolResponse struct {
	Accepted bool             `json:"accepted"`
	Scan     session.Snapshot `json:"scan"`
}

// FrameResponse reports the outcome of an uploaded frame.
type FrameResponse struct {
	session.FrameResult

	Scan session.Snapshot `json:"scan"`
}

// GetScan returns the controller snapshot.
func (h *Handler) GetScan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.deps.Session.Controller().Snapshot())
}

// SubmitSymbol offers a barcode typed by hand or sent by a keyboard-wedge scanner.
func (h *Handler) SubmitSymbol(w http.ResponseWriter, r *http.Request) {
	var req SymbolRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}

	accepted, err := h.deps.Session.SubmitSymbol(r.Context(), req.Barcode)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	status := http.StatusAccepted
	if !accepted {
		status = http.StatusOK
	}
	writeJSON(w, r, status, SymbolResponse{Accepted: accepted, Scan: h.deps.Session.Controller().Snapshot()})
}

// SubmitFrame decodes an uploaded PNG, JPEG or GIF image.
func (h *Handler) SubmitFrame(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.deps.MaxFrameBytes)
	img, err := camera.DecodeImage(body, h.deps.MaxFramePixels)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, camera.ErrFrameTooLarge) {
			h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "frame is too large"))

			return
		}
		h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "could not read image"))

		return
	}

	res, err := h.deps.Session.SubmitFrame(r.Context(), img)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	status := http.StatusOK
	if res.Accepted {
		status = http.StatusAccepted
	}
	writeJSON(w, r, status, FrameResponse{FrameResult: res, Scan: h.deps.Session.Controller().Snapshot()})
}

// ConfirmScan adds the pending product to the history.
func (h *Handler) ConfirmScan(w http.ResponseWriter, r *http.Request) {
	entry, err := h.deps.Session.ConfirmAdd(r.Context())
	if err != nil {
		h.writeError(w, r, err)

		return
	}
	writeJSON(w, r, http.StatusCreated, entry)
}

// DismissScan drops the pending symbol.
func (h *Handler) DismissScan(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Session.Dismiss(r.Context()); err != nil {
		h.writeError(w, r, err)

		return
	}
	w.WriteHeader(http.StatusNoContent)
}
