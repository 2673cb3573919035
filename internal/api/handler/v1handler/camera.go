package v1handler

import (
	"net/http"
)

// GetCamera reports the camera status.
func (h *Handler) GetCamera(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.deps.Session.CameraStatus())
}

// StartCamera acquires the camera and starts scanning.
func (h *Handler) StartCamera(w http.ResponseWriter, r *http.Request) {
	status, err := h.deps.Session.StartCamera(r.Context())
	if err != nil {
		h.writeError(w, r, err)

		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

// RetryCamera releases the camera and starts again, clearing a previous failure.
func (h *Handler) RetryCamera(w http.ResponseWriter, r *http.Request) {
	status, err := h.deps.Session.RetryCamera(r.Context())
	if err != nil {
		h.writeError(w, r, err)

		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

// StopCamera stops scanning and releases the camera.
func (h *Handler) StopCamera(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.deps.Session.StopCamera(r.Context()))
}
