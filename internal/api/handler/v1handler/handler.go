// Package v1handler implements the v1 HTTP API of the scan station on top of
// a session.Session.
package v1handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"stockscan/internal/camera"
	"stockscan/internal/session"
	"stockscan/pkg/logger"
	"stockscan/pkg/serrors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DefaultMaxFrameBytes limits uploaded frames when Deps.MaxFrameBytes is zero.
const DefaultMaxFrameBytes = 10 << 20

// Deps holds the handler dependencies.
type Deps struct {
	Session       *session.Session
	MaxFrameBytes int64

	// MaxFramePixels bounds the declared dimensions of an uploaded frame.
	MaxFramePixels int64
}

// Handler serves the v1 routes.
type Handler struct {
	deps Deps
}

// New creates a Handler.
func New(deps Deps) *Handler {
	if deps.MaxFrameBytes <= 0 {
		deps.MaxFrameBytes = DefaultMaxFrameBytes
	}
	if deps.MaxFramePixels <= 0 {
		deps.MaxFramePixels = camera.DefaultMaxFramePixels
	}

	return &Handler{deps: deps}
}

// Routes returns the v1 router, to be mounted at /v1.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/camera", func(r chi.Router) {
		r.Get("/", h.GetCamera)
		r.Post("/start", h.StartCamera)
		r.Post("/stop", h.StopCamera)
		r.Post("/retry", h.RetryCamera)
	})
	r.Route("/scan", func(r chi.Router) {
		r.Get("/", h.GetScan)
		r.Post("/symbols", h.SubmitSymbol)
		r.Post("/frames", h.SubmitFrame)
		r.Post("/confirm", h.ConfirmScan)
		r.Post("/dismiss", h.DismissScan)
	})
	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.ListHistory)
		r.Delete("/", h.ClearHistory)
	})
	r.Route("/reconciliation", func(r chi.Router) {
		r.Get("/", h.GetReconciliation)
		r.Post("/submit", h.SubmitReconciliation)
		r.Patch("/{barcode}", h.AdjustCount)
	})

	return r
}

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorStatusCode pairs an ErrorResponse with its HTTP status.
type ErrorStatusCode struct {
	StatusCode int
	Response   ErrorResponse
}

type kindStatus struct {
	status  int
	message string
}

var kindStatuses = map[serrors.Kind]kindStatus{ //nolint: gochecknoglobals
	serrors.ErrNotFound:         {http.StatusNotFound, "resource not found"},
	serrors.ErrBadRequest:       {http.StatusBadRequest, "bad request"},
	serrors.ErrInvalidState:     {http.StatusConflict, "invalid state"},
	serrors.ErrPermissionDenied: {http.StatusForbidden, "permission denied"},
	serrors.ErrUnavailable:      {http.StatusServiceUnavailable, "service unavailable"},
	serrors.ErrLookupFailed:     {http.StatusBadGateway, "product lookup failed"},
	serrors.ErrFetchFailed:      {http.StatusBadGateway, "could not load stock data"},
	serrors.ErrSubmissionFailed: {http.StatusBadGateway, "could not update quantities"},
}

// NewError converts err into an HTTP status and body. Internal errors are
// logged and their details hidden.
func (h *Handler) NewError(ctx context.Context, err error) *ErrorStatusCode {
	kind := serrors.KindOf(err)
	ks, ok := kindStatuses[kind]
	if !ok {
		logger.Error(ctx, "internal error", zap.Error(err))

		return &ErrorStatusCode{
			StatusCode: http.StatusInternalServerError,
			Response:   ErrorResponse{Code: serrors.ErrInternal.Error(), Message: "internal error"},
		}
	}

	msg := ks.message
	var se *serrors.Error
	if errors.As(err, &se) && se.Message() != "" {
		msg = se.Message()
	}
	if ks.status >= http.StatusInternalServerError {
		logger.Warn(ctx, "dependency error", zap.Error(err))
	}

	return &ErrorStatusCode{
		StatusCode: ks.status,
		Response:   ErrorResponse{Code: kind.Error(), Message: msg},
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	res := h.NewError(r.Context(), err)
	writeJSON(w, r, res.StatusCode, res.Response)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn(r.Context(), "could not write response", zap.Error(err))
	}
}

// decodeJSON reads a JSON body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body")
	}

	return nil
}
