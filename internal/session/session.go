package session

import (
	"context"
	"errors"
	"image"
	"stockscan/internal/camera"
	"stockscan/internal/decoder"
	"stockscan/internal/history"
	"stockscan/internal/reconcile"
	"stockscan/pkg/domain"
	"stockscan/pkg/logger"
	"stockscan/pkg/metrics"
	"stockscan/pkg/serrors"
	"stockscan/pkg/stockapi"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Deps holds the collaborators of a Session.
type Deps struct {
	// Camera is the capture device. A nil Camera leaves only symbol and frame
	// submission available.
	Camera  camera.Device
	Decoder decoder.FrameDecoder
	Stock   stockapi.Client
	Metrics *metrics.Scan
}

// Options tunes a Session.
type Options struct {
	// LookupTimeout bounds each product lookup.
	LookupTimeout time.Duration
}

// FrameResult reports what happened to a submitted frame.
type FrameResult struct {
	Found    bool           `json:"found"`
	Accepted bool           `json:"accepted"`
	Symbol   *domain.Symbol `json:"symbol,omitempty"`
}

// Session is one scanning workflow: camera, decoder, controller, history and
// reconciliation share its lifetime. It replaces any process-wide state; each
// consumer gets the Session it works on passed in.
type Session struct {
	id         string
	camera     *camera.Acquisition
	decoder    decoder.FrameDecoder
	controller *Controller
	history    *history.Store
	reconciler *reconcile.Submitter

	mu         sync.Mutex
	pumpCancel context.CancelFunc
	pumpDone   chan struct{}
	closed     bool
}

// New wires a Session.
func New(deps Deps, opts Options) *Session {
	store := history.New()

	s := &Session{
		id:      uuid.NewString(),
		decoder: deps.Decoder,
		history: store,
		controller: NewController(deps.Stock, store,
			WithLookupTimeout(opts.LookupTimeout),
			WithMetrics(deps.Metrics)),
		reconciler: reconcile.New(deps.Stock, store, reconcile.WithMetrics(deps.Metrics)),
	}
	if deps.Camera != nil {
		s.camera = camera.NewAcquisition(deps.Camera)
	}

	return s
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Controller returns the scan state machine.
func (s *Session) Controller() *Controller { return s.controller }

// History returns the confirmed scans.
func (s *Session) History() *history.Store { return s.history }

// Reconciler returns the reconciliation submitter.
func (s *Session) Reconciler() *reconcile.Submitter { return s.reconciler }

func (s *Session) ctx(ctx context.Context) context.Context {
	return logger.WithFields(ctx, zap.String("session", s.id))
}

func (s *Session) acquisition() (*camera.Acquisition, error) {
	if s.camera == nil {
		return nil, serrors.With(serrors.ErrUnavailable, camera.MessageNotFound)
	}

	return s.camera, nil
}

// StartCamera acquires the camera and starts feeding its frames to the
// controller. Starting an active camera is a no-op.
func (s *Session) StartCamera(ctx context.Context) (camera.Status, error) {
	return s.startCamera(s.ctx(ctx), false)
}

// RetryCamera releases the camera, clears any acquisition failure and starts
// again.
func (s *Session) RetryCamera(ctx context.Context) (camera.Status, error) {
	return s.startCamera(s.ctx(ctx), true)
}

func (s *Session) startCamera(ctx context.Context, retry bool) (camera.Status, error) {
	acq, err := s.acquisition()
	if err != nil {
		return camera.Status{}, err
	}
	if s.decoder == nil {
		return acq.Status(), serrors.With(serrors.ErrUnavailable, "frame decoding is not configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return acq.Status(), serrors.With(serrors.ErrInvalidState, "scan session is closed")
	}
	if !retry && s.pumpDone != nil && acq.Status().Active {
		return acq.Status(), nil
	}

	s.stopPumpLocked()
	var stream camera.Stream
	if retry {
		stream, err = acq.Retry(ctx)
	} else {
		stream, err = acq.Start(ctx)
	}
	if err != nil {
		return acq.Status(), err
	}

	pumpCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	s.pumpCancel, s.pumpDone = cancel, done

	go func() {
		defer close(done)

		err := decoder.Pump(pumpCtx, stream, s.decoder, func(ctx context.Context, sym domain.Symbol) {
			s.controller.OnFrameDecoded(ctx, sym)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn(pumpCtx, "frame pump stopped", zap.Error(err))
		}
		acq.Stop(pumpCtx)
	}()

	return acq.Status(), nil
}

// stopPumpLocked stops the frame pump and waits for it to release the stream.
// Callers hold mu.
func (s *Session) stopPumpLocked() {
	if s.pumpCancel == nil {
		return
	}
	s.pumpCancel()
	<-s.pumpDone
	s.pumpCancel, s.pumpDone = nil, nil
}

// StopCamera stops scanning and releases the camera.
func (s *Session) StopCamera(ctx context.Context) camera.Status {
	if s.camera == nil {
		return camera.Status{}
	}

	s.mu.Lock()
	s.stopPumpLocked()
	s.mu.Unlock()

	s.camera.Stop(s.ctx(ctx))

	return s.camera.Status()
}

// CameraStatus reports the camera state.
func (s *Session) CameraStatus() camera.Status {
	if s.camera == nil {
		return camera.Status{Code: serrors.ErrUnavailable.Error(), Error: camera.MessageNotFound}
	}

	return s.camera.Status()
}

// SubmitSymbol offers a symbol read outside the camera, such as from a
// keyboard-wedge scanner or typed by hand.
func (s *Session) SubmitSymbol(ctx context.Context, text string) (bool, error) {
	text = decoder.Normalize(text)
	if text == "" {
		return false, serrors.With(serrors.ErrBadRequest, "barcode must not be empty")
	}

	return s.controller.OnFrameDecoded(s.ctx(ctx), domain.Symbol{Text: text, CapturedAt: time.Now()}), nil
}

// SubmitFrame decodes img and offers the symbol found, if any.
func (s *Session) SubmitFrame(ctx context.Context, img image.Image) (FrameResult, error) {
	if s.decoder == nil {
		return FrameResult{}, serrors.With(serrors.ErrUnavailable, "frame decoding is not configured")
	}

	sym, err := s.decoder.Decode(img)
	if errors.Is(err, decoder.ErrNoSymbol) {
		return FrameResult{}, nil
	}
	if err != nil {
		return FrameResult{}, serrors.Wrap(serrors.ErrBadRequest, err, "could not decode frame")
	}

	sym.CapturedAt = time.Now()
	accepted := s.controller.OnFrameDecoded(s.ctx(ctx), sym)

	return FrameResult{Found: true, Accepted: accepted, Symbol: &sym}, nil
}

// ConfirmAdd confirms the pending product into the history.
func (s *Session) ConfirmAdd(ctx context.Context) (domain.ScanEntry, error) {
	return s.controller.ConfirmAdd(s.ctx(ctx))
}

// Dismiss drops the pending symbol.
func (s *Session) Dismiss(ctx context.Context) error {
	return s.controller.Dismiss(s.ctx(ctx))
}

// LoadAggregatedView aggregates the current history.
func (s *Session) LoadAggregatedView(ctx context.Context) ([]domain.AggregatedProduct, error) {
	return s.reconciler.LoadAggregatedView(s.ctx(ctx))
}

// ClearHistory drops every confirmed scan together with the aggregated view
// and its hand edits.
func (s *Session) ClearHistory(ctx context.Context) {
	s.history.Clear()
	s.reconciler.Reset()
	logger.Info(s.ctx(ctx), "scan history cleared")
}

// Submit reconciles the current aggregated view.
func (s *Session) Submit(ctx context.Context) (int, error) {
	return s.reconciler.Submit(s.ctx(ctx), s.reconciler.View())
}

// Close releases the camera and tears the controller down. In-flight lookups
// are discarded.
func (s *Session) Close(ctx context.Context) {
	ctx = s.ctx(ctx)

	s.mu.Lock()
	s.closed = true
	s.stopPumpLocked()
	s.mu.Unlock()

	if s.camera != nil {
		s.camera.Stop(ctx)
	}
	s.controller.Close(ctx)
	logger.Info(ctx, "scan session closed")
}
