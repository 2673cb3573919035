package camera

import (
	"context"
	"stockscan/pkg/logger"
	"stockscan/pkg/serrors"
	"sync"

	"go.uber.org/zap"
)

// Status is the observable state of an Acquisition.
type Status struct {
	Active bool   `json:"active"`
	Code   string `json:"code,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Acquisition owns at most one open stream of a Device and remembers the last
// acquisition failure until the next successful start.
type Acquisition struct {
	device Device

	mu     sync.Mutex
	stream Stream
	err    error
}

// NewAcquisition creates an idle Acquisition for device.
func NewAcquisition(device Device) *Acquisition {
	return &Acquisition{device: device}
}

// Start opens the device. When a stream is already open it is returned as is.
// On failure no stream is attached and the error is kept for Status.
func (a *Acquisition) Start(ctx context.Context) (Stream, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stream != nil {
		return a.stream, nil
	}

	stream, err := a.device.Open(ctx)
	if err != nil {
		a.err = classify(err)
		logger.Warn(ctx, "could not start camera", zap.Error(a.err))

		return nil, a.err
	}

	a.stream = stream
	a.err = nil
	logger.Info(ctx, "camera started")

	return stream, nil
}

// Retry drops any previous stream or failure and starts again.
func (a *Acquisition) Retry(ctx context.Context) (Stream, error) {
	a.Stop(ctx)

	return a.Start(ctx)
}

// Stop releases the open stream, if any, and clears the failure state.
func (a *Acquisition) Stop(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.err = nil
	if a.stream == nil {
		return
	}

	if err := a.stream.Close(); err != nil {
		logger.Warn(ctx, "could not release camera stream", zap.Error(err))
	}
	a.stream = nil
	logger.Info(ctx, "camera stopped")
}

// Status reports whether a stream is attached and the last failure.
func (a *Acquisition) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := Status{Active: a.stream != nil}
	if a.err != nil {
		st.Code = serrors.KindOf(a.err).Error()
		st.Error = serrors.MessageOf(a.err)
	}

	return st
}

// Err returns the last acquisition failure, or nil.
func (a *Acquisition) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.err
}
