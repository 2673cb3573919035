// Package session implements the scan session: the controller state machine
// turning decoded symbols into confirmed scan entries, and the Session object
// wiring the camera, decoder, history and reconciliation together.
package session

import (
	"context"
	"stockscan/pkg/domain"
	"stockscan/pkg/logger"
	"stockscan/pkg/metrics"
	"stockscan/pkg/serrors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MessageLookupFailed is the user-visible message of a failed lookup.
const MessageLookupFailed = "Failed to fetch product"

// ProductLookup resolves a barcode to its product metadata.
type ProductLookup interface {
	LookupBarcode(ctx context.Context, barcode string) (*domain.Product, error)
}

// Recorder receives confirmed entries.
type Recorder interface {
	Add(entry domain.ScanEntry)
}

// Snapshot is a read-only view of the controller.
type Snapshot struct {
	State   State           `json:"state"`
	Symbol  *domain.Symbol  `json:"symbol,omitempty"`
	Product *domain.Product `json:"product,omitempty"`
	Code    string          `json:"code,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Controller is the scan session state machine.
//
// A decoded symbol is only accepted in StateIdle or StateError. Accepting it
// moves the controller through StateDetected into StateLoading and starts the
// product lookup on its own goroutine; every symbol decoded while a symbol is
// pending is suppressed. This is what keeps a barcode held in front of the
// camera from producing more than one pending entry.
//
// The lookup ends in StateReady or StateError. Only ConfirmAdd creates a
// ScanEntry, and only from StateReady.
//
// Each accepted symbol bumps a generation counter. A lookup whose generation
// is stale when it completes (dismissed, closed, superseded) is dropped
// without touching the controller.
type Controller struct {
	lookup   ProductLookup
	recorder Recorder
	metrics  *metrics.Scan
	timeout  time.Duration
	now      func() time.Time

	// mu guards every field below.
	mu      sync.Mutex
	state   State
	symbol  *domain.Symbol
	product *domain.Product
	err     error
	gen     uint64
	cancel  context.CancelFunc
	closed  bool

	wg sync.WaitGroup
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLookupTimeout bounds each product lookup. Zero means no bound.
func WithLookupTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) { c.timeout = d }
}

// WithMetrics records activity on m.
func WithMetrics(m *metrics.Scan) ControllerOption {
	return func(c *Controller) { c.metrics = m }
}

// WithClock overrides the clock used to timestamp entries.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

// NewController creates an idle controller.
func NewController(lookup ProductLookup, recorder Recorder, opts ...ControllerOption) *Controller {
	c := &Controller{
		lookup:   lookup,
		recorder: recorder,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics, _ = metrics.NewScan(nil)
	}

	return c
}

// fire applies e. Callers hold mu.
func (c *Controller) fire(ctx context.Context, e event) bool {
	to, ok := next(c.state, e)
	if !ok {
		return false
	}
	if to != c.state {
		logger.Debug(ctx, "scan state changed",
			zap.Stringer("from", c.state), zap.Stringer("to", to), zap.Stringer("event", e))
	}
	c.state = to

	return true
}

// reset drops the pending symbol. Callers hold mu.
func (c *Controller) reset() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	c.symbol = nil
	c.product = nil
	c.err = nil
}

// OnFrameDecoded offers a decoded symbol. It reports whether the symbol was
// accepted; symbols arriving while another one is pending are ignored.
func (c *Controller) OnFrameDecoded(ctx context.Context, sym domain.Symbol) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.fire(ctx, evDecoded) {
		c.metrics.Symbol(ctx, false)

		return false
	}
	c.metrics.Symbol(ctx, true)

	c.reset()
	c.symbol = &sym
	c.fire(ctx, evLookupStarted)

	// the lookup outlives the request that delivered the symbol
	var (
		base      = context.WithoutCancel(ctx)
		lookupCtx context.Context
	)
	if c.timeout > 0 {
		lookupCtx, c.cancel = context.WithTimeout(base, c.timeout)
	} else {
		lookupCtx, c.cancel = context.WithCancel(base)
	}

	c.wg.Add(1)
	go c.runLookup(lookupCtx, c.gen, sym.Text)

	return true
}

func (c *Controller) runLookup(ctx context.Context, gen uint64, barcode string) {
	defer c.wg.Done()

	ctx = logger.WithFields(ctx, zap.String("barcode", barcode))
	start := time.Now()
	product, err := c.lookup.LookupBarcode(ctx, barcode)
	if err == nil && product == nil {
		err = serrors.With(serrors.ErrNotFound, "Product not found")
	}
	c.metrics.Lookup(ctx, time.Since(start).Seconds(), err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		logger.Debug(ctx, "discarding stale lookup result")

		return
	}
	c.cancel()
	c.cancel = nil

	if err != nil {
		c.err = serrors.Wrap(serrors.ErrLookupFailed, err, MessageLookupFailed)
		c.fire(ctx, evLookupFailed)
		logger.Error(ctx, "could not fetch product", zap.Error(err))

		return
	}

	c.product = product
	c.fire(ctx, evLookupSucceeded)
	logger.Info(ctx, "product ready", zap.String("title", product.Title))
}

// ConfirmAdd records the pending product as a ScanEntry and re-arms detection.
// It fails with serrors.ErrInvalidState unless the controller is Ready.
func (c *Controller) ConfirmAdd(ctx context.Context) (domain.ScanEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ScanEntry{}, serrors.With(serrors.ErrInvalidState, "scan session is closed")
	}
	if _, ok := next(c.state, evConfirmed); !ok {
		return domain.ScanEntry{}, serrors.With(serrors.ErrInvalidState, "nothing to confirm in state %s", c.state)
	}

	entry := domain.NewScanEntry(c.symbol.Text, *c.product, c.now())
	c.recorder.Add(entry)
	c.metrics.Confirmed(ctx)

	c.fire(ctx, evConfirmed)
	c.reset()
	logger.Info(ctx, "scan confirmed", zap.String("barcode", entry.Barcode))

	return entry, nil
}

// Dismiss drops the pending symbol, including a lookup still in flight, and
// returns to Idle without recording anything.
func (c *Controller) Dismiss(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return serrors.With(serrors.ErrInvalidState, "scan session is closed")
	}
	if !c.fire(ctx, evDismissed) {
		return serrors.With(serrors.ErrInvalidState, "nothing to dismiss in state %s", c.state)
	}
	c.reset()

	return nil
}

// Snapshot returns the current state with its pending symbol, product or error.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{State: c.state}
	if c.symbol != nil {
		sym := *c.symbol
		s.Symbol = &sym
	}
	if c.product != nil {
		p := *c.product
		s.Product = &p
	}
	if c.err != nil {
		s.Code = serrors.KindOf(c.err).Error()
		s.Error = c.err.Error()
	}

	return s
}

// Close tears the controller down. A lookup still in flight is cancelled and
// its result discarded; later calls are rejected. Close waits for the lookup
// goroutine to return.
func (c *Controller) Close(ctx context.Context) {
	c.mu.Lock()
	if !c.closed {
		c.fire(ctx, evClosed)
		c.reset()
		c.closed = true
	}
	c.mu.Unlock()

	c.wg.Wait()
}
