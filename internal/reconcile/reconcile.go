// Package reconcile aggregates the scan history into per-barcode counts and
// submits them to the stock API in a single batch.
package reconcile

import (
	"context"
	"stockscan/internal/history"
	"stockscan/pkg/domain"
	"stockscan/pkg/logger"
	"stockscan/pkg/metrics"
	"stockscan/pkg/serrors"
	"sync"

	"go.uber.org/zap"
)

// User-visible messages.
const (
	MessageFetchFailed      = "Failed to load scanned products"
	MessageSubmissionFailed = "Failed to update quantities"
)

// StockClient is the part of the stock API used for reconciliation.
type StockClient interface {
	ScannedProductsInfo(ctx context.Context, barcodes []string, history []domain.ScanEntry) ([]domain.StockRecord, error)
	UpdateQuantities(ctx context.Context, products []domain.AggregatedProduct) error
}

// History is the scan history being reconciled.
type History interface {
	Snapshot() ([]domain.ScanEntry, history.Version)
	Version() history.Version
	DropThrough(v history.Version) int
}

// Submitter holds the aggregated view of one reconciliation.
//
// Counts edited by hand are kept as an offset from the grouping count, so a
// view reloaded after new scans adds the new scans on top of the edit instead
// of discarding it. Edits are forgotten when the history is cleared and after
// a successful submission.
//
// A view can only be submitted while the history is still at the version it
// was loaded from, so every submitted unit matches a scan in the history and
// no scan confirmed after the load is dropped unsent.
type Submitter struct {
	client  StockClient
	history History
	metrics *metrics.Scan

	mu      sync.Mutex
	view    []domain.AggregatedProduct
	grouped map[string]int
	offsets map[string]int
	// epoch is the history epoch the offsets belong to.
	epoch uint64
	// loaded is the history version view was built from; valid while view is non-nil.
	loaded history.Version
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithMetrics records submissions on m.
func WithMetrics(m *metrics.Scan) Option {
	return func(s *Submitter) { s.metrics = m }
}

// New creates a Submitter removing the submitted scans from h after each
// successful submission.
func New(client StockClient, h History, opts ...Option) *Submitter {
	s := &Submitter{
		client:  client,
		history: h,
		grouped: make(map[string]int),
		offsets: make(map[string]int),
		epoch:   h.Version().Epoch,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics, _ = metrics.NewScan(nil)
	}

	return s
}

type group struct {
	first domain.ScanEntry
	count int
}

// groupEntries groups entries by barcode, keeping first-appearance order.
func groupEntries(entries []domain.ScanEntry) ([]string, map[string]*group) {
	order := make([]string, 0, len(entries))
	groups := make(map[string]*group, len(entries))
	for _, e := range entries {
		g, ok := groups[e.Barcode]
		if !ok {
			g = &group{first: e}
			groups[e.Barcode] = g
			order = append(order, e.Barcode)
		}
		g.count++
	}

	return order, groups
}

// merge builds the aggregated product of one barcode. Stocked products take
// their title and quantity from the stock record; products not stocked yet
// keep the scanned metadata with a zero quantity.
func merge(g *group, rec *domain.StockRecord) domain.AggregatedProduct {
	p := domain.AggregatedProduct{
		Barcode:  g.first.Barcode,
		Title:    g.first.Title,
		Brand:    g.first.Brand,
		Image:    g.first.Image,
		Count:    g.count,
		FromScan: true,
	}
	if rec == nil || rec.FromScan {
		return p
	}

	p.FromScan = false
	p.Quantity = rec.Quantity
	if rec.Title != "" {
		p.Title = rec.Title
	}
	if rec.Brand != "" {
		p.Brand = rec.Brand
	}
	if rec.Image != "" {
		p.Image = rec.Image
	}

	return p
}

// LoadAggregatedView groups the history entries by barcode and merges them
// with the stock records fetched in one request. On failure the view is
// emptied and an serrors.ErrFetchFailed error is returned.
func (s *Submitter) LoadAggregatedView(ctx context.Context) ([]domain.AggregatedProduct, error) {
	entries, version := s.history.Snapshot()

	s.mu.Lock()
	if version.Epoch != s.epoch {
		// the history was cleared: earlier edits refer to scans that are gone
		s.offsets = make(map[string]int)
		s.epoch = version.Epoch
	}
	s.mu.Unlock()

	order, groups := groupEntries(entries)
	if len(order) == 0 {
		s.setView(nil, nil, version)

		return []domain.AggregatedProduct{}, nil
	}

	records, err := s.client.ScannedProductsInfo(ctx, order, entries)
	if err != nil {
		// edits survive so a retried load still carries them
		s.mu.Lock()
		s.view = nil
		s.mu.Unlock()
		logger.Error(ctx, "could not load scanned products", zap.Error(err))

		return []domain.AggregatedProduct{}, serrors.Wrap(serrors.ErrFetchFailed, err, MessageFetchFailed)
	}

	byBarcode := make(map[string]*domain.StockRecord, len(records))
	for i := range records {
		byBarcode[records[i].Barcode] = &records[i]
	}

	view := make([]domain.AggregatedProduct, 0, len(order))
	counts := make(map[string]int, len(order))
	for _, barcode := range order {
		g := groups[barcode]
		view = append(view, merge(g, byBarcode[barcode]))
		counts[barcode] = g.count
	}

	return s.setView(view, counts, version), nil
}

// setView installs view and applies the hand edits still relevant to it.
func (s *Submitter) setView(view []domain.AggregatedProduct,
	counts map[string]int,
	version history.Version) []domain.AggregatedProduct {
	s.mu.Lock()
	defer s.mu.Unlock()

	for barcode := range s.offsets {
		if _, ok := counts[barcode]; !ok {
			delete(s.offsets, barcode)
		}
	}
	for i := range view {
		view[i].Count = max(1, view[i].Count+s.offsets[view[i].Barcode])
	}
	if counts == nil {
		counts = make(map[string]int)
	}

	s.view = view
	s.grouped = counts
	s.loaded = version

	return s.viewLocked()
}

// AdjustCount changes the count of barcode by delta, never going below 1. The
// server is not contacted.
func (s *Submitter) AdjustCount(barcode string, delta int) (domain.AggregatedProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.view {
		if s.view[i].Barcode != barcode {
			continue
		}
		s.view[i].Count = max(1, s.view[i].Count+delta)
		s.offsets[barcode] = s.view[i].Count - s.grouped[barcode]

		return s.view[i], nil
	}

	return domain.AggregatedProduct{}, serrors.With(serrors.ErrNotFound, "barcode %q is not in the reconciliation", barcode)
}

// Submit sends products in one request. On success the submitted scans are
// removed from the history, the view reset and the total item count returned.
// Scans confirmed after the view was loaded stay in the history. On failure
// nothing is touched and an serrors.ErrSubmissionFailed error is returned.
//
// Submit fails with serrors.ErrInvalidState when no view is loaded or the
// history changed since it was loaded.
func (s *Submitter) Submit(ctx context.Context, products []domain.AggregatedProduct) (int, error) {
	if len(products) == 0 {
		return 0, serrors.With(serrors.ErrBadRequest, "nothing to submit")
	}

	total := 0
	for _, p := range products {
		if p.Count < 1 {
			return 0, serrors.With(serrors.ErrBadRequest, "count of %q must be at least 1", p.Barcode)
		}
		total += p.Count
	}

	s.mu.Lock()
	loaded, ok := s.loaded, s.view != nil
	s.mu.Unlock()
	if !ok {
		return 0, serrors.With(serrors.ErrInvalidState, "load the aggregated view before submitting")
	}
	if s.history.Version() != loaded {
		return 0, serrors.With(serrors.ErrInvalidState, "scan history changed, reload the aggregated view")
	}

	if err := s.client.UpdateQuantities(ctx, products); err != nil {
		logger.Error(ctx, "could not update quantities", zap.Error(err))

		return 0, serrors.Wrap(serrors.ErrSubmissionFailed, err, MessageSubmissionFailed)
	}

	removed := s.history.DropThrough(loaded)
	s.Reset()

	s.metrics.Submitted(ctx, total)
	logger.Info(ctx, "quantities updated",
		zap.Int("products", len(products)), zap.Int("items", total), zap.Int("scans", removed))

	return total, nil
}

// Reset forgets the view and every hand edit. It is called when the history
// is cleared.
func (s *Submitter) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = nil
	s.grouped = make(map[string]int)
	s.offsets = make(map[string]int)
	s.loaded = history.Version{}
}

// View returns a copy of the current aggregated view.
func (s *Submitter) View() []domain.AggregatedProduct {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.viewLocked()
}

func (s *Submitter) viewLocked() []domain.AggregatedProduct {
	out := make([]domain.AggregatedProduct, len(s.view))
	copy(out, s.view)

	return out
}

// Total returns the sum of the counts of the current view.
func (s *Submitter) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, p := range s.view {
		total += p.Count
	}

	return total
}
