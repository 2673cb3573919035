// Package metrics holds the OpenTelemetry instruments of the scan station and
// the Prometheus exporter they are served through.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

const meterName = "stockscan"

// NewPrometheusProvider creates a MeterProvider whose readings are exported
// through reg.
func NewPrometheusProvider(reg prometheus.Registerer) (*sdkmetric.MeterProvider, error) {
	exp, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)), nil
}

// Scan records the scan session activity.
type Scan struct {
	symbols   metric.Int64Counter
	lookups   metric.Float64Histogram
	confirmed metric.Int64Counter
	submitted metric.Int64Counter
}

// NewScan creates the scan instruments on mp. A nil mp records nothing.
func NewScan(mp metric.MeterProvider) (*Scan, error) {
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	meter := mp.Meter(meterName)

	var (
		s   Scan
		err error
	)
	if s.symbols, err = meter.Int64Counter("scan.symbols",
		metric.WithDescription("Decoded symbols by outcome (accepted or suppressed).")); err != nil {
		return nil, fmt.Errorf("could not create symbols counter: %w", err)
	}
	if s.lookups, err = meter.Float64Histogram("scan.lookup.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Product lookup latency by result."),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...)); err != nil {
		return nil, fmt.Errorf("could not create lookup histogram: %w", err)
	}
	if s.confirmed, err = meter.Int64Counter("scan.confirmed",
		metric.WithDescription("Scan entries confirmed into the history.")); err != nil {
		return nil, fmt.Errorf("could not create confirmed counter: %w", err)
	}
	if s.submitted, err = meter.Int64Counter("scan.submitted.items",
		metric.WithDescription("Items reconciled with the stock API.")); err != nil {
		return nil, fmt.Errorf("could not create submitted counter: %w", err)
	}

	return &s, nil
}

// Symbol counts one decoded symbol.
func (s *Scan) Symbol(ctx context.Context, accepted bool) {
	outcome := "suppressed"
	if accepted {
		outcome = "accepted"
	}
	s.symbols.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// Lookup records the duration of one product lookup.
func (s *Scan) Lookup(ctx context.Context, seconds float64, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.lookups.Record(ctx, seconds, metric.WithAttributes(attribute.String("result", result)))
}

// Confirmed counts one confirmed entry.
func (s *Scan) Confirmed(ctx context.Context) {
	s.confirmed.Add(ctx, 1)
}

// Submitted counts items sent in a successful reconciliation.
func (s *Scan) Submitted(ctx context.Context, items int) {
	s.submitted.Add(ctx, int64(items))
}
