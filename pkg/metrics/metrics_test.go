package metrics_test

import (
	"context"
	"errors"
	"stockscan/pkg/metrics"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestScan_exportedThroughPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	mp, err := metrics.NewPrometheusProvider(reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	s, err := metrics.NewScan(mp)
	require.NoError(t, err)

	ctx := context.Background()
	s.Symbol(ctx, true)
	s.Symbol(ctx, false)
	s.Lookup(ctx, 0.02, nil)
	s.Lookup(ctx, 0.5, errors.New("boom"))
	s.Confirmed(ctx)
	s.Submitted(ctx, 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	has := func(prefix string) bool {
		for _, f := range families {
			if strings.HasPrefix(f.GetName(), prefix) {
				return true
			}
		}

		return false
	}
	for _, name := range []string{"scan_symbols", "scan_confirmed", "scan_submitted_items", "scan_lookup_duration"} {
		require.True(t, has(name), name)
	}
}

func TestNewScan_nilProvider(t *testing.T) {
	s, err := metrics.NewScan(nil)
	require.NoError(t, err)
	s.Symbol(context.Background(), true)
}
