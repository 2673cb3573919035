package session_test

import (
	"context"
	"encoding/json"
	"stockscan/internal/history"
	"stockscan/internal/session"
	"stockscan/pkg/domain"
	"stockscan/pkg/serrors"
	mockstockapi "stockscan/pkg/stockapi/mock"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var smartWatch = &domain.Product{Title: "Smart Watch", Brand: "Arnotts", Image: "/watch.png"} //nolint: gochecknoglobals

func symbol(text string) domain.Symbol {
	return domain.Symbol{Text: text, CapturedAt: time.Now()}
}

func waitState(t *testing.T, c *session.Controller, want session.State) {
	t.Helper()

	require.Eventually(t, func() bool {
		return c.Snapshot().State == want
	}, 2*time.Second, time.Millisecond, "state never became %s", want)
}

func TestController_heldBarcodeProducesOneEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mockstockapi.NewMockClient(ctrl)
	store := history.New()
	ctx := context.Background()

	release := make(chan struct{})
	lookup.EXPECT().LookupBarcode(gomock.Any(), "123456").
		DoAndReturn(func(context.Context, string) (*domain.Product, error) {
			<-release

			return smartWatch, nil
		}).Times(1)

	c := session.NewController(lookup, store)
	t.Cleanup(func() { c.Close(ctx) })

	require.True(t, c.OnFrameDecoded(ctx, symbol("123456")))
	require.Equal(t, session.StateLoading, c.Snapshot().State)

	// the barcode stays in view while the lookup is in flight
	for range 20 {
		require.False(t, c.OnFrameDecoded(ctx, symbol("123456")))
	}
	require.False(t, c.OnFrameDecoded(ctx, symbol("999999")))

	close(release)
	waitState(t, c, session.StateReady)

	snap := c.Snapshot()
	require.Equal(t, "123456", snap.Symbol.Text)
	require.Equal(t, smartWatch, snap.Product)

	// and still in view once the product is shown
	for range 20 {
		require.False(t, c.OnFrameDecoded(ctx, symbol("123456")))
	}
	require.Zero(t, store.Len())

	entry, err := c.ConfirmAdd(ctx)
	require.NoError(t, err)
	require.Equal(t, "123456", entry.Barcode)
	require.Equal(t, "Smart Watch", entry.Title)
	require.Equal(t, "Arnotts", entry.Brand)
	require.Equal(t, "/watch.png", entry.Image)

	list := store.List()
	require.Len(t, list, 1)
	require.Equal(t, entry, list[0])
	require.Equal(t, session.Snapshot{State: session.StateIdle}, c.Snapshot())
}

func TestController_confirmAddTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mockstockapi.NewMockClient(ctrl)
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	lookup.EXPECT().LookupBarcode(gomock.Any(), "123456").Return(smartWatch, nil)

	c := session.NewController(lookup, history.New(), session.WithClock(func() time.Time { return at }))
	t.Cleanup(func() { c.Close(ctx) })

	require.True(t, c.OnFrameDecoded(ctx, symbol("123456")))
	waitState(t, c, session.StateReady)

	entry, err := c.ConfirmAdd(ctx)
	require.NoError(t, err)
	require.Equal(t, at, entry.Timestamp)
}

func TestController_lookupFailureAllowsRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mockstockapi.NewMockClient(ctrl)
	store := history.New()
	ctx := context.Background()

	gomock.InOrder(
		lookup.EXPECT().LookupBarcode(gomock.Any(), "000").
			Return(nil, serrors.With(serrors.ErrNotFound, "Product not found")),
		lookup.EXPECT().LookupBarcode(gomock.Any(), "123456").Return(smartWatch, nil),
	)

	c := session.NewController(lookup, store)
	t.Cleanup(func() { c.Close(ctx) })

	require.True(t, c.OnFrameDecoded(ctx, symbol("000")))
	waitState(t, c, session.StateError)

	snap := c.Snapshot()
	require.Equal(t, "LOOKUP_FAILED", snap.Code)
	require.Equal(t, "Failed to fetch product: Product not found", snap.Error)
	require.Nil(t, snap.Product)

	_, err := c.ConfirmAdd(ctx)
	require.ErrorIs(t, err, serrors.ErrInvalidState)

	require.True(t, c.OnFrameDecoded(ctx, symbol("123456")))
	waitState(t, c, session.StateReady)
	require.Empty(t, c.Snapshot().Error)

	_, err = c.ConfirmAdd(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())
}

func TestController_confirmAddRejectedWhenIdle(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := history.New()

	c := session.NewController(mockstockapi.NewMockClient(ctrl), store)
	t.Cleanup(func() { c.Close(context.Background()) })

	_, err := c.ConfirmAdd(context.Background())
	require.ErrorIs(t, err, serrors.ErrInvalidState)
	require.Zero(t, store.Len())

	require.ErrorIs(t, c.Dismiss(context.Background()), serrors.ErrInvalidState)
}

func TestController_dismissDiscardsInFlightLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mockstockapi.NewMockClient(ctrl)
	store := history.New()
	ctx := context.Background()

	release := make(chan struct{})
	gomock.InOrder(
		lookup.EXPECT().LookupBarcode(gomock.Any(), "111").
			DoAndReturn(func(context.Context, string) (*domain.Product, error) {
				<-release

				return &domain.Product{Title: "late"}, nil
			}),
		lookup.EXPECT().LookupBarcode(gomock.Any(), "222").Return(smartWatch, nil),
	)

	c := session.NewController(lookup, store)
	t.Cleanup(func() { c.Close(ctx) })

	require.True(t, c.OnFrameDecoded(ctx, symbol("111")))
	require.NoError(t, c.Dismiss(ctx))
	require.Equal(t, session.StateIdle, c.Snapshot().State)

	require.True(t, c.OnFrameDecoded(ctx, symbol("222")))
	waitState(t, c, session.StateReady)

	close(release)
	// the stale result must not replace the current product
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, smartWatch, c.Snapshot().Product)
}

func TestController_closeDiscardsLateResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mockstockapi.NewMockClient(ctrl)
	store := history.New()
	ctx := context.Background()

	started := make(chan struct{})
	lookup.EXPECT().LookupBarcode(gomock.Any(), "123456").
		DoAndReturn(func(ctx context.Context, _ string) (*domain.Product, error) {
			close(started)
			<-ctx.Done()

			return smartWatch, nil
		})

	c := session.NewController(lookup, store)
	require.True(t, c.OnFrameDecoded(ctx, symbol("123456")))
	<-started

	c.Close(ctx)

	require.Equal(t, session.Snapshot{State: session.StateIdle}, c.Snapshot())
	require.False(t, c.OnFrameDecoded(ctx, symbol("123456")))
	_, err := c.ConfirmAdd(ctx)
	require.ErrorIs(t, err, serrors.ErrInvalidState)
	require.Zero(t, store.Len())

	// closing twice is fine
	c.Close(ctx)
}

func TestController_lookupTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mockstockapi.NewMockClient(ctrl)
	ctx := context.Background()

	lookup.EXPECT().LookupBarcode(gomock.Any(), "123456").
		DoAndReturn(func(ctx context.Context, _ string) (*domain.Product, error) {
			<-ctx.Done()

			return nil, ctx.Err()
		})

	c := session.NewController(lookup, history.New(), session.WithLookupTimeout(10*time.Millisecond))
	t.Cleanup(func() { c.Close(ctx) })

	require.True(t, c.OnFrameDecoded(ctx, symbol("123456")))
	waitState(t, c, session.StateError)
	require.Equal(t, "LOOKUP_FAILED", c.Snapshot().Code)
}

func TestState_marshal(t *testing.T) {
	b, err := json.Marshal(session.Snapshot{State: session.StateReady})
	require.NoError(t, err)
	require.JSONEq(t, `{"state":"ready"}`, string(b))
	require.Equal(t, "State(42)", session.State(42).String())
}
