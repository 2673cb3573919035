package serrors_test

import (
	"errors"
	"fmt"
	"stockscan/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrNotFound,
		serrors.ErrBadRequest,
		serrors.ErrInternal,
		serrors.ErrUnavailable,
		serrors.ErrInvalidState,
		serrors.ErrPermissionDenied,
		serrors.ErrLookupFailed,
		serrors.ErrFetchFailed,
		serrors.ErrSubmissionFailed,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("connection refused")

	e1 := serrors.With(serrors.ErrNotFound, "barcode %s not found", "123456")
	require.Equal(t, "barcode 123456 not found", e1.Error())

	e2 := serrors.Wrap(serrors.ErrSubmissionFailed, base, "could not update quantities")
	require.Equal(t, "could not update quantities: connection refused", e2.Error())

	e3 := serrors.KindOnly(serrors.ErrPermissionDenied)
	require.Equal(t, "PERMISSION_DENIED", e3.Error())
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"root cause"}
	e := serrors.Wrap(serrors.ErrLookupFailed, base, "lookup")

	require.ErrorIs(t, e, serrors.ErrLookupFailed)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrFetchFailed)

	// kinds survive fmt wrapping
	wrapped := fmt.Errorf("outer: %w", e)
	require.ErrorIs(t, wrapped, serrors.ErrLookupFailed)
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &customError{"root cause"}
	e := serrors.Wrap(serrors.ErrNotFound, base, "reading")

	var k serrors.Kind
	require.ErrorAs(t, e, &k)
	require.Equal(t, serrors.ErrNotFound, k)

	var ce *customError
	require.ErrorAs(t, e, &ce)
	require.Equal(t, base, ce)
}

func TestKindOf(t *testing.T) {
	require.Nil(t, serrors.KindOf(nil))
	require.Equal(t, serrors.ErrInternal, serrors.KindOf(errors.New("plain")))
	require.Equal(t, serrors.ErrNotFound, serrors.KindOf(serrors.ErrNotFound))

	inner := serrors.With(serrors.ErrNotFound, "no product")
	outer := serrors.Wrap(serrors.ErrLookupFailed, inner, "lookup failed")
	require.Equal(t, serrors.ErrLookupFailed, serrors.KindOf(fmt.Errorf("ctx: %w", outer)))
}

func TestMessageOf(t *testing.T) {
	require.Equal(t, "no camera found", serrors.MessageOf(serrors.With(serrors.ErrUnavailable, "no camera found")))
	require.Equal(t, "plain", serrors.MessageOf(errors.New("plain")))
}

func TestAccessors(t *testing.T) {
	base := errors.New("boom")
	e := serrors.Wrap(serrors.ErrFetchFailed, base, "failed to fetch")
	require.Equal(t, serrors.ErrFetchFailed, e.Kind())
	require.Equal(t, "failed to fetch", e.Message())
	require.Equal(t, base, e.Cause())
}
