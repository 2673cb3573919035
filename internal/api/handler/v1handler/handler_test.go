package v1handler_test

import (
	"context"
	"errors"
	"os"
	"stockscan/internal/api/handler/v1handler"
	"stockscan/pkg/logger"
	"stockscan/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Setup(logger.DevelopmentEnvironment, "error"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestNewError_InternalOnPlainError(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})
	ctx := context.Background()

	res := h.NewError(ctx, errors.New("boom"))
	require.NotNil(t, res)
	require.Equal(t, 500, res.StatusCode)
	require.Equal(t, serrors.ErrInternal.Error(), res.Response.Code)
	require.Equal(t, "internal error", res.Response.Message)
}

func TestNewError_KindSentinelDirect_NotFound(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})

	res := h.NewError(context.Background(), serrors.ErrNotFound)
	require.Equal(t, 404, res.StatusCode)
	require.Equal(t, serrors.ErrNotFound.Error(), res.Response.Code)
	require.Equal(t, "resource not found", res.Response.Message)
}

func TestNewError_SemanticWithMessage_BadRequest(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})

	err := serrors.With(serrors.ErrBadRequest, "barcode must not be empty")
	res := h.NewError(context.Background(), err)
	require.Equal(t, 400, res.StatusCode)
	require.Equal(t, serrors.ErrBadRequest.Error(), res.Response.Code)
	require.Equal(t, "barcode must not be empty", res.Response.Message)
}

func TestNewError_SemanticWrap_PermissionDenied(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})

	err := serrors.Wrap(serrors.ErrPermissionDenied, os.ErrPermission, "Camera access denied")
	res := h.NewError(context.Background(), err)
	require.Equal(t, 403, res.StatusCode)
	require.Equal(t, "PERMISSION_DENIED", res.Response.Code)
	// the message, not the cause
	require.Equal(t, "Camera access denied", res.Response.Message)
}

func TestNewError_ScanFlowKinds(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})
	cases := []struct {
		kind   serrors.Kind
		status int
	}{
		{serrors.ErrInvalidState, 409},
		{serrors.ErrUnavailable, 503},
		{serrors.ErrLookupFailed, 502},
		{serrors.ErrFetchFailed, 502},
		{serrors.ErrSubmissionFailed, 502},
	}

	for _, tc := range cases {
		t.Run(tc.kind.Error(), func(t *testing.T) {
			res := h.NewError(context.Background(), serrors.Wrap(tc.kind, errors.New("cause"), "msg"))
			require.Equal(t, tc.status, res.StatusCode)
			require.Equal(t, tc.kind.Error(), res.Response.Code)
			require.Equal(t, "msg", res.Response.Message)
		})
	}
}

func TestNewError_InternalKind_GeneratesInternal(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})

	res := h.NewError(context.Background(), serrors.KindOnly(serrors.ErrInternal))
	require.Equal(t, 500, res.StatusCode)
	require.Equal(t, serrors.ErrInternal.Error(), res.Response.Code)
	require.Equal(t, "internal error", res.Response.Message)
}
