package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"stockscan/internal/api"
	"stockscan/internal/api/handler/v1handler"
	"stockscan/internal/session"
	"stockscan/pkg/logger"
	"stockscan/pkg/metrics"
	mockstockapi "stockscan/pkg/stockapi/mock"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	if err := logger.Setup(logger.DevelopmentEnvironment, "error"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newServer(t *testing.T) (*httptest.Server, *mockstockapi.MockClient) {
	t.Helper()

	reg := prometheus.NewRegistry()
	mp, err := metrics.NewPrometheusProvider(reg)
	require.NoError(t, err)
	m, err := metrics.NewScan(mp)
	require.NoError(t, err)

	stock := mockstockapi.NewMockClient(gomock.NewController(t))
	sess := session.New(session.Deps{Stock: stock, Metrics: m}, session.Options{})

	srv := httptest.NewServer(api.NewServer(api.Deps{
		Deps:     v1handler.Deps{Session: sess},
		Gatherer: reg,
	}, api.Options{
		RequestTimeout: time.Second,
		MetricsPath:    "/metrics",
		CORSOrigins:    []string{"http://kiosk.local"},
	}).Handler)
	t.Cleanup(func() {
		srv.Close()
		sess.Close(context.Background())
	})

	return srv, stock
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() {
		_ = res.Body.Close()
	}()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res, string(b)
}

func TestServer_OpenAPIDocument(t *testing.T) {
	srv, _ := newServer(t)

	res, body := get(t, srv, "/specs/v1.yaml")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "application/yaml", res.Header.Get("Content-Type"))
	require.True(t, strings.HasPrefix(body, "openapi:"))
}

func TestServer_V1Routes(t *testing.T) {
	srv, _ := newServer(t)

	res, body := get(t, srv, "/v1/scan")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, body, `"state":"idle"`)
	require.NotEmpty(t, res.Header.Get("X-Request-Id"))

	res, _ = get(t, srv, "/v1/nope")
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	srv, stock := newServer(t)
	stock.EXPECT().LookupBarcode(gomock.Any(), "42").Return(nil, context.DeadlineExceeded).AnyTimes()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL+"/v1/scan/symbols",
		strings.NewReader(`{"barcode":"42"}`))
	require.NoError(t, err)
	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	_ = res.Body.Close()
	require.Equal(t, http.StatusAccepted, res.StatusCode)

	res, body := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, body, "scan_symbols")
}

func TestServer_CORS(t *testing.T) {
	srv, _ := newServer(t)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodOptions, srv.URL+"/v1/scan/confirm", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://kiosk.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	_ = res.Body.Close()
	require.Equal(t, http.StatusNoContent, res.StatusCode)
	require.Equal(t, "http://kiosk.local", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_Pprof(t *testing.T) {
	srv, _ := newServer(t)

	res, _ := get(t, srv, "/debug/pprof/goroutine?debug=1")
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestServer_Docs(t *testing.T) {
	srv, _ := newServer(t)

	res, body := get(t, srv, "/v1/docs/")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, body, "Stock Scan Station")
}
