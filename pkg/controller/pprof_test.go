package controller_test

import (
	"net/http"
	"net/http/httptest"
	"stockscan/pkg/controller"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestPprof_Index(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://pprof.local/", nil)
	rec := httptest.NewRecorder()
	controller.Pprof().ServeHTTP(rec, req)
	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct == "" {
		t.Errorf("expected Content-Type to be set")
	}
}

func TestPprof_Cmdline_OK(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://pprof.local/cmdline", nil)
	rec := httptest.NewRecorder()
	controller.Pprof().ServeHTTP(rec, req)
	if res := rec.Result(); res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
}

func TestPprof_NamedProfileWhenMounted(t *testing.T) {
	r := chi.NewRouter()
	r.Mount("/debug/pprof", controller.Pprof())

	req := httptest.NewRequest(http.MethodGet, "http://pprof.local/debug/pprof/goroutine?debug=1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if res := rec.Result(); res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
}
