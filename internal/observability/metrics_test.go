package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetricsHandlerExposesPrometheusMetrics(t *testing.T) {
	body := scrape(t, NewMetrics())
	assert.Contains(t, body, "go_goroutines")
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/test")

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, metrics)
	assert.Contains(t, body, `catalogo_http_requests_total{code="418",route="/test"} 1`)
	assert.Contains(t, body, `catalogo_http_request_duration_seconds_bucket{route="/test"`)
}

func TestObserveUpstreamAndCache(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveUpstream("search", "ok", 20*time.Millisecond)
	metrics.ObserveUpstream("search", "status_502", time.Second)
	metrics.ObserveCache("hit")

	body := scrape(t, metrics)
	assert.Contains(t, body, `catalogo_upstream_requests_total{op="search",outcome="ok"} 1`)
	assert.Contains(t, body, `catalogo_upstream_requests_total{op="search",outcome="status_502"} 1`)
	assert.Contains(t, body, `catalogo_upstream_request_duration_seconds_count{op="search"} 2`)
	assert.Contains(t, body, `catalogo_search_cache_lookups_total{result="hit"} 1`)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveUpstream("get", "error", time.Millisecond)
	metrics.ObserveCache("miss")

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	metrics.Middleware(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}
