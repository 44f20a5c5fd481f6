package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/JINWOOK1234/pos-project/internal/jobs"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetricsHandlerExposesJobMetrics(t *testing.T) {
	metrics := NewMetrics()
	jobs := jobmetrics.NewMetrics(metrics.Registerer())
	_ = jobs.Track("sales:cache_warmup").End(nil)
	_ = jobs.Track("sales:cache_warmup").End(errors.New("boom"))

	body := scrape(t, metrics)
	require.Contains(t, body, `pos_jobs_total{job="sales:cache_warmup",status="success"} 1`)
	require.Contains(t, body, `pos_jobs_failures_total{job="sales:cache_warmup"} 1`)
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
	require.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, metrics)
	require.Contains(t, body, `pos_http_requests_total{code="418",route="/test"} 1`)
	require.Contains(t, body, `pos_http_request_duration_seconds_bucket{route="/test"`)
}

func TestRecordBusinessEvent(t *testing.T) {
	metrics := NewMetrics()
	metrics.RecordBusinessEvent("order_created")
	metrics.RecordBusinessEvent("order_created")
	metrics.RecordBusinessEvent("")

	require.Contains(t, scrape(t, metrics), `pos_business_events_total{event="order_created"} 2`)

	var disabled *Metrics
	disabled.RecordBusinessEvent("order_created")
}
