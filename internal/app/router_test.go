package app

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/JINWOOK1234/pos-project/internal/auth"
	"github.com/JINWOOK1234/pos-project/internal/inventory"
	"github.com/JINWOOK1234/pos-project/internal/masterdata/products"
	"github.com/JINWOOK1234/pos-project/internal/observability"
	"github.com/JINWOOK1234/pos-project/internal/receivables"
	"github.com/JINWOOK1234/pos-project/internal/sales"
	"github.com/JINWOOK1234/pos-project/internal/salesreport"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store/memory"
	"github.com/JINWOOK1234/pos-project/jobs"
)

type apiClient struct {
	t      *testing.T
	base   string
	client *http.Client
	csrf   string
}

func newTestServer(t *testing.T) *apiClient {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second, RateLimitPerMinute: 1000}
	st := memory.New()
	stock := inventory.NewLedger()
	credit := receivables.NewLedger()
	audit := shared.NewAuditLogger(nil, nil)
	metrics := observability.NewMetrics()
	report := salesreport.NewService(st, salesreport.NewCache(rdb, time.Minute), nil)
	sessions := shared.NewSessionManager(rdb, "pos_session", time.Hour, false)
	csrf := shared.NewCSRFManager("csrf-secret")

	router := NewRouter(RouterParams{
		Config:         cfg,
		SessionManager: sessions,
		CSRFManager:    csrf,
		Metrics:        metrics,
		AuthHandler:    auth.NewHandler(nil, auth.NewService(auth.NewRepository(st)), sessions, csrf),
		SalesHandler: sales.NewHandler(nil, sales.NewService(st, stock, credit, nil, sales.Options{
			Audit:       audit,
			Idempotency: shared.NewIdempotencyStore(nil),
			Cache:       report,
			Events:      metrics,
		})),
		ProductsHandler:    products.NewHandler(nil, products.NewService(st, stock, audit)),
		InventoryHandler:   inventory.NewHandler(nil, inventory.NewService(st, stock, audit)),
		SalesReportHandler: salesreport.NewHandler(nil, report),
		JobHandler:         jobs.NewHandler(nil, nil),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiClient{t: t, base: srv.URL, client: &http.Client{Jar: jar}}
}

func (c *apiClient) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.csrf != "" {
		req.Header.Set(shared.CSRFHeader, c.csrf)
	}
	res, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(c.t, json.Unmarshal(raw, &out))
	}
	return res.StatusCode, out
}

func (c *apiClient) raw(path string) string {
	c.t.Helper()
	res, err := c.client.Get(c.base + path)
	require.NoError(c.t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	return string(raw)
}

func TestRouterHealthAndAuthGuards(t *testing.T) {
	api := newTestServer(t)

	status, body := api.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", body["status"])

	status, body = api.do(http.MethodGet, "/jobs/health", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, jobs.QueueDefault, body["queue"])

	status, body = api.do(http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.EqualValues(t, http.StatusUnauthorized, body["status"])

	status, _ = api.do(http.MethodPost, "/api/auth/register", map[string]string{"username": "cashier", "password": "secret1"})
	require.Equal(t, http.StatusForbidden, status)

	status, _ = api.do(http.MethodGet, "/unknown", nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestRouterSaleFlow(t *testing.T) {
	api := newTestServer(t)

	status, body := api.do(http.MethodGet, "/api/auth/csrf", nil)
	require.Equal(t, http.StatusOK, status)
	api.csrf = body["csrf_token"].(string)
	require.NotEmpty(t, api.csrf)

	creds := map[string]string{"username": "cashier", "password": "secret1"}
	status, _ = api.do(http.MethodPost, "/api/auth/register", creds)
	require.Equal(t, http.StatusCreated, status)
	status, _ = api.do(http.MethodPost, "/api/auth/login", creds)
	require.Equal(t, http.StatusOK, status)

	status, body = api.do(http.MethodGet, "/api/auth/status", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "cashier", body["username"])

	status, _ = api.do(http.MethodPost, "/api/products", map[string]any{
		"id": "P01", "name": "Widget", "unit": "pcs", "price": 2500, "stock_quantity": 100,
	})
	require.Equal(t, http.StatusCreated, status)

	status, body = api.do(http.MethodPost, "/api/orders", map[string]any{
		"items":        []map[string]any{{"id": "P01", "quantity": 2, "price": 2500}},
		"total_amount": 5000,
	})
	require.Equal(t, http.StatusCreated, status)
	require.NotZero(t, body["order_id"])

	status, body = api.do(http.MethodGet, "/api/product/P01", nil)
	require.Equal(t, http.StatusOK, status)
	require.EqualValues(t, 98, body["stock_quantity"])

	status, body = api.do(http.MethodGet, "/api/sales/daily", nil)
	require.Equal(t, http.StatusOK, status)
	require.EqualValues(t, 5000, body["total_sales"])

	require.Contains(t, api.raw("/metrics"), `pos_business_events_total{event="order_created"} 1`)

	status, _ = api.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = api.do(http.MethodGet, "/api/auth/status", nil)
	require.Equal(t, http.StatusUnauthorized, status)
}
