package salesreport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store"
	"github.com/JINWOOK1234/pos-project/internal/store/memory"
	"github.com/JINWOOK1234/pos-project/internal/store/storetest"
)

func seedOrder(t *testing.T, st store.Store, userID int64, at time.Time, total int64, status domain.OrderStatus) {
	t.Helper()
	require.NoError(t, st.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		_, err := tx.InsertOrder(ctx, domain.Order{
			UserID:        userID,
			OrderDate:     at,
			TotalAmount:   total,
			PaymentMethod: domain.PaymentCash,
			Status:        status,
		})
		return err
	}))
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestDailyTotalUsesHalfOpenUTCDay(t *testing.T) {
	st := memory.New()
	owner := storetest.User(t, st, "owner")
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	seedOrder(t, st, owner, day, 1000, domain.OrderCompleted)
	seedOrder(t, st, owner, day.Add(23*time.Hour+59*time.Minute), 500, domain.OrderCompleted)
	seedOrder(t, st, owner, day.Add(24*time.Hour), 7000, domain.OrderCompleted)
	seedOrder(t, st, owner, day.Add(time.Hour), 9000, domain.OrderCancelled)

	svc := NewService(st, nil, nil)
	got, err := svc.DailyTotal(context.Background(), owner, day.Add(12*time.Hour))
	require.NoError(t, err)
	require.Equal(t, DailySales{Date: "2024-03-15", TotalSales: 1500}, got)

	empty, err := svc.DailyTotal(context.Background(), owner, day.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Zero(t, empty.TotalSales)
}

func TestDailyTotalDefaultsToToday(t *testing.T) {
	st := memory.New()
	owner := storetest.User(t, st, "owner")
	now := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
	seedOrder(t, st, owner, now.Add(-time.Hour), 4200, domain.OrderCompleted)

	svc := NewService(st, nil, nil)
	svc.clock = func() time.Time { return now }
	got, err := svc.DailyTotal(context.Background(), owner, time.Time{})
	require.NoError(t, err)
	require.Equal(t, "2024-06-01", got.Date)
	require.EqualValues(t, 4200, got.TotalSales)
}

func TestMonthlyTotal(t *testing.T) {
	st := memory.New()
	owner := storetest.User(t, st, "owner")
	seedOrder(t, st, owner, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 100, domain.OrderCompleted)
	seedOrder(t, st, owner, time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC), 200, domain.OrderCompleted)
	seedOrder(t, st, owner, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 400, domain.OrderCompleted)

	svc := NewService(st, nil, nil)
	got, err := svc.MonthlyTotal(context.Background(), owner, 2024, 2)
	require.NoError(t, err)
	require.Equal(t, MonthlySales{Year: 2024, Month: 2, TotalSales: 300}, got)

	for _, tc := range []struct{ year, month int }{{1899, 1}, {2101, 1}, {2024, 0}, {2024, 13}} {
		_, err := svc.MonthlyTotal(context.Background(), owner, tc.year, tc.month)
		require.ErrorIs(t, err, ErrInvalidParameter)
		require.ErrorIs(t, err, shared.ErrValidation)
	}
}

func TestCachedTotalsInvalidatedByBump(t *testing.T) {
	st := memory.New()
	owner := storetest.User(t, st, "owner")
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	seedOrder(t, st, owner, day.Add(time.Hour), 1000, domain.OrderCompleted)

	cache := NewCache(newRedis(t), time.Hour)
	svc := NewService(st, cache, nil)
	ctx := context.Background()

	got, err := svc.DailyTotal(ctx, owner, day)
	require.NoError(t, err)
	require.EqualValues(t, 1000, got.TotalSales)

	seedOrder(t, st, owner, day.Add(2*time.Hour), 500, domain.OrderCompleted)
	got, err = svc.DailyTotal(ctx, owner, day)
	require.NoError(t, err)
	require.EqualValues(t, 1000, got.TotalSales, "served from cache")

	require.NoError(t, svc.Bump(ctx))
	got, err = svc.DailyTotal(ctx, owner, day)
	require.NoError(t, err)
	require.EqualValues(t, 1500, got.TotalSales)
}

func TestWarmDailyOverwritesCache(t *testing.T) {
	st := memory.New()
	owner := storetest.User(t, st, "owner")
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	seedOrder(t, st, owner, day.Add(time.Hour), 1000, domain.OrderCompleted)

	svc := NewService(st, NewCache(newRedis(t), time.Hour), nil)
	ctx := context.Background()
	_, err := svc.DailyTotal(ctx, owner, day)
	require.NoError(t, err)

	seedOrder(t, st, owner, day.Add(2*time.Hour), 250, domain.OrderCompleted)
	warmed, err := svc.WarmDaily(ctx, owner, day)
	require.NoError(t, err)
	require.EqualValues(t, 1250, warmed.TotalSales)

	got, err := svc.DailyTotal(ctx, owner, day)
	require.NoError(t, err)
	require.EqualValues(t, 1250, got.TotalSales)
}

func TestCacheVersioning(t *testing.T) {
	cache := NewCache(newRedis(t), time.Minute)
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "sales", "daily", "1")
	require.NoError(t, err)
	require.Equal(t, "sales:daily:1:v1", key)

	require.NoError(t, cache.Bump(ctx))
	key, err = cache.BuildKey(ctx, "sales", "daily", "1")
	require.NoError(t, err)
	require.Equal(t, "sales:daily:1:v2", key)

	disabled := NewCache(nil, time.Minute)
	key, err = disabled.BuildKey(ctx, "a", "b")
	require.NoError(t, err)
	require.Equal(t, "a:b", key)
	require.NoError(t, disabled.Bump(ctx))
}

func TestSalesEndpoints(t *testing.T) {
	st := memory.New()
	owner := storetest.User(t, st, "owner")
	seedOrder(t, st, owner, time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), 1200, domain.OrderCompleted)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithUserID(req.Context(), owner)))
		})
	})
	NewHandler(nil, NewService(st, nil, nil)).MountRoutes(r)

	get := func(path string) *httptest.ResponseRecorder {
		res := httptest.NewRecorder()
		r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, path, nil))
		return res
	}

	res := get("/sales/daily?date=2024-03-15")
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"date":"2024-03-15","total_sales":1200}`, res.Body.String())

	res = get("/sales/daily?date=2024-03-16")
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"date":"2024-03-16","total_sales":0}`, res.Body.String())

	require.Equal(t, http.StatusBadRequest, get("/sales/daily?date=15-03-2024").Code)

	res = get("/sales/monthly?year=2024&month=3")
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"year":2024,"month":3,"total_sales":1200}`, res.Body.String())

	require.Equal(t, http.StatusBadRequest, get("/sales/monthly?year=2024&month=13").Code)
	require.Equal(t, http.StatusBadRequest, get("/sales/monthly?year=abc&month=1").Code)
	require.Equal(t, http.StatusBadRequest, get("/sales/monthly").Code)
}
