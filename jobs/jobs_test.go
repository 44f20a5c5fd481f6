package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/JINWOOK1234/pos-project/internal/jobs"
	"github.com/JINWOOK1234/pos-project/internal/salesreport"
)

type fakeUsers struct {
	ids   []int64
	since time.Time
	err   error
}

func (f *fakeUsers) ListUsersWithOrdersSince(_ context.Context, since time.Time) ([]int64, error) {
	f.since = since
	return f.ids, f.err
}

type warmCall struct {
	userID int64
	day    string
}

type fakeWarmer struct {
	calls []warmCall
	err   error
}

func (f *fakeWarmer) WarmDaily(_ context.Context, userID int64, day time.Time) (salesreport.DailySales, error) {
	f.calls = append(f.calls, warmCall{userID: userID, day: day.Format("2006-01-02")})
	if f.err != nil {
		return salesreport.DailySales{}, f.err
	}
	return salesreport.DailySales{Date: day.Format("2006-01-02")}, nil
}

type fakeCleaner struct {
	olderThan time.Duration
	removed   int64
	err       error
}

func (f *fakeCleaner) Cleanup(_ context.Context, olderThan time.Duration) (int64, error) {
	f.olderThan = olderThan
	return f.removed, f.err
}

func testMetrics() *jobmetrics.Metrics {
	return jobmetrics.NewMetrics(prometheus.NewRegistry())
}

func TestSalesWarmupWarmsTodayAndYesterday(t *testing.T) {
	users := &fakeUsers{ids: []int64{1, 2}}
	warmer := &fakeWarmer{}
	job := NewSalesWarmupJob(users, warmer, nil, testMetrics())
	job.clock = func() time.Time { return time.Date(2024, 3, 10, 0, 5, 0, 0, time.UTC) }

	task, err := NewSalesWarmupTask(2)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	require.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), users.since)
	require.Equal(t, []warmCall{
		{userID: 1, day: "2024-03-09"},
		{userID: 1, day: "2024-03-10"},
		{userID: 2, day: "2024-03-09"},
		{userID: 2, day: "2024-03-10"},
	}, warmer.calls)
}

func TestSalesWarmupNoUsers(t *testing.T) {
	warmer := &fakeWarmer{}
	job := NewSalesWarmupJob(&fakeUsers{}, warmer, nil, testMetrics())

	require.NoError(t, job.Handle(context.Background(), asynq.NewTask(TaskSalesCacheWarmup, nil)))
	require.Empty(t, warmer.calls)
}

func TestSalesWarmupPropagatesErrors(t *testing.T) {
	boom := errors.New("redis down")
	job := NewSalesWarmupJob(&fakeUsers{ids: []int64{1}}, &fakeWarmer{err: boom}, nil, testMetrics())
	require.ErrorIs(t, job.Handle(context.Background(), asynq.NewTask(TaskSalesCacheWarmup, nil)), boom)

	job = NewSalesWarmupJob(&fakeUsers{err: boom}, &fakeWarmer{}, nil, testMetrics())
	require.ErrorIs(t, job.Handle(context.Background(), asynq.NewTask(TaskSalesCacheWarmup, nil)), boom)
}

func TestSalesWarmupRejectsMalformedPayload(t *testing.T) {
	job := NewSalesWarmupJob(&fakeUsers{}, &fakeWarmer{}, nil, testMetrics())
	err := job.Handle(context.Background(), asynq.NewTask(TaskSalesCacheWarmup, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestIdempotencyCleanup(t *testing.T) {
	cleaner := &fakeCleaner{removed: 3}
	job := NewIdempotencyCleanupJob(cleaner, nil, testMetrics())

	task, err := NewIdempotencyCleanupTask(2 * time.Hour)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 2*time.Hour, cleaner.olderThan)

	require.NoError(t, job.Handle(context.Background(), asynq.NewTask(TaskIdempotencyCleanup, nil)))
	require.Equal(t, 24*time.Hour, cleaner.olderThan)

	boom := errors.New("db down")
	job = NewIdempotencyCleanupJob(&fakeCleaner{err: boom}, nil, testMetrics())
	require.ErrorIs(t, job.Handle(context.Background(), task), boom)
}

type signalCleaner struct {
	calls chan time.Duration
}

func (c *signalCleaner) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	select {
	case c.calls <- olderThan:
	case <-ctx.Done():
	}
	return 1, nil
}

func TestIdempotencyCleanupRunEvery(t *testing.T) {
	cleaner := &signalCleaner{calls: make(chan time.Duration)}
	job := NewIdempotencyCleanupJob(cleaner, nil, testMetrics())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.RunEvery(ctx, 5*time.Millisecond, time.Hour)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case olderThan := <-cleaner.calls:
			require.Equal(t, time.Hour, olderThan)
		case <-time.After(2 * time.Second):
			t.Fatal("sweep did not run")
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}

type fakeInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (f fakeInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) {
	return f.info, f.err
}

func serveHealth(t *testing.T, inspector QueueInspector) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	router := chi.NewRouter()
	NewHandler(inspector, nil).MountRoutes(router)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr, body
}

func TestJobsHealth(t *testing.T) {
	rr, body := serveHealth(t, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, QueueDefault, body["queue"])
	require.EqualValues(t, 0, body["pending"])

	rr, body = serveHealth(t, fakeInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Pending: 4, Failed: 1}})
	require.Equal(t, http.StatusOK, rr.Code)
	require.EqualValues(t, 4, body["pending"])
	require.EqualValues(t, 1, body["failed"])

	rr, _ = serveHealth(t, fakeInspector{err: errors.New("redis down")})
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
