package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/JINWOOK1234/pos-project/internal/jobs"
	"github.com/JINWOOK1234/pos-project/internal/salesreport"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

const defaultWarmupDays = 2

// ActiveUserLister returns the users that recorded completed orders since a point in time.
type ActiveUserLister interface {
	ListUsersWithOrdersSince(ctx context.Context, since time.Time) ([]int64, error)
}

// DailyWarmer recomputes and caches one day of sales for a user.
type DailyWarmer interface {
	WarmDaily(ctx context.Context, userID int64, day time.Time) (salesreport.DailySales, error)
}

// SalesWarmupJob pre-populates the daily sales cache for recently active users.
type SalesWarmupJob struct {
	Users   ActiveUserLister
	Sales   DailyWarmer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewSalesWarmupJob wires dependencies for the warmup handler.
func NewSalesWarmupJob(users ActiveUserLister, sales DailyWarmer, logger *slog.Logger, metrics *jobmetrics.Metrics) *SalesWarmupJob {
	return &SalesWarmupJob{
		Users:   users,
		Sales:   sales,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes sales warmup tasks.
func (j *SalesWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Users == nil || j.Sales == nil {
		return errors.New("sales warmup: handler not configured")
	}
	payload := SalesWarmupPayload{Days: defaultWarmupDays}
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	if payload.Days <= 0 {
		payload.Days = defaultWarmupDays
	}

	tracker := j.metrics().Track(TaskSalesCacheWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("days", payload.Days))
	now := j.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(payload.Days - 1))

	users, err := j.Users.ListUsersWithOrdersSince(ctx, since)
	if err != nil {
		logger.Error("load active users", slog.Any("error", err))
		return err
	}
	if len(users) == 0 {
		logger.Info("no active users for warmup")
		return nil
	}

	warmed := 0
	for _, userID := range users {
		for day := since; !day.After(today); day = day.AddDate(0, 0, 1) {
			dayCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			_, err := j.Sales.WarmDaily(dayCtx, userID, day)
			cancel()
			if err != nil {
				logger.Error("warm daily sales", slog.Int64("user_id", userID), slog.String("day", day.Format("2006-01-02")), slog.Any("error", err))
				return err
			}
			warmed++
			tracker.Processed(1)
		}
	}
	logger.Info("completed sales warmup", slog.Int("users", len(users)), slog.Int("entries", warmed), slog.Duration("duration", time.Since(now)))
	return nil
}

func (j *SalesWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskSalesCacheWarmup))
	}
	return slog.Default().With(slog.String("job", TaskSalesCacheWarmup))
}

func (j *SalesWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *SalesWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
