package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/JINWOOK1234/pos-project/internal/jobs"
)

const defaultKeyRetention = 24 * time.Hour

// KeyCleaner removes idempotency keys past their retention window.
type KeyCleaner interface {
	Cleanup(ctx context.Context, olderThan time.Duration) (int64, error)
}

// IdempotencyCleanupJob purges stale idempotency keys.
type IdempotencyCleanupJob struct {
	Keys    KeyCleaner
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewIdempotencyCleanupJob wires dependencies for the cleanup handler.
func NewIdempotencyCleanupJob(keys KeyCleaner, logger *slog.Logger, metrics *jobmetrics.Metrics) *IdempotencyCleanupJob {
	return &IdempotencyCleanupJob{Keys: keys, Logger: logger, Metrics: metrics}
}

// Handle processes idempotency cleanup tasks.
func (j *IdempotencyCleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Keys == nil {
		return errors.New("idempotency cleanup: handler not configured")
	}
	payload := IdempotencyCleanupPayload{OlderThan: defaultKeyRetention}
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	if payload.OlderThan <= 0 {
		payload.OlderThan = defaultKeyRetention
	}
	return j.Sweep(ctx, payload.OlderThan)
}

// Sweep removes keys older than olderThan, tracking the run like a queued task.
func (j *IdempotencyCleanupJob) Sweep(ctx context.Context, olderThan time.Duration) (resultErr error) {
	if j == nil || j.Keys == nil {
		return errors.New("idempotency cleanup: handler not configured")
	}
	metrics := j.Metrics
	if metrics == nil {
		metrics = defaultJobMetrics
	}
	tracker := metrics.Track(TaskIdempotencyCleanup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("job", TaskIdempotencyCleanup))

	removed, err := j.Keys.Cleanup(ctx, olderThan)
	if err != nil {
		logger.Error("cleanup idempotency keys", slog.Any("error", err))
		return err
	}
	tracker.Processed(int(removed))
	logger.Info("idempotency keys removed", slog.Int64("count", removed), slog.Duration("older_than", olderThan))
	return nil
}

// RunEvery sweeps on a fixed interval until ctx is done. It serves deployments
// without a worker, where keys live in process memory.
func (j *IdempotencyCleanupJob) RunEvery(ctx context.Context, interval, olderThan time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	if olderThan <= 0 {
		olderThan = defaultKeyRetention
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Failures are logged and counted by Sweep; the next tick retries.
			_ = j.Sweep(ctx, olderThan)
		}
	}
}
