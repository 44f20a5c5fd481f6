// Package salesreport aggregates completed sales per calendar day and month.
package salesreport

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

const dateLayout = "2006-01-02"

// ErrInvalidParameter indicates an out-of-range year or month.
var ErrInvalidParameter = shared.NewError(shared.ErrValidation, "invalid year or month parameter")

// DailySales is the completed sales total of one UTC day.
type DailySales struct {
	Date       string `json:"date"`
	TotalSales int64  `json:"total_sales"`
}

// MonthlySales is the completed sales total of one UTC month.
type MonthlySales struct {
	Year       int   `json:"year"`
	Month      int   `json:"month"`
	TotalSales int64 `json:"total_sales"`
}

// Service computes sales totals, caching them when a Redis cache is configured.
type Service struct {
	queries store.Queries
	cache   *Cache
	logger  *slog.Logger
	group   singleflight.Group
	clock   func() time.Time
}

// NewService builds Service. cache may be nil.
func NewService(queries store.Queries, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		queries: queries,
		cache:   cache,
		logger:  logger,
		clock:   func() time.Time { return time.Now().UTC() },
	}
}

// DailyTotal sums completed orders on the UTC date of day; a zero day means today.
func (s *Service) DailyTotal(ctx context.Context, userID int64, day time.Time) (DailySales, error) {
	if day.IsZero() {
		day = s.clock()
	}
	start := truncateDay(day)
	label := start.Format(dateLayout)
	total, err := s.total(ctx, userID, []string{"sales", "daily", strconv.FormatInt(userID, 10), label}, start, start.AddDate(0, 0, 1))
	if err != nil {
		return DailySales{}, err
	}
	return DailySales{Date: label, TotalSales: total}, nil
}

// MonthlyTotal sums completed orders in the given UTC month.
func (s *Service) MonthlyTotal(ctx context.Context, userID int64, year, month int) (MonthlySales, error) {
	if year < 1900 || year > 2100 || month < 1 || month > 12 {
		return MonthlySales{}, ErrInvalidParameter
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	key := []string{"sales", "monthly", strconv.FormatInt(userID, 10), fmt.Sprintf("%04d-%02d", year, month)}
	total, err := s.total(ctx, userID, key, start, start.AddDate(0, 1, 0))
	if err != nil {
		return MonthlySales{}, err
	}
	return MonthlySales{Year: year, Month: month, TotalSales: total}, nil
}

// WarmDaily recomputes the daily total and overwrites the cached value.
func (s *Service) WarmDaily(ctx context.Context, userID int64, day time.Time) (DailySales, error) {
	start := truncateDay(day)
	label := start.Format(dateLayout)
	total, err := s.queries.SumCompletedOrders(ctx, userID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return DailySales{}, err
	}
	if s.cache.Enabled() {
		key, err := s.cache.BuildKey(ctx, "sales", "daily", strconv.FormatInt(userID, 10), label)
		if err != nil {
			return DailySales{}, err
		}
		if err := s.cache.Store(ctx, key, total); err != nil {
			return DailySales{}, err
		}
	}
	return DailySales{Date: label, TotalSales: total}, nil
}

// Bump invalidates every cached total.
func (s *Service) Bump(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) total(ctx context.Context, userID int64, parts []string, from, to time.Time) (int64, error) {
	loader := func(ctx context.Context) (any, error) {
		return s.queries.SumCompletedOrders(ctx, userID, from, to)
	}
	if !s.cache.Enabled() {
		return s.queries.SumCompletedOrders(ctx, userID, from, to)
	}
	key, err := s.cache.BuildKey(ctx, parts...)
	if err != nil {
		s.logger.WarnContext(ctx, "sales cache unavailable", slog.Any("error", err))
		return s.queries.SumCompletedOrders(ctx, userID, from, to)
	}
	val, err, _ := s.singleflight(ctx, key, func(ctx context.Context) (any, error) {
		var total int64
		if err := s.cache.FetchJSON(ctx, key, &total, loader); err != nil {
			return nil, err
		}
		return total, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		s.logger.WarnContext(ctx, "sales cache fetch failed", slog.String("key", key), slog.Any("error", err))
		return s.queries.SumCompletedOrders(ctx, userID, from, to)
	}
	return val.(int64), nil
}

func (s *Service) singleflight(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error, bool) {
	resultChan := s.group.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-resultChan:
		return res.Val, res.Err, res.Shared
	}
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
