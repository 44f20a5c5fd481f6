package shared

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIdempotencyStoreInMemory(t *testing.T) {
	store := NewIdempotencyStore(nil)
	ctx := context.Background()

	require.NoError(t, store.CheckAndInsert(ctx, "k1", "orders"))
	err := store.CheckAndInsert(ctx, "k1", "orders")
	require.ErrorIs(t, err, ErrIdempotencyConflict)
	require.ErrorIs(t, err, ErrConflict)

	require.NoError(t, store.Delete(ctx, "k1"))
	require.NoError(t, store.CheckAndInsert(ctx, "k1", "orders"))
}

func TestIdempotencyCleanup(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewIdempotencyStore(nil)
	store.clock = func() time.Time { return now }
	ctx := context.Background()
	require.NoError(t, store.CheckAndInsert(ctx, "old", "orders"))

	now = now.Add(25 * time.Hour)
	require.NoError(t, store.CheckAndInsert(ctx, "fresh", "orders"))

	removed, err := store.Cleanup(ctx, 24*time.Hour)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)
	require.ErrorIs(t, store.CheckAndInsert(ctx, "fresh", "orders"), ErrIdempotencyConflict)
	require.NoError(t, store.CheckAndInsert(ctx, "old", "orders"))
}
