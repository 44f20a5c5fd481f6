package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxConfig tunes one unit of work.
type TxConfig struct {
	IsoLevel pgx.TxIsoLevel
	ReadOnly bool
	// LockTimeout bounds how long row locks are awaited. Zero keeps the server default.
	LockTimeout time.Duration
}

// DefaultTxConfig is a RepeatableRead read-write transaction without a lock timeout.
var DefaultTxConfig = TxConfig{IsoLevel: pgx.RepeatableRead}

// WithTxConfig runs fn in a transaction configured by cfg. The transaction
// is rolled back when fn returns an error or panics.
func WithTxConfig(ctx context.Context, pool *pgxpool.Pool, cfg TxConfig, fn func(pgx.Tx) error) error {
	opts := pgx.TxOptions{IsoLevel: cfg.IsoLevel}
	if cfg.ReadOnly {
		opts.AccessMode = pgx.ReadOnly
	}
	tx, err := pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("platform/db: begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if cfg.LockTimeout > 0 {
		// SET does not accept bind parameters.
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", cfg.LockTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("platform/db: set lock timeout: %w", err)
		}
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("platform/db: commit tx: %w", err)
	}

	return nil
}
