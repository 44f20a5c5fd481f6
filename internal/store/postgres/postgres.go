// Package postgres implements the Entity Store on PostgreSQL using pgx.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JINWOOK1234/pos-project/internal/platform/db"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

//go:embed schema.sql
var schema string

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type queries struct {
	db querier
}

// Store persists POS data in PostgreSQL.
type Store struct {
	queries
	pool     *pgxpool.Pool
	txConfig db.TxConfig
}

// New constructs Store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{queries: queries{db: pool}, pool: pool, txConfig: db.DefaultTxConfig}
}

// SetLockTimeout bounds row-lock waits inside units of work. Lock timeouts surface as ErrSerialization.
func (s *Store) SetLockTimeout(d time.Duration) {
	s.txConfig.LockTimeout = d
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("store/postgres: migrate: %w", err)
	}
	return nil
}

// WithTx executes fn inside a repeatable-read transaction.
func (s *Store) WithTx(ctx context.Context, fn func(context.Context, store.Tx) error) error {
	err := db.WithTxConfig(ctx, s.pool, s.txConfig, func(tx pgx.Tx) error {
		return fn(ctx, &queries{db: tx})
	})
	return mapError(err)
}

// mapError translates driver errors into store errors and leaves everything else untouched.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return store.ErrDuplicate
		case "23503":
			return store.ErrReferenced
		case "23514":
			return store.ErrConstraint
		case "22001":
			return store.ErrValueTooLong
		case "22003":
			return shared.ErrAmountOverflow
		case "40001", "40P01", "55P03":
			return store.ErrSerialization
		}
	}
	return err
}

func affectedOne(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

var (
	_ store.Store = (*Store)(nil)
	_ store.Tx    = (*queries)(nil)
)
