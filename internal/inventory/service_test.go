package inventory

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store"
	"github.com/JINWOOK1234/pos-project/internal/store/memory"
)

func newStoreWithProduct(t *testing.T, stock int64) *memory.Store {
	t.Helper()
	st := memory.New()
	err := st.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		return tx.CreateProduct(ctx, domain.Product{ID: "P01", Name: "Widget", Unit: "pcs", Price: 2500, StockQuantity: stock})
	})
	require.NoError(t, err)
	return st
}

func TestLedgerAdjustRecordsMovement(t *testing.T) {
	st := newStoreWithProduct(t, 100)
	ledger := NewLedger()
	ctx := context.Background()

	var newQty int64
	err := st.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var err error
		newQty, err = ledger.Adjust(ctx, tx, Movement{ProductID: "P01", Delta: -2, RefModule: domain.RefOrder, RefID: 7})
		return err
	})
	require.NoError(t, err)
	require.EqualValues(t, 98, newQty)

	p, err := st.GetProduct(ctx, "P01")
	require.NoError(t, err)
	require.EqualValues(t, 98, p.StockQuantity)

	card, err := st.ListStockMovements(ctx, "P01", 0)
	require.NoError(t, err)
	require.Len(t, card, 1)
	require.EqualValues(t, -2, card[0].Delta)
	require.EqualValues(t, 98, card[0].BalanceAfter)
	require.Equal(t, domain.RefOrder, card[0].RefModule)
}

func TestLedgerRejectsNegativeStock(t *testing.T) {
	st := newStoreWithProduct(t, 100)
	ledger := NewLedger()
	ctx := context.Background()

	err := st.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		_, err := ledger.Adjust(ctx, tx, Movement{ProductID: "P01", Delta: -101})
		return err
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.ErrorIs(t, err, shared.ErrBusinessRule)

	p, err := st.GetProduct(ctx, "P01")
	require.NoError(t, err)
	require.EqualValues(t, 100, p.StockQuantity)
}

func TestLedgerRejectsOverflow(t *testing.T) {
	st := newStoreWithProduct(t, 10)
	err := st.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		_, err := NewLedger().Adjust(ctx, tx, Movement{ProductID: "P01", Delta: math.MaxInt64})
		return err
	})
	require.ErrorIs(t, err, shared.ErrAmountOverflow)
	require.ErrorIs(t, err, shared.ErrValidation)

	p, err := st.GetProduct(context.Background(), "P01")
	require.NoError(t, err)
	require.EqualValues(t, 10, p.StockQuantity)
}

func TestLedgerUnknownProduct(t *testing.T) {
	st := memory.New()
	err := st.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		_, err := NewLedger().Adjust(ctx, tx, Movement{ProductID: "NOPE", Delta: 1})
		return err
	})
	require.ErrorIs(t, err, ErrProductNotFound)
	require.Contains(t, err.Error(), "NOPE")
}

func TestLedgerRejectsZeroDelta(t *testing.T) {
	st := newStoreWithProduct(t, 5)
	err := st.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		_, err := NewLedger().Adjust(ctx, tx, Movement{ProductID: "P01"})
		return err
	})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestServiceAdjust(t *testing.T) {
	st := newStoreWithProduct(t, 10)
	svc := NewService(st, nil, nil)
	ctx := context.Background()

	product, err := svc.Adjust(ctx, AdjustmentInput{ProductID: "P01", Adjustment: 5, Note: "recount"})
	require.NoError(t, err)
	require.EqualValues(t, 15, product.StockQuantity)

	_, err = svc.Adjust(ctx, AdjustmentInput{ProductID: "P01", Adjustment: -16})
	require.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.Adjust(ctx, AdjustmentInput{ProductID: "P01", Adjustment: shared.MaxQuantity + 1})
	require.ErrorIs(t, err, shared.ErrAmountOverflow)

	_, err = svc.Adjust(ctx, AdjustmentInput{ProductID: "missing", Adjustment: 1})
	require.ErrorIs(t, err, shared.ErrNotFound)

	card, err := svc.StockCard(ctx, StockCardFilter{ProductID: "P01"})
	require.NoError(t, err)
	require.Len(t, card, 1)
	require.Equal(t, "recount", card[0].Note)
	require.Equal(t, domain.RefAdjustment, card[0].RefModule)
}
