package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

// Ledger applies stock movements inside a caller-owned unit of work.
type Ledger struct {
	clock func() time.Time
}

// NewLedger builds Ledger.
func NewLedger() *Ledger {
	return &Ledger{clock: func() time.Time { return time.Now().UTC() }}
}

// Adjust locks the product, applies m.Delta and appends a stock card entry.
// It returns the new stock quantity. Nothing is written when the result would be negative.
func (l *Ledger) Adjust(ctx context.Context, tx store.Tx, m Movement) (int64, error) {
	if m.Delta == 0 {
		return 0, ErrInvalidQuantity
	}
	product, err := tx.GetProductForUpdate(ctx, m.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s", ErrProductNotFound, m.ProductID)
		}
		return 0, err
	}
	newQty, err := shared.AddAmount(product.StockQuantity, m.Delta)
	if err != nil {
		return 0, err
	}
	if newQty < 0 {
		return 0, fmt.Errorf("%w for product %s: available %d, requested %d",
			ErrInsufficientStock, product.Name, product.StockQuantity, -m.Delta)
	}
	if err := tx.SetProductStock(ctx, product.ID, newQty); err != nil {
		return 0, err
	}
	_, err = tx.InsertStockMovement(ctx, domain.StockMovement{
		ProductID:    product.ID,
		Delta:        m.Delta,
		BalanceAfter: newQty,
		RefModule:    m.RefModule,
		RefID:        m.RefID,
		UserID:       m.UserID,
		Note:         m.Note,
		CreatedAt:    l.now(),
	})
	if err != nil {
		return 0, err
	}
	return newQty, nil
}

func (l *Ledger) now() time.Time {
	if l == nil || l.clock == nil {
		return time.Now().UTC()
	}
	return l.clock()
}
