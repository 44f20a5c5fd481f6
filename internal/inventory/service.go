package inventory

import (
	"context"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service exposes manual stock adjustments and the stock card.
type Service struct {
	store  store.Store
	ledger *Ledger
	audit  AuditPort
}

// NewService builds Service.
func NewService(st store.Store, ledger *Ledger, audit AuditPort) *Service {
	if ledger == nil {
		ledger = NewLedger()
	}
	return &Service{store: st, ledger: ledger, audit: audit}
}

// Adjust applies a signed manual correction in its own unit of work and returns the updated product.
func (s *Service) Adjust(ctx context.Context, input AdjustmentInput) (domain.Product, error) {
	if input.Adjustment == 0 {
		return domain.Product{}, ErrInvalidQuantity
	}
	if input.Adjustment > shared.MaxQuantity || input.Adjustment < -shared.MaxQuantity {
		return domain.Product{}, shared.ErrAmountOverflow
	}
	var product domain.Product
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		// Missing products are a 404 here rather than the ledger's business-rule error.
		if _, err := tx.GetProduct(ctx, input.ProductID); err != nil {
			return err
		}
		if _, err := s.ledger.Adjust(ctx, tx, Movement{
			ProductID: input.ProductID,
			Delta:     input.Adjustment,
			RefModule: domain.RefAdjustment,
			UserID:    input.ActorID,
			Note:      input.Note,
		}); err != nil {
			return err
		}
		var err error
		product, err = tx.GetProduct(ctx, input.ProductID)
		return err
	})
	if err != nil {
		return domain.Product{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  input.ActorID,
			Action:   "inventory:adjust",
			Entity:   "product",
			EntityID: input.ProductID,
			Meta: map[string]any{
				"adjustment": input.Adjustment,
				"balance":    product.StockQuantity,
				"note":       input.Note,
			},
		})
	}
	return product, nil
}

// StockCard lists movements for a product, newest first.
func (s *Service) StockCard(ctx context.Context, filter StockCardFilter) ([]domain.StockMovement, error) {
	if filter.ProductID == "" {
		return nil, shared.NewError(shared.ErrValidation, "product id required")
	}
	if _, err := s.store.GetProduct(ctx, filter.ProductID); err != nil {
		return nil, err
	}
	return s.store.ListStockMovements(ctx, filter.ProductID, filter.Limit)
}
