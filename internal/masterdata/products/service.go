// Package products manages the product catalogue.
package products

import (
	"context"
	"errors"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/inventory"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

var (
	// ErrProductNotFound indicates an unknown product id.
	ErrProductNotFound = shared.NewError(shared.ErrNotFound, "product not found")
	// ErrDuplicateProduct indicates the product id is taken.
	ErrDuplicateProduct = shared.NewError(shared.ErrConflict, "product id already exists")
	// ErrProductInUse indicates order or purchase lines still reference the product.
	ErrProductInUse = shared.NewError(shared.ErrBusinessRule, "product is referenced by orders or purchases and cannot be deleted")
)

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service provides catalogue operations.
type Service struct {
	store store.Store
	stock *inventory.Ledger
	audit AuditPort
}

// NewService builds Service.
func NewService(st store.Store, stock *inventory.Ledger, audit AuditPort) *Service {
	if stock == nil {
		stock = inventory.NewLedger()
	}
	return &Service{store: st, stock: stock, audit: audit}
}

// List returns products ordered by name, optionally filtered by a name fragment.
func (s *Service) List(ctx context.Context, search string) ([]domain.Product, error) {
	return s.store.ListProducts(ctx, search)
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Product{}, ErrProductNotFound
	}
	return p, err
}

// Price returns the current unit price of a product.
func (s *Service) Price(ctx context.Context, id string) (int64, error) {
	if id == "" {
		return 0, shared.NewError(shared.ErrValidation, "productId is required")
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return p.Price, nil
}

// Create inserts a product. A positive opening stock is booked through the inventory ledger.
func (s *Service) Create(ctx context.Context, actorID int64, in CreateInput) (domain.Product, error) {
	if err := validateCreate(&in); err != nil {
		return domain.Product{}, err
	}
	var product domain.Product
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.CreateProduct(ctx, domain.Product{ID: in.ID, Name: in.Name, Unit: in.Unit, Price: in.Price}); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return ErrDuplicateProduct
			}
			return err
		}
		if in.StockQuantity > 0 {
			if _, err := s.stock.Adjust(ctx, tx, inventory.Movement{
				ProductID: in.ID,
				Delta:     in.StockQuantity,
				RefModule: domain.RefAdjustment,
				UserID:    actorID,
				Note:      "opening stock",
			}); err != nil {
				return err
			}
		}
		var err error
		product, err = tx.GetProduct(ctx, in.ID)
		return err
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.record(ctx, actorID, "product:create", product.ID, map[string]any{"price": product.Price, "stock": product.StockQuantity})
	return product, nil
}

// Update applies a partial update. Stock is changed only through the inventory ledger.
func (s *Service) Update(ctx context.Context, actorID int64, id string, in UpdateInput) (domain.Product, error) {
	var product domain.Product
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		current, err := tx.GetProductForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if err := applyUpdate(&current, in); err != nil {
			return err
		}
		if err := tx.UpdateProduct(ctx, current); err != nil {
			return err
		}
		product = current
		return nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	s.record(ctx, actorID, "product:update", product.ID, map[string]any{"name": product.Name, "unit": product.Unit, "price": product.Price})
	return product, nil
}

// Delete removes a product that no order or purchase line references.
func (s *Service) Delete(ctx context.Context, actorID int64, id string) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		return tx.DeleteProduct(ctx, id)
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrProductNotFound
	case errors.Is(err, store.ErrReferenced):
		return ErrProductInUse
	case err != nil:
		return err
	}
	s.record(ctx, actorID, "product:delete", id, nil)
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action, id string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{ActorID: actorID, Action: action, Entity: "product", EntityID: id, Meta: meta})
}
