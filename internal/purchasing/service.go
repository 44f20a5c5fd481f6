// Package purchasing records goods received from suppliers.
package purchasing

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/inventory"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

// NoSupplier is shown when a purchase order names no supplier.
const NoSupplier = "N/A"

var (
	// ErrMissingItems indicates the request carried no items list.
	ErrMissingItems = shared.NewError(shared.ErrValidation, "missing required purchase data")
	// ErrInvalidSupplier indicates the supplier is unknown to the caller.
	ErrInvalidSupplier = shared.NewError(shared.ErrBusinessRule, "invalid supplier")
	// ErrPurchaseNotFound indicates a missing purchase order or one owned by another user.
	ErrPurchaseNotFound = shared.NewError(shared.ErrNotFound, "purchase order not found")
)

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// EventRecorder counts business events.
type EventRecorder interface {
	RecordBusinessEvent(event string)
}

// ItemInput is one received line.
type ItemInput struct {
	ProductID   string
	Quantity    int64
	CostPerUnit int64
}

// CreatePurchaseInput describes received goods. A nil Items slice means the list was missing.
type CreatePurchaseInput struct {
	SupplierID *int64
	Items      []ItemInput
}

// Service provides the purchase transaction manager.
type Service struct {
	store  store.Store
	stock  *inventory.Ledger
	audit  AuditPort
	events EventRecorder
	clock  func() time.Time
}

// NewService builds Service.
func NewService(st store.Store, stock *inventory.Ledger, audit AuditPort, events EventRecorder) *Service {
	if stock == nil {
		stock = inventory.NewLedger()
	}
	return &Service{
		store:  st,
		stock:  stock,
		audit:  audit,
		events: events,
		clock:  func() time.Time { return time.Now().UTC() },
	}
}

// Create records the purchase order, its lines and the stock increase in one unit of work.
func (s *Service) Create(ctx context.Context, userID int64, input CreatePurchaseInput) (int64, error) {
	if input.Items == nil {
		return 0, ErrMissingItems
	}
	for _, item := range input.Items {
		if item.ProductID == "" {
			return 0, shared.NewError(shared.ErrValidation, "item product_id is required")
		}
		if item.Quantity <= 0 {
			return 0, shared.NewError(shared.ErrValidation, "item quantity must be greater than zero")
		}
		if item.CostPerUnit < 0 {
			return 0, shared.NewError(shared.ErrValidation, "item cost_per_unit must not be negative")
		}
		if item.Quantity > shared.MaxQuantity || item.CostPerUnit > shared.MaxUnitPrice {
			return 0, shared.ErrAmountOverflow
		}
	}
	total, err := shared.LineTotal(len(input.Items), func(i int) (int64, int64) {
		return input.Items[i].Quantity, input.Items[i].CostPerUnit
	})
	if err != nil {
		return 0, err
	}

	var purchaseID int64
	err = s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if input.SupplierID != nil {
			if _, err := tx.GetSupplier(ctx, userID, *input.SupplierID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrInvalidSupplier
				}
				return err
			}
		}
		id, err := tx.InsertPurchaseOrder(ctx, domain.PurchaseOrder{
			UserID:       userID,
			PurchaseDate: s.clock(),
			SupplierID:   input.SupplierID,
			TotalCost:    total,
		})
		if err != nil {
			return err
		}
		for _, item := range input.Items {
			if _, err := s.stock.Adjust(ctx, tx, inventory.Movement{
				ProductID: item.ProductID,
				Delta:     item.Quantity,
				RefModule: domain.RefPurchase,
				RefID:     id,
				UserID:    userID,
			}); err != nil {
				return err
			}
			if _, err := tx.InsertPurchaseOrderItem(ctx, domain.PurchaseOrderItem{
				PurchaseOrderID: id,
				ProductID:       item.ProductID,
				Quantity:        item.Quantity,
				CostPerUnit:     item.CostPerUnit,
			}); err != nil {
				return err
			}
		}
		purchaseID = id
		return nil
	})
	if err != nil {
		return 0, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  userID,
			Action:   "purchase:create",
			Entity:   "purchase_order",
			EntityID: strconv.FormatInt(purchaseID, 10),
			Meta:     map[string]any{"total_cost": total, "items": len(input.Items)},
		})
	}
	if s.events != nil {
		s.events.RecordBusinessEvent("purchase_created")
	}
	return purchaseID, nil
}

// List returns the user's purchase orders newest first.
func (s *Service) List(ctx context.Context, userID int64) ([]domain.PurchaseOrder, error) {
	purchases, err := s.store.ListPurchaseOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range purchases {
		purchases[i] = withSupplierLabel(purchases[i])
	}
	return purchases, nil
}

// Get returns one purchase order with its lines.
func (s *Service) Get(ctx context.Context, userID, id int64) (domain.PurchaseOrder, error) {
	po, err := s.store.GetPurchaseOrder(ctx, userID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.PurchaseOrder{}, ErrPurchaseNotFound
		}
		return domain.PurchaseOrder{}, err
	}
	items, err := s.store.ListPurchaseOrderItems(ctx, []int64{po.ID})
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	if items == nil {
		items = []domain.PurchaseOrderItem{}
	}
	po.Items = items
	return withSupplierLabel(po), nil
}

func withSupplierLabel(po domain.PurchaseOrder) domain.PurchaseOrder {
	if po.SupplierName == "" {
		po.SupplierName = NoSupplier
	}
	return po
}
