package sales

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/inventory"
	"github.com/JINWOOK1234/pos-project/internal/receivables"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

const idempotencyModule = "orders"

// Service provides the order transaction manager.
type Service struct {
	store       store.Store
	stock       *inventory.Ledger
	credit      *receivables.Ledger
	logger      *slog.Logger
	audit       AuditPort
	idempotency IdempotencyPort
	cache       CacheBumper
	events      EventRecorder
	clock       func() time.Time
}

// NewService constructs the order service. Nil ledgers are replaced with defaults.
func NewService(st store.Store, stock *inventory.Ledger, credit *receivables.Ledger, logger *slog.Logger, opts Options) *Service {
	if stock == nil {
		stock = inventory.NewLedger()
	}
	if credit == nil {
		credit = receivables.NewLedger()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:       st,
		stock:       stock,
		credit:      credit,
		logger:      logger,
		audit:       opts.Audit,
		idempotency: opts.Idempotency,
		cache:       opts.Cache,
		events:      opts.Events,
		clock:       func() time.Time { return time.Now().UTC() },
	}
}

// ============================================================================
// MUTATIONS
// ============================================================================

// Create records a completed sale and returns the new order id.
func (s *Service) Create(ctx context.Context, userID int64, input CreateOrderInput) (int64, error) {
	if err := validateCreate(&input); err != nil {
		return 0, err
	}
	sum, err := lineTotal(input.Items)
	if err != nil {
		return 0, err
	}
	if sum != input.TotalAmount {
		s.logger.WarnContext(ctx, "order total differs from line total",
			slog.Int64("user_id", userID),
			slog.Int64("total_amount", input.TotalAmount),
			slog.Int64("line_total", sum))
	}

	if input.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, input.IdempotencyKey, idempotencyModule); err != nil {
			return 0, err
		}
	}

	var orderID int64
	err = s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if input.CustomerID != nil {
			if _, err := tx.GetCustomer(ctx, userID, *input.CustomerID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return ErrInvalidCustomer
				}
				return err
			}
		}

		order := domain.Order{
			UserID:        userID,
			OrderDate:     s.clock(),
			TotalAmount:   input.TotalAmount,
			PaymentMethod: input.PaymentMethod,
			Status:        domain.OrderCompleted,
			CustomerID:    input.CustomerID,
		}
		id, err := tx.InsertOrder(ctx, order)
		if err != nil {
			return err
		}
		order.ID = id

		for _, item := range input.Items {
			if _, err := s.stock.Adjust(ctx, tx, inventory.Movement{
				ProductID: item.ProductID,
				Delta:     -item.Quantity,
				RefModule: domain.RefOrder,
				RefID:     order.ID,
				UserID:    userID,
			}); err != nil {
				return err
			}
			if _, err := tx.InsertOrderItem(ctx, domain.OrderItem{
				OrderID:      order.ID,
				ProductID:    item.ProductID,
				Quantity:     item.Quantity,
				PricePerUnit: item.Price,
			}); err != nil {
				return err
			}
		}

		if order.IsCredit() {
			if _, err := s.credit.CreditSale(ctx, tx, userID, *order.CustomerID, order.TotalAmount); err != nil {
				return err
			}
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		// The request context may already be done; the key must still be freed for a retry.
		s.releaseKey(context.WithoutCancel(ctx), input.IdempotencyKey)
		return 0, err
	}

	s.afterCommit(ctx, userID, orderID, "order:create", "order_created", map[string]any{
		"total_amount":   input.TotalAmount,
		"payment_method": input.PaymentMethod,
		"items":          len(input.Items),
	})
	return orderID, nil
}

// Cancel reverses a completed order: stock is restored and a credit sale is taken off the balance.
func (s *Service) Cancel(ctx context.Context, userID, orderID int64) (domain.Order, error) {
	var order domain.Order
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var err error
		order, err = tx.GetOrderForUpdate(ctx, userID, orderID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status == domain.OrderCancelled {
			return ErrAlreadyCancelled
		}

		if order.IsCredit() {
			if _, err := s.credit.ReverseSale(ctx, tx, userID, *order.CustomerID, order.TotalAmount); err != nil {
				return err
			}
		}

		items, err := tx.ListOrderItems(ctx, []int64{order.ID})
		if err != nil {
			return err
		}
		for _, item := range items {
			if _, err := s.stock.Adjust(ctx, tx, inventory.Movement{
				ProductID: item.ProductID,
				Delta:     item.Quantity,
				RefModule: domain.RefOrderCancel,
				RefID:     order.ID,
				UserID:    userID,
			}); err != nil {
				return err
			}
		}

		if err := tx.UpdateOrderStatus(ctx, userID, order.ID, domain.OrderCancelled); err != nil {
			return err
		}
		order.Status = domain.OrderCancelled
		order.Items = items
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.afterCommit(ctx, userID, order.ID, "order:cancel", "order_cancelled", map[string]any{
		"total_amount": order.TotalAmount,
		"credit":       order.IsCredit(),
	})
	return order, nil
}

// ============================================================================
// READS
// ============================================================================

// List returns the user's orders newest first with their items attached.
func (s *Service) List(ctx context.Context, userID int64, filter store.OrderFilter) ([]domain.Order, error) {
	orders, err := s.store.ListOrders(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}
	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	items, err := s.store.ListOrderItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	byOrder := make(map[int64][]domain.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []domain.OrderItem{}
		}
	}
	return orders, nil
}

// Get returns one order with its items.
func (s *Service) Get(ctx context.Context, userID, orderID int64) (domain.Order, error) {
	order, err := s.store.GetOrder(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Order{}, ErrOrderNotFound
		}
		return domain.Order{}, err
	}
	items, err := s.store.ListOrderItems(ctx, []int64{order.ID})
	if err != nil {
		return domain.Order{}, err
	}
	if items == nil {
		items = []domain.OrderItem{}
	}
	order.Items = items
	return order, nil
}

func validateCreate(input *CreateOrderInput) error {
	if input.Items == nil {
		return ErrMissingItems
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = domain.PaymentCash
	}
	if !input.PaymentMethod.Valid() {
		return shared.NewError(shared.ErrValidation, "invalid payment method")
	}
	if input.PaymentMethod == domain.PaymentCredit && input.CustomerID == nil {
		return ErrCreditRequiresCustomer
	}
	if input.TotalAmount < 0 {
		return shared.NewError(shared.ErrValidation, "total_amount must not be negative")
	}
	for _, item := range input.Items {
		if item.ProductID == "" {
			return shared.NewError(shared.ErrValidation, "item id is required")
		}
		if item.Quantity <= 0 {
			return shared.NewError(shared.ErrValidation, "item quantity must be greater than zero")
		}
		if item.Price < 0 {
			return shared.NewError(shared.ErrValidation, "item price must not be negative")
		}
		if item.Quantity > shared.MaxQuantity || item.Price > shared.MaxUnitPrice {
			return shared.ErrAmountOverflow
		}
	}
	return nil
}

func lineTotal(items []ItemInput) (int64, error) {
	return shared.LineTotal(len(items), func(i int) (int64, int64) {
		return items[i].Quantity, items[i].Price
	})
}

func (s *Service) releaseKey(ctx context.Context, key string) {
	if key == "" || s.idempotency == nil {
		return
	}
	if err := s.idempotency.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "release idempotency key", slog.Any("error", err))
	}
}

func (s *Service) afterCommit(ctx context.Context, userID, orderID int64, action, event string, meta map[string]any) {
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  userID,
			Action:   action,
			Entity:   "order",
			EntityID: strconv.FormatInt(orderID, 10),
			Meta:     meta,
		})
	}
	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.WarnContext(ctx, "sales cache bump failed", slog.Any("error", err))
		}
	}
	if s.events != nil {
		s.events.RecordBusinessEvent(event)
	}
}
