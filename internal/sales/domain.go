// Package sales records sale orders and their cancellation. Each operation
// moves stock, receivables and the order itself in one unit of work.
package sales

import (
	"context"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/inventory"
	"github.com/JINWOOK1234/pos-project/internal/shared"
)

var (
	// ErrMissingItems indicates the request carried no items list.
	ErrMissingItems = shared.NewError(shared.ErrValidation, "missing required order data")
	// ErrCreditRequiresCustomer indicates a credit sale without a customer.
	ErrCreditRequiresCustomer = shared.NewError(shared.ErrBusinessRule, "customer_id is required for credit sales")
	// ErrInvalidCustomer indicates the customer is unknown to the caller.
	ErrInvalidCustomer = shared.NewError(shared.ErrBusinessRule, "invalid customer")
	// ErrOrderNotFound indicates a missing order or one owned by another user.
	ErrOrderNotFound = shared.NewError(shared.ErrNotFound, "order not found")
	// ErrAlreadyCancelled indicates a second cancellation attempt.
	ErrAlreadyCancelled = shared.NewError(shared.ErrBusinessRule, "order is already cancelled")
	// ErrProductNotFound indicates an order line references an unknown product.
	ErrProductNotFound = inventory.ErrProductNotFound
	// ErrInsufficientStock indicates an order line exceeds the available stock.
	ErrInsufficientStock = inventory.ErrInsufficientStock
)

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// IdempotencyPort claims request keys so a retried create is not applied twice.
type IdempotencyPort interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// CacheBumper invalidates cached sales figures.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// EventRecorder counts business events.
type EventRecorder interface {
	RecordBusinessEvent(event string)
}

// Options carries the optional collaborators of Service.
type Options struct {
	Audit       AuditPort
	Idempotency IdempotencyPort
	Cache       CacheBumper
	Events      EventRecorder
}

// ItemInput is one requested order line.
type ItemInput struct {
	ProductID string
	Quantity  int64
	Price     int64
}

// CreateOrderInput describes a sale. A nil Items slice means the list was missing.
type CreateOrderInput struct {
	Items          []ItemInput
	TotalAmount    int64
	PaymentMethod  domain.PaymentMethod
	CustomerID     *int64
	IdempotencyKey string
}
