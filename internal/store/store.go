// Package store defines the Entity Store used by every POS module: typed
// reads, scoped by owning user where the entity has one, and a unit of work
// that commits all mutations of a callback atomically or none of them.
package store

import (
	"context"
	"time"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/shared"
)

var (
	// ErrNotFound indicates the row does not exist or belongs to another user.
	ErrNotFound = shared.NewError(shared.ErrNotFound, "resource not found")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = shared.NewError(shared.ErrConflict, "duplicate entry")
	// ErrReferenced indicates the row is still referenced by another entity.
	ErrReferenced = shared.NewError(shared.ErrBusinessRule, "resource is still referenced by other records")
	// ErrConstraint indicates a check constraint violation.
	ErrConstraint = shared.NewError(shared.ErrBusinessRule, "value violates a data constraint")
	// ErrValueTooLong indicates a text value wider than its column.
	ErrValueTooLong = shared.NewError(shared.ErrValidation, "value too long for field")
	// ErrSerialization indicates the unit of work lost a concurrent update race.
	ErrSerialization = shared.NewError(shared.ErrConflict, "concurrent update, retry")
)

// OrderFilter narrows order listings. From is inclusive, To exclusive; zero values are open.
// A Limit of zero returns every matching order.
type OrderFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}

// Queries are the read operations available inside and outside a unit of work.
type Queries interface {
	GetUser(ctx context.Context, id int64) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	ListProducts(ctx context.Context, search string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	ListStockMovements(ctx context.Context, productID string, limit int) ([]domain.StockMovement, error)

	ListCustomers(ctx context.Context, userID int64, search string) ([]domain.Customer, error)
	ListCustomersWithBalance(ctx context.Context, userID int64) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, userID, id int64) (domain.Customer, error)

	ListSuppliers(ctx context.Context, userID int64) ([]domain.Supplier, error)
	GetSupplier(ctx context.Context, userID, id int64) (domain.Supplier, error)

	GetOrder(ctx context.Context, userID, id int64) (domain.Order, error)
	ListOrders(ctx context.Context, userID int64, filter OrderFilter) ([]domain.Order, error)
	ListOrderItems(ctx context.Context, orderIDs []int64) ([]domain.OrderItem, error)
	SumCompletedOrders(ctx context.Context, userID int64, from, to time.Time) (int64, error)
	ListUsersWithOrdersSince(ctx context.Context, since time.Time) ([]int64, error)

	GetPurchaseOrder(ctx context.Context, userID, id int64) (domain.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, userID int64) ([]domain.PurchaseOrder, error)
	ListPurchaseOrderItems(ctx context.Context, purchaseIDs []int64) ([]domain.PurchaseOrderItem, error)

	ListPayments(ctx context.Context, userID, customerID int64) ([]domain.Payment, error)
}

// Tx is the storage session of one unit of work. ForUpdate reads lock the row until commit.
type Tx interface {
	Queries

	CreateUser(ctx context.Context, user domain.User) (int64, error)

	GetProductForUpdate(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) error
	UpdateProduct(ctx context.Context, product domain.Product) error
	SetProductStock(ctx context.Context, id string, quantity int64) error
	DeleteProduct(ctx context.Context, id string) error
	InsertStockMovement(ctx context.Context, movement domain.StockMovement) (int64, error)

	GetCustomerForUpdate(ctx context.Context, userID, id int64) (domain.Customer, error)
	CreateCustomer(ctx context.Context, customer domain.Customer) (int64, error)
	UpdateCustomer(ctx context.Context, customer domain.Customer) error
	SetCustomerBalance(ctx context.Context, userID, id, balance int64) error
	DeleteCustomer(ctx context.Context, userID, id int64) error
	CountCustomerDependents(ctx context.Context, userID, id int64) (int64, error)

	CreateSupplier(ctx context.Context, supplier domain.Supplier) (int64, error)
	UpdateSupplier(ctx context.Context, supplier domain.Supplier) error
	DeleteSupplier(ctx context.Context, userID, id int64) error
	CountSupplierPurchases(ctx context.Context, userID, id int64) (int64, error)

	GetOrderForUpdate(ctx context.Context, userID, id int64) (domain.Order, error)
	InsertOrder(ctx context.Context, order domain.Order) (int64, error)
	InsertOrderItem(ctx context.Context, item domain.OrderItem) (int64, error)
	UpdateOrderStatus(ctx context.Context, userID, id int64, status domain.OrderStatus) error

	InsertPurchaseOrder(ctx context.Context, purchase domain.PurchaseOrder) (int64, error)
	InsertPurchaseOrderItem(ctx context.Context, item domain.PurchaseOrderItem) (int64, error)

	InsertPayment(ctx context.Context, payment domain.Payment) (int64, error)
}

// Store is the Entity Store. WithTx commits when fn returns nil and rolls back otherwise.
type Store interface {
	Queries
	WithTx(ctx context.Context, fn func(context.Context, Tx) error) error
}
