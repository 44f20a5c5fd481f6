// Package memory implements the Entity Store in process memory. Each unit of
// work runs against a private copy of the data which replaces the shared
// state only when the callback succeeds.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

// Store is an in-memory store.Store.
type Store struct {
	mu sync.RWMutex
	st *state
}

// New returns an empty Store.
func New() *Store {
	return &Store{st: newState()}
}

// WithTx runs fn against a snapshot and publishes it on success. Units of work are serialised.
func (s *Store) WithTx(ctx context.Context, fn func(context.Context, store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(ctx, work); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) read() *state {
	return s.st
}

func (s *Store) GetUser(ctx context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetUser(ctx, id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetUserByUsername(ctx, username)
}

func (s *Store) ListProducts(ctx context.Context, search string) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListProducts(ctx, search)
}

func (s *Store) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetProduct(ctx, id)
}

func (s *Store) ListStockMovements(ctx context.Context, productID string, limit int) ([]domain.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListStockMovements(ctx, productID, limit)
}

func (s *Store) ListCustomers(ctx context.Context, userID int64, search string) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListCustomers(ctx, userID, search)
}

func (s *Store) ListCustomersWithBalance(ctx context.Context, userID int64) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListCustomersWithBalance(ctx, userID)
}

func (s *Store) GetCustomer(ctx context.Context, userID, id int64) (domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetCustomer(ctx, userID, id)
}

func (s *Store) ListSuppliers(ctx context.Context, userID int64) ([]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListSuppliers(ctx, userID)
}

func (s *Store) GetSupplier(ctx context.Context, userID, id int64) (domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetSupplier(ctx, userID, id)
}

func (s *Store) GetOrder(ctx context.Context, userID, id int64) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetOrder(ctx, userID, id)
}

func (s *Store) ListOrders(ctx context.Context, userID int64, filter store.OrderFilter) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListOrders(ctx, userID, filter)
}

func (s *Store) ListOrderItems(ctx context.Context, orderIDs []int64) ([]domain.OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListOrderItems(ctx, orderIDs)
}

func (s *Store) SumCompletedOrders(ctx context.Context, userID int64, from, to time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().SumCompletedOrders(ctx, userID, from, to)
}

func (s *Store) ListUsersWithOrdersSince(ctx context.Context, since time.Time) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListUsersWithOrdersSince(ctx, since)
}

func (s *Store) GetPurchaseOrder(ctx context.Context, userID, id int64) (domain.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetPurchaseOrder(ctx, userID, id)
}

func (s *Store) ListPurchaseOrders(ctx context.Context, userID int64) ([]domain.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListPurchaseOrders(ctx, userID)
}

func (s *Store) ListPurchaseOrderItems(ctx context.Context, purchaseIDs []int64) ([]domain.PurchaseOrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListPurchaseOrderItems(ctx, purchaseIDs)
}

func (s *Store) ListPayments(ctx context.Context, userID, customerID int64) ([]domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListPayments(ctx, userID, customerID)
}

var _ store.Store = (*Store)(nil)
