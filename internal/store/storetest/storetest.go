// Package storetest seeds an Entity Store for package tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

func run(t testing.TB, st store.Store, fn func(context.Context, store.Tx) error) {
	t.Helper()
	require.NoError(t, st.WithTx(context.Background(), fn))
}

// User creates a user and returns its id.
func User(t testing.TB, st store.Store, username string) int64 {
	t.Helper()
	var id int64
	run(t, st, func(ctx context.Context, tx store.Tx) error {
		var err error
		id, err = tx.CreateUser(ctx, domain.User{Username: username, PasswordHash: "-"})
		return err
	})
	return id
}

// Product creates a product.
func Product(t testing.TB, st store.Store, id, name string, price, stock int64) {
	t.Helper()
	run(t, st, func(ctx context.Context, tx store.Tx) error {
		return tx.CreateProduct(ctx, domain.Product{ID: id, Name: name, Unit: "pcs", Price: price, StockQuantity: stock})
	})
}

// Customer creates a customer owned by userID and returns its id.
func Customer(t testing.TB, st store.Store, userID int64, name string) int64 {
	t.Helper()
	var id int64
	run(t, st, func(ctx context.Context, tx store.Tx) error {
		var err error
		id, err = tx.CreateCustomer(ctx, domain.Customer{UserID: userID, Name: name})
		return err
	})
	return id
}

// Supplier creates a supplier owned by userID and returns its id.
func Supplier(t testing.TB, st store.Store, userID int64, name string) int64 {
	t.Helper()
	var id int64
	run(t, st, func(ctx context.Context, tx store.Tx) error {
		var err error
		id, err = tx.CreateSupplier(ctx, domain.Supplier{UserID: userID, Name: name})
		return err
	})
	return id
}

// Stock returns the current stock of a product.
func Stock(t testing.TB, st store.Store, productID string) int64 {
	t.Helper()
	p, err := st.GetProduct(context.Background(), productID)
	require.NoError(t, err)
	return p.StockQuantity
}

// Balance returns the receivable balance of a customer.
func Balance(t testing.TB, st store.Store, userID, customerID int64) int64 {
	t.Helper()
	c, err := st.GetCustomer(context.Background(), userID, customerID)
	require.NoError(t, err)
	return c.ReceivableBalance
}

// ListingLimits checks that a zero limit returns every row and a positive limit truncates
// newest first. Both drivers run it.
func ListingLimits(t *testing.T, st store.Store, username, productID string) {
	t.Helper()
	const orders, movements = 1001, 201
	ctx := context.Background()
	owner := User(t, st, username)
	Product(t, st, productID, "Listing", 1, 0)
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	run(t, st, func(ctx context.Context, tx store.Tx) error {
		for i := 0; i < orders; i++ {
			if _, err := tx.InsertOrder(ctx, domain.Order{
				UserID:        owner,
				OrderDate:     base.Add(time.Duration(i) * time.Minute),
				TotalAmount:   int64(i),
				PaymentMethod: domain.PaymentCash,
				Status:        domain.OrderCompleted,
			}); err != nil {
				return err
			}
		}
		for i := 1; i <= movements; i++ {
			if _, err := tx.InsertStockMovement(ctx, domain.StockMovement{
				ProductID:    productID,
				Delta:        1,
				BalanceAfter: int64(i),
				RefModule:    domain.RefAdjustment,
				CreatedAt:    base,
			}); err != nil {
				return err
			}
		}
		return nil
	})

	all, err := st.ListOrders(ctx, owner, store.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, orders)

	page, err := st.ListOrders(ctx, owner, store.OrderFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.EqualValues(t, orders-1, page[0].TotalAmount)

	card, err := st.ListStockMovements(ctx, productID, 0)
	require.NoError(t, err)
	require.Len(t, card, movements)

	card, err = st.ListStockMovements(ctx, productID, 3)
	require.NoError(t, err)
	require.Len(t, card, 3)
	require.EqualValues(t, movements, card[0].BalanceAfter)
}
