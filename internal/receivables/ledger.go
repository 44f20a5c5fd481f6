// Package receivables maintains customer receivable balances: credit sales
// raise them, payments and sale reversals lower them.
package receivables

import (
	"context"
	"errors"

	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

var (
	// ErrCustomerNotFound indicates the customer is missing or owned by another user.
	ErrCustomerNotFound = shared.NewError(shared.ErrNotFound, "customer not found")
	// ErrInvalidAmount indicates a non-positive payment amount.
	ErrInvalidAmount = shared.NewError(shared.ErrValidation, "amount must be greater than zero")
)

// Ledger adjusts balances inside a caller-owned unit of work.
type Ledger struct{}

// NewLedger builds Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// CreditSale raises the balance by amount and returns the new balance.
func (l *Ledger) CreditSale(ctx context.Context, tx store.Tx, userID, customerID, amount int64) (int64, error) {
	return l.apply(ctx, tx, userID, customerID, amount)
}

// RecordPayment lowers the balance by amount. The balance may go negative.
func (l *Ledger) RecordPayment(ctx context.Context, tx store.Tx, userID, customerID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return l.apply(ctx, tx, userID, customerID, -amount)
}

// ReverseSale undoes a credit sale on cancellation.
func (l *Ledger) ReverseSale(ctx context.Context, tx store.Tx, userID, customerID, amount int64) (int64, error) {
	return l.apply(ctx, tx, userID, customerID, -amount)
}

func (l *Ledger) apply(ctx context.Context, tx store.Tx, userID, customerID, delta int64) (int64, error) {
	customer, err := tx.GetCustomerForUpdate(ctx, userID, customerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrCustomerNotFound
		}
		return 0, err
	}
	balance, err := shared.AddAmount(customer.ReceivableBalance, delta)
	if err != nil {
		return 0, err
	}
	if err := tx.SetCustomerBalance(ctx, userID, customerID, balance); err != nil {
		return 0, err
	}
	return balance, nil
}
