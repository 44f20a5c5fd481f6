package receivables

import (
	"context"
	"strconv"
	"time"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// PaymentInput describes a customer payment.
type PaymentInput struct {
	Amount        int64
	PaymentMethod domain.PaymentMethod
	Notes         *string
}

// PaymentResult is returned after a payment is recorded.
type PaymentResult struct {
	Payment      domain.Payment
	CustomerName string
	NewBalance   int64
}

// Service records payments and reports outstanding balances.
type Service struct {
	store  store.Store
	ledger *Ledger
	audit  AuditPort
	clock  func() time.Time
}

// NewService builds Service.
func NewService(st store.Store, ledger *Ledger, audit AuditPort) *Service {
	if ledger == nil {
		ledger = NewLedger()
	}
	return &Service{
		store:  st,
		ledger: ledger,
		audit:  audit,
		clock:  func() time.Time { return time.Now().UTC() },
	}
}

// RecordPayment inserts the payment and lowers the balance in one unit of work.
func (s *Service) RecordPayment(ctx context.Context, userID, customerID int64, input PaymentInput) (PaymentResult, error) {
	if input.Amount <= 0 {
		return PaymentResult{}, ErrInvalidAmount
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = domain.PaymentCash
	}
	if !input.PaymentMethod.Valid() {
		return PaymentResult{}, shared.NewError(shared.ErrValidation, "invalid payment method")
	}

	var result PaymentResult
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		balance, err := s.ledger.RecordPayment(ctx, tx, userID, customerID, input.Amount)
		if err != nil {
			return err
		}
		payment := domain.Payment{
			UserID:          userID,
			CustomerID:      customerID,
			TransactionDate: s.clock(),
			Amount:          input.Amount,
			PaymentMethod:   input.PaymentMethod,
			Notes:           input.Notes,
		}
		payment.ID, err = tx.InsertPayment(ctx, payment)
		if err != nil {
			return err
		}
		customer, err := tx.GetCustomer(ctx, userID, customerID)
		if err != nil {
			return err
		}
		result = PaymentResult{Payment: payment, CustomerName: customer.Name, NewBalance: balance}
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  userID,
			Action:   "payment:create",
			Entity:   "payment_transaction",
			EntityID: strconv.FormatInt(result.Payment.ID, 10),
			Meta: map[string]any{
				"customer_id": customerID,
				"amount":      input.Amount,
				"new_balance": result.NewBalance,
			},
		})
	}
	return result, nil
}

// ListPayments returns a customer's payments, newest first.
func (s *Service) ListPayments(ctx context.Context, userID, customerID int64) ([]domain.Payment, error) {
	if _, err := s.store.GetCustomer(ctx, userID, customerID); err != nil {
		if shared.Kind(err) == shared.ErrNotFound {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return s.store.ListPayments(ctx, userID, customerID)
}

// ListOutstanding returns customers whose balance is above zero, ordered by name.
func (s *Service) ListOutstanding(ctx context.Context, userID int64) ([]domain.Customer, error) {
	return s.store.ListCustomersWithBalance(ctx, userID)
}
