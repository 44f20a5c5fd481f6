// Package customers manages a user's customers.
package customers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

var (
	// ErrCustomerNotFound indicates a missing customer or one owned by another user.
	ErrCustomerNotFound = shared.NewError(shared.ErrNotFound, "customer not found")
	// ErrCustomerInUse indicates orders or payments still reference the customer.
	ErrCustomerInUse = shared.NewError(shared.ErrBusinessRule, "customer has orders or payments and cannot be deleted")
	// ErrNameRequired indicates an empty customer name.
	ErrNameRequired = shared.NewError(shared.ErrValidation, "name is required")
)

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Input carries the editable customer fields.
type Input struct {
	Name        string
	PhoneNumber string
	Address     string
}

// Service provides customer operations scoped to the owning user.
type Service struct {
	store store.Store
	audit AuditPort
}

// NewService builds Service.
func NewService(st store.Store, audit AuditPort) *Service {
	return &Service{store: st, audit: audit}
}

// List returns the user's customers ordered by name.
func (s *Service) List(ctx context.Context, userID int64, search string) ([]domain.Customer, error) {
	return s.store.ListCustomers(ctx, userID, search)
}

// Get returns one customer.
func (s *Service) Get(ctx context.Context, userID, id int64) (domain.Customer, error) {
	c, err := s.store.GetCustomer(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Customer{}, ErrCustomerNotFound
	}
	return c, err
}

// Create inserts a customer with a zero balance.
func (s *Service) Create(ctx context.Context, userID int64, in Input) (domain.Customer, error) {
	in = normalize(in)
	if in.Name == "" {
		return domain.Customer{}, ErrNameRequired
	}
	customer := domain.Customer{UserID: userID, Name: in.Name, PhoneNumber: in.PhoneNumber, Address: in.Address}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		id, err := tx.CreateCustomer(ctx, customer)
		customer.ID = id
		return err
	})
	if err != nil {
		return domain.Customer{}, err
	}
	s.record(ctx, userID, "customer:create", customer.ID)
	return customer, nil
}

// Update replaces the editable fields. The receivable balance is untouched.
func (s *Service) Update(ctx context.Context, userID, id int64, in Input) (domain.Customer, error) {
	in = normalize(in)
	if in.Name == "" {
		return domain.Customer{}, ErrNameRequired
	}
	var customer domain.Customer
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		err := tx.UpdateCustomer(ctx, domain.Customer{ID: id, UserID: userID, Name: in.Name, PhoneNumber: in.PhoneNumber, Address: in.Address})
		if err != nil {
			return err
		}
		customer, err = tx.GetCustomer(ctx, userID, id)
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Customer{}, ErrCustomerNotFound
	}
	if err != nil {
		return domain.Customer{}, err
	}
	s.record(ctx, userID, "customer:update", id)
	return customer, nil
}

// Delete removes a customer without orders or payments.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if _, err := tx.GetCustomerForUpdate(ctx, userID, id); err != nil {
			return err
		}
		n, err := tx.CountCustomerDependents(ctx, userID, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrCustomerInUse
		}
		return tx.DeleteCustomer(ctx, userID, id)
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrCustomerNotFound
	case errors.Is(err, store.ErrReferenced):
		return ErrCustomerInUse
	case err != nil:
		return err
	}
	s.record(ctx, userID, "customer:delete", id)
	return nil
}

func normalize(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Address = strings.TrimSpace(in.Address)
	return in
}

func (s *Service) record(ctx context.Context, userID int64, action string, id int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{ActorID: userID, Action: action, Entity: "customer", EntityID: strconv.FormatInt(id, 10)})
}
