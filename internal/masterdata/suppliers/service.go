// Package suppliers manages a user's suppliers.
package suppliers

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
	// ErrSupplierNotFound indicates a missing supplier or one owned by another user.
	ErrSupplierNotFound = shared.NewError(shared.ErrNotFound, "supplier not found")
	// ErrDuplicateSupplier indicates the name is already used by another of the user's suppliers.
	ErrDuplicateSupplier = shared.NewError(shared.ErrConflict, "supplier name already exists")
	// ErrSupplierInUse indicates purchase orders still reference the supplier.
	ErrSupplierInUse = shared.NewError(shared.ErrBusinessRule, "supplier has purchase orders and cannot be deleted")
	// ErrNameRequired indicates an empty supplier name.
	ErrNameRequired = shared.NewError(shared.ErrValidation, "name is required")
)

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Input carries the editable supplier fields.
type Input struct {
	Name          string
	ContactPerson string
	PhoneNumber   string
}

// Service provides supplier operations scoped to the owning user.
type Service struct {
	store store.Store
	audit AuditPort
}

// NewService builds Service.
func NewService(st store.Store, audit AuditPort) *Service {
	return &Service{store: st, audit: audit}
}

// List returns the user's suppliers ordered by name.
func (s *Service) List(ctx context.Context, userID int64) ([]domain.Supplier, error) {
	return s.store.ListSuppliers(ctx, userID)
}

// Get returns one supplier.
func (s *Service) Get(ctx context.Context, userID, id int64) (domain.Supplier, error) {
	sp, err := s.store.GetSupplier(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Supplier{}, ErrSupplierNotFound
	}
	return sp, err
}

// Create inserts a supplier.
func (s *Service) Create(ctx context.Context, userID int64, in Input) (domain.Supplier, error) {
	in = normalize(in)
	if in.Name == "" {
		return domain.Supplier{}, ErrNameRequired
	}
	supplier := domain.Supplier{UserID: userID, Name: in.Name, ContactPerson: in.ContactPerson, PhoneNumber: in.PhoneNumber}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		id, err := tx.CreateSupplier(ctx, supplier)
		supplier.ID = id
		return err
	})
	if errors.Is(err, store.ErrDuplicate) {
		return domain.Supplier{}, ErrDuplicateSupplier
	}
	if err != nil {
		return domain.Supplier{}, err
	}
	s.record(ctx, userID, "supplier:create", supplier.ID)
	return supplier, nil
}

// Update replaces the editable fields.
func (s *Service) Update(ctx context.Context, userID, id int64, in Input) (domain.Supplier, error) {
	in = normalize(in)
	if in.Name == "" {
		return domain.Supplier{}, ErrNameRequired
	}
	supplier := domain.Supplier{ID: id, UserID: userID, Name: in.Name, ContactPerson: in.ContactPerson, PhoneNumber: in.PhoneNumber}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		return tx.UpdateSupplier(ctx, supplier)
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domain.Supplier{}, ErrSupplierNotFound
	case errors.Is(err, store.ErrDuplicate):
		return domain.Supplier{}, ErrDuplicateSupplier
	case err != nil:
		return domain.Supplier{}, err
	}
	s.record(ctx, userID, "supplier:update", id)
	return supplier, nil
}

// Delete removes a supplier without purchase orders.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if _, err := tx.GetSupplier(ctx, userID, id); err != nil {
			return err
		}
		n, err := tx.CountSupplierPurchases(ctx, userID, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrSupplierInUse
		}
		return tx.DeleteSupplier(ctx, userID, id)
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrSupplierNotFound
	case errors.Is(err, store.ErrReferenced):
		return ErrSupplierInUse
	case err != nil:
		return err
	}
	s.record(ctx, userID, "supplier:delete", id)
	return nil
}

func normalize(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.ContactPerson = strings.TrimSpace(in.ContactPerson)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	return in
}

func (s *Service) record(ctx context.Context, userID int64, action string, id int64) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{ActorID: userID, Action: action, Entity: "supplier", EntityID: strconv.FormatInt(id, 10)})
}
