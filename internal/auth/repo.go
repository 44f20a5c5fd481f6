package auth

import (
	"context"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

// Repository exposes the user persistence needed by the auth flows.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	Create(ctx context.Context, user domain.User) (int64, error)
}

type storeRepository struct {
	store store.Store
}

// NewRepository adapts the entity store to Repository.
func NewRepository(st store.Store) Repository {
	return &storeRepository{store: st}
}

func (r *storeRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.store.GetUserByUsername(ctx, username)
}

func (r *storeRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	return r.store.GetUser(ctx, id)
}

func (r *storeRepository) Create(ctx context.Context, user domain.User) (int64, error) {
	var id int64
	err := r.store.WithTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var err error
		id, err = tx.CreateUser(ctx, user)
		return err
	})
	return id, err
}
