// Package auth registers users, checks credentials and guards the API with session based login.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

// ErrUsernameTaken indicates the username is already registered.
var ErrUsernameTaken = shared.NewError(shared.ErrConflict, "username already exists")

// Service wraps authentication business rules.
type Service struct {
	repo  Repository
	cost  int
	clock func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost, clock: time.Now}
}

// Register creates a user with a bcrypt hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 80 {
		return domain.User{}, shared.NewError(shared.ErrValidation, "username must be between 3 and 80 characters")
	}
	if len(password) < 6 {
		return domain.User{}, shared.NewError(shared.ErrValidation, "password must have at least 6 characters")
	}
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return domain.User{}, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{Username: username, PasswordHash: string(hash), CreatedAt: s.clock().UTC()}
	user.ID, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return domain.User{}, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
		}
		return domain.User{}, err
	}
	return user, nil
}

// Authenticate validates username/password credentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, shared.ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, shared.ErrInvalidCredentials
	}
	return user, nil
}

// User returns the account behind a session.
func (s *Service) User(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, shared.NewError(shared.ErrUnauthenticated, "authentication required")
	}
	return user, err
}
