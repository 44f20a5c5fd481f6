package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store/memory"
)

func TestRegisterHashesPassword(t *testing.T) {
	svc := NewService(NewRepository(memory.New()))
	svc.cost = bcrypt.MinCost
	ctx := context.Background()

	user, err := svc.Register(ctx, " owner ", "secret1")
	require.NoError(t, err)
	require.Equal(t, "owner", user.Username)
	require.NotEqual(t, "secret1", user.PasswordHash)

	_, err = svc.Register(ctx, "owner", "another1")
	require.ErrorIs(t, err, ErrUsernameTaken)
	require.ErrorIs(t, err, shared.ErrConflict)

	got, err := svc.Authenticate(ctx, "owner", "secret1")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "owner", "secret2")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody", "secret1")
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}
