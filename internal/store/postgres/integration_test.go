package postgres

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/platform/db"
	"github.com/JINWOOK1234/pos-project/internal/store"
	"github.com/JINWOOK1234/pos-project/internal/store/storetest"
)

// newIntegrationStore connects to POS_TEST_PG_DSN and applies the schema.
func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("POS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("POS_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	pool, err := db.New(ctx, dsn, db.PoolOptions{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	st := New(pool)
	require.NoError(t, st.Migrate(ctx))
	return st
}

func TestIntegrationListingLimits(t *testing.T) {
	st := newIntegrationStore(t)
	suffix := uuid.NewString()[:8]
	storetest.ListingLimits(t, st, "lister-"+suffix, "L-"+suffix)
}

func TestIntegrationValueTooLong(t *testing.T) {
	st := newIntegrationStore(t)
	err := st.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		return tx.CreateProduct(ctx, domain.Product{ID: strings.Repeat("X", 60), Name: "Too long", Unit: "pcs"})
	})
	require.ErrorIs(t, err, store.ErrValueTooLong)
}
