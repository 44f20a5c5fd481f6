package purchasing

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store/memory"
	"github.com/JINWOOK1234/pos-project/internal/store/storetest"
)

func TestCreatePurchaseIncrementsStock(t *testing.T) {
	st := memory.New()
	owner := storetest.User(t, st, "owner")
	supplier := storetest.Supplier(t, st, owner, "Acme")
	storetest.Product(t, st, "P01", "Widget", 2500, 100)
	storetest.Product(t, st, "P02", "Gadget", 9000, 0)
	svc := NewService(st, nil, nil, nil)
	ctx := context.Background()

	id, err := svc.Create(ctx, owner, CreatePurchaseInput{
		SupplierID: &supplier,
		Items: []ItemInput{
			{ProductID: "P01", Quantity: 10, CostPerUnit: 1500},
			{ProductID: "P02", Quantity: 3, CostPerUnit: 7000},
		},
	})
	require.NoError(t, err)
	require.EqualValues(t, 110, storetest.Stock(t, st, "P01"))
	require.EqualValues(t, 3, storetest.Stock(t, st, "P02"))

	po, err := svc.Get(ctx, owner, id)
	require.NoError(t, err)
	require.EqualValues(t, 36000, po.TotalCost)
	require.Equal(t, "Acme", po.SupplierName)
	require.Len(t, po.Items, 2)

	card, err := st.ListStockMovements(ctx, "P01", 1)
	require.NoError(t, err)
	require.Equal(t, domain.RefPurchase, card[0].RefModule)
	require.Equal(t, id, card[0].RefID)
}

func TestCreatePurchaseWithoutSupplier(t *testing.T) {
	st := memory.New()
	owner := storetest.User(t, st, "owner")
	svc := NewService(st, nil, nil, nil)

	id, err := svc.Create(context.Background(), owner, CreatePurchaseInput{Items: []ItemInput{}})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, id, list[0].ID)
	require.Equal(t, NoSupplier, list[0].SupplierName)
	require.Zero(t, list[0].TotalCost)
}

func TestCreatePurchaseFailures(t *testing.T) {
	st := memory.New()
	owner := storetest.User(t, st, "owner")
	other := storetest.User(t, st, "other")
	foreign := storetest.Supplier(t, st, other, "Elsewhere")
	storetest.Product(t, st, "P01", "Widget", 2500, 100)
	svc := NewService(st, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, owner, CreatePurchaseInput{})
	require.ErrorIs(t, err, ErrMissingItems)

	_, err = svc.Create(ctx, owner, CreatePurchaseInput{
		SupplierID: &foreign,
		Items:      []ItemInput{{ProductID: "P01", Quantity: 1, CostPerUnit: 1}},
	})
	require.ErrorIs(t, err, ErrInvalidSupplier)

	_, err = svc.Create(ctx, owner, CreatePurchaseInput{
		Items: []ItemInput{{ProductID: "P01", Quantity: 5, CostPerUnit: 1}, {ProductID: "NOPE", Quantity: 1}},
	})
	require.ErrorIs(t, err, shared.ErrBusinessRule)
	require.EqualValues(t, 100, storetest.Stock(t, st, "P01"))

	list, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, list)

	_, err = svc.Get(ctx, other, 1)
	require.ErrorIs(t, err, ErrPurchaseNotFound)
}

func TestCreatePurchaseRejectsOutOfRangeAmounts(t *testing.T) {
	st := memory.New()
	owner := storetest.User(t, st, "owner")
	storetest.Product(t, st, "P01", "Widget", 2500, 10)
	svc := NewService(st, nil, nil, nil)
	ctx := context.Background()

	cases := []struct {
		name  string
		items []ItemInput
	}{
		{"product overflows", []ItemInput{{ProductID: "P01", Quantity: 4_000_000_000, CostPerUnit: 4_000_000_000}}},
		{"quantity overflows stock", []ItemInput{{ProductID: "P01", Quantity: math.MaxInt64, CostPerUnit: 1}}},
		{"sum overflows", []ItemInput{
			{ProductID: "P01", Quantity: 9_000_000, CostPerUnit: shared.MaxUnitPrice},
			{ProductID: "P01", Quantity: 9_000_000, CostPerUnit: shared.MaxUnitPrice},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, owner, CreatePurchaseInput{Items: tc.items})
			require.ErrorIs(t, err, shared.ErrAmountOverflow)
			require.ErrorIs(t, err, shared.ErrValidation)
		})
	}

	require.EqualValues(t, 10, storetest.Stock(t, st, "P01"))
	list, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestPurchaseEndpoints(t *testing.T) {
	st := memory.New()
	owner := storetest.User(t, st, "owner")
	storetest.Product(t, st, "P01", "Widget", 2500, 0)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithUserID(req.Context(), owner)))
		})
	})
	NewHandler(nil, NewService(st, nil, nil, nil)).MountRoutes(r)

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/purchases", strings.NewReader(`{"supplier_id":null}`)))
	require.Equal(t, http.StatusBadRequest, res.Code)

	res = httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/purchases",
		strings.NewReader(`{"items":[{"product_id":"P01","quantity":4000000000,"cost_per_unit":4000000000}]}`)))
	require.Equal(t, http.StatusBadRequest, res.Code)

	res = httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/purchases",
		strings.NewReader(`{"items":[{"product_id":"P01","quantity":4,"cost_per_unit":1000}]}`)))
	require.Equal(t, http.StatusCreated, res.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
	assert.EqualValues(t, 1, created["purchase_id"])

	res = httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/purchase/1", nil))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"supplier_name":"N/A"`)
	assert.Contains(t, res.Body.String(), `"total_cost":4000`)
	require.EqualValues(t, 4, storetest.Stock(t, st, "P01"))

	res = httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/purchase/2", nil))
	require.Equal(t, http.StatusNotFound, res.Code)
}
