package products

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store"
	"github.com/JINWOOK1234/pos-project/internal/store/memory"
	"github.com/JINWOOK1234/pos-project/internal/store/storetest"
)

func TestCreateBooksOpeningStock(t *testing.T) {
	st := memory.New()
	svc := NewService(st, nil, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, 1, CreateInput{ID: " P01 ", Name: "Widget", Unit: "pcs", Price: 2500, StockQuantity: 40})
	require.NoError(t, err)
	require.Equal(t, "P01", p.ID)
	require.EqualValues(t, 40, p.StockQuantity)

	card, err := st.ListStockMovements(ctx, "P01", 0)
	require.NoError(t, err)
	require.Len(t, card, 1)
	require.Equal(t, domain.RefAdjustment, card[0].RefModule)

	_, err = svc.Create(ctx, 1, CreateInput{ID: "P01", Name: "Other", Unit: "pcs"})
	require.ErrorIs(t, err, ErrDuplicateProduct)
	require.ErrorIs(t, err, shared.ErrConflict)

	_, err = svc.Create(ctx, 1, CreateInput{ID: "P02", Unit: "pcs"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestPartialUpdateKeepsStock(t *testing.T) {
	st := memory.New()
	storetest.Product(t, st, "P01", "Widget", 2500, 7)
	svc := NewService(st, nil, nil)

	price := int64(3000)
	p, err := svc.Update(context.Background(), 1, "P01", UpdateInput{Price: &price})
	require.NoError(t, err)
	require.Equal(t, "Widget", p.Name)
	require.EqualValues(t, 3000, p.Price)
	require.EqualValues(t, 7, p.StockQuantity)

	got, err := svc.Price(context.Background(), "P01")
	require.NoError(t, err)
	require.EqualValues(t, 3000, got)

	empty := " "
	_, err = svc.Update(context.Background(), 1, "P01", UpdateInput{Name: &empty})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Update(context.Background(), 1, "NOPE", UpdateInput{Price: &price})
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteBlockedWhenReferenced(t *testing.T) {
	st := memory.New()
	owner := storetest.User(t, st, "owner")
	storetest.Product(t, st, "P01", "Widget", 2500, 7)
	storetest.Product(t, st, "P02", "Gadget", 100, 0)
	require.NoError(t, st.WithTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		id, err := tx.InsertPurchaseOrder(ctx, domain.PurchaseOrder{UserID: owner})
		if err != nil {
			return err
		}
		_, err = tx.InsertPurchaseOrderItem(ctx, domain.PurchaseOrderItem{PurchaseOrderID: id, ProductID: "P01", Quantity: 1})
		return err
	}))
	svc := NewService(st, nil, nil)

	err := svc.Delete(context.Background(), owner, "P01")
	require.ErrorIs(t, err, ErrProductInUse)
	require.ErrorIs(t, err, shared.ErrBusinessRule)

	require.NoError(t, svc.Delete(context.Background(), owner, "P02"))
	_, err = svc.Get(context.Background(), "P02")
	require.ErrorIs(t, err, ErrProductNotFound)
	require.ErrorIs(t, svc.Delete(context.Background(), owner, "P02"), ErrProductNotFound)
}

func TestProductEndpoints(t *testing.T) {
	st := memory.New()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithUserID(req.Context(), 1)))
		})
	})
	NewHandler(nil, NewService(st, nil, nil)).MountRoutes(r)

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		}
		res := httptest.NewRecorder()
		r.ServeHTTP(res, req)
		return res
	}

	require.Equal(t, http.StatusBadRequest, serve(http.MethodPost, "/products", `{"id":"P01","name":"Widget","unit":"pcs"}`).Code)
	require.Equal(t, http.StatusCreated, serve(http.MethodPost, "/products", `{"id":"P01","name":"Widget","unit":"pcs","price":0}`).Code)
	require.Equal(t, http.StatusConflict, serve(http.MethodPost, "/products", `{"id":"P01","name":"Widget","unit":"pcs","price":10}`).Code)

	// Request limits match the column widths so nothing reaches the store too long.
	longID := strings.Repeat("X", 51)
	require.Equal(t, http.StatusBadRequest, serve(http.MethodPost, "/products", `{"id":"`+longID+`","name":"Widget","unit":"pcs","price":1}`).Code)
	require.Equal(t, http.StatusBadRequest, serve(http.MethodPost, "/products", `{"id":"P09","name":"`+strings.Repeat("n", 101)+`","unit":"pcs","price":1}`).Code)
	require.Equal(t, http.StatusBadRequest, serve(http.MethodPost, "/products", `{"id":"P09","name":"Widget","unit":"`+strings.Repeat("u", 21)+`","price":1}`).Code)
	require.Equal(t, http.StatusBadRequest, serve(http.MethodPost, "/products", `{"id":"P09","name":"Widget","unit":"pcs","price":1,"stock_quantity":9223372036854775807}`).Code)
	require.Equal(t, http.StatusCreated, serve(http.MethodPost, "/products", `{"id":"`+strings.Repeat("X", 50)+`","name":"Widget","unit":"pcs","price":1}`).Code)

	res := serve(http.MethodPut, "/product/P01", `{"price":1200}`)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"price":1200`)

	res = serve(http.MethodGet, "/price?productId=P01", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"product_id":"P01","price":1200}`, res.Body.String())
	require.Equal(t, http.StatusBadRequest, serve(http.MethodGet, "/price", "").Code)

	res = serve(http.MethodGet, "/products?search=wid", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"id":"P01"`)

	require.Equal(t, http.StatusNoContent, serve(http.MethodDelete, "/product/P01", "").Code)
	require.Equal(t, http.StatusNotFound, serve(http.MethodGet, "/product/P01", "").Code)
}
