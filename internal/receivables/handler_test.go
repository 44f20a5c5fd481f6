package receivables

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store/memory"
	"github.com/JINWOOK1234/pos-project/internal/store/storetest"
	_ "github.com/JINWOOK1234/pos-project/testing"
)

func newRouter(h *Handler, userID int64) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithUserID(req.Context(), userID)))
		})
	})
	h.MountRoutes(r)
	return r
}

func TestRecordPaymentEndpoint(t *testing.T) {
	st := memory.New()
	owner := storetest.User(t, st, "owner")
	customerID := storetest.Customer(t, st, owner, "Kim")
	router := newRouter(NewHandler(nil, NewService(st, nil, nil)), owner)

	req := httptest.NewRequest(http.MethodPost, "/customer/"+strconv.FormatInt(customerID, 10)+"/payments",
		strings.NewReader(`{"amount": 1500, "notes": "partial"}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusCreated, res.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "Kim", body["customer_name"])
	assert.EqualValues(t, -1500, body["new_balance"])
}

func TestRecordPaymentEndpointRejectsMissingAmount(t *testing.T) {
	st := memory.New()
	owner := storetest.User(t, st, "owner")
	customerID := storetest.Customer(t, st, owner, "Kim")
	router := newRouter(NewHandler(nil, NewService(st, nil, nil)), owner)

	req := httptest.NewRequest(http.MethodPost, "/customer/"+strconv.FormatInt(customerID, 10)+"/payments", strings.NewReader(`{}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	require.EqualValues(t, 0, storetest.Balance(t, st, owner, customerID))
}

func TestPaymentsOfForeignCustomerAreNotFound(t *testing.T) {
	st := memory.New()
	owner := storetest.User(t, st, "owner")
	other := storetest.User(t, st, "other")
	customerID := storetest.Customer(t, st, owner, "Kim")
	router := newRouter(NewHandler(nil, NewService(st, nil, nil)), other)

	req := httptest.NewRequest(http.MethodGet, "/customer/"+strconv.FormatInt(customerID, 10)+"/payments", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req.WithContext(context.Background()))

	require.Equal(t, http.StatusNotFound, res.Code)
}
