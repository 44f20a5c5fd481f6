package sales

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/JINWOOK1234/pos-project/internal/platform/httpx"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store"
)

// IdempotencyHeader carries the optional client key for order creation.
const IdempotencyHeader = "Idempotency-Key"

// Handler wires HTTP endpoints for orders.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: httpx.NewValidator()}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	key := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
	if key != "" {
		if _, err := uuid.Parse(key); err != nil {
			httpx.RespondError(w, r, h.logger, shared.NewError(shared.ErrValidation, IdempotencyHeader+" must be a UUID"))
			return
		}
	}
	var req createOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	if req.Items == nil || req.TotalAmount == nil {
		httpx.RespondError(w, r, h.logger, ErrMissingItems)
		return
	}
	if err := httpx.Validate(h.validator, &req); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	orderID, err := h.service.Create(r.Context(), userID, req.input(key))
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":  "Order created successfully",
		"order_id": orderID,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	var filter store.OrderFilter
	from, ok, err := httpx.QueryDate(r, "start_date")
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	if ok {
		filter.From = from
	}
	end, ok, err := httpx.QueryDate(r, "end_date")
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	if ok {
		// end_date is inclusive
		filter.To = end.AddDate(0, 0, 1)
	}
	limit, _, err := httpx.QueryInt(r, "limit")
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	if limit < 0 {
		httpx.RespondError(w, r, h.logger, shared.NewError(shared.ErrValidation, "limit must not be negative"))
		return
	}
	filter.Limit = limit
	orders, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.List(orders))
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	id, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	order, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	id, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	order, err := h.service.Cancel(r.Context(), userID, id)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"id":      order.ID,
		"status":  order.Status,
		"message": "Order cancelled successfully",
	})
}
