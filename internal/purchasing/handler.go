package purchasing

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/JINWOOK1234/pos-project/internal/platform/httpx"
)

// Handler wires HTTP endpoints for purchase orders.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: httpx.NewValidator()}
}

// MountRoutes registers purchasing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/purchases", h.list)
	r.Post("/purchases", h.create)
	r.Get("/purchase/{id}", h.show)
}

type purchaseItemRequest struct {
	ProductID   string `json:"product_id" validate:"required,max=50"`
	Quantity    int64  `json:"quantity" validate:"gt=0,lte=1000000000"`
	CostPerUnit int64  `json:"cost_per_unit" validate:"gte=0,lte=1000000000000"`
}

type createPurchaseRequest struct {
	SupplierID *int64                `json:"supplier_id" validate:"omitempty,gt=0"`
	Items      []purchaseItemRequest `json:"items" validate:"required,dive"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	var req createPurchaseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	if req.Items == nil {
		httpx.RespondError(w, r, h.logger, ErrMissingItems)
		return
	}
	if err := httpx.Validate(h.validator, &req); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	input := CreatePurchaseInput{SupplierID: req.SupplierID, Items: make([]ItemInput, 0, len(req.Items))}
	for _, item := range req.Items {
		input.Items = append(input.Items, ItemInput{ProductID: item.ProductID, Quantity: item.Quantity, CostPerUnit: item.CostPerUnit})
	}
	id, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":     "Purchase order created successfully",
		"purchase_id": id,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	purchases, err := h.service.List(r.Context(), userID)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.List(purchases))
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
	po, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, po)
}
