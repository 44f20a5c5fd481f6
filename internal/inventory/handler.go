package inventory

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/JINWOOK1234/pos-project/internal/platform/httpx"
	"github.com/JINWOOK1234/pos-project/internal/shared"
)

// Handler wires HTTP endpoints for inventory module.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs inventory handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: httpx.NewValidator()}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Put("/product/{id}/stock", h.handleAdjust)
	r.Get("/product/{id}/stock-card", h.handleStockCard)
}

type adjustRequest struct {
	Adjustment *int64 `json:"adjustment" validate:"required,gte=-1000000000,lte=1000000000"`
	Note       string `json:"note" validate:"max=200"`
}

func (h *Handler) handleAdjust(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	var req adjustRequest
	if err := httpx.DecodeAndValidate(r, h.validator, &req); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	product, err := h.service.Adjust(r.Context(), AdjustmentInput{
		ProductID:  chi.URLParam(r, "id"),
		Adjustment: *req.Adjustment,
		Note:       req.Note,
		ActorID:    userID,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":   "Stock updated successfully",
		"new_stock": product.StockQuantity,
		"product":   product,
	})
}

func (h *Handler) handleStockCard(w http.ResponseWriter, r *http.Request) {
	limit, _, err := httpx.QueryInt(r, "limit")
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	if limit < 0 {
		httpx.RespondError(w, r, h.logger, shared.NewError(shared.ErrValidation, "limit must not be negative"))
		return
	}
	entries, err := h.service.StockCard(r.Context(), StockCardFilter{ProductID: chi.URLParam(r, "id"), Limit: limit})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.List(entries))
}
