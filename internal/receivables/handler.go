package receivables

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/JINWOOK1234/pos-project/internal/domain"
	"github.com/JINWOOK1234/pos-project/internal/platform/httpx"
)

// Handler wires HTTP endpoints for customer payments and receivables.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: httpx.NewValidator()}
}

// MountRoutes registers receivables routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/customers/receivables", h.listOutstanding)
	r.Get("/customer/{id}/payments", h.listPayments)
	r.Post("/customer/{id}/payments", h.recordPayment)
}

type paymentRequest struct {
	Amount        int64   `json:"amount" validate:"gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"omitempty,oneof=cash credit other"`
	Notes         *string `json:"notes" validate:"omitempty,max=500"`
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	customerID, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	var req paymentRequest
	if err := httpx.DecodeAndValidate(r, h.validator, &req); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	result, err := h.service.RecordPayment(r.Context(), userID, customerID, PaymentInput{
		Amount:        req.Amount,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message":       "Payment recorded successfully",
		"payment_id":    result.Payment.ID,
		"customer_name": result.CustomerName,
		"new_balance":   result.NewBalance,
	})
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	customerID, err := httpx.ParamInt64(r, "id")
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	payments, err := h.service.ListPayments(r.Context(), userID, customerID)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.List(payments))
}

func (h *Handler) listOutstanding(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	customers, err := h.service.ListOutstanding(r.Context(), userID)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.List(customers))
}
