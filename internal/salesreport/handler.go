package salesreport

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JINWOOK1234/pos-project/internal/platform/httpx"
)

// Handler wires HTTP endpoints for sales totals.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers sales report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/sales/daily", h.daily)
	r.Get("/sales/monthly", h.monthly)
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	day, _, err := httpx.QueryDate(r, "date")
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	result, err := h.service.DailyTotal(r.Context(), userID, day)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	year, errYear := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("year")))
	month, errMonth := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("month")))
	if errYear != nil || errMonth != nil {
		httpx.RespondError(w, r, h.logger, ErrInvalidParameter)
		return
	}
	result, err := h.service.MonthlyTotal(r.Context(), userID, year, month)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
