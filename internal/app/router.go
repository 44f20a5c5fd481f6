package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JINWOOK1234/pos-project/internal/auth"
	"github.com/JINWOOK1234/pos-project/internal/inventory"
	"github.com/JINWOOK1234/pos-project/internal/masterdata/customers"
	"github.com/JINWOOK1234/pos-project/internal/masterdata/products"
	"github.com/JINWOOK1234/pos-project/internal/masterdata/suppliers"
	"github.com/JINWOOK1234/pos-project/internal/observability"
	"github.com/JINWOOK1234/pos-project/internal/platform/httpx"
	"github.com/JINWOOK1234/pos-project/internal/purchasing"
	"github.com/JINWOOK1234/pos-project/internal/receivables"
	"github.com/JINWOOK1234/pos-project/internal/sales"
	"github.com/JINWOOK1234/pos-project/internal/salesreport"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Metrics        *observability.Metrics

	AuthHandler        *auth.Handler
	SalesHandler       *sales.Handler
	PurchasingHandler  *purchasing.Handler
	ReceivablesHandler *receivables.Handler
	InventoryHandler   *inventory.Handler
	ProductsHandler    *products.Handler
	CustomersHandler   *customers.Handler
	SuppliersHandler   *suppliers.Handler
	SalesReportHandler *salesreport.Handler
	JobHandler         *jobs.Handler
}

// NewRouter constructs the chi.Router with POS defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusNotFound, http.StatusText(http.StatusNotFound), "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), "method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	r.Route("/api", func(r chi.Router) {
		if params.AuthHandler != nil {
			r.Route("/auth", params.AuthHandler.MountRoutes)
		}
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(params.Logger))
			if params.SalesHandler != nil {
				params.SalesHandler.MountRoutes(r)
			}
			if params.PurchasingHandler != nil {
				params.PurchasingHandler.MountRoutes(r)
			}
			if params.ReceivablesHandler != nil {
				params.ReceivablesHandler.MountRoutes(r)
			}
			if params.ProductsHandler != nil {
				params.ProductsHandler.MountRoutes(r)
			}
			if params.InventoryHandler != nil {
				params.InventoryHandler.MountRoutes(r)
			}
			if params.CustomersHandler != nil {
				params.CustomersHandler.MountRoutes(r)
			}
			if params.SuppliersHandler != nil {
				params.SuppliersHandler.MountRoutes(r)
			}
			if params.SalesReportHandler != nil {
				params.SalesReportHandler.MountRoutes(r)
			}
		})
	})

	return r
}
