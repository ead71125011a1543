package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/igtaposh/ordersathi-backend/internal/auth"
	"github.com/igtaposh/ordersathi-backend/internal/observability"
	"github.com/igtaposh/ordersathi-backend/internal/orders"
	"github.com/igtaposh/ordersathi-backend/internal/products"
	"github.com/igtaposh/ordersathi-backend/internal/stock"
	"github.com/igtaposh/ordersathi-backend/internal/suppliers"
	"github.com/igtaposh/ordersathi-backend/jobs"
	"github.com/igtaposh/ordersathi-backend/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics

	// Authenticate rejects requests without a valid token and stores the user in the context.
	Authenticate func(http.Handler) http.Handler

	AuthHandler     *auth.Handler
	SupplierHandler *suppliers.Handler
	ProductHandler  *products.Handler
	OrderHandler    *orders.Handler
	StockHandler    *stock.Handler
	ReportHandler   *report.Handler
	JobHandler      *jobs.Handler
}

// NewRouter constructs the chi.Router with OrderSathi defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		if params.AuthHandler != nil {
			r.Route("/auth", params.AuthHandler.MountRoutes)
		}
		r.Group(func(r chi.Router) {
			if params.Authenticate != nil {
				r.Use(params.Authenticate)
			}
			if params.SupplierHandler != nil {
				r.Route("/suppliers", params.SupplierHandler.MountRoutes)
			}
			if params.ProductHandler != nil {
				r.Route("/products", params.ProductHandler.MountRoutes)
			}
			if params.OrderHandler != nil {
				r.Route("/orders", params.OrderHandler.MountRoutes)
			}
			if params.StockHandler != nil {
				r.Route("/stock-reports", params.StockHandler.MountRoutes)
			}
		})
	})

	if params.ReportHandler != nil {
		r.Route("/report", params.ReportHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
