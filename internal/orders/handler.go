package orders

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/igtaposh/ordersathi-backend/internal/document"
	"github.com/igtaposh/ordersathi-backend/internal/platform/httpx"
)

const maxStatsLimit = 50

// Handler wires order endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler builds an order handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// MountRoutes registers order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Route("/stats", func(r chi.Router) {
		r.Get("/monthly", h.monthly)
		r.Get("/top-products", h.topProducts)
		r.Get("/top-suppliers", h.topSuppliers)
		r.Get("/recent-orders", h.recentOrders)
	})
	r.Get("/{id}", h.get)
	r.Get("/{id}/pdf", h.pdf)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	order, err := h.service.Create(r.Context(), userID, req, r.Header.Get("Idempotency-Key"))
	if err != nil {
		h.logger.Warn("create order", slog.String("user_id", userID.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	detail, err := h.service.Detail(r.Context(), userID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	kind, err := document.ParseKind(r.URL.Query().Get("type"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	out, err := h.service.Document(r.Context(), userID, id, kind)
	if err != nil {
		h.logger.Error("order pdf", slog.String("order_id", id.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.PDF(w, out.Filename, out.Data)
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	summary, err := h.service.MonthlySummary(r.Context(), userID)
	if err != nil {
		h.logger.Error("monthly summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) topProducts(w http.ResponseWriter, r *http.Request) {
	userID, limit, ok := h.statsParams(w, r)
	if !ok {
		return
	}
	list, err := h.service.TopProducts(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("top products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) topSuppliers(w http.ResponseWriter, r *http.Request) {
	userID, limit, ok := h.statsParams(w, r)
	if !ok {
		return
	}
	list, err := h.service.TopSuppliers(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("top suppliers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) recentOrders(w http.ResponseWriter, r *http.Request) {
	userID, limit, ok := h.statsParams(w, r)
	if !ok {
		return
	}
	list, err := h.service.RecentOrders(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("recent orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) statsParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, int, bool) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return uuid.Nil, 0, false
	}
	limit, err := httpx.QueryLimit(r, DefaultStatsLimit, maxStatsLimit)
	if err != nil {
		httpx.RespondError(w, err)
		return uuid.Nil, 0, false
	}
	return userID, limit, true
}
