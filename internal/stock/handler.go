package stock

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/igtaposh/ordersathi-backend/internal/platform/httpx"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Handler wires stock report endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler builds a stock report handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// MountRoutes registers stock report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
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
	report, err := h.service.Create(r.Context(), userID, req, r.Header.Get("Idempotency-Key"))
	if err != nil {
		h.logger.Warn("create stock report", slog.String("user_id", userID.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, report)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.UserID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	limit, err := httpx.QueryLimit(r, defaultListLimit, maxListLimit)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	list, err := h.service.ListRecent(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("list stock reports", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
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

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
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
	out, err := h.service.Document(r.Context(), userID, id)
	if err != nil {
		h.logger.Error("stock report pdf", slog.String("report_id", id.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.PDF(w, out.Filename, out.Data)
}
