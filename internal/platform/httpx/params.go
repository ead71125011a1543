package httpx

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
)

// UserID returns the authenticated user stored in the request context.
func UserID(r *http.Request) (uuid.UUID, error) {
	id, ok := shared.UserFromContext(r.Context())
	if !ok {
		return uuid.Nil, shared.ErrUnauthorized
	}
	return id, nil
}

// PathUUID parses the named chi URL parameter as a UUID.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, shared.Validationf("invalid %s", name)
	}
	return id, nil
}

// QueryLimit reads the "limit" query parameter, defaulting to def and capped at max.
func QueryLimit(r *http.Request, def, max int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, shared.Validationf("limit must be a positive integer")
	}
	if n > max {
		n = max
	}
	return n, nil
}
