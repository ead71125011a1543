package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igtaposh/ordersathi-backend/internal/auth"
	"github.com/igtaposh/ordersathi-backend/internal/observability"
	"github.com/igtaposh/ordersathi-backend/internal/suppliers"
)

func newTestRouter(t *testing.T) (http.Handler, *auth.TokenIssuer) {
	t.Helper()
	tokens, err := auth.NewTokenIssuer("router-secret", time.Hour)
	require.NoError(t, err)
	router := NewRouter(RouterParams{
		Config:          &Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second},
		Metrics:         observability.NewMetrics(),
		Authenticate:    auth.Middleware(tokens),
		SupplierHandler: suppliers.NewHandler(suppliers.NewService(nil, nil), nil),
	})
	return router, tokens
}

func TestRouterHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRouterRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/suppliers", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unauthorized"`)

	req := httptest.NewRequest(http.MethodGet, "/api/suppliers", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other, err := auth.NewTokenIssuer("another-secret", time.Hour)
	require.NoError(t, err)
	forged, _, err := other.Issue(uuid.New())
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/suppliers", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterExposesMetrics(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ordersathi_http_requests_total"))
}
