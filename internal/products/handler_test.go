package products

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
)

func newTestRouter(f fixture) http.Handler {
	h := NewHandler(f.svc, slog.Default())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithUser(req.Context(), f.user)))
		})
	})
	r.Route("/api/products", h.MountRoutes)
	return r
}

func TestHandler_CreateAndListBySupplier(t *testing.T) {
	f := newFixture()
	router := newTestRouter(f)

	body := `{"supplier_id":"` + f.supplier.ID.String() + `","name":"Atta","weight":"5kg","rate":90,"mrp":"100","unit_type":"bag"}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/products/", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products/supplier/"+f.supplier.ID.String(), nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var list []Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Atta", list[0].Name)
	assert.Equal(t, "90", list[0].Rate.String())
}

func TestHandler_BulkValidationError(t *testing.T) {
	f := newFixture()
	router := newTestRouter(f)

	body := `{"supplier_id":"` + f.supplier.ID.String() + `","products":[{"name":"Atta","weight":"5kg","rate":"abc","mrp":"1","unit_type":"bag"}]}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/products/bulk", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "rate and MRP must be numbers")
}
