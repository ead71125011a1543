package orders

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igtaposh/ordersathi-backend/internal/shared"
	_ "github.com/igtaposh/ordersathi-backend/testing"
)

func newTestRouter(f *serviceFixture) http.Handler {
	h := NewHandler(f.svc, slog.Default())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithUser(req.Context(), f.user)))
		})
	})
	r.Route("/api/orders", h.MountRoutes)
	return r
}

func (f *serviceFixture) createBody() string {
	return fmt.Sprintf(`{"supplier_id":%q,"products":[{"product_id":%q,"quantity":10},{"product_id":%q,"quantity":5}]}`,
		f.supplier.ID, f.atta.ID, f.sugar.ID)
}

func TestHandler_CreateAndGet(t *testing.T) {
	f := newServiceFixture(t)
	router := newTestRouter(f)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/orders/", strings.NewReader(f.createBody())))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "1575", created.TotalAmount.String())
	assert.Equal(t, 10.0, created.TotalWeight)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders/"+created.ID.String(), nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var detail Detail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.Equal(t, "Sharma Traders", detail.SupplierName)
	assert.Len(t, detail.Items, 2)
}

func TestHandler_CreateUnknownProductIs422(t *testing.T) {
	f := newServiceFixture(t)
	router := newTestRouter(f)

	body := fmt.Sprintf(`{"supplier_id":%q,"products":[{"product_id":"6f1c2a8e-0000-4000-8000-000000000001","quantity":1}]}`, f.supplier.ID)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/orders/", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Empty(t, f.repo.orders)
}

func TestHandler_CreateRepeatedIdempotencyKeyIs409(t *testing.T) {
	f := newServiceFixture(t)
	router := newTestRouter(f)

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/orders/", strings.NewReader(f.createBody()))
		req.Header.Set("Idempotency-Key", "order-1")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, want, rr.Code, "attempt %d", i)
	}
}

func TestHandler_PDF(t *testing.T) {
	f := newServiceFixture(t)
	router := newTestRouter(f)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/orders/", strings.NewReader(f.createBody())))
	require.Equal(t, http.StatusCreated, rr.Code)
	var created Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders/"+created.ID.String()+"/pdf?type=shopkeeper", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "order-shopkeeper.pdf")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders/"+created.ID.String()+"/pdf?type=wholesale", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	f.renderer.err = fmt.Errorf("%w: convert failed", shared.ErrDocumentRender)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders/"+created.ID.String()+"/pdf", nil))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.NotContains(t, rr.Body.String(), "convert failed")
}

func TestHandler_StatsLimit(t *testing.T) {
	f := newServiceFixture(t)
	router := newTestRouter(f)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/orders/", strings.NewReader(f.createBody())))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders/stats/top-products?limit=1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var top []TopProduct
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &top))
	require.Len(t, top, 1)
	assert.Equal(t, "Atta", top[0].Name)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders/stats/top-suppliers?limit=zero", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders/stats/monthly", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var summary Summary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.TotalOrders)
}
