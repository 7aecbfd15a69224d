package cart

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusagency/nexus-backend/api/middleware"
	"github.com/nexusagency/nexus-backend/internal/catalog"
	cartsvc "github.com/nexusagency/nexus-backend/internal/cart"
	"github.com/nexusagency/nexus-backend/internal/promotions"
	pkgerrors "github.com/nexusagency/nexus-backend/pkg/errors"
	"github.com/nexusagency/nexus-backend/pkg/money"
)

const testSession = "6f1c2a8e-3b7d-4e5f-9a0b-1c2d3e4f5a6b"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, err := cartsvc.NewService(cartsvc.NewMemoryStore(), cartsvc.Pricing{
		Catalog:    catalog.NewStaticProvider(catalog.DefaultProducts()),
		Promotions: promotions.NewStaticRegistry(promotions.DefaultPromotions()),
		TaxRate:    decimal.RequireFromString("0.20"),
		Formatter:  money.NewFormatter("fr-FR", "€"),
		Now:        func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) },
	}, nil)
	require.NoError(t, err)

	h := NewHandlers(svc, 3, nil)
	r := chi.NewRouter()
	r.Use(middleware.CartSession(nil))
	r.Get("/api/v1/cart", h.Fetch())
	r.Delete("/api/v1/cart", h.Clear())
	r.Post("/api/v1/cart/items", h.AddItem())
	r.Put("/api/v1/cart/items/{productId}", h.SetQuantity())
	r.Delete("/api/v1/cart/items/{productId}", h.RemoveItem())
	r.Post("/api/v1/cart/promo", h.ApplyPromo())
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(middleware.CartSessionHeader, testSession)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) cartsvc.View {
	t.Helper()
	var envelope struct {
		Data cartsvc.View `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope.Data
}

func TestCartFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "maintenance", "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decodeView(t, rec)
	assert.Equal(t, int64(9998), view.Totals.Subtotal)
	assert.Equal(t, "99,98 €", view.Subtotal)
	assert.Equal(t, 2, view.ItemCount)
	assert.Equal(t, 3, view.InstallmentCount)
	assert.Equal(t, view.Totals.Subtotal-view.Totals.Discount+view.Totals.Tax, view.Totals.Total)

	rec = do(t, router, http.MethodPut, "/api/v1/cart/items/maintenance", map[string]any{"quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(4999), decodeView(t, rec).Totals.Subtotal)

	rec = do(t, router, http.MethodDelete, "/api/v1/cart/items/maintenance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeView(t, rec).Lines)

	rec = do(t, router, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testSession, rec.Header().Get(middleware.CartSessionHeader))
}

func TestCartAddUnknownProduct(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "nope", "quantity": 1})
	require.Equal(t, http.StatusNotFound, rec.Code)

	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, string(pkgerrors.CodeNotFound), envelope.Error.Code)
}

func TestCartApplyPromoReportsOutcome(t *testing.T) {
	router := newTestRouter(t)
	do(t, router, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "site-vitrine", "quantity": 1})

	rec := do(t, router, http.MethodPost, "/api/v1/cart/promo", map[string]any{"code": "NEXUS20"})
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data struct {
			Result cartsvc.PromoResult `json:"result"`
			Cart   cartsvc.View        `json:"cart"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.False(t, envelope.Data.Result.Applied)
	assert.Equal(t, promotions.FailureBelowMinimumSubtotal, envelope.Data.Result.Failure)
	assert.Equal(t, int64(0), envelope.Data.Cart.Totals.Discount)

	rec = do(t, router, http.MethodPost, "/api/v1/cart/promo", map[string]any{"code": "welcome10"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, promotions.FailureCodeNotFound, envelope.Data.Result.Failure)

	rec = do(t, router, http.MethodPost, "/api/v1/cart/promo", map[string]any{"code": "WELCOME10"})
	require.Equal(t, http.StatusOK, rec.Code)
	envelope.Data.Result = cartsvc.PromoResult{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.True(t, envelope.Data.Result.Applied)
	assert.Equal(t, int64(4990), envelope.Data.Cart.Totals.Discount)

	rec = do(t, router, http.MethodDelete, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	assert.Empty(t, view.Lines)
	assert.Empty(t, view.PromoCode)
}

func TestCartRejectsInvalidBody(t *testing.T) {
	router := newTestRouter(t)
	rec := do(t, router, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "maintenance", "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartRejectsOversizedQuantity(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "site-vitrine", "quantity": int64(4373615814349853811)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "site-vitrine", "quantity": 1000})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "site-vitrine", "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, router, http.MethodPut, "/api/v1/cart/items/site-vitrine", map[string]any{"quantity": 5000})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
