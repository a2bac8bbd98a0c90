package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbook/backend/internal/infrastructure/blob"
	"github.com/shopbook/backend/internal/interfaces/http/dto"
	"github.com/shopbook/backend/internal/storage"
	"github.com/shopbook/backend/internal/storage/localstore"
	"github.com/shopbook/backend/internal/storage/provider"
)

func testStores(t *testing.T) *Stores {
	t.Helper()
	backend, err := localstore.OpenInMemory("tenant-test")
	require.NoError(t, err)
	stores := NewStores(nil, storage.NewDataStore(backend, blob.NewInlineStore()), provider.KindLocal)
	t.Cleanup(func() { _ = stores.Close() })
	return stores
}

func catalogRouter(stores *Stores) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCatalogHandler(stores)
	r.POST("/products", h.CreateProduct)
	r.GET("/products", h.ListProducts)
	r.GET("/products/:barcode", h.GetProduct)
	r.PUT("/products/:barcode", h.UpdateProduct)
	r.DELETE("/products/:barcode", h.DeleteProduct)
	r.PUT("/settings/exchange-rates", h.SaveExchangeRates)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dto.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestCatalogHandler_Products(t *testing.T) {
	productBody := gin.H{
		"barcode":             "8901",
		"name":                "Green Tea",
		"quantity":            10,
		"low_stock_threshold": 2,
		"profit_margin":       20,
		"costs": []gin.H{
			{"title": "purchase", "amount": 500, "currency": "TOMAN"},
		},
	}

	t.Run("create returns the derived selling price", func(t *testing.T) {
		r := catalogRouter(testStores(t))
		w, resp := doJSON(t, r, http.MethodPost, "/products", productBody)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		require.True(t, resp.Success)

		data := resp.Data.(map[string]any)
		assert.Equal(t, "8901", data["barcode"])
		assert.Equal(t, "600", data["selling_price"])
	})

	t.Run("duplicate barcode maps to conflict", func(t *testing.T) {
		r := catalogRouter(testStores(t))
		w, _ := doJSON(t, r, http.MethodPost, "/products", productBody)
		require.Equal(t, http.StatusCreated, w.Code)

		w, resp := doJSON(t, r, http.MethodPost, "/products", productBody)
		assert.Equal(t, http.StatusConflict, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeAlreadyExists, resp.Error.Code)
	})

	t.Run("missing required fields map to bad request", func(t *testing.T) {
		r := catalogRouter(testStores(t))
		w, resp := doJSON(t, r, http.MethodPost, "/products", gin.H{"barcode": "1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	})

	t.Run("unknown product maps to not found", func(t *testing.T) {
		r := catalogRouter(testStores(t))
		w, resp := doJSON(t, r, http.MethodGet, "/products/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("update with a new barcode rekeys the product", func(t *testing.T) {
		r := catalogRouter(testStores(t))
		w, _ := doJSON(t, r, http.MethodPost, "/products", productBody)
		require.Equal(t, http.StatusCreated, w.Code)

		moved := gin.H{}
		for k, v := range productBody {
			moved[k] = v
		}
		moved["barcode"] = "8902"
		w, resp := doJSON(t, r, http.MethodPut, "/products/8901", moved)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.True(t, resp.Success)

		w, _ = doJSON(t, r, http.MethodGet, "/products/8901", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		w, _ = doJSON(t, r, http.MethodGet, "/products/8902", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTradeHandler_CompleteSale(t *testing.T) {
	stores := testStores(t)
	r := catalogRouter(stores)
	th := NewTradeHandler(stores)
	r.POST("/sales", th.CompleteSale)
	r.GET("/sales", th.ListSales)

	w, _ := doJSON(t, r, http.MethodPost, "/products", gin.H{
		"barcode":  "tea",
		"name":     "Green Tea",
		"quantity": 10,
		"costs":    []gin.H{{"title": "purchase", "amount": 100, "currency": "TOMAN"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := doJSON(t, r, http.MethodPost, "/sales", gin.H{
		"items": []gin.H{{"product_barcode": "tea", "quantity": 3, "unit_price": 150}},
		"total": 450,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	items := data["items"].([]any)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	assert.Equal(t, "Green Tea", line["product_name"])
	assert.Equal(t, "300", line["cost_snapshot"])

	// Stock was decremented by the committed sale.
	w, resp = doJSON(t, r, http.MethodGet, "/products/tea", nil)
	require.Equal(t, http.StatusOK, w.Code)
	product := resp.Data.(map[string]any)
	assert.Equal(t, float64(7), product["quantity"])
}

func TestTradeHandler_CreatePayment(t *testing.T) {
	stores := testStores(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	th := NewTradeHandler(stores)
	r.POST("/payments", th.CreatePayment)
	r.GET("/payments", th.ListPayments)

	t.Run("unknown method maps to invalid input", func(t *testing.T) {
		w, resp := doJSON(t, r, http.MethodPost, "/payments", gin.H{
			"amount": 100, "method": "barter",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
	})

	t.Run("created payment is listed by id", func(t *testing.T) {
		w, resp := doJSON(t, r, http.MethodPost, "/payments", gin.H{
			"amount": 100, "method": "cash",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		id := resp.Data.(map[string]any)["id"].(string)

		w, resp = doJSON(t, r, http.MethodGet, "/payments?ids="+id, nil)
		require.Equal(t, http.StatusOK, w.Code)
		payments := resp.Data.([]any)
		require.Len(t, payments, 1)
		assert.Equal(t, id, payments[0].(map[string]any)["id"])
	})

	t.Run("missing ids parameter is rejected", func(t *testing.T) {
		w, resp := doJSON(t, r, http.MethodGet, "/payments", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
	})
}
