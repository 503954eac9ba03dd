package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	cartapp "github.com/vetcollars/storefront/internal/application/cart"
	catalogapp "github.com/vetcollars/storefront/internal/application/catalog"
	orderapp "github.com/vetcollars/storefront/internal/application/order"
	"github.com/vetcollars/storefront/internal/domain/catalog"
	"github.com/vetcollars/storefront/internal/domain/order"
	"github.com/vetcollars/storefront/internal/domain/shared"
	"github.com/vetcollars/storefront/internal/infrastructure/cache"
	"github.com/vetcollars/storefront/internal/infrastructure/config"
	"github.com/vetcollars/storefront/internal/interfaces/http/dto"
	"github.com/vetcollars/storefront/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockOrderRepository mocks order.Repository
type MockOrderRepository struct {
	order.Repository
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

// MockProductRepository mocks the catalog.ProductRepository methods handlers reach
type MockProductRepository struct {
	catalog.ProductRepository
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, filter catalog.SearchFilter) ([]catalog.Product, bool, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Bool(1), args.Error(2)
}

func (m *MockProductRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProductRepository) IncrementViews(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) SaveAll(ctx context.Context, products []*catalog.Product) error {
	return m.Called(ctx, products).Error(0)
}

func collar() *catalog.Product {
	p := &catalog.Product{
		BaseEntity:  shared.BaseEntity{ID: 1},
		Name:        "Collar",
		RetailPrice: decimal.NewFromInt(12),
		Sizes:       []string{"S", "M"},
	}
	return p
}

func performRequest(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) (dto.Response, map[string]any) {
	t.Helper()
	var raw struct {
		dto.Response
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	return raw.Response, raw.Data
}

func trustedOrderService(repo order.Repository) *orderapp.Service {
	return orderapp.NewService(repo, nil, cache.NewInMemoryIdempotencyStore(), nil, nil,
		orderapp.Options{TrustClientTotal: true}, nil)
}

func assignOrderID(id int64) func(mock.Arguments) {
	return func(args mock.Arguments) {
		o := args.Get(1).(*order.Order)
		o.ID = id
		o.CreatedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	}
}

func submitBody() map[string]any {
	return map[string]any{
		"customer_name":  "Anna",
		"customer_phone": "+375291234567",
		"items": []map[string]any{
			{"product_id": 1, "name": "Collar", "unit_price": 12, "sizes": map[string]int{"S": 2, "M": 1}},
		},
		"total_price": 36,
	}
}

func TestOrderHandler_Submit(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).Run(assignOrderID(42)).Return(nil)
		h := NewOrderHandler(trustedOrderService(repo))

		r := gin.New()
		r.POST("/orders", h.Submit)
		w := performRequest(r, http.MethodPost, "/orders", submitBody(), nil)

		require.Equal(t, http.StatusCreated, w.Code)
		resp, data := decodeResponse(t, w)
		assert.True(t, resp.Success)
		assert.EqualValues(t, 42, data["id"])
		assert.Equal(t, "new", data["status"])
		repo.AssertExpectations(t)
	})

	t.Run("validation error is 422 with the domain message", func(t *testing.T) {
		repo := new(MockOrderRepository)
		h := NewOrderHandler(trustedOrderService(repo))
		body := submitBody()
		body["customer_phone"] = "12"

		r := gin.New()
		r.POST("/orders", h.Submit)
		w := performRequest(r, http.MethodPost, "/orders", body, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp, _ := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, order.CodeInvalidPhone, resp.Error.Code)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("size quantity above cap is 400", func(t *testing.T) {
		repo := new(MockOrderRepository)
		h := NewOrderHandler(trustedOrderService(repo))
		body := submitBody()
		body["items"] = []map[string]any{
			{"product_id": 1, "name": "Collar", "unit_price": 12, "sizes": map[string]int{"S": catalog.MaxQuantityPerSize + 1, "M": 1}},
		}

		r := gin.New()
		r.POST("/orders", h.Submit)
		w := performRequest(r, http.MethodPost, "/orders", body, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp, _ := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("store failure is retryable 503", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
		h := NewOrderHandler(trustedOrderService(repo))

		r := gin.New()
		r.POST("/orders", h.Submit)
		w := performRequest(r, http.MethodPost, "/orders", submitBody(), nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp, _ := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ORDER_SUBMIT_FAILED", resp.Error.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})

	t.Run("replayed idempotency key is 409", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("Create", mock.Anything, mock.Anything).Run(assignOrderID(1)).Return(nil).Once()
		h := NewOrderHandler(trustedOrderService(repo))

		r := gin.New()
		r.POST("/orders", h.Submit)
		headers := map[string]string{IdempotencyKeyHeader: "key-1"}
		first := performRequest(r, http.MethodPost, "/orders", submitBody(), headers)
		second := performRequest(r, http.MethodPost, "/orders", submitBody(), headers)

		assert.Equal(t, http.StatusCreated, first.Code)
		assert.Equal(t, http.StatusConflict, second.Code)
		repo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := NewOrderHandler(trustedOrderService(new(MockOrderRepository)))
		r := gin.New()
		r.POST("/orders", h.Submit)

		req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_Get(t *testing.T) {
	repo := new(MockOrderRepository)
	repo.On("FindByID", mock.Anything, int64(9)).Return(nil, shared.ErrNotFound)
	h := NewOrderHandler(trustedOrderService(repo))

	r := gin.New()
	r.GET("/admin/orders/:id", h.Get)

	w := performRequest(r, http.MethodGet, "/admin/orders/9", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(r, http.MethodGet, "/admin/orders/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandler_Flow(t *testing.T) {
	products := new(MockProductRepository)
	products.On("FindByID", mock.Anything, int64(1)).Return(collar(), nil)
	orders := new(MockOrderRepository)
	orders.On("Create", mock.Anything, mock.Anything).Run(assignOrderID(5)).Return(nil)

	carts := cache.NewInMemoryCartRepository(time.Hour)
	svc := cartapp.NewService(carts, products, trustedOrderService(orders), nil)
	h := NewCartHandler(svc)

	r := gin.New()
	r.Use(middleware.Session(config.SessionConfig{}))
	r.GET("/cart", h.Get)
	r.POST("/cart/items", h.AddItem)
	r.PUT("/cart/items/:productId/sizes/:size", h.UpdateQuantity)
	r.POST("/cart/checkout", h.Checkout)

	session := map[string]string{middleware.SessionHeader: "sess-1"}

	w := performRequest(r, http.MethodPost, "/cart/items", map[string]any{
		"product_id": 1,
		"sizes":      map[string]int{"S": 2},
	}, session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, data := decodeResponse(t, w)
	assert.EqualValues(t, 2, data["total_items"])

	w = performRequest(r, http.MethodPut, "/cart/items/1/sizes/M", map[string]any{"quantity": 1}, session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, data = decodeResponse(t, w)
	assert.EqualValues(t, 3, data["total_items"])
	assert.Equal(t, "36", data["total_price"])

	w = performRequest(r, http.MethodPost, "/cart/items", map[string]any{
		"product_id": 1,
		"sizes":      map[string]int{"XXL": 1},
	}, session)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = performRequest(r, http.MethodPost, "/cart/checkout", map[string]any{
		"customer_name":  "Anna",
		"customer_phone": "+375291234567",
	}, session)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	_, data = decodeResponse(t, w)
	assert.EqualValues(t, 5, data["id"])

	w = performRequest(r, http.MethodGet, "/cart", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	_, data = decodeResponse(t, w)
	assert.EqualValues(t, 0, data["total_items"])
}

func TestCartHandler_AddItemValidation(t *testing.T) {
	h := NewCartHandler(cartapp.NewService(cache.NewInMemoryCartRepository(time.Hour), new(MockProductRepository), nil, nil))
	r := gin.New()
	r.Use(middleware.Session(config.SessionConfig{}))
	r.POST("/cart/items", h.AddItem)

	w := performRequest(r, http.MethodPost, "/cart/items", map[string]any{"product_id": 1}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp, _ := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	w = performRequest(r, http.MethodPost, "/cart/items", map[string]any{
		"product_id": 1,
		"sizes":      map[string]int{"S": catalog.MaxQuantityPerSize + 1},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp, _ = decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
}

func TestCatalogHandler(t *testing.T) {
	products := new(MockProductRepository)
	products.On("Search", mock.Anything, mock.AnythingOfType("catalog.SearchFilter")).
		Return([]catalog.Product{*collar()}, true, nil)
	products.On("Categories", mock.Anything).Return([]string{"cats", "dogs"}, nil)
	products.On("FindByID", mock.Anything, int64(1)).Return(collar(), nil)
	products.On("FindByID", mock.Anything, int64(2)).Return(nil, shared.ErrNotFound)
	products.On("IncrementViews", mock.Anything, int64(1)).Return(nil)

	h := NewCatalogHandler(catalogapp.NewProductService(products, nil, nil, nil))
	r := gin.New()
	r.GET("/catalog/products", h.SearchProducts)
	r.GET("/catalog/products/:id", h.GetProduct)
	r.GET("/catalog/categories", h.Categories)

	t.Run("search", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/catalog/products?q=collar&sort=price_asc", nil, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		_, data := decodeResponse(t, w)
		assert.Equal(t, true, data["has_more"])
		assert.Len(t, data["products"], 1)
	})

	t.Run("detail counts the view", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/catalog/products/1", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		_, data := decodeResponse(t, w)
		assert.Equal(t, "Collar", data["name"])
		products.AssertCalled(t, "IncrementViews", mock.Anything, int64(1))
	})

	t.Run("missing product", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/catalog/products/2", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("categories", func(t *testing.T) {
		w := performRequest(r, http.MethodGet, "/catalog/categories", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"dogs"`)
	})
}

func TestBaseHandler_HandleError(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/boom", func(c *gin.Context) {
		(&BaseHandler{}).HandleError(c, errors.New("pq: relation does not exist"))
	})

	w := performRequest(r, http.MethodGet, "/boom", nil, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp, _ := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
	assert.NotContains(t, w.Body.String(), "relation")
}

func TestSystemHandler(t *testing.T) {
	up := PingerFunc(func(context.Context) error { return nil })
	down := PingerFunc(func(context.Context) error { return errors.New("refused") })

	t.Run("ready", func(t *testing.T) {
		r := gin.New()
		r.GET("/health", NewSystemHandler("1.0.0", map[string]Pinger{"database": up}).Ready)
		w := performRequest(r, http.MethodGet, "/health", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"up"`)
	})

	t.Run("degraded", func(t *testing.T) {
		r := gin.New()
		r.GET("/health", NewSystemHandler("1.0.0", map[string]Pinger{"database": up, "redis": down}).Ready)
		w := performRequest(r, http.MethodGet, "/health", nil, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"redis":"down"`)
	})

	t.Run("live", func(t *testing.T) {
		r := gin.New()
		r.GET("/health/live", NewSystemHandler("", nil).Live)
		w := performRequest(r, http.MethodGet, "/health/live", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func multipartUpload(t *testing.T, path, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(UploadFormField, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAdminProductHandler_ImportCSV(t *testing.T) {
	repo := new(MockProductRepository)
	h := NewAdminProductHandler(catalogapp.NewProductService(repo, nil, nil, nil))
	r := gin.New()
	r.POST("/admin/products/import", h.ImportCSV)

	const data = "name,retail_price,sizes\nCollar,12,\"S,M\"\nLeash,9,\n"

	t.Run("dry run validates only", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartUpload(t, "/admin/products/import?dry_run=true", "products.csv", data))

		require.Equal(t, http.StatusOK, w.Code)
		_, body := decodeResponse(t, w)
		assert.Equal(t, float64(2), body["total_rows"])
		assert.Equal(t, float64(0), body["imported_rows"])
		assert.Equal(t, true, body["dry_run"])
		repo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
	})

	t.Run("imports rows", func(t *testing.T) {
		repo.On("SaveAll", mock.Anything, mock.AnythingOfType("[]*catalog.Product")).Return(nil).Once()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartUpload(t, "/admin/products/import", "products.csv", data))

		require.Equal(t, http.StatusOK, w.Code)
		_, body := decodeResponse(t, w)
		assert.Equal(t, float64(2), body["imported_rows"])
		repo.AssertExpectations(t)
	})

	t.Run("missing columns", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartUpload(t, "/admin/products/import", "products.csv", "title\nCollar\n"))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp, _ := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_IMPORT_FILE", resp.Error.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		w := performRequest(r, http.MethodPost, "/admin/products/import", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
