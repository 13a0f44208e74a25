package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zypso/storefront-service/internal/application"
	"github.com/zypso/storefront-service/internal/domain"
	"github.com/zypso/storefront-service/pkg/logging"
	"github.com/zypso/storefront-service/pkg/metrics"
	"github.com/zypso/storefront-service/pkg/middleware"
)

type fakeSessionStore struct {
	loadCartFn     func(ctx context.Context, sessionID string) (*domain.Cart, error)
	saveCartFn     func(ctx context.Context, cart *domain.Cart) error
	clearCartFn    func(ctx context.Context, sessionID string) error
	loadLocationFn func(ctx context.Context, sessionID string) (*domain.UserLocation, error)
	saveLocationFn func(ctx context.Context, sessionID string, location *domain.UserLocation) error
}

func (f *fakeSessionStore) LoadCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if f.loadCartFn != nil {
		return f.loadCartFn(ctx, sessionID)
	}
	return domain.NewCart(sessionID), nil
}

func (f *fakeSessionStore) SaveCart(ctx context.Context, cart *domain.Cart) error {
	if f.saveCartFn != nil {
		return f.saveCartFn(ctx, cart)
	}
	return nil
}

func (f *fakeSessionStore) ClearCart(ctx context.Context, sessionID string) error {
	if f.clearCartFn != nil {
		return f.clearCartFn(ctx, sessionID)
	}
	return nil
}

func (f *fakeSessionStore) LoadLocation(ctx context.Context, sessionID string) (*domain.UserLocation, error) {
	if f.loadLocationFn != nil {
		return f.loadLocationFn(ctx, sessionID)
	}
	return nil, nil
}

func (f *fakeSessionStore) SaveLocation(ctx context.Context, sessionID string, location *domain.UserLocation) error {
	if f.saveLocationFn != nil {
		return f.saveLocationFn(ctx, sessionID, location)
	}
	return nil
}

type fakeProductRepo struct {
	findByIDFn func(ctx context.Context, id string) (*domain.Product, error)
	findFn     func(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
}

func (f *fakeProductRepo) Save(ctx context.Context, product *domain.Product) error { return nil }

func (f *fakeProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeProductRepo) Find(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	if f.findFn != nil {
		return f.findFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeOrderRepo struct {
	saveFn        func(ctx context.Context, order *domain.Order) error
	findByIDFn    func(ctx context.Context, id string) (*domain.Order, error)
	findByPhoneFn func(ctx context.Context, phone string) ([]*domain.Order, error)
}

func (f *fakeOrderRepo) Save(ctx context.Context, order *domain.Order) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, order)
	}
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeOrderRepo) FindByPhone(ctx context.Context, phone string) ([]*domain.Order, error) {
	if f.findByPhoneFn != nil {
		return f.findByPhoneFn(ctx, phone)
	}
	return nil, nil
}

type fakeGeocoder struct{}

func (f *fakeGeocoder) Forward(ctx context.Context, address string) (*domain.UserLocation, error) {
	return &domain.UserLocation{Lat: 12.95, Lng: 77.6, Address: address}, nil
}

func (f *fakeGeocoder) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	return "12 MG Road", nil
}

func testSettings() domain.ShopSettings {
	return domain.ShopSettings{
		ShopName:        "Test Mart",
		ShopLat:         12.97,
		ShopLng:         77.59,
		BaseDeliveryFee: 20,
		PerKmFee:        10,
		MinOrderAmount:  99,
	}
}

func testRouter(t *testing.T, sessions *fakeSessionStore, products *fakeProductRepo, orders *fakeOrderRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logging.New(logging.DefaultConfig("storefront-test"))
	m := metrics.New(metrics.DefaultConfig("storefront-test"))
	businessMetrics := middleware.NewBusinessMetrics(m)
	settingsStore := domain.NewSettingsStore(testSettings())

	cartService := application.NewCartService(sessions, products, settingsStore, &fakeGeocoder{}, logger)
	checkoutService := application.NewCheckoutService(orders, sessions, settingsStore, nil, logger)

	cartHandler := NewCartHandler(cartService, logger, businessMetrics)
	orderHandler := NewOrderHandler(checkoutService, logger, businessMetrics)

	router := gin.New()
	middleware.Setup(router, middleware.DefaultConfig("storefront-test", logger.Logger))

	v1 := router.Group("/api/v1")
	sessionsGroup := v1.Group("/sessions/:sessionId")
	sessionsGroup.GET("/cart", cartHandler.GetCart)
	sessionsGroup.POST("/cart/items", cartHandler.AddItem)
	sessionsGroup.PUT("/cart/items/:productId", cartHandler.UpdateQuantity)
	sessionsGroup.GET("/quote", cartHandler.GetQuote)
	sessionsGroup.POST("/orders", orderHandler.PlaceOrder)
	v1.GET("/orders/:orderId", orderHandler.GetOrder)
	v1.PUT("/orders/:orderId/cancel", orderHandler.CancelOrder)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestGetCartReturnsEmptyCart(t *testing.T) {
	router := testRouter(t, &fakeSessionStore{}, &fakeProductRepo{}, &fakeOrderRepo{})

	recorder := doJSON(t, router, http.MethodGet, "/api/v1/sessions/session-abc1/cart", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data application.CartDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "session-abc1", body.Data.SessionID)
	assert.Empty(t, body.Data.Lines)
}

func TestResponsesCarrySecurityHeaders(t *testing.T) {
	router := testRouter(t, &fakeSessionStore{}, &fakeProductRepo{}, &fakeOrderRepo{})

	recorder := doJSON(t, router, http.MethodGet, "/api/v1/sessions/session-abc1/cart", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", recorder.Header().Get("X-Frame-Options"))
}

func TestAddItemReturnsUpdatedCart(t *testing.T) {
	products := &fakeProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*domain.Product, error) {
			return &domain.Product{ID: id, Name: "Milk 1l", Price: 32, Status: domain.ProductAvailable}, nil
		},
	}
	router := testRouter(t, &fakeSessionStore{}, products, &fakeOrderRepo{})

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/sessions/session-abc1/cart/items",
		map[string]string{"productId": "p1"})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data application.CartDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Data.Lines, 1)
	assert.Equal(t, 32.0, body.Data.Lines[0].Price)
}

func TestAddItemUnknownProductIs404(t *testing.T) {
	router := testRouter(t, &fakeSessionStore{}, &fakeProductRepo{}, &fakeOrderRepo{})

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/sessions/session-abc1/cart/items",
		map[string]string{"productId": "missing"})

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAddItemMissingProductIDIs400(t *testing.T) {
	router := testRouter(t, &fakeSessionStore{}, &fakeProductRepo{}, &fakeOrderRepo{})

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/sessions/session-abc1/cart/items",
		map[string]string{})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetQuoteWithoutLocation(t *testing.T) {
	sessions := &fakeSessionStore{
		loadCartFn: func(ctx context.Context, sessionID string) (*domain.Cart, error) {
			cart := domain.NewCart(sessionID)
			cart.AddItem(&domain.Product{ID: "p1", Name: "Rice", Price: 150, Status: domain.ProductAvailable})
			return cart, nil
		},
	}
	router := testRouter(t, sessions, &fakeProductRepo{}, &fakeOrderRepo{})

	recorder := doJSON(t, router, http.MethodGet, "/api/v1/sessions/session-abc1/quote", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data application.QuoteDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Nil(t, body.Data.DistanceKm)
	assert.Equal(t, domain.DefaultETAMinutes, body.Data.EtaMinutes)
	assert.Equal(t, 20.0, body.Data.Totals.DeliveryCharge)
}

func TestPlaceOrderReturns201(t *testing.T) {
	sessions := &fakeSessionStore{
		loadCartFn: func(ctx context.Context, sessionID string) (*domain.Cart, error) {
			cart := domain.NewCart(sessionID)
			cart.AddItem(&domain.Product{ID: "p1", Name: "Rice", Price: 150, Status: domain.ProductAvailable})
			return cart, nil
		},
		loadLocationFn: func(ctx context.Context, sessionID string) (*domain.UserLocation, error) {
			return &domain.UserLocation{Lat: 12.99, Lng: 77.61}, nil
		},
	}
	router := testRouter(t, sessions, &fakeProductRepo{}, &fakeOrderRepo{})

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/sessions/session-abc1/orders",
		map[string]string{
			"name":    "Asha Rao",
			"phone":   "9876543210",
			"address": "12 MG Road, Bengaluru",
		})

	assert.Equal(t, http.StatusCreated, recorder.Code)

	var body struct {
		Data application.OrderDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "pending", body.Data.Status)
	assert.NotEmpty(t, body.Data.ID)
}

func TestPlaceOrderEmptyCartIs400(t *testing.T) {
	router := testRouter(t, &fakeSessionStore{}, &fakeProductRepo{}, &fakeOrderRepo{})

	recorder := doJSON(t, router, http.MethodPost, "/api/v1/sessions/session-abc1/orders",
		map[string]string{
			"name":    "Asha Rao",
			"phone":   "9876543210",
			"address": "12 MG Road, Bengaluru",
		})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetOrderUnknownIs404(t *testing.T) {
	router := testRouter(t, &fakeSessionStore{}, &fakeProductRepo{}, &fakeOrderRepo{})

	recorder := doJSON(t, router, http.MethodGet, "/api/v1/orders/ORD-deadbeef", nil)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetOrderMalformedIDIs400(t *testing.T) {
	router := testRouter(t, &fakeSessionStore{}, &fakeProductRepo{}, &fakeOrderRepo{})

	recorder := doJSON(t, router, http.MethodGet, "/api/v1/orders/not-an-order", nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCancelOrderConflictIs409(t *testing.T) {
	settings := testSettings()
	calc := domain.NewPricingCalculator(settings)
	cart := domain.NewCart("session-abc1")
	cart.AddItem(&domain.Product{ID: "p1", Name: "Rice", Price: 150, Status: domain.ProductAvailable})
	order, err := domain.NewOrder("session-abc1", domain.CustomerInfo{
		Name:    "Asha Rao",
		Phone:   "9876543210",
		Address: "12 MG Road",
	}, cart, &domain.UserLocation{Lat: 12.99, Lng: 77.61}, calc)
	require.NoError(t, err)
	require.NoError(t, order.MarkDelivered())
	order.ClearDomainEvents()

	orders := &fakeOrderRepo{
		findByIDFn: func(ctx context.Context, id string) (*domain.Order, error) {
			return order, nil
		},
	}
	router := testRouter(t, &fakeSessionStore{}, &fakeProductRepo{}, orders)

	recorder := doJSON(t, router, http.MethodPut, "/api/v1/orders/"+order.ID+"/cancel", nil)

	assert.Equal(t, http.StatusConflict, recorder.Code)
}
