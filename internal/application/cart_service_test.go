package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zypso/storefront-service/internal/domain"
	apperrors "github.com/zypso/storefront-service/pkg/errors"
)

func newCartService(sessions *fakeSessionStore, products *fakeProductRepo, geocoder *fakeGeocoder) *CartService {
	return NewCartService(sessions, products, domain.NewSettingsStore(checkoutTestSettings()), geocoder, testLogger())
}

func availableTestProduct(id string, price float64) *domain.Product {
	return &domain.Product{ID: id, Name: "Product " + id, Price: price, Status: domain.ProductAvailable}
}

func TestGetCartReturnsEmptyCartForNewSession(t *testing.T) {
	service := newCartService(&fakeSessionStore{}, &fakeProductRepo{}, &fakeGeocoder{})

	cart, err := service.GetCart(context.Background(), "session-1")

	require.NoError(t, err)
	assert.Equal(t, "session-1", cart.SessionID)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, 0, cart.TotalItems)
}

func TestAddItemSavesCart(t *testing.T) {
	var saved *domain.Cart
	sessions := &fakeSessionStore{
		saveCartFn: func(ctx context.Context, cart *domain.Cart) error {
			saved = cart
			return nil
		},
	}
	products := &fakeProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*domain.Product, error) {
			return availableTestProduct(id, 42.5), nil
		},
	}
	service := newCartService(sessions, products, &fakeGeocoder{})

	cart, err := service.AddItem(context.Background(), "session-1", AddItemCommand{ProductID: "p1"})

	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 42.5, cart.Lines[0].Price)
	assert.Equal(t, 42.5, cart.ItemsTotal)
}

func TestAddItemUnknownProduct(t *testing.T) {
	service := newCartService(&fakeSessionStore{}, &fakeProductRepo{}, &fakeGeocoder{})

	_, err := service.AddItem(context.Background(), "session-1", AddItemCommand{ProductID: "missing"})

	appErr := apperrors.MapDomainError(err)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestAddItemUnavailableProductIsConflict(t *testing.T) {
	products := &fakeProductRepo{
		findByIDFn: func(ctx context.Context, id string) (*domain.Product, error) {
			product := availableTestProduct(id, 10)
			product.Status = domain.ProductOutOfStock
			return product, nil
		},
	}
	service := newCartService(&fakeSessionStore{}, products, &fakeGeocoder{})

	_, err := service.AddItem(context.Background(), "session-1", AddItemCommand{ProductID: "p1"})

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestUpdateQuantityUnknownProductIsNoOp(t *testing.T) {
	saves := 0
	sessions := &fakeSessionStore{
		loadCartFn: func(ctx context.Context, sessionID string) (*domain.Cart, error) {
			cart := domain.NewCart(sessionID)
			cart.AddItem(availableTestProduct("p1", 10))
			return cart, nil
		},
		saveCartFn: func(ctx context.Context, cart *domain.Cart) error {
			saves++
			return nil
		},
	}
	service := newCartService(sessions, &fakeProductRepo{}, &fakeGeocoder{})

	cart, err := service.UpdateQuantity(context.Background(), "session-1", "missing", UpdateQuantityCommand{Delta: 2})

	require.NoError(t, err)
	assert.Equal(t, 0, saves)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
}

func TestUpdateQuantityRemovesLineAtZero(t *testing.T) {
	sessions := &fakeSessionStore{
		loadCartFn: func(ctx context.Context, sessionID string) (*domain.Cart, error) {
			cart := domain.NewCart(sessionID)
			cart.AddItem(availableTestProduct("p1", 10))
			return cart, nil
		},
	}
	service := newCartService(sessions, &fakeProductRepo{}, &fakeGeocoder{})

	cart, err := service.UpdateQuantity(context.Background(), "session-1", "p1", UpdateQuantityCommand{Delta: -1})

	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestSetLocationReverseGeocodesCoordinates(t *testing.T) {
	var saved *domain.UserLocation
	sessions := &fakeSessionStore{
		saveLocationFn: func(ctx context.Context, sessionID string, location *domain.UserLocation) error {
			saved = location
			return nil
		},
	}
	geocoder := &fakeGeocoder{
		reverseFn: func(ctx context.Context, lat, lng float64) (string, error) {
			return "12 MG Road, Bengaluru", nil
		},
	}
	service := newCartService(sessions, &fakeProductRepo{}, geocoder)

	lat, lng := 12.99, 77.61
	location, err := service.SetLocation(context.Background(), "session-1", SetLocationCommand{Lat: &lat, Lng: &lng})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "12 MG Road, Bengaluru", location.Address)
}

func TestSetLocationDegradesWhenReverseGeocodeFails(t *testing.T) {
	sessions := &fakeSessionStore{}
	geocoder := &fakeGeocoder{
		reverseFn: func(ctx context.Context, lat, lng float64) (string, error) {
			return "", errors.New("nominatim timeout")
		},
	}
	service := newCartService(sessions, &fakeProductRepo{}, geocoder)

	lat, lng := 12.99, 77.61
	location, err := service.SetLocation(context.Background(), "session-1", SetLocationCommand{Lat: &lat, Lng: &lng})

	require.NoError(t, err)
	assert.Equal(t, 12.99, location.Lat)
	assert.Empty(t, location.Address)
}

func TestSetLocationByAddress(t *testing.T) {
	geocoder := &fakeGeocoder{
		forwardFn: func(ctx context.Context, address string) (*domain.UserLocation, error) {
			return &domain.UserLocation{Lat: 12.95, Lng: 77.6, Address: address}, nil
		},
	}
	service := newCartService(&fakeSessionStore{}, &fakeProductRepo{}, geocoder)

	location, err := service.SetLocation(context.Background(), "session-1", SetLocationCommand{Address: "Jayanagar 4th Block"})

	require.NoError(t, err)
	assert.Equal(t, 12.95, location.Lat)
	assert.Equal(t, "Jayanagar 4th Block", location.Address)
}

func TestSetLocationRequiresCoordinatesOrAddress(t *testing.T) {
	service := newCartService(&fakeSessionStore{}, &fakeProductRepo{}, &fakeGeocoder{})

	_, err := service.SetLocation(context.Background(), "session-1", SetLocationCommand{})

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationError, appErr.Code)
}

func TestGetQuoteWithoutLocationUsesDefaults(t *testing.T) {
	sessions := &fakeSessionStore{
		loadCartFn: func(ctx context.Context, sessionID string) (*domain.Cart, error) {
			cart := domain.NewCart(sessionID)
			cart.AddItem(availableTestProduct("p1", 50))
			return cart, nil
		},
	}
	service := newCartService(sessions, &fakeProductRepo{}, &fakeGeocoder{})

	quote, err := service.GetQuote(context.Background(), "session-1")

	require.NoError(t, err)
	assert.Nil(t, quote.DistanceKm)
	assert.Equal(t, domain.DefaultETAMinutes, quote.EtaMinutes)
	assert.Equal(t, 20.0, quote.Totals.DeliveryCharge)
	assert.False(t, quote.MeetsMinimum)
}

func TestGetQuoteUnconfiguredShopCoordinatesUseBasePricing(t *testing.T) {
	sessions := &fakeSessionStore{
		loadCartFn: func(ctx context.Context, sessionID string) (*domain.Cart, error) {
			cart := domain.NewCart(sessionID)
			cart.AddItem(availableTestProduct("p1", 50))
			return cart, nil
		},
		loadLocationFn: func(ctx context.Context, sessionID string) (*domain.UserLocation, error) {
			return &domain.UserLocation{Lat: 12.99, Lng: 77.61}, nil
		},
	}
	service := NewCartService(sessions, &fakeProductRepo{}, domain.NewSettingsStore(domain.DefaultShopSettings()), &fakeGeocoder{}, testLogger())

	quote, err := service.GetQuote(context.Background(), "session-1")

	require.NoError(t, err)
	assert.Nil(t, quote.DistanceKm)
	assert.Equal(t, domain.DefaultETAMinutes, quote.EtaMinutes)
	assert.Equal(t, 20.0, quote.Totals.DeliveryCharge)
}

func TestGetQuoteWithLocationPricesDistance(t *testing.T) {
	sessions := &fakeSessionStore{
		loadCartFn: func(ctx context.Context, sessionID string) (*domain.Cart, error) {
			cart := domain.NewCart(sessionID)
			cart.AddItem(availableTestProduct("p1", 150))
			return cart, nil
		},
		loadLocationFn: func(ctx context.Context, sessionID string) (*domain.UserLocation, error) {
			return &domain.UserLocation{Lat: 12.99, Lng: 77.61}, nil
		},
	}
	service := newCartService(sessions, &fakeProductRepo{}, &fakeGeocoder{})

	quote, err := service.GetQuote(context.Background(), "session-1")

	require.NoError(t, err)
	require.NotNil(t, quote.DistanceKm)
	assert.Greater(t, *quote.DistanceKm, 0.0)
	assert.Greater(t, quote.Totals.DeliveryCharge, 0.0)
	assert.True(t, quote.MeetsMinimum)
}

func TestGetQuoteFreeDeliveryFlag(t *testing.T) {
	sessions := &fakeSessionStore{
		loadCartFn: func(ctx context.Context, sessionID string) (*domain.Cart, error) {
			cart := domain.NewCart(sessionID)
			cart.AddItem(availableTestProduct("p1", 600))
			return cart, nil
		},
		loadLocationFn: func(ctx context.Context, sessionID string) (*domain.UserLocation, error) {
			return &domain.UserLocation{Lat: 12.99, Lng: 77.61}, nil
		},
	}
	service := newCartService(sessions, &fakeProductRepo{}, &fakeGeocoder{})

	quote, err := service.GetQuote(context.Background(), "session-1")

	require.NoError(t, err)
	assert.Equal(t, 0.0, quote.Totals.DeliveryCharge)
	assert.True(t, quote.FreeDelivery)
}
