package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zypso/storefront-service/internal/domain"
	apperrors "github.com/zypso/storefront-service/pkg/errors"
)

func newCatalogService(products *fakeProductRepo, categories *fakeCategoryRepo, settings domain.ShopSettings) *CatalogService {
	return NewCatalogService(products, categories, domain.NewSettingsStore(settings), testLogger())
}

func TestListProductsPassesFilter(t *testing.T) {
	var captured domain.ProductFilter
	products := &fakeProductRepo{
		findFn: func(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
			captured = filter
			return []*domain.Product{availableTestProduct("p1", 10)}, nil
		},
	}
	service := newCatalogService(products, &fakeCategoryRepo{}, checkoutTestSettings())

	result, err := service.ListProducts(context.Background(), ListProductsQuery{Category: "dairy", Search: "milk"})

	require.NoError(t, err)
	assert.Equal(t, "dairy", captured.Category)
	assert.Equal(t, "milk", captured.Search)
	require.Len(t, result, 1)
	assert.Equal(t, "p1", result[0].ID)
}

func TestGetProductNotFound(t *testing.T) {
	service := newCatalogService(&fakeProductRepo{}, &fakeCategoryRepo{}, checkoutTestSettings())

	_, err := service.GetProduct(context.Background(), "missing")

	appErr := apperrors.MapDomainError(err)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestListCategories(t *testing.T) {
	categories := &fakeCategoryRepo{
		findAllFn: func(ctx context.Context) ([]*domain.Category, error) {
			return []*domain.Category{
				{ID: "dairy", Name: "Dairy", Icon: "🥛"},
				{ID: "grocery", Name: "Grocery"},
			}, nil
		},
	}
	service := newCatalogService(&fakeProductRepo{}, categories, checkoutTestSettings())

	result, err := service.ListCategories(context.Background())

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Dairy", result[0].Name)
}

func TestGetSettingsReflectsStoreReplacement(t *testing.T) {
	store := domain.NewSettingsStore(checkoutTestSettings())
	service := NewCatalogService(&fakeProductRepo{}, &fakeCategoryRepo{}, store, testLogger())

	next := checkoutTestSettings()
	next.IsClosed = true
	next.BaseDeliveryFee = 30
	store.Replace(next)

	settings := service.GetSettings(context.Background())

	assert.True(t, settings.IsClosed)
	assert.Equal(t, 30.0, settings.BaseDeliveryFee)
}
