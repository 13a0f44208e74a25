package application

import (
	"context"
	"fmt"

	"github.com/zypso/storefront-service/internal/domain"
	"github.com/zypso/storefront-service/pkg/logging"
)

// CatalogService serves the read side of the product catalog and shop
// settings. The catalog is written only by the feed consumers.
type CatalogService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	settings   *domain.SettingsStore
	logger     *logging.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	settings *domain.SettingsStore,
	logger *logging.Logger,
) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		settings:   settings,
		logger:     logger,
	}
}

// ListProducts returns catalog products matching the query, featured
// products first.
func (s *CatalogService) ListProducts(ctx context.Context, query ListProductsQuery) ([]ProductDTO, error) {
	products, err := s.products.Find(ctx, domain.ProductFilter{
		Category: query.Category,
		Search:   query.Search,
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, product := range products {
		dtos = append(dtos, ToProductDTO(product))
	}

	return dtos, nil
}

// GetProduct returns a single product by id
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*ProductDTO, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to load product", "productId", id)
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	dto := ToProductDTO(product)
	return &dto, nil
}

// ListCategories returns all catalog categories in rank order
func (s *CatalogService) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	dtos := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		dtos = append(dtos, ToCategoryDTO(category))
	}

	return dtos, nil
}

// GetSettings returns the current shop settings
func (s *CatalogService) GetSettings(ctx context.Context) SettingsDTO {
	return ToSettingsDTO(s.settings.Current())
}
