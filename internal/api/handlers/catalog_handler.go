package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zypso/storefront-service/internal/application"
	"github.com/zypso/storefront-service/pkg/errors"
	"github.com/zypso/storefront-service/pkg/logging"
	"github.com/zypso/storefront-service/pkg/middleware"
)

// CatalogHandler handles HTTP requests for the product catalog and shop
// settings
type CatalogHandler struct {
	service *application.CatalogService
	logger  *logging.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(service *application.CatalogService, logger *logging.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	query := application.ListProductsQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"catalog.category": query.Category,
	})

	result, err := h.service.ListProducts(c.Request.Context(), query)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// GetProduct handles GET /api/v1/products/:productId
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	productID := c.Param("productId")

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"product.id": productID,
	})

	result, err := h.service.GetProduct(c.Request.Context(), productID)
	if err != nil {
		responder.RespondWithAppError(errors.MapDomainError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// GetSettings handles GET /api/v1/settings
func (h *CatalogHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.service.GetSettings(c.Request.Context())})
}
