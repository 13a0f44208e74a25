package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zypso/storefront-service/internal/application"
	"github.com/zypso/storefront-service/pkg/errors"
	"github.com/zypso/storefront-service/pkg/logging"
	"github.com/zypso/storefront-service/pkg/middleware"
)

type sessionURI struct {
	SessionID string `uri:"sessionId" binding:"required,session_id"`
}

type cartItemURI struct {
	SessionID string `uri:"sessionId" binding:"required,session_id"`
	ProductID string `uri:"productId" binding:"required"`
}

// CartHandler handles HTTP requests for session carts, locations and quotes
type CartHandler struct {
	service *application.CartService
	logger  *logging.Logger
	metrics *middleware.BusinessMetrics
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(service *application.CartService, logger *logging.Logger, metrics *middleware.BusinessMetrics) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// GetCart handles GET /api/v1/sessions/:sessionId/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var uri sessionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		responder.RespondWithAppError(errors.ErrValidation("invalid session id"))
		return
	}

	result, err := h.service.GetCart(c.Request.Context(), uri.SessionID)
	if err != nil {
		responder.RespondWithAppError(errors.MapDomainError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// AddItem handles POST /api/v1/sessions/:sessionId/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var uri sessionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		responder.RespondWithAppError(errors.ErrValidation("invalid session id"))
		return
	}

	var cmd application.AddItemCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"session.id": uri.SessionID,
		"product.id": cmd.ProductID,
	})

	result, err := h.service.AddItem(c.Request.Context(), uri.SessionID, cmd)
	if err != nil {
		responder.RespondWithAppError(errors.MapDomainError(err))
		return
	}

	h.metrics.RecordCartMutation("add")
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// UpdateQuantity handles PUT /api/v1/sessions/:sessionId/cart/items/:productId
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var uri cartItemURI
	if err := c.ShouldBindUri(&uri); err != nil {
		responder.RespondWithAppError(errors.ErrValidation("invalid session or product id"))
		return
	}

	var cmd application.UpdateQuantityCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.UpdateQuantity(c.Request.Context(), uri.SessionID, uri.ProductID, cmd)
	if err != nil {
		responder.RespondWithAppError(errors.MapDomainError(err))
		return
	}

	h.metrics.RecordCartMutation("update")
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ClearCart handles DELETE /api/v1/sessions/:sessionId/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var uri sessionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		responder.RespondWithAppError(errors.ErrValidation("invalid session id"))
		return
	}

	if err := h.service.ClearCart(c.Request.Context(), uri.SessionID); err != nil {
		responder.RespondWithAppError(errors.MapDomainError(err))
		return
	}

	h.metrics.RecordCartMutation("clear")
	c.Status(http.StatusNoContent)
}

// GetLocation handles GET /api/v1/sessions/:sessionId/location
func (h *CartHandler) GetLocation(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var uri sessionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		responder.RespondWithAppError(errors.ErrValidation("invalid session id"))
		return
	}

	result, err := h.service.GetLocation(c.Request.Context(), uri.SessionID)
	if err != nil {
		responder.RespondWithAppError(errors.MapDomainError(err))
		return
	}
	if result == nil {
		responder.RespondNotFound("location")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// SetLocation handles PUT /api/v1/sessions/:sessionId/location
func (h *CartHandler) SetLocation(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var uri sessionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		responder.RespondWithAppError(errors.ErrValidation("invalid session id"))
		return
	}

	var cmd application.SetLocationCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	result, err := h.service.SetLocation(c.Request.Context(), uri.SessionID, cmd)
	if err != nil {
		responder.RespondWithAppError(errors.MapDomainError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// GetQuote handles GET /api/v1/sessions/:sessionId/quote
func (h *CartHandler) GetQuote(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var uri sessionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		responder.RespondWithAppError(errors.ErrValidation("invalid session id"))
		return
	}

	result, err := h.service.GetQuote(c.Request.Context(), uri.SessionID)
	if err != nil {
		responder.RespondWithAppError(errors.MapDomainError(err))
		return
	}

	h.metrics.RecordDeliveryQuote()
	c.JSON(http.StatusOK, gin.H{"data": result})
}
