package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zypso/storefront-service/internal/application"
	"github.com/zypso/storefront-service/pkg/errors"
	"github.com/zypso/storefront-service/pkg/logging"
	"github.com/zypso/storefront-service/pkg/middleware"
)

type orderURI struct {
	OrderID string `uri:"orderId" binding:"required,order_id"`
}

type phoneURI struct {
	Phone string `uri:"phone" binding:"required,phone"`
}

// OrderHandler handles HTTP requests for checkout and the order lifecycle
type OrderHandler struct {
	service *application.CheckoutService
	logger  *logging.Logger
	metrics *middleware.BusinessMetrics
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service *application.CheckoutService, logger *logging.Logger, metrics *middleware.BusinessMetrics) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// PlaceOrder handles POST /api/v1/sessions/:sessionId/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var uri sessionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		responder.RespondWithAppError(errors.ErrValidation("invalid session id"))
		return
	}

	var cmd application.PlaceOrderCommand
	if appErr := middleware.BindAndValidate(c, &cmd); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"session.id": uri.SessionID,
	})

	result, err := h.service.PlaceOrder(c.Request.Context(), uri.SessionID, cmd)
	if err != nil {
		appErr := errors.MapDomainError(err)
		h.metrics.RecordCheckoutRejected(appErr.Code)
		responder.RespondWithAppError(appErr)
		return
	}

	h.metrics.RecordOrderPlaced(result.Totals.DeliveryCharge == 0)
	c.JSON(http.StatusCreated, gin.H{"data": result})
}

// GetOrder handles GET /api/v1/orders/:orderId
func (h *OrderHandler) GetOrder(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var uri orderURI
	if err := c.ShouldBindUri(&uri); err != nil {
		responder.RespondWithAppError(errors.ErrValidation("invalid order id"))
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"order.id": uri.OrderID,
	})

	result, err := h.service.GetOrder(c.Request.Context(), uri.OrderID)
	if err != nil {
		responder.RespondWithAppError(errors.MapDomainError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ListOrdersByPhone handles GET /api/v1/customers/:phone/orders
func (h *OrderHandler) ListOrdersByPhone(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var uri phoneURI
	if err := c.ShouldBindUri(&uri); err != nil {
		responder.RespondWithAppError(errors.ErrValidation("invalid phone number"))
		return
	}

	result, err := h.service.ListOrdersByPhone(c.Request.Context(), uri.Phone)
	if err != nil {
		responder.RespondWithAppError(errors.MapDomainError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// CancelOrder handles PUT /api/v1/orders/:orderId/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	h.transition(c, h.service.CancelOrder)
}

// RequestReturn handles PUT /api/v1/orders/:orderId/return
func (h *OrderHandler) RequestReturn(c *gin.Context) {
	h.transition(c, h.service.RequestReturn)
}

// MarkDelivered handles PUT /api/v1/orders/:orderId/deliver
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	h.transition(c, h.service.MarkDelivered)
}

func (h *OrderHandler) transition(c *gin.Context, fn func(context.Context, string) (*application.OrderDTO, error)) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var uri orderURI
	if err := c.ShouldBindUri(&uri); err != nil {
		responder.RespondWithAppError(errors.ErrValidation("invalid order id"))
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"order.id": uri.OrderID,
	})

	result, err := fn(c.Request.Context(), uri.OrderID)
	if err != nil {
		responder.RespondWithAppError(errors.MapDomainError(err))
		return
	}

	h.metrics.RecordOrderTransition(result.Status)
	c.JSON(http.StatusOK, gin.H{"data": result})
}
