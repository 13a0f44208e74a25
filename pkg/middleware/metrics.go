package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zypso/storefront-service/pkg/metrics"
)

// MetricsMiddleware creates middleware that records HTTP metrics
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip metrics endpoint to avoid recursion
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		m.IncrementHTTPRequestsInFlight()
		defer m.DecrementHTTPRequestsInFlight()

		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		method := c.Request.Method
		path := c.FullPath() // route pattern, not raw path

		if path == "" {
			path = c.Request.URL.Path
		}

		m.RecordHTTPRequest(method, path, status, duration)
	}
}

// MetricsEndpoint returns a handler for the /metrics endpoint
func MetricsEndpoint(m *metrics.Metrics) gin.HandlerFunc {
	handler := m.Handler()
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

// BusinessMetrics provides helpers for recording storefront business metrics
type BusinessMetrics struct {
	metrics *metrics.Metrics
}

// NewBusinessMetrics creates a new BusinessMetrics helper
func NewBusinessMetrics(m *metrics.Metrics) *BusinessMetrics {
	return &BusinessMetrics{metrics: m}
}

// RecordOrderPlaced records an order placement event
func (b *BusinessMetrics) RecordOrderPlaced(freeDelivery bool) {
	b.metrics.RecordOrderPlaced(freeDelivery)
}

// RecordOrderTransition records an order status transition event
func (b *BusinessMetrics) RecordOrderTransition(toStatus string) {
	b.metrics.RecordOrderTransition(toStatus)
}

// RecordCartMutation records a cart mutation event
func (b *BusinessMetrics) RecordCartMutation(mutation string) {
	b.metrics.RecordCartMutation(mutation)
}

// RecordDeliveryQuote records a delivery quote event
func (b *BusinessMetrics) RecordDeliveryQuote() {
	b.metrics.RecordDeliveryQuote()
}

// RecordCheckoutRejected records a rejected checkout attempt
func (b *BusinessMetrics) RecordCheckoutRejected(reason string) {
	b.metrics.RecordCheckoutRejected(reason)
}
