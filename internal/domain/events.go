package domain

import "time"

// DomainEvent is the base interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// OrderPlacedEvent is emitted when a new order is placed
type OrderPlacedEvent struct {
	OrderID       string    `json:"orderId"`
	SessionID     string    `json:"sessionId"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	ItemsTotal    float64   `json:"itemsTotal"`
	DeliveryFee   float64   `json:"deliveryFee"`
	GrandTotal    float64   `json:"grandTotal"`
	PlacedAt      time.Time `json:"placedAt"`
}

func (e *OrderPlacedEvent) EventType() string     { return "shop.order.placed" }
func (e *OrderPlacedEvent) OccurredAt() time.Time { return e.PlacedAt }

// OrderCancelledEvent is emitted when a pending order is cancelled
type OrderCancelledEvent struct {
	OrderID     string    `json:"orderId"`
	CancelledAt time.Time `json:"cancelledAt"`
}

func (e *OrderCancelledEvent) EventType() string     { return "shop.order.cancelled" }
func (e *OrderCancelledEvent) OccurredAt() time.Time { return e.CancelledAt }

// OrderDeliveredEvent is emitted when an order is marked delivered
type OrderDeliveredEvent struct {
	OrderID     string    `json:"orderId"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

func (e *OrderDeliveredEvent) EventType() string     { return "shop.order.delivered" }
func (e *OrderDeliveredEvent) OccurredAt() time.Time { return e.DeliveredAt }

// OrderReturnRequestedEvent is emitted when a return is requested for a
// delivered order
type OrderReturnRequestedEvent struct {
	OrderID     string    `json:"orderId"`
	RequestedAt time.Time `json:"requestedAt"`
}

func (e *OrderReturnRequestedEvent) EventType() string     { return "shop.order.return-requested" }
func (e *OrderReturnRequestedEvent) OccurredAt() time.Time { return e.RequestedAt }
