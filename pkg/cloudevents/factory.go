package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventFactory creates CloudEvents for storefront domain events
type EventFactory struct {
	source string
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source}
}

// CreateEvent creates a new ShopCloudEvent with the given parameters
func (f *EventFactory) CreateEvent(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
) *ShopCloudEvent {
	return &ShopCloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
	}
}

// CreateEventWithCorrelation creates an event with correlation tracking
func (f *EventFactory) CreateEventWithCorrelation(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
	correlationID string,
	sessionID string,
) *ShopCloudEvent {
	event := f.CreateEvent(ctx, eventType, subject, data)
	event.CorrelationID = correlationID
	event.SessionID = sessionID
	return event
}

// CreateOrderPlacedEvent creates an OrderPlaced event
func (f *EventFactory) CreateOrderPlacedEvent(
	ctx context.Context,
	orderID string,
	customerName string,
	customerPhone string,
	lines []OrderLine,
	itemsTotal float64,
	deliveryFee float64,
	grandTotal float64,
	placedAt time.Time,
) *ShopCloudEvent {
	data := OrderPlacedData{
		OrderID:       orderID,
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		Lines:         lines,
		ItemsTotal:    itemsTotal,
		DeliveryFee:   deliveryFee,
		GrandTotal:    grandTotal,
		PlacedAt:      placedAt,
	}
	event := f.CreateEvent(ctx, OrderPlaced, "order/"+orderID, data)
	event.OrderID = orderID
	return event
}

// CreateOrderStatusEvent creates an order status transition event
func (f *EventFactory) CreateOrderStatusEvent(
	ctx context.Context,
	eventType string,
	orderID string,
	status string,
	changedAt time.Time,
) *ShopCloudEvent {
	data := OrderStatusData{
		OrderID:   orderID,
		Status:    status,
		ChangedAt: changedAt,
	}
	event := f.CreateEvent(ctx, eventType, "order/"+orderID, data)
	event.OrderID = orderID
	return event
}
