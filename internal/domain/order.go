package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Domain errors
var (
	ErrCustomerInfoRequired = errors.New("name, phone and address are required")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPhone         = errors.New("invalid phone number")
	ErrLocationRequired     = errors.New("delivery location is required")
	ErrShopClosed           = errors.New("shop is currently closed")
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderNotCancellable  = errors.New("only pending orders can be cancelled")
	ErrOrderNotReturnable   = errors.New("only delivered orders can be returned")
	ErrOrderNotDeliverable  = errors.New("only pending orders can be delivered")
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "pending"
	OrderStatusCancelled     OrderStatus = "cancelled"
	OrderStatusDelivered     OrderStatus = "delivered"
	OrderStatusReturnPending OrderStatus = "return_pending"
)

// CustomerInfo is the checkout contact and delivery information
type CustomerInfo struct {
	Name                string `bson:"name" json:"name"`
	Phone               string `bson:"phone" json:"phone"`
	Address             string `bson:"address" json:"address"`
	SpecialInstructions string `bson:"specialInstructions,omitempty" json:"specialInstructions,omitempty"`
}

// Order is an immutable snapshot of a checked-out cart with its totals.
// Once placed, only the status and its timestamps change.
type Order struct {
	ID                string          `bson:"_id" json:"id"`
	SessionID         string          `bson:"sessionId" json:"sessionId"`
	Customer          CustomerInfo    `bson:"customer" json:"customer"`
	Location          UserLocation    `bson:"location" json:"location"`
	Lines             []CartLine      `bson:"lines" json:"lines"`
	Totals            TotalsBreakdown `bson:"totals" json:"totals"`
	DistanceKm        *float64        `bson:"distanceKm,omitempty" json:"distanceKm,omitempty"`
	EtaMinutes        int             `bson:"etaMinutes" json:"etaMinutes"`
	Status            OrderStatus     `bson:"status" json:"status"`
	PlacedAt          time.Time       `bson:"placedAt" json:"placedAt"`
	CancelledAt       *time.Time      `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	DeliveredAt       *time.Time      `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	ReturnRequestedAt *time.Time      `bson:"returnRequestedAt,omitempty" json:"returnRequestedAt,omitempty"`

	domainEvents []DomainEvent `bson:"-" json:"-"`
}

// NewOrder validates checkout input and assembles an order snapshot.
// Validation short-circuits in a fixed sequence: customer info first, then
// cart contents, then phone length, then location.
func NewOrder(sessionID string, info CustomerInfo, cart *Cart, location *UserLocation, calc *PricingCalculator) (*Order, error) {
	name := strings.TrimSpace(info.Name)
	phone := strings.TrimSpace(info.Phone)
	address := strings.TrimSpace(info.Address)

	if name == "" || phone == "" || address == "" {
		return nil, ErrCustomerInfoRequired
	}
	if cart == nil || cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if len(phone) < 10 {
		return nil, ErrInvalidPhone
	}
	if location == nil {
		return nil, ErrLocationRequired
	}

	distance := calc.DistanceFromShop(*location)
	totals := calc.OrderTotals(cart.Lines, distance)

	lines := make([]CartLine, len(cart.Lines))
	copy(lines, cart.Lines)

	order := &Order{
		ID:        fmt.Sprintf("ORD-%s", uuid.New().String()[:8]),
		SessionID: sessionID,
		Customer: CustomerInfo{
			Name:                name,
			Phone:               phone,
			Address:             address,
			SpecialInstructions: strings.TrimSpace(info.SpecialInstructions),
		},
		Location:     *location,
		Lines:        lines,
		Totals:       totals,
		DistanceKm:   distance,
		EtaMinutes:   calc.ETA(distance),
		Status:       OrderStatusPending,
		PlacedAt:     time.Now().UTC(),
		domainEvents: make([]DomainEvent, 0),
	}

	order.addDomainEvent(&OrderPlacedEvent{
		OrderID:       order.ID,
		SessionID:     sessionID,
		CustomerName:  name,
		CustomerPhone: phone,
		ItemsTotal:    totals.ItemsTotal,
		DeliveryFee:   totals.DeliveryCharge,
		GrandTotal:    totals.GrandTotal,
		PlacedAt:      order.PlacedAt,
	})

	return order, nil
}

// Cancel transitions a pending order to cancelled
func (o *Order) Cancel() error {
	if o.Status != OrderStatusPending {
		return ErrOrderNotCancellable
	}

	now := time.Now().UTC()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now

	o.addDomainEvent(&OrderCancelledEvent{
		OrderID:     o.ID,
		CancelledAt: now,
	})

	return nil
}

// MarkDelivered transitions a pending order to delivered
func (o *Order) MarkDelivered() error {
	if o.Status != OrderStatusPending {
		return ErrOrderNotDeliverable
	}

	now := time.Now().UTC()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now

	o.addDomainEvent(&OrderDeliveredEvent{
		OrderID:     o.ID,
		DeliveredAt: now,
	})

	return nil
}

// RequestReturn transitions a delivered order to return_pending
func (o *Order) RequestReturn() error {
	if o.Status != OrderStatusDelivered {
		return ErrOrderNotReturnable
	}

	now := time.Now().UTC()
	o.Status = OrderStatusReturnPending
	o.ReturnRequestedAt = &now

	o.addDomainEvent(&OrderReturnRequestedEvent{
		OrderID:     o.ID,
		RequestedAt: now,
	})

	return nil
}

func (o *Order) addDomainEvent(event DomainEvent) {
	o.domainEvents = append(o.domainEvents, event)
}

// DomainEvents returns all pending domain events
func (o *Order) DomainEvents() []DomainEvent {
	return o.domainEvents
}

// ClearDomainEvents clears all pending domain events
func (o *Order) ClearDomainEvents() {
	o.domainEvents = make([]DomainEvent, 0)
}
