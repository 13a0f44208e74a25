package cloudevents

import (
	"time"
)

// EventType constants for storefront domain events
const (
	// Order events
	OrderPlaced          = "shop.order.placed"
	OrderCancelled       = "shop.order.cancelled"
	OrderDelivered       = "shop.order.delivered"
	OrderReturnRequested = "shop.order.return-requested"

	// Catalog feed events
	ProductUpserted = "shop.catalog.product-upserted"
	ProductRemoved  = "shop.catalog.product-removed"

	// Config feed events
	SettingsUpdated = "shop.config.settings-updated"
)

// Source constants for event sources
const (
	SourceStorefront = "/shop/storefront-service"
	SourceAdmin      = "/shop/admin-service"
)

// ShopCloudEvent represents a CloudEvents v1.0 compliant event for the storefront
type ShopCloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data"`

	// Storefront extensions
	CorrelationID string `json:"shopcorrelationid,omitempty"`
	SessionID     string `json:"shopsessionid,omitempty"`
	OrderID       string `json:"shoporderid,omitempty"`

	// W3C Trace Context
	TraceParent string `json:"traceparent,omitempty"`
	TraceState  string `json:"tracestate,omitempty"`
}

// OrderPlacedData represents the data payload for OrderPlaced events
type OrderPlacedData struct {
	OrderID       string      `json:"orderId"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	Lines         []OrderLine `json:"lines"`
	ItemsTotal    float64     `json:"itemsTotal"`
	DeliveryFee   float64     `json:"deliveryFee"`
	GrandTotal    float64     `json:"grandTotal"`
	PlacedAt      time.Time   `json:"placedAt"`
}

// OrderLine represents an item line in an order event
type OrderLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderStatusData represents the data payload for order status transition events
type OrderStatusData struct {
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changedAt"`
}

// ProductUpsertedData represents the data payload for catalog feed events
type ProductUpsertedData struct {
	ProductID   string  `json:"productId"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit,omitempty"`
	Status      string  `json:"status"`
	Featured    bool    `json:"featured"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// SettingsUpdatedData represents the data payload for config feed events.
// The whole settings document is carried so consumers can replace state wholesale.
type SettingsUpdatedData struct {
	ShopName          string   `json:"shopName"`
	ShopLat           float64  `json:"shopLat"`
	ShopLng           float64  `json:"shopLng"`
	BaseDeliveryFee   float64  `json:"baseDeliveryFee"`
	PerKmFee          float64  `json:"perKmFee"`
	FreeDeliveryAbove float64  `json:"freeDeliveryAbove"`
	MinOrderAmount    float64  `json:"minOrderAmount"`
	IsClosed          bool     `json:"isClosed"`
	NextOpenTime      string   `json:"nextOpenTime,omitempty"`
	SupportNumber     string   `json:"supportNumber,omitempty"`
	UpdatedAt         *float64 `json:"updatedAt,omitempty"`
}
