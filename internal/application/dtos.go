package application

import (
	"time"

	"github.com/zypso/storefront-service/internal/domain"
)

// AddItemCommand represents command to add a product to a cart
type AddItemCommand struct {
	ProductID string `json:"productId" binding:"required"`
}

// UpdateQuantityCommand represents command to adjust a cart line quantity
type UpdateQuantityCommand struct {
	Delta int `json:"delta" binding:"required"`
}

// SetLocationCommand represents command to set a session's delivery
// location, either by coordinates or by free-text address
type SetLocationCommand struct {
	Lat     *float64 `json:"lat" binding:"omitempty,latitude"`
	Lng     *float64 `json:"lng" binding:"omitempty,longitude"`
	Address string   `json:"address" binding:"omitempty,max=300"`
}

// PlaceOrderCommand represents command to check out a session's cart
type PlaceOrderCommand struct {
	Name                string `json:"name" binding:"required,max=100"`
	Phone               string `json:"phone" binding:"required,max=20"`
	Address             string `json:"address" binding:"required,max=300"`
	SpecialInstructions string `json:"specialInstructions" binding:"omitempty,max=500"`
}

// ListProductsQuery represents query to browse the catalog
type ListProductsQuery struct {
	Category string
	Search   string
}

// CartLineDTO represents a cart line
type CartLineDTO struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit,omitempty"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

// CartDTO represents a session's cart
type CartDTO struct {
	SessionID  string        `json:"sessionId"`
	Lines      []CartLineDTO `json:"lines"`
	TotalItems int           `json:"totalItems"`
	ItemsTotal float64       `json:"itemsTotal"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// LocationDTO represents a session's delivery location
type LocationDTO struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// QuoteDTO represents a delivery quote for a session's current cart and
// location. DistanceKm and location-derived fields are nil/default when no
// location is set.
type QuoteDTO struct {
	DistanceKm     *float64               `json:"distanceKm,omitempty"`
	EtaMinutes     int                    `json:"etaMinutes"`
	Totals         domain.TotalsBreakdown `json:"totals"`
	MeetsMinimum   bool                   `json:"meetsMinimum"`
	MinOrderAmount float64                `json:"minOrderAmount"`
	FreeDelivery   bool                   `json:"freeDelivery"`
}

// ProductDTO represents a catalog product
type ProductDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit,omitempty"`
	Status      string  `json:"status"`
	Featured    bool    `json:"featured"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// CategoryDTO represents a catalog category
type CategoryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// SettingsDTO represents the public view of the shop settings
type SettingsDTO struct {
	ShopName          string  `json:"shopName"`
	BaseDeliveryFee   float64 `json:"baseDeliveryFee"`
	PerKmFee          float64 `json:"perKmFee"`
	FreeDeliveryAbove float64 `json:"freeDeliveryAbove"`
	MinOrderAmount    float64 `json:"minOrderAmount"`
	IsClosed          bool    `json:"isClosed"`
	NextOpenTime      string  `json:"nextOpenTime,omitempty"`
	SupportNumber     string  `json:"supportNumber,omitempty"`
}

// OrderDTO represents an order
type OrderDTO struct {
	ID                string                 `json:"id"`
	SessionID         string                 `json:"sessionId"`
	Customer          domain.CustomerInfo    `json:"customer"`
	Location          LocationDTO            `json:"location"`
	Lines             []CartLineDTO          `json:"lines"`
	Totals            domain.TotalsBreakdown `json:"totals"`
	DistanceKm        *float64               `json:"distanceKm,omitempty"`
	EtaMinutes        int                    `json:"etaMinutes"`
	Status            string                 `json:"status"`
	PlacedAt          time.Time              `json:"placedAt"`
	CancelledAt       *time.Time             `json:"cancelledAt,omitempty"`
	DeliveredAt       *time.Time             `json:"deliveredAt,omitempty"`
	ReturnRequestedAt *time.Time             `json:"returnRequestedAt,omitempty"`
}

// ToCartLineDTO converts a domain cart line to its DTO
func ToCartLineDTO(line domain.CartLine) CartLineDTO {
	return CartLineDTO{
		ProductID: line.ProductID,
		Name:      line.Name,
		Price:     line.Price,
		Unit:      line.Unit,
		ImageURL:  line.ImageURL,
		Quantity:  line.Quantity,
		LineTotal: line.Price * float64(line.Quantity),
	}
}

// ToCartDTO converts a domain cart to its DTO
func ToCartDTO(cart *domain.Cart) *CartDTO {
	lines := make([]CartLineDTO, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lines = append(lines, ToCartLineDTO(line))
	}

	return &CartDTO{
		SessionID:  cart.SessionID,
		Lines:      lines,
		TotalItems: cart.TotalItemCount(),
		ItemsTotal: cart.ItemsTotal(),
		UpdatedAt:  cart.UpdatedAt,
	}
}

// ToLocationDTO converts a domain location to its DTO
func ToLocationDTO(loc *domain.UserLocation) *LocationDTO {
	if loc == nil {
		return nil
	}
	return &LocationDTO{
		Lat:     loc.Lat,
		Lng:     loc.Lng,
		Address: loc.Address,
	}
}

// ToProductDTO converts a domain product to its DTO
func ToProductDTO(product *domain.Product) ProductDTO {
	return ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Price:       product.Price,
		Unit:        product.Unit,
		Status:      string(product.Status),
		Featured:    product.Featured,
		ImageURL:    product.ImageURL,
	}
}

// ToCategoryDTO converts a domain category to its DTO
func ToCategoryDTO(category *domain.Category) CategoryDTO {
	return CategoryDTO{
		ID:   category.ID,
		Name: category.Name,
		Icon: category.Icon,
	}
}

// ToSettingsDTO converts shop settings to their public DTO
func ToSettingsDTO(settings domain.ShopSettings) SettingsDTO {
	return SettingsDTO{
		ShopName:          settings.ShopName,
		BaseDeliveryFee:   settings.BaseDeliveryFee,
		PerKmFee:          settings.PerKmFee,
		FreeDeliveryAbove: settings.FreeDeliveryAbove,
		MinOrderAmount:    settings.MinOrderAmount,
		IsClosed:          settings.IsClosed,
		NextOpenTime:      settings.NextOpenTime,
		SupportNumber:     settings.SupportNumber,
	}
}

// ToOrderDTO converts a domain order to its DTO
func ToOrderDTO(order *domain.Order) *OrderDTO {
	lines := make([]CartLineDTO, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, ToCartLineDTO(line))
	}

	return &OrderDTO{
		ID:                order.ID,
		SessionID:         order.SessionID,
		Customer:          order.Customer,
		Location:          LocationDTO{Lat: order.Location.Lat, Lng: order.Location.Lng, Address: order.Location.Address},
		Lines:             lines,
		Totals:            order.Totals,
		DistanceKm:        order.DistanceKm,
		EtaMinutes:        order.EtaMinutes,
		Status:            string(order.Status),
		PlacedAt:          order.PlacedAt,
		CancelledAt:       order.CancelledAt,
		DeliveredAt:       order.DeliveredAt,
		ReturnRequestedAt: order.ReturnRequestedAt,
	}
}
