package domain

import (
	"sync"
	"time"
)

// ShopSettings holds the delivery-shop configuration that drives pricing
// and checkout availability. It is replaced wholesale on every config feed
// event, last write wins.
type ShopSettings struct {
	ShopName          string    `bson:"shopName" json:"shopName"`
	ShopLat           float64   `bson:"shopLat" json:"shopLat"`
	ShopLng           float64   `bson:"shopLng" json:"shopLng"`
	BaseDeliveryFee   float64   `bson:"baseDeliveryFee" json:"baseDeliveryFee"`
	PerKmFee          float64   `bson:"perKmFee" json:"perKmFee"`
	FreeDeliveryAbove float64   `bson:"freeDeliveryAbove" json:"freeDeliveryAbove"`
	MinOrderAmount    float64   `bson:"minOrderAmount" json:"minOrderAmount"`
	IsClosed          bool      `bson:"isClosed" json:"isClosed"`
	NextOpenTime      string    `bson:"nextOpenTime,omitempty" json:"nextOpenTime,omitempty"`
	SupportNumber     string    `bson:"supportNumber,omitempty" json:"supportNumber,omitempty"`
	UpdatedAt         time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DefaultShopSettings returns the settings used before the first config
// document is seen.
func DefaultShopSettings() ShopSettings {
	return ShopSettings{
		ShopName:          "Zypso Mart",
		BaseDeliveryFee:   20,
		PerKmFee:          10,
		FreeDeliveryAbove: 500,
		MinOrderAmount:    99,
	}
}

// UserLocation is a customer's delivery location. Address may be empty when
// reverse geocoding was unavailable and the location degraded to coordinates.
type UserLocation struct {
	Lat     float64 `bson:"lat" json:"lat"`
	Lng     float64 `bson:"lng" json:"lng"`
	Address string  `bson:"address,omitempty" json:"address,omitempty"`
}

// SettingsStore holds the current shop settings for the process. Reads and
// wholesale replacements are safe for concurrent use.
type SettingsStore struct {
	mu       sync.RWMutex
	settings ShopSettings
}

// NewSettingsStore creates a store seeded with the given settings
func NewSettingsStore(initial ShopSettings) *SettingsStore {
	return &SettingsStore{settings: initial}
}

// Current returns a copy of the current settings
func (s *SettingsStore) Current() ShopSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Replace swaps in a new settings document, last write wins
func (s *SettingsStore) Replace(settings ShopSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}
