package domain

import (
	"context"
)

// ProductFilter narrows a catalog query. Zero values mean no filtering.
type ProductFilter struct {
	Category string
	Search   string
}

// ProductRepository persists catalog products
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	Find(ctx context.Context, filter ProductFilter) ([]*Product, error)
	Delete(ctx context.Context, id string) error
}

// CategoryRepository persists catalog categories
type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	FindAll(ctx context.Context) ([]*Category, error)
}

// OrderRepository persists orders
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	FindByPhone(ctx context.Context, phone string) ([]*Order, error)
}

// SettingsRepository persists the shop settings document
type SettingsRepository interface {
	Load(ctx context.Context) (*ShopSettings, error)
	Save(ctx context.Context, settings *ShopSettings) error
}

// SessionStore persists per-session cart and location state. Loads must
// degrade gracefully: a corrupted or missing cart yields an empty cart, a
// corrupted or missing location yields nil.
type SessionStore interface {
	LoadCart(ctx context.Context, sessionID string) (*Cart, error)
	SaveCart(ctx context.Context, cart *Cart) error
	ClearCart(ctx context.Context, sessionID string) error
	LoadLocation(ctx context.Context, sessionID string) (*UserLocation, error)
	SaveLocation(ctx context.Context, sessionID string, location *UserLocation) error
}
