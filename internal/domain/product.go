package domain

import (
	"time"
)

// ProductStatus represents the availability of a catalog product
type ProductStatus string

const (
	ProductAvailable   ProductStatus = "Available"
	ProductUnavailable ProductStatus = "Unavailable"
	ProductOutOfStock  ProductStatus = "Out of Stock"
)

// Product represents a catalog product
type Product struct {
	ID          string        `bson:"_id" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Category    string        `bson:"category" json:"category"`
	Price       float64       `bson:"price" json:"price"`
	Unit        string        `bson:"unit,omitempty" json:"unit,omitempty"`
	Status      ProductStatus `bson:"status" json:"status"`
	Featured    bool          `bson:"featured" json:"featured"`
	ImageURL    string        `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// IsOrderable reports whether the product can be added to a cart
func (p *Product) IsOrderable() bool {
	return p.Status != ProductUnavailable && p.Status != ProductOutOfStock
}

// Category represents a catalog category
type Category struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
	Icon string `bson:"icon,omitempty" json:"icon,omitempty"`
	Rank int    `bson:"rank" json:"rank"`
}
