package domain

import (
	"time"
)

// CartLine is one product line in a cart. Price, name and unit are
// snapshotted at add time so later catalog edits do not change the cart.
type CartLine struct {
	ProductID string  `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Unit      string  `bson:"unit,omitempty" json:"unit,omitempty"`
	ImageURL  string  `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Quantity  int     `bson:"quantity" json:"quantity"`
}

// Cart is a session-scoped shopping cart. Lines keep insertion order and
// always carry a quantity of at least 1.
type Cart struct {
	SessionID string     `bson:"sessionId" json:"sessionId"`
	Lines     []CartLine `bson:"lines" json:"lines"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// NewCart creates an empty cart for a session
func NewCart(sessionID string) *Cart {
	return &Cart{
		SessionID: sessionID,
		Lines:     []CartLine{},
		UpdatedAt: time.Now().UTC(),
	}
}

// AddItem adds one unit of a product to the cart. Products that are
// unavailable or out of stock are rejected. An existing line is
// incremented without touching its snapshotted price.
func (c *Cart) AddItem(product *Product) bool {
	if product == nil || !product.IsOrderable() {
		return false
	}

	for i := range c.Lines {
		if c.Lines[i].ProductID == product.ID {
			c.Lines[i].Quantity++
			c.UpdatedAt = time.Now().UTC()
			return true
		}
	}

	c.Lines = append(c.Lines, CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Unit:      product.Unit,
		ImageURL:  product.ImageURL,
		Quantity:  1,
	})
	c.UpdatedAt = time.Now().UTC()
	return true
}

// UpdateQuantity adjusts a line's quantity by delta. The line is removed
// when the result drops to zero or below. Unknown products are a no-op.
func (c *Cart) UpdateQuantity(productID string, delta int) bool {
	for i := range c.Lines {
		if c.Lines[i].ProductID != productID {
			continue
		}

		newQty := c.Lines[i].Quantity + delta
		if newQty <= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		} else {
			c.Lines[i].Quantity = newQty
		}
		c.UpdatedAt = time.Now().UTC()
		return true
	}
	return false
}

// Clear removes all lines
func (c *Cart) Clear() {
	c.Lines = []CartLine{}
	c.UpdatedAt = time.Now().UTC()
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// TotalItemCount returns the sum of quantities across all lines
func (c *Cart) TotalItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// ItemsTotal returns the pre-fee, pre-discount total of all lines
func (c *Cart) ItemsTotal() float64 {
	total := 0.0
	for _, line := range c.Lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}
