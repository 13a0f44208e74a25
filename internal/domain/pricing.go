package domain

import (
	"math"
)

// Pricing constants
const (
	earthRadiusKm = 6371.0

	// Delivery charge is rounded up to the next multiple of this step
	chargeRoundingStep = 5.0

	// PackingCharge is the flat per-order packing fee
	PackingCharge = 10.0

	// Orders above this items total earn the bulk discount
	DiscountThreshold = 1000.0
	DiscountRate      = 0.05

	// ETA model: fixed preparation time plus travel at courier speed
	prepTimeMinutes  = 15.0
	courierSpeedKmph = 30.0

	// MinETAMinutes and MaxETAMinutes bound every computed ETA
	MinETAMinutes = 30
	MaxETAMinutes = 120

	// DefaultETAMinutes is quoted when the delivery distance is unknown
	DefaultETAMinutes = 45
)

// Distance returns the great-circle distance in kilometres between two
// coordinates, rounded to two decimals. Coincident points yield 0.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(earthRadiusKm*c*100) / 100
}

// TotalsBreakdown is the itemized result of an order totals calculation
type TotalsBreakdown struct {
	ItemsTotal     float64 `bson:"itemsTotal" json:"itemsTotal"`
	DeliveryCharge float64 `bson:"deliveryCharge" json:"deliveryCharge"`
	PackingCharge  float64 `bson:"packingCharge" json:"packingCharge"`
	Discount       float64 `bson:"discount" json:"discount"`
	GrandTotal     float64 `bson:"grandTotal" json:"grandTotal"`
}

// PricingCalculator computes delivery charges, ETAs and order totals from
// the shop settings. All methods are pure.
type PricingCalculator struct {
	settings ShopSettings
}

// NewPricingCalculator creates a calculator for the given settings
func NewPricingCalculator(settings ShopSettings) *PricingCalculator {
	return &PricingCalculator{settings: settings}
}

// DistanceFromShop returns the distance from the shop to the given
// location, or nil when the shop coordinates have not been configured.
// Callers pass the nil through so pricing falls back to the base fee
// and the default ETA instead of measuring from (0, 0).
func (c *PricingCalculator) DistanceFromShop(loc UserLocation) *float64 {
	if c.settings.ShopLat == 0 && c.settings.ShopLng == 0 {
		return nil
	}
	d := Distance(c.settings.ShopLat, c.settings.ShopLng, loc.Lat, loc.Lng)
	return &d
}

// DeliveryCharge returns the distance-based delivery charge. An unknown
// distance falls back to the base fee. The free-delivery waiver is applied
// by OrderTotals, not here.
func (c *PricingCalculator) DeliveryCharge(distanceKm *float64) float64 {
	base := c.settings.BaseDeliveryFee
	if distanceKm == nil {
		return base
	}

	charge := base + *distanceKm*c.settings.PerKmFee
	if charge < base {
		charge = base
	}

	return math.Ceil(charge/chargeRoundingStep) * chargeRoundingStep
}

// ETA returns the estimated delivery time in minutes, bounded to
// [MinETAMinutes, MaxETAMinutes]. An unknown distance yields the default.
func (c *PricingCalculator) ETA(distanceKm *float64) int {
	if distanceKm == nil {
		return DefaultETAMinutes
	}

	minutes := int(math.Round(prepTimeMinutes + *distanceKm/courierSpeedKmph*60))
	if minutes < MinETAMinutes {
		return MinETAMinutes
	}
	if minutes > MaxETAMinutes {
		return MaxETAMinutes
	}
	return minutes
}

// OrderTotals computes the full totals breakdown for a set of cart lines.
// Delivery is waived when the pre-discount items total reaches the
// free-delivery threshold.
func (c *PricingCalculator) OrderTotals(lines []CartLine, distanceKm *float64) TotalsBreakdown {
	itemsTotal := 0.0
	for _, line := range lines {
		itemsTotal += line.Price * float64(line.Quantity)
	}

	deliveryCharge := c.DeliveryCharge(distanceKm)
	if c.settings.FreeDeliveryAbove > 0 && itemsTotal >= c.settings.FreeDeliveryAbove {
		deliveryCharge = 0
	}

	discount := 0.0
	if itemsTotal > DiscountThreshold {
		discount = math.Round(itemsTotal * DiscountRate)
	}

	return TotalsBreakdown{
		ItemsTotal:     itemsTotal,
		DeliveryCharge: deliveryCharge,
		PackingCharge:  PackingCharge,
		Discount:       discount,
		GrandTotal:     itemsTotal + deliveryCharge + PackingCharge - discount,
	}
}

// MeetsMinimum reports whether the items total reaches the minimum order
// amount. Checkout itself is not gated on this, mirroring how the shop
// surfaces it to customers.
func (c *PricingCalculator) MeetsMinimum(itemsTotal float64) bool {
	return itemsTotal >= c.settings.MinOrderAmount
}
