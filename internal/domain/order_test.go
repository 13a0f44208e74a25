package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutFixtures() (CustomerInfo, *Cart, *UserLocation, *PricingCalculator) {
	info := CustomerInfo{
		Name:    "Asha Rao",
		Phone:   "9876543210",
		Address: "12 MG Road, Bengaluru",
	}

	cart := NewCart("session-1")
	cart.AddItem(availableProduct("p1", 120))
	cart.AddItem(availableProduct("p2", 80))

	location := &UserLocation{Lat: 12.99, Lng: 77.61, Address: "12 MG Road"}
	calc := NewPricingCalculator(testSettings())

	return info, cart, location, calc
}

func TestNewOrderAssemblesSnapshot(t *testing.T) {
	info, cart, location, calc := checkoutFixtures()

	order, err := NewOrder("session-1", info, cart, location, calc)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.ID, "ORD-"))
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, "session-1", order.SessionID)
	assert.Len(t, order.Lines, 2)
	assert.Equal(t, 200.0, order.Totals.ItemsTotal)
	require.NotNil(t, order.DistanceKm)
	assert.GreaterOrEqual(t, order.EtaMinutes, MinETAMinutes)
	assert.LessOrEqual(t, order.EtaMinutes, MaxETAMinutes)
	assert.False(t, order.PlacedAt.IsZero())
}

func TestNewOrderEmitsPlacedEvent(t *testing.T) {
	info, cart, location, calc := checkoutFixtures()

	order, err := NewOrder("session-1", info, cart, location, calc)

	require.NoError(t, err)
	events := order.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "shop.order.placed", events[0].EventType())

	order.ClearDomainEvents()
	assert.Empty(t, order.DomainEvents())
}

func TestNewOrderUnconfiguredShopCoordinatesUseBasePricing(t *testing.T) {
	info, cart, location, _ := checkoutFixtures()
	calc := NewPricingCalculator(DefaultShopSettings())

	order, err := NewOrder("session-1", info, cart, location, calc)

	require.NoError(t, err)
	assert.Nil(t, order.DistanceKm)
	assert.Equal(t, DefaultETAMinutes, order.EtaMinutes)
	assert.Equal(t, 20.0, order.Totals.DeliveryCharge)
}

func TestNewOrderRequiresCustomerInfo(t *testing.T) {
	info, cart, location, calc := checkoutFixtures()
	info.Name = "   "

	_, err := NewOrder("session-1", info, cart, location, calc)

	assert.ErrorIs(t, err, ErrCustomerInfoRequired)
}

func TestNewOrderRequiresAddress(t *testing.T) {
	info, cart, location, calc := checkoutFixtures()
	info.Address = ""

	_, err := NewOrder("session-1", info, cart, location, calc)

	assert.ErrorIs(t, err, ErrCustomerInfoRequired)
}

func TestNewOrderRejectsEmptyCart(t *testing.T) {
	info, _, location, calc := checkoutFixtures()

	_, err := NewOrder("session-1", info, NewCart("session-1"), location, calc)

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestNewOrderEmptyCartReportedBeforeShortPhone(t *testing.T) {
	info, _, location, calc := checkoutFixtures()
	info.Phone = "12345"

	_, err := NewOrder("session-1", info, NewCart("session-1"), location, calc)

	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestNewOrderRejectsShortPhone(t *testing.T) {
	info, cart, location, calc := checkoutFixtures()
	info.Phone = " 12345 "

	_, err := NewOrder("session-1", info, cart, location, calc)

	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestNewOrderRequiresLocation(t *testing.T) {
	info, cart, _, calc := checkoutFixtures()

	_, err := NewOrder("session-1", info, cart, nil, calc)

	assert.ErrorIs(t, err, ErrLocationRequired)
}

func TestNewOrderSnapshotIsolatedFromCart(t *testing.T) {
	info, cart, location, calc := checkoutFixtures()

	order, err := NewOrder("session-1", info, cart, location, calc)
	require.NoError(t, err)

	cart.Clear()

	assert.Len(t, order.Lines, 2)
}

func TestCancelPendingOrder(t *testing.T) {
	info, cart, location, calc := checkoutFixtures()
	order, err := NewOrder("session-1", info, cart, location, calc)
	require.NoError(t, err)
	order.ClearDomainEvents()

	err = order.Cancel()

	require.NoError(t, err)
	assert.Equal(t, OrderStatusCancelled, order.Status)
	require.NotNil(t, order.CancelledAt)
	require.Len(t, order.DomainEvents(), 1)
	assert.Equal(t, "shop.order.cancelled", order.DomainEvents()[0].EventType())
}

func TestCancelRejectedAfterCancellation(t *testing.T) {
	info, cart, location, calc := checkoutFixtures()
	order, _ := NewOrder("session-1", info, cart, location, calc)

	require.NoError(t, order.Cancel())
	err := order.Cancel()

	assert.ErrorIs(t, err, ErrOrderNotCancellable)
}

func TestRequestReturnRequiresDeliveredOrder(t *testing.T) {
	info, cart, location, calc := checkoutFixtures()
	order, _ := NewOrder("session-1", info, cart, location, calc)

	err := order.RequestReturn()

	assert.ErrorIs(t, err, ErrOrderNotReturnable)
}

func TestRequestReturnAfterDelivery(t *testing.T) {
	info, cart, location, calc := checkoutFixtures()
	order, _ := NewOrder("session-1", info, cart, location, calc)

	require.NoError(t, order.MarkDelivered())
	require.NotNil(t, order.DeliveredAt)

	err := order.RequestReturn()

	require.NoError(t, err)
	assert.Equal(t, OrderStatusReturnPending, order.Status)
	require.NotNil(t, order.ReturnRequestedAt)
}

func TestMarkDeliveredRejectsCancelledOrder(t *testing.T) {
	info, cart, location, calc := checkoutFixtures()
	order, _ := NewOrder("session-1", info, cart, location, calc)

	require.NoError(t, order.Cancel())
	err := order.MarkDelivered()

	assert.ErrorIs(t, err, ErrOrderNotDeliverable)
}

func TestSettingsStoreReplaceIsWholesale(t *testing.T) {
	store := NewSettingsStore(DefaultShopSettings())

	next := testSettings()
	next.IsClosed = true
	store.Replace(next)

	current := store.Current()
	assert.True(t, current.IsClosed)
	assert.Equal(t, "Test Mart", current.ShopName)
}
