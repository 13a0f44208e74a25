package messaging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zypso/storefront-service/internal/domain"
	"github.com/zypso/storefront-service/pkg/cloudevents"
	"github.com/zypso/storefront-service/pkg/kafka"
	"github.com/zypso/storefront-service/pkg/logging"
)

type memProductRepo struct {
	saved   map[string]*domain.Product
	deleted []string
}

func (m *memProductRepo) Save(ctx context.Context, product *domain.Product) error {
	if m.saved == nil {
		m.saved = make(map[string]*domain.Product)
	}
	m.saved[product.ID] = product
	return nil
}

func (m *memProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return m.saved[id], nil
}

func (m *memProductRepo) Find(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	return nil, nil
}

func (m *memProductRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type memCategoryRepo struct{}

func (m *memCategoryRepo) Save(ctx context.Context, category *domain.Category) error { return nil }
func (m *memCategoryRepo) FindAll(ctx context.Context) ([]*domain.Category, error)  { return nil, nil }

type memSettingsRepo struct {
	saved *domain.ShopSettings
}

func (m *memSettingsRepo) Load(ctx context.Context) (*domain.ShopSettings, error) { return m.saved, nil }
func (m *memSettingsRepo) Save(ctx context.Context, settings *domain.ShopSettings) error {
	m.saved = settings
	return nil
}

func newTestFeedConsumer(products *memProductRepo, settings *domain.SettingsStore, settingsDB *memSettingsRepo) *FeedConsumer {
	logger := logging.New(logging.DefaultConfig("storefront-test"))
	consumer := kafka.NewConsumer(kafka.DefaultConfig(), logger)
	return NewFeedConsumer(consumer, products, &memCategoryRepo{}, settings, settingsDB, logger)
}

func feedEvent(eventType string, data interface{}) *cloudevents.ShopCloudEvent {
	factory := cloudevents.NewEventFactory(cloudevents.SourceAdmin)
	return factory.CreateEvent(context.Background(), eventType, "", data)
}

func TestHandleProductUpserted(t *testing.T) {
	products := &memProductRepo{}
	feed := newTestFeedConsumer(products, domain.NewSettingsStore(domain.DefaultShopSettings()), &memSettingsRepo{})

	event := feedEvent(cloudevents.ProductUpserted, map[string]interface{}{
		"productId": "p1",
		"name":      "Basmati Rice 5kg",
		"category":  "grocery",
		"price":     540.0,
		"status":    "Available",
		"featured":  true,
	})

	err := feed.handleProductUpserted(context.Background(), event)

	require.NoError(t, err)
	saved := products.saved["p1"]
	require.NotNil(t, saved)
	assert.Equal(t, "Basmati Rice 5kg", saved.Name)
	assert.Equal(t, domain.ProductAvailable, saved.Status)
	assert.True(t, saved.Featured)
}

func TestHandleProductUpsertedMalformedPayloadIsSkipped(t *testing.T) {
	products := &memProductRepo{}
	feed := newTestFeedConsumer(products, domain.NewSettingsStore(domain.DefaultShopSettings()), &memSettingsRepo{})

	event := feedEvent(cloudevents.ProductUpserted, map[string]interface{}{
		"productId": 12345,
		"price":     "not-a-number",
	})

	err := feed.handleProductUpserted(context.Background(), event)

	require.NoError(t, err, "malformed feed events must not be retried")
	assert.Empty(t, products.saved)
}

func TestHandleProductRemoved(t *testing.T) {
	products := &memProductRepo{}
	feed := newTestFeedConsumer(products, domain.NewSettingsStore(domain.DefaultShopSettings()), &memSettingsRepo{})

	event := feedEvent(cloudevents.ProductRemoved, map[string]interface{}{
		"productId": "p1",
	})

	err := feed.handleProductRemoved(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, products.deleted)
}

func TestHandleSettingsUpdatedReplacesWholesale(t *testing.T) {
	store := domain.NewSettingsStore(domain.DefaultShopSettings())
	settingsDB := &memSettingsRepo{}
	feed := newTestFeedConsumer(&memProductRepo{}, store, settingsDB)

	event := feedEvent(cloudevents.SettingsUpdated, map[string]interface{}{
		"shopName":          "Zypso Mart",
		"shopLat":           12.97,
		"shopLng":           77.59,
		"baseDeliveryFee":   25.0,
		"perKmFee":          12.0,
		"freeDeliveryAbove": 600.0,
		"minOrderAmount":    149.0,
		"isClosed":          true,
		"nextOpenTime":      "tomorrow 7am",
	})

	err := feed.handleSettingsUpdated(context.Background(), event)

	require.NoError(t, err)
	current := store.Current()
	assert.True(t, current.IsClosed)
	assert.Equal(t, 25.0, current.BaseDeliveryFee)
	assert.Equal(t, "tomorrow 7am", current.NextOpenTime)

	require.NotNil(t, settingsDB.saved)
	assert.Equal(t, 600.0, settingsDB.saved.FreeDeliveryAbove)
}
