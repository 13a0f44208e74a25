package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zypso/storefront-service/internal/domain"
	"github.com/zypso/storefront-service/pkg/cloudevents"
	"github.com/zypso/storefront-service/pkg/kafka"
	"github.com/zypso/storefront-service/pkg/logging"
)

// FeedConsumer applies the admin catalog and config feeds to the local read
// models. Settings updates replace the in-memory document wholesale and are
// mirrored to Mongo so restarts pick up the latest config.
type FeedConsumer struct {
	consumer   *kafka.Consumer
	products   domain.ProductRepository
	categories domain.CategoryRepository
	settings   *domain.SettingsStore
	settingsDB domain.SettingsRepository
	logger     *logging.Logger
}

// NewFeedConsumer creates a new FeedConsumer and registers its handlers
func NewFeedConsumer(
	consumer *kafka.Consumer,
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	settings *domain.SettingsStore,
	settingsDB domain.SettingsRepository,
	logger *logging.Logger,
) *FeedConsumer {
	f := &FeedConsumer{
		consumer:   consumer,
		products:   products,
		categories: categories,
		settings:   settings,
		settingsDB: settingsDB,
		logger:     logger,
	}

	consumer.Subscribe(kafka.Topics.CatalogEvents, cloudevents.ProductUpserted, f.handleProductUpserted)
	consumer.Subscribe(kafka.Topics.CatalogEvents, cloudevents.ProductRemoved, f.handleProductRemoved)
	consumer.Subscribe(kafka.Topics.ConfigEvents, cloudevents.SettingsUpdated, f.handleSettingsUpdated)

	return f
}

// Start begins consuming the feeds, blocking until ctx is cancelled
func (f *FeedConsumer) Start(ctx context.Context) error {
	return f.consumer.Start(ctx)
}

func (f *FeedConsumer) handleProductUpserted(ctx context.Context, event *cloudevents.ShopCloudEvent) error {
	var data cloudevents.ProductUpsertedData
	if err := decodeEventData(event, &data); err != nil {
		f.logger.WithContext(ctx).WithError(err).Error("Malformed product-upserted event", "eventId", event.ID)
		// Malformed feed events are skipped, not retried
		return nil
	}

	product := &domain.Product{
		ID:          data.ProductID,
		Name:        data.Name,
		Description: data.Description,
		Category:    data.Category,
		Price:       data.Price,
		Unit:        data.Unit,
		Status:      domain.ProductStatus(data.Status),
		Featured:    data.Featured,
		ImageURL:    data.ImageURL,
	}

	if err := f.products.Save(ctx, product); err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", data.ProductID, err)
	}

	f.logger.WithContext(ctx).Info("Catalog product upserted",
		"productId", data.ProductID,
		"status", data.Status)

	return nil
}

func (f *FeedConsumer) handleProductRemoved(ctx context.Context, event *cloudevents.ShopCloudEvent) error {
	var data cloudevents.ProductUpsertedData
	if err := decodeEventData(event, &data); err != nil {
		f.logger.WithContext(ctx).WithError(err).Error("Malformed product-removed event", "eventId", event.ID)
		return nil
	}

	if err := f.products.Delete(ctx, data.ProductID); err != nil {
		return fmt.Errorf("failed to remove product %s: %w", data.ProductID, err)
	}

	f.logger.WithContext(ctx).Info("Catalog product removed", "productId", data.ProductID)

	return nil
}

func (f *FeedConsumer) handleSettingsUpdated(ctx context.Context, event *cloudevents.ShopCloudEvent) error {
	var data cloudevents.SettingsUpdatedData
	if err := decodeEventData(event, &data); err != nil {
		f.logger.WithContext(ctx).WithError(err).Error("Malformed settings-updated event", "eventId", event.ID)
		return nil
	}

	settings := domain.ShopSettings{
		ShopName:          data.ShopName,
		ShopLat:           data.ShopLat,
		ShopLng:           data.ShopLng,
		BaseDeliveryFee:   data.BaseDeliveryFee,
		PerKmFee:          data.PerKmFee,
		FreeDeliveryAbove: data.FreeDeliveryAbove,
		MinOrderAmount:    data.MinOrderAmount,
		IsClosed:          data.IsClosed,
		NextOpenTime:      data.NextOpenTime,
		SupportNumber:     data.SupportNumber,
		UpdatedAt:         time.Now().UTC(),
	}

	f.settings.Replace(settings)

	if err := f.settingsDB.Save(ctx, &settings); err != nil {
		// In-memory settings already serve traffic; persistence will catch
		// up on the next update
		f.logger.WithContext(ctx).WithError(err).Warn("Failed to persist settings update")
	}

	f.logger.WithContext(ctx).Info("Shop settings replaced",
		"shopName", settings.ShopName,
		"isClosed", settings.IsClosed)

	return nil
}

// decodeEventData round-trips the event payload through JSON since consumed
// events carry Data as a generic map
func decodeEventData(event *cloudevents.ShopCloudEvent, out interface{}) error {
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
