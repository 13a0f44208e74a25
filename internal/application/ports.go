package application

import (
	"context"

	"github.com/zypso/storefront-service/internal/domain"
	"github.com/zypso/storefront-service/pkg/cloudevents"
)

// Geocoder resolves addresses to coordinates and back. Implementations may
// fail when the upstream provider is unavailable; callers degrade to
// coordinate-only locations.
type Geocoder interface {
	Forward(ctx context.Context, address string) (*domain.UserLocation, error)
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}

// EventPublisher publishes storefront CloudEvents
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event *cloudevents.ShopCloudEvent) error
}
