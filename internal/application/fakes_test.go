package application

import (
	"context"

	"github.com/zypso/storefront-service/internal/domain"
	"github.com/zypso/storefront-service/pkg/cloudevents"
	"github.com/zypso/storefront-service/pkg/logging"
)

func testLogger() *logging.Logger {
	return logging.New(logging.DefaultConfig("storefront-test"))
}

type fakeSessionStore struct {
	loadCartFn     func(ctx context.Context, sessionID string) (*domain.Cart, error)
	saveCartFn     func(ctx context.Context, cart *domain.Cart) error
	clearCartFn    func(ctx context.Context, sessionID string) error
	loadLocationFn func(ctx context.Context, sessionID string) (*domain.UserLocation, error)
	saveLocationFn func(ctx context.Context, sessionID string, location *domain.UserLocation) error
}

func (f *fakeSessionStore) LoadCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if f.loadCartFn != nil {
		return f.loadCartFn(ctx, sessionID)
	}
	return domain.NewCart(sessionID), nil
}

func (f *fakeSessionStore) SaveCart(ctx context.Context, cart *domain.Cart) error {
	if f.saveCartFn != nil {
		return f.saveCartFn(ctx, cart)
	}
	return nil
}

func (f *fakeSessionStore) ClearCart(ctx context.Context, sessionID string) error {
	if f.clearCartFn != nil {
		return f.clearCartFn(ctx, sessionID)
	}
	return nil
}

func (f *fakeSessionStore) LoadLocation(ctx context.Context, sessionID string) (*domain.UserLocation, error) {
	if f.loadLocationFn != nil {
		return f.loadLocationFn(ctx, sessionID)
	}
	return nil, nil
}

func (f *fakeSessionStore) SaveLocation(ctx context.Context, sessionID string, location *domain.UserLocation) error {
	if f.saveLocationFn != nil {
		return f.saveLocationFn(ctx, sessionID, location)
	}
	return nil
}

type fakeProductRepo struct {
	saveFn     func(ctx context.Context, product *domain.Product) error
	findByIDFn func(ctx context.Context, id string) (*domain.Product, error)
	findFn     func(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (f *fakeProductRepo) Save(ctx context.Context, product *domain.Product) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, product)
	}
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeProductRepo) Find(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	if f.findFn != nil {
		return f.findFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeCategoryRepo struct {
	saveFn    func(ctx context.Context, category *domain.Category) error
	findAllFn func(ctx context.Context) ([]*domain.Category, error)
}

func (f *fakeCategoryRepo) Save(ctx context.Context, category *domain.Category) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, category)
	}
	return nil
}

func (f *fakeCategoryRepo) FindAll(ctx context.Context) ([]*domain.Category, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

type fakeOrderRepo struct {
	saveFn        func(ctx context.Context, order *domain.Order) error
	findByIDFn    func(ctx context.Context, id string) (*domain.Order, error)
	findByPhoneFn func(ctx context.Context, phone string) ([]*domain.Order, error)
}

func (f *fakeOrderRepo) Save(ctx context.Context, order *domain.Order) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, order)
	}
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeOrderRepo) FindByPhone(ctx context.Context, phone string) ([]*domain.Order, error) {
	if f.findByPhoneFn != nil {
		return f.findByPhoneFn(ctx, phone)
	}
	return nil, nil
}

type fakeGeocoder struct {
	forwardFn func(ctx context.Context, address string) (*domain.UserLocation, error)
	reverseFn func(ctx context.Context, lat, lng float64) (string, error)
}

func (f *fakeGeocoder) Forward(ctx context.Context, address string) (*domain.UserLocation, error) {
	if f.forwardFn != nil {
		return f.forwardFn(ctx, address)
	}
	return nil, nil
}

func (f *fakeGeocoder) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	if f.reverseFn != nil {
		return f.reverseFn(ctx, lat, lng)
	}
	return "", nil
}

type fakePublisher struct {
	publishFn func(ctx context.Context, topic string, event *cloudevents.ShopCloudEvent) error
	published []*cloudevents.ShopCloudEvent
}

func (f *fakePublisher) PublishEvent(ctx context.Context, topic string, event *cloudevents.ShopCloudEvent) error {
	f.published = append(f.published, event)
	if f.publishFn != nil {
		return f.publishFn(ctx, topic, event)
	}
	return nil
}
