package application

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zypso/storefront-service/internal/domain"
	"github.com/zypso/storefront-service/pkg/cloudevents"
	"github.com/zypso/storefront-service/pkg/errors"
	"github.com/zypso/storefront-service/pkg/kafka"
	"github.com/zypso/storefront-service/pkg/logging"
)

// CheckoutService assembles orders from session state and drives the order
// lifecycle.
type CheckoutService struct {
	orders       domain.OrderRepository
	sessions     domain.SessionStore
	settings     *domain.SettingsStore
	publisher    EventPublisher
	eventFactory *cloudevents.EventFactory
	logger       *logging.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	orders domain.OrderRepository,
	sessions domain.SessionStore,
	settings *domain.SettingsStore,
	publisher EventPublisher,
	logger *logging.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:       orders,
		sessions:     sessions,
		settings:     settings,
		publisher:    publisher,
		eventFactory: cloudevents.NewEventFactory(cloudevents.SourceStorefront),
		logger:       logger,
	}
}

// PlaceOrder checks out the session's cart. The cart survives submission
// failures so the customer can retry; it is cleared only after the order is
// confirmed persisted.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, cmd PlaceOrderCommand) (*OrderDTO, error) {
	settings := s.settings.Current()
	if settings.IsClosed {
		appErr := errors.ErrConflict(domain.ErrShopClosed.Error())
		if settings.NextOpenTime != "" {
			appErr = appErr.WithDetail("nextOpenTime", settings.NextOpenTime)
		}
		return nil, appErr
	}

	cart, err := s.sessions.LoadCart(ctx, sessionID)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to load cart for checkout", "sessionId", sessionID)
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	location, err := s.sessions.LoadLocation(ctx, sessionID)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to load location for checkout", "sessionId", sessionID)
		return nil, fmt.Errorf("failed to load location: %w", err)
	}

	info := domain.CustomerInfo{
		Name:                cmd.Name,
		Phone:               cmd.Phone,
		Address:             cmd.Address,
		SpecialInstructions: cmd.SpecialInstructions,
	}

	calc := domain.NewPricingCalculator(settings)
	order, err := domain.NewOrder(sessionID, info, cart, location, calc)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	if err := s.orders.Save(ctx, order); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to save order, cart preserved",
			"sessionId", sessionID,
			"orderId", order.ID)
		return nil, errors.ErrSubmissionFailed(err)
	}

	s.publishOrderEvents(ctx, order)
	order.ClearDomainEvents()

	if err := s.sessions.ClearCart(ctx, sessionID); err != nil {
		// Order is already persisted; a stale cart is recoverable
		s.logger.WithContext(ctx).WithError(err).Warn("Failed to clear cart after checkout", "sessionId", sessionID)
	}

	s.logger.WithContext(ctx).Info("Order placed",
		"orderId", order.ID,
		"sessionId", sessionID,
		"grandTotal", order.Totals.GrandTotal,
		"etaMinutes", order.EtaMinutes)

	return ToOrderDTO(order), nil
}

// GetOrder returns an order by id
func (s *CheckoutService) GetOrder(ctx context.Context, orderID string) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToOrderDTO(order), nil
}

// ListOrdersByPhone returns a customer's orders, newest first
func (s *CheckoutService) ListOrdersByPhone(ctx context.Context, phone string) ([]*OrderDTO, error) {
	orders, err := s.orders.FindByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to list orders by phone")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].PlacedAt.After(orders[j].PlacedAt)
	})

	dtos := make([]*OrderDTO, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, ToOrderDTO(order))
	}

	return dtos, nil
}

// CancelOrder cancels a pending order
func (s *CheckoutService) CancelOrder(ctx context.Context, orderID string) (*OrderDTO, error) {
	return s.transitionOrder(ctx, orderID, func(order *domain.Order) error {
		return order.Cancel()
	})
}

// MarkDelivered marks a pending order as delivered
func (s *CheckoutService) MarkDelivered(ctx context.Context, orderID string) (*OrderDTO, error) {
	return s.transitionOrder(ctx, orderID, func(order *domain.Order) error {
		return order.MarkDelivered()
	})
}

// RequestReturn requests a return for a delivered order
func (s *CheckoutService) RequestReturn(ctx context.Context, orderID string) (*OrderDTO, error) {
	return s.transitionOrder(ctx, orderID, func(order *domain.Order) error {
		return order.RequestReturn()
	})
}

func (s *CheckoutService) transitionOrder(ctx context.Context, orderID string, transition func(*domain.Order) error) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := transition(order); err != nil {
		return nil, errors.ErrConflict(err.Error())
	}

	if err := s.orders.Save(ctx, order); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to save order transition", "orderId", orderID)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.publishOrderEvents(ctx, order)
	order.ClearDomainEvents()

	s.logger.WithContext(ctx).Info("Order status changed",
		"orderId", orderID,
		"status", string(order.Status))

	return ToOrderDTO(order), nil
}

func (s *CheckoutService) loadOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if stderrors.Is(err, domain.ErrOrderNotFound) {
			return nil, errors.ErrNotFoundWithID("order", orderID)
		}
		s.logger.WithContext(ctx).WithError(err).Error("Failed to load order", "orderId", orderID)
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, errors.ErrNotFoundWithID("order", orderID)
	}
	return order, nil
}

// publishOrderEvents publishes the order's pending domain events to the
// orders topic. Publish failures are logged and swallowed, the order state
// in Mongo is authoritative.
func (s *CheckoutService) publishOrderEvents(ctx context.Context, order *domain.Order) {
	if s.publisher == nil {
		return
	}

	for _, domainEvent := range order.DomainEvents() {
		event := s.toCloudEvent(ctx, order, domainEvent)
		if event == nil {
			continue
		}
		event.SessionID = order.SessionID

		if err := s.publisher.PublishEvent(ctx, kafka.Topics.OrdersEvents, event); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("Failed to publish order event",
				"orderId", order.ID,
				"eventType", domainEvent.EventType())
		}
	}
}

func (s *CheckoutService) toCloudEvent(ctx context.Context, order *domain.Order, domainEvent domain.DomainEvent) *cloudevents.ShopCloudEvent {
	switch e := domainEvent.(type) {
	case *domain.OrderPlacedEvent:
		lines := make([]cloudevents.OrderLine, 0, len(order.Lines))
		for _, line := range order.Lines {
			lines = append(lines, cloudevents.OrderLine{
				ProductID: line.ProductID,
				Name:      line.Name,
				Quantity:  line.Quantity,
				Price:     line.Price,
			})
		}
		return s.eventFactory.CreateOrderPlacedEvent(ctx,
			e.OrderID, e.CustomerName, e.CustomerPhone,
			lines, e.ItemsTotal, e.DeliveryFee, e.GrandTotal, e.PlacedAt)
	case *domain.OrderCancelledEvent:
		return s.eventFactory.CreateOrderStatusEvent(ctx, cloudevents.OrderCancelled, e.OrderID, string(domain.OrderStatusCancelled), e.CancelledAt)
	case *domain.OrderDeliveredEvent:
		return s.eventFactory.CreateOrderStatusEvent(ctx, cloudevents.OrderDelivered, e.OrderID, string(domain.OrderStatusDelivered), e.DeliveredAt)
	case *domain.OrderReturnRequestedEvent:
		return s.eventFactory.CreateOrderStatusEvent(ctx, cloudevents.OrderReturnRequested, e.OrderID, string(domain.OrderStatusReturnPending), e.RequestedAt)
	default:
		return nil
	}
}
