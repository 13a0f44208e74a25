package application

import (
	"context"
	"fmt"

	"github.com/zypso/storefront-service/internal/domain"
	"github.com/zypso/storefront-service/pkg/errors"
	"github.com/zypso/storefront-service/pkg/logging"
)

// CartService manages per-session carts, delivery locations and delivery
// quotes.
type CartService struct {
	sessions domain.SessionStore
	products domain.ProductRepository
	settings *domain.SettingsStore
	geocoder Geocoder
	logger   *logging.Logger
}

// NewCartService creates a new cart service
func NewCartService(
	sessions domain.SessionStore,
	products domain.ProductRepository,
	settings *domain.SettingsStore,
	geocoder Geocoder,
	logger *logging.Logger,
) *CartService {
	return &CartService{
		sessions: sessions,
		products: products,
		settings: settings,
		geocoder: geocoder,
		logger:   logger,
	}
}

// GetCart returns the session's cart, empty when none exists
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*CartDTO, error) {
	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ToCartDTO(cart), nil
}

// AddItem adds one unit of a product to the session's cart. The line
// snapshots the product's current price; later catalog edits do not touch it.
func (s *CartService) AddItem(ctx context.Context, sessionID string, cmd AddItemCommand) (*CartDTO, error) {
	product, err := s.products.FindByID(ctx, cmd.ProductID)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to load product for cart", "productId", cmd.ProductID)
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !cart.AddItem(product) {
		return nil, errors.ErrConflict("product is not available")
	}

	if err := s.sessions.SaveCart(ctx, cart); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to save cart", "sessionId", sessionID)
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	s.logger.WithContext(ctx).Info("Cart item added",
		"sessionId", sessionID,
		"productId", cmd.ProductID,
		"totalItems", cart.TotalItemCount())

	return ToCartDTO(cart), nil
}

// UpdateQuantity adjusts a cart line's quantity by a signed delta. A
// resulting quantity of zero or less removes the line. Unknown products are
// a no-op and return the cart unchanged.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID string, cmd UpdateQuantityCommand) (*CartDTO, error) {
	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if cart.UpdateQuantity(productID, cmd.Delta) {
		if err := s.sessions.SaveCart(ctx, cart); err != nil {
			s.logger.WithContext(ctx).WithError(err).Error("Failed to save cart", "sessionId", sessionID)
			return nil, fmt.Errorf("failed to save cart: %w", err)
		}
	}

	return ToCartDTO(cart), nil
}

// ClearCart removes the session's cart
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.sessions.ClearCart(ctx, sessionID); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to clear cart", "sessionId", sessionID)
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// GetLocation returns the session's delivery location, nil when none is set
func (s *CartService) GetLocation(ctx context.Context, sessionID string) (*LocationDTO, error) {
	location, err := s.sessions.LoadLocation(ctx, sessionID)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to load location", "sessionId", sessionID)
		return nil, fmt.Errorf("failed to load location: %w", err)
	}
	return ToLocationDTO(location), nil
}

// SetLocation sets the session's delivery location from coordinates or a
// free-text address. Coordinates are reverse geocoded for display; when the
// lookup fails the location degrades to coordinates only.
func (s *CartService) SetLocation(ctx context.Context, sessionID string, cmd SetLocationCommand) (*LocationDTO, error) {
	location, err := s.resolveLocation(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SaveLocation(ctx, sessionID, location); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to save location", "sessionId", sessionID)
		return nil, fmt.Errorf("failed to save location: %w", err)
	}

	s.logger.WithContext(ctx).Info("Location updated",
		"sessionId", sessionID,
		"lat", location.Lat,
		"lng", location.Lng)

	return ToLocationDTO(location), nil
}

func (s *CartService) resolveLocation(ctx context.Context, cmd SetLocationCommand) (*domain.UserLocation, error) {
	if cmd.Lat != nil && cmd.Lng != nil {
		location := &domain.UserLocation{Lat: *cmd.Lat, Lng: *cmd.Lng, Address: cmd.Address}
		if location.Address == "" {
			address, err := s.geocoder.Reverse(ctx, location.Lat, location.Lng)
			if err != nil {
				s.logger.WithContext(ctx).WithError(err).Warn("Reverse geocode failed, keeping coordinates only")
			} else {
				location.Address = address
			}
		}
		return location, nil
	}

	if cmd.Address == "" {
		return nil, errors.ErrValidation("either coordinates or an address is required")
	}

	location, err := s.geocoder.Forward(ctx, cmd.Address)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Forward geocode failed", "address", cmd.Address)
		return nil, errors.ErrServiceUnavailable("address lookup")
	}
	if location == nil {
		return nil, errors.ErrNotFound("address")
	}

	return location, nil
}

// GetQuote prices the session's current cart against its delivery location.
// Without a location the quote uses the base fee and default ETA.
func (s *CartService) GetQuote(ctx context.Context, sessionID string) (*QuoteDTO, error) {
	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	location, err := s.sessions.LoadLocation(ctx, sessionID)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to load location", "sessionId", sessionID)
		return nil, fmt.Errorf("failed to load location: %w", err)
	}

	settings := s.settings.Current()
	calc := domain.NewPricingCalculator(settings)

	var distance *float64
	if location != nil {
		distance = calc.DistanceFromShop(*location)
	}

	totals := calc.OrderTotals(cart.Lines, distance)

	return &QuoteDTO{
		DistanceKm:     distance,
		EtaMinutes:     calc.ETA(distance),
		Totals:         totals,
		MeetsMinimum:   calc.MeetsMinimum(totals.ItemsTotal),
		MinOrderAmount: settings.MinOrderAmount,
		FreeDelivery:   totals.DeliveryCharge == 0 && totals.ItemsTotal > 0,
	}, nil
}

func (s *CartService) loadCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.sessions.LoadCart(ctx, sessionID)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to load cart", "sessionId", sessionID)
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}
