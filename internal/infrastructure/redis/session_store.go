package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/zypso/storefront-service/internal/domain"
	"github.com/zypso/storefront-service/pkg/logging"
	"github.com/zypso/storefront-service/pkg/metrics"
	"github.com/zypso/storefront-service/pkg/redis"
)

// SessionTTL bounds how long abandoned carts and locations are kept
const SessionTTL = 7 * 24 * time.Hour

// SessionStore implements domain.SessionStore on Redis. Carts and locations
// are stored as JSON under per-session keys. Corrupted payloads are treated
// as absent so a bad write never wedges a session.
type SessionStore struct {
	client  *goredis.Client
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(client *redis.Client, logger *logging.Logger, m *metrics.Metrics) *SessionStore {
	return &SessionStore{
		client:  client.Client(),
		logger:  logger,
		metrics: m,
	}
}

func cartKey(sessionID string) string     { return "cart:" + sessionID }
func locationKey(sessionID string) string { return "location:" + sessionID }

// LoadCart retrieves the session's cart. A missing or corrupted payload
// yields an empty cart.
func (s *SessionStore) LoadCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	start := time.Now()

	payload, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			s.record(ctx, "load_cart", sessionID, true, start)
			return domain.NewCart(sessionID), nil
		}
		s.record(ctx, "load_cart", sessionID, false, start)
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(payload, &cart); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Corrupted cart payload, resetting to empty",
			"sessionId", sessionID)
		if s.metrics != nil {
			s.metrics.RecordSessionCorruption()
		}
		s.record(ctx, "load_cart", sessionID, true, start)
		return domain.NewCart(sessionID), nil
	}

	cart.SessionID = sessionID
	s.record(ctx, "load_cart", sessionID, true, start)
	return &cart, nil
}

// SaveCart persists the session's cart
func (s *SessionStore) SaveCart(ctx context.Context, cart *domain.Cart) error {
	start := time.Now()

	payload, err := json.Marshal(cart)
	if err != nil {
		s.record(ctx, "save_cart", cart.SessionID, false, start)
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	if err := s.client.Set(ctx, cartKey(cart.SessionID), payload, SessionTTL).Err(); err != nil {
		s.record(ctx, "save_cart", cart.SessionID, false, start)
		return fmt.Errorf("failed to save cart: %w", err)
	}

	s.record(ctx, "save_cart", cart.SessionID, true, start)
	return nil
}

// ClearCart removes the session's cart
func (s *SessionStore) ClearCart(ctx context.Context, sessionID string) error {
	start := time.Now()

	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		s.record(ctx, "clear_cart", sessionID, false, start)
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.record(ctx, "clear_cart", sessionID, true, start)
	return nil
}

// LoadLocation retrieves the session's delivery location. A missing or
// corrupted payload yields nil.
func (s *SessionStore) LoadLocation(ctx context.Context, sessionID string) (*domain.UserLocation, error) {
	start := time.Now()

	payload, err := s.client.Get(ctx, locationKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			s.record(ctx, "load_location", sessionID, true, start)
			return nil, nil
		}
		s.record(ctx, "load_location", sessionID, false, start)
		return nil, fmt.Errorf("failed to load location: %w", err)
	}

	var location domain.UserLocation
	if err := json.Unmarshal(payload, &location); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Corrupted location payload, treating as unset",
			"sessionId", sessionID)
		if s.metrics != nil {
			s.metrics.RecordSessionCorruption()
		}
		s.record(ctx, "load_location", sessionID, true, start)
		return nil, nil
	}

	s.record(ctx, "load_location", sessionID, true, start)
	return &location, nil
}

// SaveLocation persists the session's delivery location
func (s *SessionStore) SaveLocation(ctx context.Context, sessionID string, location *domain.UserLocation) error {
	start := time.Now()

	payload, err := json.Marshal(location)
	if err != nil {
		s.record(ctx, "save_location", sessionID, false, start)
		return fmt.Errorf("failed to marshal location: %w", err)
	}

	if err := s.client.Set(ctx, locationKey(sessionID), payload, SessionTTL).Err(); err != nil {
		s.record(ctx, "save_location", sessionID, false, start)
		return fmt.Errorf("failed to save location: %w", err)
	}

	s.record(ctx, "save_location", sessionID, true, start)
	return nil
}

func (s *SessionStore) record(ctx context.Context, operation, sessionID string, success bool, start time.Time) {
	elapsed := time.Since(start)
	s.logger.SessionOp(ctx, operation, sessionID, elapsed, success)
	if s.metrics != nil {
		s.metrics.RecordSessionOperation(operation, success, elapsed)
	}
}
