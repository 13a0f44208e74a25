package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/zypso/storefront-service/internal/domain"
	"github.com/zypso/storefront-service/pkg/logging"
	"github.com/zypso/storefront-service/pkg/metrics"
	"github.com/zypso/storefront-service/pkg/resilience"
)

// Nominatim usage policy requires an identifying User-Agent
const userAgent = "storefront-service/1.0"

// Config holds Nominatim client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns a Config pointing at the public Nominatim instance
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://nominatim.openstreetmap.org",
		Timeout: 5 * time.Second,
	}
}

// NominatimGeocoder resolves addresses through the Nominatim HTTP API. All
// calls run through a circuit breaker so a slow upstream cannot stall
// checkout flows.
type NominatimGeocoder struct {
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// NewNominatimGeocoder creates a new NominatimGeocoder
func NewNominatimGeocoder(config *Config, logger *logging.Logger, m *metrics.Metrics) *NominatimGeocoder {
	breaker := resilience.NewCircuitBreaker(
		resilience.DefaultCircuitBreakerConfig("nominatim"),
		logger.Logger,
	)

	return &NominatimGeocoder{
		baseURL:    config.BaseURL,
		httpClient: &http.Client{Timeout: config.Timeout},
		breaker:    breaker,
		logger:     logger,
		metrics:    m,
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type reverseResult struct {
	DisplayName string `json:"display_name"`
}

// Forward resolves a free-text address to coordinates. A nil location means
// the address produced no matches.
func (g *NominatimGeocoder) Forward(ctx context.Context, address string) (*domain.UserLocation, error) {
	start := time.Now()

	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")

	var results []searchResult
	err := g.get(ctx, "/search", query, &results)
	g.record(ctx, "forward", address, err == nil, start)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in geocode response: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in geocode response: %w", err)
	}

	return &domain.UserLocation{Lat: lat, Lng: lng, Address: results[0].DisplayName}, nil
}

// Reverse resolves coordinates to a display address
func (g *NominatimGeocoder) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	start := time.Now()

	latStr := strconv.FormatFloat(lat, 'f', -1, 64)
	lngStr := strconv.FormatFloat(lng, 'f', -1, 64)

	query := url.Values{}
	query.Set("lat", latStr)
	query.Set("lon", lngStr)
	query.Set("format", "json")

	var result reverseResult
	err := g.get(ctx, "/reverse", query, &result)
	g.record(ctx, "reverse", latStr+","+lngStr, err == nil, start)
	if err != nil {
		return "", err
	}

	return result.DisplayName, nil
}

func (g *NominatimGeocoder) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	_, err := g.breaker.Execute(ctx, func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path+"?"+query.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("geocode request failed with status %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("failed to decode geocode response: %w", err)
		}

		return nil, nil
	})
	return err
}

func (g *NominatimGeocoder) record(ctx context.Context, direction, query string, success bool, start time.Time) {
	elapsed := time.Since(start)
	g.logger.GeocodeLookup(ctx, direction, query, elapsed, success)
	if g.metrics != nil {
		g.metrics.RecordGeocodeLookup(direction, success, elapsed)
	}
}

// BreakerStatus exposes the geocoder's circuit breaker status for readiness
// reporting
func (g *NominatimGeocoder) BreakerStatus() resilience.CircuitBreakerStatus {
	return g.breaker.Status()
}
