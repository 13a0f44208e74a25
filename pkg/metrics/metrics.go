package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all storefront metrics
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Kafka metrics
	KafkaEventsPublished *prometheus.CounterVec
	KafkaEventsConsumed  *prometheus.CounterVec
	KafkaPublishDuration *prometheus.HistogramVec

	// MongoDB metrics
	MongoDBOperations        *prometheus.CounterVec
	MongoDBOperationDuration *prometheus.HistogramVec

	// Redis session-store metrics
	SessionOperations        *prometheus.CounterVec
	SessionOperationDuration *prometheus.HistogramVec
	SessionCorruptionsTotal  prometheus.Counter

	// Geocoding metrics
	GeocodeLookups        *prometheus.CounterVec
	GeocodeLookupDuration *prometheus.HistogramVec

	// Business metrics
	OrdersPlaced      *prometheus.CounterVec
	OrderTransitions  *prometheus.CounterVec
	CartMutations     *prometheus.CounterVec
	DeliveryQuotes    prometheus.Counter
	CheckoutRejected  *prometheus.CounterVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "storefront",
	}
}

// New creates a new Metrics instance
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()

	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method", "path"},
	)

	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests currently being processed",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	m.KafkaEventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "kafka_events_published_total",
			Help:      "Total number of Kafka events published",
		},
		[]string{"service", "topic", "event_type", "status"},
	)

	m.KafkaEventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "kafka_events_consumed_total",
			Help:      "Total number of Kafka events consumed",
		},
		[]string{"service", "topic", "event_type", "status"},
	)

	m.KafkaPublishDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "kafka_publish_duration_seconds",
			Help:      "Kafka publish duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"service", "topic"},
	)

	m.MongoDBOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "mongodb_operations_total",
			Help:      "Total number of MongoDB operations",
		},
		[]string{"service", "collection", "operation", "status"},
	)

	m.MongoDBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "mongodb_operation_duration_seconds",
			Help:      "MongoDB operation duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"service", "collection", "operation"},
	)

	m.SessionOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "session_operations_total",
			Help:      "Total number of Redis session-store operations",
		},
		[]string{"service", "operation", "status"},
	)

	m.SessionOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "session_operation_duration_seconds",
			Help:      "Redis session-store operation duration in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25},
		},
		[]string{"service", "operation"},
	)

	m.SessionCorruptionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "session_corruptions_total",
			Help:        "Total number of corrupted session payloads reset to defaults",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	m.GeocodeLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "geocode_lookups_total",
			Help:      "Total number of geocoding lookups",
		},
		[]string{"service", "direction", "status"},
	)

	m.GeocodeLookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "geocode_lookup_duration_seconds",
			Help:      "Geocoding lookup duration in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"service", "direction"},
	)

	m.OrdersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "orders_placed_total",
			Help:      "Total number of orders placed",
		},
		[]string{"service", "free_delivery"},
	)

	m.OrderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "order_transitions_total",
			Help:      "Total number of order status transitions",
		},
		[]string{"service", "to_status"},
	)

	m.CartMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "cart_mutations_total",
			Help:      "Total number of cart mutations",
		},
		[]string{"service", "mutation"},
	)

	m.DeliveryQuotes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "delivery_quotes_total",
			Help:        "Total number of delivery quotes computed",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	m.CheckoutRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "checkout_rejected_total",
			Help:      "Total number of rejected checkout attempts",
		},
		[]string{"service", "reason"},
	)

	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"service", "name"},
	)

	m.CircuitBreakerTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_trips_total",
			Help:      "Total number of circuit breaker trips",
		},
		[]string{"service", "name"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.KafkaEventsPublished,
		m.KafkaEventsConsumed,
		m.KafkaPublishDuration,
		m.MongoDBOperations,
		m.MongoDBOperationDuration,
		m.SessionOperations,
		m.SessionOperationDuration,
		m.SessionCorruptionsTotal,
		m.GeocodeLookups,
		m.GeocodeLookupDuration,
		m.OrdersPlaced,
		m.OrderTransitions,
		m.CartMutations,
		m.DeliveryQuotes,
		m.CheckoutRejected,
		m.CircuitBreakerState,
		m.CircuitBreakerTrips,
	)

	return m
}

// Handler returns an HTTP handler for metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// RecordKafkaPublish records a Kafka publish event
func (m *Metrics) RecordKafkaPublish(topic, eventType string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.KafkaEventsPublished.WithLabelValues(m.serviceName, topic, eventType, status).Inc()
	m.KafkaPublishDuration.WithLabelValues(m.serviceName, topic).Observe(duration.Seconds())
}

// RecordKafkaConsume records a Kafka consume event
func (m *Metrics) RecordKafkaConsume(topic, eventType string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.KafkaEventsConsumed.WithLabelValues(m.serviceName, topic, eventType, status).Inc()
}

// RecordMongoDBOperation records a MongoDB operation
func (m *Metrics) RecordMongoDBOperation(collection, operation string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.MongoDBOperations.WithLabelValues(m.serviceName, collection, operation, status).Inc()
	m.MongoDBOperationDuration.WithLabelValues(m.serviceName, collection, operation).Observe(duration.Seconds())
}

// RecordSessionOperation records a Redis session-store operation
func (m *Metrics) RecordSessionOperation(operation string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.SessionOperations.WithLabelValues(m.serviceName, operation, status).Inc()
	m.SessionOperationDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
}

// RecordSessionCorruption records a corrupted session payload reset
func (m *Metrics) RecordSessionCorruption() {
	m.SessionCorruptionsTotal.Inc()
}

// RecordGeocodeLookup records a geocoding lookup
func (m *Metrics) RecordGeocodeLookup(direction string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.GeocodeLookups.WithLabelValues(m.serviceName, direction, status).Inc()
	m.GeocodeLookupDuration.WithLabelValues(m.serviceName, direction).Observe(duration.Seconds())
}

// RecordOrderPlaced records a placed order
func (m *Metrics) RecordOrderPlaced(freeDelivery bool) {
	m.OrdersPlaced.WithLabelValues(m.serviceName, strconv.FormatBool(freeDelivery)).Inc()
}

// RecordOrderTransition records an order status transition
func (m *Metrics) RecordOrderTransition(toStatus string) {
	m.OrderTransitions.WithLabelValues(m.serviceName, toStatus).Inc()
}

// RecordCartMutation records a cart mutation (add, update, clear)
func (m *Metrics) RecordCartMutation(mutation string) {
	m.CartMutations.WithLabelValues(m.serviceName, mutation).Inc()
}

// RecordDeliveryQuote records a computed delivery quote
func (m *Metrics) RecordDeliveryQuote() {
	m.DeliveryQuotes.Inc()
}

// RecordCheckoutRejected records a rejected checkout attempt
func (m *Metrics) RecordCheckoutRejected(reason string) {
	m.CheckoutRejected.WithLabelValues(m.serviceName, reason).Inc()
}

// SetCircuitBreakerState sets the circuit breaker state
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.CircuitBreakerState.WithLabelValues(m.serviceName, name).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(name string) {
	m.CircuitBreakerTrips.WithLabelValues(m.serviceName, name).Inc()
}

// IncrementHTTPRequestsInFlight increments in-flight requests
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements in-flight requests
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
