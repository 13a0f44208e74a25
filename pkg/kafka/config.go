package kafka

import (
	"time"
)

// Config holds Kafka configuration
type Config struct {
	Brokers       []string
	ConsumerGroup string
	ClientID      string

	// Producer settings
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int // 0: no ack, 1: leader ack, -1: all replicas ack

	// Consumer settings
	MinBytes      int
	MaxBytes      int
	MaxWait       time.Duration
	CommitTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Brokers:       []string{"localhost:9092"},
		ConsumerGroup: "storefront-default-group",
		ClientID:      "storefront-client",

		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: -1, // All replicas

		MinBytes:      1,
		MaxBytes:      10e6, // 10MB
		MaxWait:       500 * time.Millisecond,
		CommitTimeout: 5 * time.Second,
	}
}

// Topics contains all storefront Kafka topic names
var Topics = struct {
	// Inbound feeds from the admin side
	CatalogEvents string
	ConfigEvents  string

	// Outbound domain events
	OrdersEvents string
}{
	CatalogEvents: "shop.catalog.events",
	ConfigEvents:  "shop.config.events",
	OrdersEvents:  "shop.orders.events",
}

// TopicConfig holds configuration for a Kafka topic
type TopicConfig struct {
	Name              string
	Partitions        int
	ReplicationFactor int
	RetentionMs       int64
}

// DefaultTopicConfigs returns default configurations for storefront topics
func DefaultTopicConfigs() []TopicConfig {
	return []TopicConfig{
		{Name: Topics.CatalogEvents, Partitions: 6, ReplicationFactor: 3, RetentionMs: 7 * 24 * 60 * 60 * 1000},
		{Name: Topics.ConfigEvents, Partitions: 1, ReplicationFactor: 3, RetentionMs: 7 * 24 * 60 * 60 * 1000},
		{Name: Topics.OrdersEvents, Partitions: 6, ReplicationFactor: 3, RetentionMs: 30 * 24 * 60 * 60 * 1000},
	}
}
