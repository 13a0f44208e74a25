package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/zypso/storefront-service/pkg/cloudevents"
	"github.com/zypso/storefront-service/pkg/logging"
)

// EventHandler is a function that handles a CloudEvent
type EventHandler func(ctx context.Context, event *cloudevents.ShopCloudEvent) error

// Consumer handles consuming messages from Kafka topics
type Consumer struct {
	config   *Config
	readers  map[string]*kafka.Reader
	handlers map[string]map[string]EventHandler // topic -> eventType -> handler
	logger   *logging.Logger
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(config *Config, logger *logging.Logger) *Consumer {
	if logger == nil {
		logger = logging.New(logging.DefaultConfig(config.ClientID))
	}
	return &Consumer{
		config:   config,
		readers:  make(map[string]*kafka.Reader),
		handlers: make(map[string]map[string]EventHandler),
		logger:   logger,
	}
}

// Subscribe subscribes to a topic with a handler for a specific event type
func (c *Consumer) Subscribe(topic string, eventType string, handler EventHandler) {
	if _, exists := c.handlers[topic]; !exists {
		c.handlers[topic] = make(map[string]EventHandler)
	}
	c.handlers[topic][eventType] = handler
}

// SubscribeAll subscribes to all event types on a topic with a single handler
func (c *Consumer) SubscribeAll(topic string, handler EventHandler) {
	c.Subscribe(topic, "*", handler)
}

// getReader returns a reader for the specified topic, creating one if necessary
func (c *Consumer) getReader(topic string) *kafka.Reader {
	if reader, exists := c.readers[topic]; exists {
		return reader
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        c.config.Brokers,
		GroupID:        c.config.ConsumerGroup,
		Topic:          topic,
		MinBytes:       c.config.MinBytes,
		MaxBytes:       c.config.MaxBytes,
		MaxWait:        c.config.MaxWait,
		CommitInterval: c.config.CommitTimeout,
	})

	c.readers[topic] = reader
	return reader
}

// Start starts consuming messages from all subscribed topics
func (c *Consumer) Start(ctx context.Context) error {
	for topic := range c.handlers {
		go c.consumeTopic(ctx, topic)
	}

	<-ctx.Done()
	return ctx.Err()
}

// consumeTopic consumes messages from a single topic
func (c *Consumer) consumeTopic(ctx context.Context, topic string) {
	reader := c.getReader(topic)

	c.logger.Info("Starting consumer for topic", "topic", topic, "group", c.config.ConsumerGroup)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stopping consumer for topic", "topic", topic)
			return
		default:
			msg, err := reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("Error fetching message", "topic", topic, "error", err)
				continue
			}

			event, err := c.parseMessage(msg)
			if err != nil {
				c.logger.Error("Error parsing message", "topic", topic, "error", err)
				// Commit the message anyway to avoid blocking
				if commitErr := reader.CommitMessages(ctx, msg); commitErr != nil {
					c.logger.Error("Error committing message", "topic", topic, "error", commitErr)
				}
				continue
			}

			if err := c.handleEvent(ctx, topic, event); err != nil {
				c.logger.Error("Error handling event",
					"topic", topic,
					"eventType", event.Type,
					"eventId", event.ID,
					"error", err,
				)
				// Don't commit on handler error - this allows retry
				continue
			}

			c.logger.KafkaConsume(ctx, topic, event.Type, msg.Partition, msg.Offset)

			if err := reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("Error committing message", "topic", topic, "error", err)
			}
		}
	}
}

// parseMessage parses a Kafka message into a CloudEvent
func (c *Consumer) parseMessage(msg kafka.Message) (*cloudevents.ShopCloudEvent, error) {
	var event cloudevents.ShopCloudEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	for _, header := range msg.Headers {
		switch header.Key {
		case "ce-shopcorrelationid":
			event.CorrelationID = string(header.Value)
		case "ce-shopsessionid":
			event.SessionID = string(header.Value)
		case "ce-shoporderid":
			event.OrderID = string(header.Value)
		case "ce-traceparent":
			event.TraceParent = string(header.Value)
		case "ce-tracestate":
			event.TraceState = string(header.Value)
		}
	}

	return &event, nil
}

// handleEvent routes an event to the appropriate handler
func (c *Consumer) handleEvent(ctx context.Context, topic string, event *cloudevents.ShopCloudEvent) error {
	handlers, exists := c.handlers[topic]
	if !exists {
		return fmt.Errorf("no handlers registered for topic %s", topic)
	}

	if event.CorrelationID != "" {
		ctx = logging.ContextWithCorrelationID(ctx, event.CorrelationID)
	}
	if event.SessionID != "" {
		ctx = logging.ContextWithSessionID(ctx, event.SessionID)
	}

	if handler, exists := handlers[event.Type]; exists {
		return handler(ctx, event)
	}

	if handler, exists := handlers["*"]; exists {
		return handler(ctx, event)
	}

	c.logger.Warn("No handler found for event type", "topic", topic, "eventType", event.Type)
	return nil
}

// Close closes all readers
func (c *Consumer) Close() error {
	var lastErr error
	for topic, reader := range c.readers {
		if err := reader.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close reader for topic %s: %w", topic, err)
		}
	}
	return lastErr
}
