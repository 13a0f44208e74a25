package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/zypso/storefront-service/pkg/cloudevents"
	"github.com/zypso/storefront-service/pkg/logging"
)

// Producer handles publishing messages to Kafka topics
type Producer struct {
	writers map[string]*kafka.Writer
	config  *Config
	logger  *logging.Logger
}

// NewProducer creates a new Kafka producer
func NewProducer(config *Config, logger *logging.Logger) *Producer {
	if logger == nil {
		logger = logging.New(logging.DefaultConfig(config.ClientID))
	}
	return &Producer{
		writers: make(map[string]*kafka.Writer),
		config:  config,
		logger:  logger,
	}
}

// getWriter returns a writer for the specified topic, creating one if necessary
func (p *Producer) getWriter(topic string) *kafka.Writer {
	if writer, exists := p.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.config.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    p.config.BatchSize,
		BatchTimeout: p.config.BatchTimeout,
		RequiredAcks: kafka.RequiredAcks(p.config.RequiredAcks),
		Async:        false,
	}

	p.writers[topic] = writer
	return writer
}

func eventMessage(event *cloudevents.ShopCloudEvent) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Subject),
		Value: data,
		Headers: []kafka.Header{
			{Key: "ce-specversion", Value: []byte(event.SpecVersion)},
			{Key: "ce-type", Value: []byte(event.Type)},
			{Key: "ce-source", Value: []byte(event.Source)},
			{Key: "ce-id", Value: []byte(event.ID)},
			{Key: "ce-time", Value: []byte(event.Time.Format(time.RFC3339))},
			{Key: "content-type", Value: []byte(event.DataContentType)},
		},
		Time: event.Time,
	}

	if event.CorrelationID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "ce-shopcorrelationid", Value: []byte(event.CorrelationID)})
	}
	if event.SessionID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "ce-shopsessionid", Value: []byte(event.SessionID)})
	}
	if event.OrderID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "ce-shoporderid", Value: []byte(event.OrderID)})
	}

	// W3C Trace Context headers
	if event.TraceParent != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "ce-traceparent", Value: []byte(event.TraceParent)})
	}
	if event.TraceState != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "ce-tracestate", Value: []byte(event.TraceState)})
	}

	return msg, nil
}

// PublishEvent publishes a CloudEvent to the specified topic
func (p *Producer) PublishEvent(ctx context.Context, topic string, event *cloudevents.ShopCloudEvent) error {
	msg, err := eventMessage(event)
	if err != nil {
		return err
	}

	start := time.Now()
	err = p.getWriter(topic).WriteMessages(ctx, msg)
	p.logger.KafkaPublish(ctx, topic, event.Type, err == nil, time.Since(start))
	if err != nil {
		return fmt.Errorf("failed to publish event to topic %s: %w", topic, err)
	}

	return nil
}

// PublishEventAsync publishes a CloudEvent asynchronously
func (p *Producer) PublishEventAsync(ctx context.Context, topic string, event *cloudevents.ShopCloudEvent, callback func(error)) {
	go func() {
		err := p.PublishEvent(ctx, topic, event)
		if callback != nil {
			callback(err)
		}
	}()
}

// PublishBatch publishes multiple events to a topic
func (p *Producer) PublishBatch(ctx context.Context, topic string, events []*cloudevents.ShopCloudEvent) error {
	messages := make([]kafka.Message, 0, len(events))

	for _, event := range events {
		msg, err := eventMessage(event)
		if err != nil {
			return fmt.Errorf("event %s: %w", event.ID, err)
		}
		messages = append(messages, msg)
	}

	start := time.Now()
	err := p.getWriter(topic).WriteMessages(ctx, messages...)
	if len(events) > 0 {
		perEvent := time.Since(start) / time.Duration(len(events))
		for _, event := range events {
			p.logger.KafkaPublish(ctx, topic, event.Type, err == nil, perEvent)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to publish batch to topic %s: %w", topic, err)
	}

	return nil
}

// Close closes all writers
func (p *Producer) Close() error {
	var lastErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close writer for topic %s: %w", topic, err)
		}
	}
	return lastErr
}
