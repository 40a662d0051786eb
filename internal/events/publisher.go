// Package events publishes checkout outcomes to Kafka for downstream
// consumers (vendor notifications, analytics).
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vendormarket/checkout-service/internal/config"
	"github.com/vendormarket/checkout-service/internal/models"
)

// EventType identifies a checkout event on the wire.
type EventType string

const (
	EventTypeOrderCreated      EventType = "order.created"
	EventTypeCheckoutCompleted EventType = "checkout.completed"
)

// Envelope wraps every published event.
type Envelope struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	CustomerID string          `json:"customer_id"`
	Data       json.RawMessage `json:"data"`
	Timestamp  time.Time       `json:"timestamp"`
}

// KafkaPublisher publishes checkout events to a single topic, keyed by
// customer id so one customer's events stay ordered.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaPublisher creates a Kafka-backed publisher.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.CheckoutTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		logger: logger.Named("event-publisher"),
	}
}

// PublishOrderCreated announces one newly created vendor order.
func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return p.publish(ctx, EventTypeOrderCreated, order.CustomerID, data)
}

// PublishCheckoutCompleted announces a fully successful checkout.
func (p *KafkaPublisher) PublishCheckoutCompleted(ctx context.Context, customerID string, orderIDs []string, total decimal.Decimal) error {
	payload := struct {
		CustomerID string          `json:"customer_id"`
		OrderIDs   []string        `json:"order_ids"`
		Total      decimal.Decimal `json:"total"`
	}{
		CustomerID: customerID,
		OrderIDs:   orderIDs,
		Total:      total,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.publish(ctx, EventTypeCheckoutCompleted, customerID, data)
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType EventType, customerID string, data []byte) error {
	event := Envelope{
		ID:         "evt_" + uuid.NewString(),
		Type:       eventType,
		CustomerID: customerID,
		Data:       data,
		Timestamp:  time.Now().UTC(),
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(customerID),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}

	p.logger.Info("Event published",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("customer_id", customerID))

	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("Closing event publisher")
	return p.writer.Close()
}

// NoopPublisher discards events. Used when checkout events are disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, *models.Order) error { return nil }

func (NoopPublisher) PublishCheckoutCompleted(context.Context, string, []string, decimal.Decimal) error {
	return nil
}
