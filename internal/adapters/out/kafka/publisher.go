// Package kafka publishes order domain events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/ports"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var (
	_ ports.OrderEventPublisher = (*OrderEventPublisher)(nil)
	_ ports.OrderEventPublisher = NoopPublisher{}
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// StatusChangedMessage is the JSON value written for every status change.
type StatusChangedMessage struct {
	Event            string    `json:"event"`
	OrderID          string    `json:"orderId"`
	OrderCode        string    `json:"orderCode"`
	CainiaoOrderCode string    `json:"cainiaoOrderCode,omitempty"`
	FromStatus       string    `json:"fromStatus"`
	ToStatus         string    `json:"toStatus"`
	ToStatusName     string    `json:"toStatusName"`
	OccurredAt       time.Time `json:"occurredAt"`
}

// OrderEventPublisher writes one message per event, keyed by order code so
// that events for the same order stay on one partition.
type OrderEventPublisher struct {
	writer messageWriter
	logger *zap.Logger
}

// NewOrderEventPublisher creates a publisher writing to topic on brokers.
// Messages are keyed by order code so all changes of one order land on the
// same partition in order. Writes wait for all in-sync replicas.
//
// Example:
//
//	publisher := kafka.NewOrderEventPublisher([]string{"localhost:9092"}, "pickup.order.changed", logger)
//	defer publisher.Close()
func NewOrderEventPublisher(brokers []string, topic string, logger *zap.Logger) *OrderEventPublisher {
	return NewOrderEventPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
	}, logger)
}

// NewOrderEventPublisherWithWriter publishes through an existing writer.
func NewOrderEventPublisherWithWriter(writer messageWriter, logger *zap.Logger) *OrderEventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderEventPublisher{writer: writer, logger: logger.Named("kafka")}
}

// Publish writes one StatusChangedMessage per event in a single batch. A
// write failure is returned wrapped; callers decide whether it is fatal.
func (p *OrderEventPublisher) Publish(ctx context.Context, events ...order.StatusChanged) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(StatusChangedMessage{
			Event:            e.EventName(),
			OrderID:          e.OrderID.String(),
			OrderCode:        e.OrderCode,
			CainiaoOrderCode: e.CainiaoOrderCode,
			FromStatus:       e.From.Code(),
			ToStatus:         e.To.Code(),
			ToStatusName:     e.To.String(),
			OccurredAt:       e.OccurredAt,
		})
		if err != nil {
			return fmt.Errorf("encode %s for %s: %w", e.EventName(), e.OrderCode, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.OrderCode),
			Value: value,
			Headers: []kafka.Header{
				{Key: "event", Value: []byte(e.EventName())},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d order events: %w", len(msgs), err)
	}
	p.logger.Debug("order events published", zap.Int("count", len(msgs)))
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events; it is used when no brokers are configured.
type NoopPublisher struct{}

// Publish discards events.
func (NoopPublisher) Publish(context.Context, ...order.StatusChanged) error {
	return nil
}

// Close does nothing.
func (NoopPublisher) Close() error {
	return nil
}
