// Package events publishes order lifecycle events to Kafka. Publishing is
// best-effort: a broker outage is logged and never fails the request that
// triggered the event.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/desivar/bridebloom/internal/models"
)

const (
	TopicOrderCreated       = "order-created"
	TopicOrderStatusUpdated = "order-status-updated"
)

type Publisher struct {
	created       *kafka.Writer
	statusUpdated *kafka.Writer
}

// newWriter creates a kafka writer with minimal required configuration.
func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
}

func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		created:       newWriter(brokers, TopicOrderCreated),
		statusUpdated: newWriter(brokers, TopicOrderStatusUpdated),
	}
}

func (p *Publisher) Close() error {
	if err := p.created.Close(); err != nil {
		return err
	}
	return p.statusUpdated.Close()
}

func (p *Publisher) OrderCreated(ctx context.Context, order *models.Order) {
	payload, err := json.Marshal(order)
	if err != nil {
		slog.Error("Failed to marshal order event", "error", err)
		return
	}
	p.write(ctx, p.created, order.ID.Hex(), payload)
}

func (p *Publisher) OrderStatusUpdated(ctx context.Context, orderID string, status models.OrderStatus) {
	payload, err := json.Marshal(map[string]string{
		"orderId": orderID,
		"status":  string(status),
	})
	if err != nil {
		slog.Error("Failed to marshal status event", "error", err)
		return
	}
	p.write(ctx, p.statusUpdated, orderID, payload)
}

func (p *Publisher) write(ctx context.Context, writer *kafka.Writer, key string, value []byte) {
	// Keyed by order id so events for one order land on one partition.
	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}
	if err := writer.WriteMessages(ctx, message); err != nil {
		slog.Error("Failed to publish event", "topic", writer.Topic, "error", err)
	}
}
