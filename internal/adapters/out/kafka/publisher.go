// Package kafkapub publishes integration events to the message broker.
package kafkapub

import (
	"context"
	"encoding/json"

	"fulfillment/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// Publisher implements ports.EventPublisher over a kafka topic. Messages
// are keyed by order id so all events of one order land on the same
// partition, preserving their order for consumers.
type Publisher struct {
	writer *kafka.Writer
	topic  string
}

// NewPublisher creates a publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
		topic: topic,
	}
}

// PublishOrderChanged emits one order-changed event.
func (p *Publisher) PublishOrderChanged(ctx context.Context, event ports.OrderChangedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.OrderID),
		Value: value,
	})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
