package ports

import (
	"context"
	"time"
)

// OrderChangedEvent is the integration event emitted after an order's status
// changed and the transaction committed.
type OrderChangedEvent struct {
	OrderID        string    `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// EventPublisher is a port for emitting integration events to the message
// broker. Publishing is best effort and happens after commit; a publish
// failure is logged, never propagated to the caller.
type EventPublisher interface {
	PublishOrderChanged(ctx context.Context, event OrderChangedEvent) error
}
