package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository is a port for accessing and modifying Order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by ID. Returns errs.ObjectNotFoundError if
	// the order does not exist.
	Get(ctx context.Context, orderID kernel.UUID) (*order.Order, error)

	// GetUnassignedPending retrieves orders in pending status with no
	// assigned operator, oldest first. This is the candidate set for a
	// distribution run.
	GetUnassignedPending(ctx context.Context) ([]*order.Order, error)

	// GetConfirmedWithoutTracking retrieves confirmed orders that have no
	// carrier tracking ID yet, oldest first. These are candidates for
	// carrier submission retry.
	GetConfirmedWithoutTracking(ctx context.Context) ([]*order.Order, error)

	// GetWithActiveTracking retrieves orders that have a carrier tracking
	// ID and are not yet in a terminal status, up to limit, oldest update
	// first. These are candidates for a bulk tracking sync.
	GetWithActiveTracking(ctx context.Context, limit int) ([]*order.Order, error)

	// CountOpenByOperator returns, per operator, the number of open orders
	// (pending, processing, on_hold) currently assigned to them.
	CountOpenByOperator(ctx context.Context) (map[kernel.UUID]int, error)

	// Delete removes an order permanently. The caller is responsible for
	// authorization; the audit trail for the order is retained.
	Delete(ctx context.Context, orderID kernel.UUID) error
}
