// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
	"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
)

// GetOrderHistoryQuery retrieves the full audit trail of one order, oldest
// entry first. The trail survives order deletion, so history remains
// queryable for deleted orders.
//
// Example:
//
//	query, err := NewGetOrderHistoryQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	entries, err := handler.Handle(ctx, query)
type GetOrderHistoryQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderHistoryQuery creates a query for one order's audit trail.
func NewGetOrderHistoryQuery(orderID kernel.UUID) (GetOrderHistoryQuery, error) {
	query := GetOrderHistoryQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return GetOrderHistoryQuery{}, err
	}
	query.orderID = orderID

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderHistoryQueryIsNotConstructed if validation fails.
func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

// OrderID returns the order whose history to retrieve.
func (q GetOrderHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderHistoryQueryResponse represents one audit entry in the read model.
type GetOrderHistoryQueryResponse struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	ActorID        *kernel.UUID
	Action         string
	PreviousStatus *string
	NewStatus      *string
	Details        string
	CreatedAt      time.Time
}
