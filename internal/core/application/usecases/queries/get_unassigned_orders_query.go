package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetUnassignedOrdersQueryIsNotConstructed = errors.New(
	"GetUnassignedOrdersQuery must be created via NewGetUnassignedOrdersQuery constructor",
)

// GetUnassignedOrdersQuery retrieves all pending orders with no assigned
// operator, oldest first. This is the same candidate set a distribution run
// would pick up, exposed for operator dashboards.
type GetUnassignedOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUnassignedOrdersQuery creates a query for the unassigned backlog.
// This is a parameterless query.
func NewGetUnassignedOrdersQuery() GetUnassignedOrdersQuery {
	return GetUnassignedOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetUnassignedOrdersQueryIsNotConstructed if validation fails.
func (q GetUnassignedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUnassignedOrdersQueryIsNotConstructed)
}

// GetUnassignedOrdersQueryResponse represents one backlog order in the read
// model.
type GetUnassignedOrdersQueryResponse struct {
	ID           kernel.UUID
	Number       string
	CustomerName string
	CustomerCity string
	Total        float64
	CreatedAt    time.Time
}
