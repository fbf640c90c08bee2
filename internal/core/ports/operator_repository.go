package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
)

// OperatorRepository is a port for accessing Operator records.
type OperatorRepository interface {
	// Get retrieves an operator by ID. Returns errs.ObjectNotFoundError if
	// the operator does not exist.
	Get(ctx context.Context, operatorID kernel.UUID) (*operator.Operator, error)

	// ListActiveEmployees retrieves all active operators eligible to
	// receive assignments.
	ListActiveEmployees(ctx context.Context) ([]*operator.Operator, error)
}
