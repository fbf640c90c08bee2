package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUnassignedOrdersQueryHandler reads the unassigned pending backlog.
// Uses direct SQL for optimal read performance in the CQRS pattern.
type GetUnassignedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetUnassignedOrdersQueryHandler creates a handler for backlog queries.
// Requires a GORM database connection for query execution.
func NewGetUnassignedOrdersQueryHandler(db *gorm.DB) GetUnassignedOrdersQueryHandler {
	return GetUnassignedOrdersQueryHandler{db: db}
}

// Handle executes the query and returns the backlog oldest first.
func (h GetUnassignedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetUnassignedOrdersQuery,
) ([]GetUnassignedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetUnassignedOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			customer_name,
			customer_city,
			total,
			created_at
		FROM orders
		WHERE status = 'pending'
		  AND assigned_to IS NULL
		ORDER BY created_at
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ord GetUnassignedOrdersQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&ord.Number,
			&ord.CustomerName,
			&ord.CustomerCity,
			&ord.Total,
			&ord.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		ord.ID = orderID

		orders = append(orders, ord)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
