package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderHistoryQueryHandler reads one order's audit trail straight from
// the database. Uses direct SQL for optimal read performance in the CQRS
// pattern.
type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderHistoryQueryHandler creates a handler for audit trail queries.
// Requires a GORM database connection for query execution.
func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

// Handle executes the query and returns the entries oldest first.
func (h GetOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderHistoryQuery,
) ([]GetOrderHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	entries := make([]GetOrderHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			actor_id,
			action,
			previous_status,
			new_status,
			details,
			created_at
		FROM tracking_log
		WHERE order_id = ?
		ORDER BY created_at
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry GetOrderHistoryQueryResponse
		var id, orderID uuid.UUID
		var actorID *uuid.UUID

		err = rows.Scan(
			&id,
			&orderID,
			&actorID,
			&entry.Action,
			&entry.PreviousStatus,
			&entry.NewStatus,
			&entry.Details,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		entryID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		entry.ID = entryID

		entryOrderID, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}
		entry.OrderID = entryOrderID

		if actorID != nil {
			entryActorID, idErr := kernel.UUIDFromBytes((*actorID)[:])
			if idErr != nil {
				return nil, idErr
			}
			entry.ActorID = &entryActorID
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
