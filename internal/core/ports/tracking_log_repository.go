package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/tracking"
)

// TrackingLogRepository is a port for the append-only audit trail.
// Entries can be added and read back; there is deliberately no update or
// delete.
type TrackingLogRepository interface {
	// Add appends an audit entry.
	Add(ctx context.Context, entry *tracking.LogEntry) error

	// GetByOrder retrieves all entries for an order, oldest first.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*tracking.LogEntry, error)
}
