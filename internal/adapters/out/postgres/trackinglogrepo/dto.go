// Package trackinglogrepo persists the append-only audit trail.
// Rows carry no foreign key to the orders table on purpose: the trail must
// survive an administrative order delete.
package trackinglogrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/tracking"

	"github.com/google/uuid"
)

// LogEntryDTO represents the database structure for audit entries.
type LogEntryDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID  `gorm:"type:uuid;index"`
	ActorID        *uuid.UUID `gorm:"type:uuid"`
	Action         string
	PreviousStatus *string
	NewStatus      *string
	Details        string
	CreatedAt      time.Time `gorm:"index"`
}

// TableName specifies the database table name for audit entries.
func (LogEntryDTO) TableName() string {
	return "tracking_log"
}

// fromDomain converts an audit entry to its database representation.
func fromDomain(entry *tracking.LogEntry) LogEntryDTO {
	var actorID *uuid.UUID
	if id := entry.ActorID(); id != nil {
		raw := id.Bytes()
		actorID = &raw
	}

	return LogEntryDTO{
		ID:             entry.ID().Bytes(),
		OrderID:        entry.OrderID().Bytes(),
		ActorID:        actorID,
		Action:         string(entry.Action()),
		PreviousStatus: entry.PreviousStatus(),
		NewStatus:      entry.NewStatus(),
		Details:        entry.Details(),
		CreatedAt:      entry.CreatedAt(),
	}
}

// toDomain converts a database row back into an audit entry.
func toDomain(dto LogEntryDTO) (*tracking.LogEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var actorID *kernel.UUID
	if dto.ActorID != nil {
		aID, actorErr := kernel.UUIDFromBytes((*dto.ActorID)[:])
		if actorErr != nil {
			return nil, actorErr
		}
		actorID = &aID
	}

	return tracking.RestoreLogEntry(
		id, orderID, actorID,
		tracking.Action(dto.Action),
		dto.PreviousStatus, dto.NewStatus,
		dto.Details,
		dto.CreatedAt,
	)
}
