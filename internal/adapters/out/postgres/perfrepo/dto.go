// Package perfrepo persists the per-operator daily performance counters.
package perfrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/performance"

	"github.com/google/uuid"
)

// CounterDTO represents one (operator, day) counter row. Rows are created
// lazily on the first increment of the day and only ever grow.
type CounterDTO struct {
	OperatorID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Day             time.Time `gorm:"type:date;primaryKey"`
	OrdersAssigned  int
	OrdersConfirmed int
	OrdersDelivered int
}

// TableName specifies the database table name for counter rows.
func (CounterDTO) TableName() string {
	return "operator_performance"
}

// toDomain converts a database row back into a counter value.
func toDomain(dto CounterDTO) (performance.Counter, error) {
	id, err := kernel.UUIDFromBytes(dto.OperatorID[:])
	if err != nil {
		return performance.Counter{}, err
	}

	return performance.Counter{
		OperatorID: id,
		Day:        kernel.DayOf(dto.Day),
		Assigned:   dto.OrdersAssigned,
		Confirmed:  dto.OrdersConfirmed,
		Delivered:  dto.OrdersDelivered,
	}, nil
}
