package perfrepo

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/performance"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPerformanceRepository implements PerformanceRepository using GORM.
type GormPerformanceRepository struct {
	db *gorm.DB
}

// NewGormPerformanceRepository creates a new GORM counter repository.
func NewGormPerformanceRepository(db *gorm.DB) *GormPerformanceRepository {
	return &GormPerformanceRepository{db: db}
}

// Increment adds one to the given counter field for (operatorID, day),
// creating the row on first touch. Implemented as an upsert so two
// concurrent transitions both land.
func (r *GormPerformanceRepository) Increment(
	ctx context.Context,
	operatorID kernel.UUID,
	field performance.Field,
	day kernel.Day,
) error {
	if err := operatorID.Validate(); err != nil {
		return err
	}
	if err := field.Validate(); err != nil {
		return err
	}
	if err := day.Validate(); err != nil {
		return err
	}

	column := field.String()
	dto := CounterDTO{
		OperatorID: operatorID.Bytes(),
		Day:        day.Time(),
	}

	switch field {
	case performance.FieldAssigned:
		dto.OrdersAssigned = 1
	case performance.FieldConfirmed:
		dto.OrdersConfirmed = 1
	case performance.FieldDelivered:
		dto.OrdersDelivered = 1
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "operator_id"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				column: gorm.Expr(column + " + 1"),
			}),
		}).
		Create(&dto).Error
}

// GetRatesSince aggregates counters from the given day onward into
// per-operator rates.
func (r *GormPerformanceRepository) GetRatesSince(ctx context.Context, since kernel.Day) (map[kernel.UUID]performance.Rates, error) {
	if err := since.Validate(); err != nil {
		return nil, err
	}

	rows, err := r.db.WithContext(ctx).
		Model(&CounterDTO{}).
		Select("operator_id, sum(orders_assigned), sum(orders_confirmed), sum(orders_delivered)").
		Where("day >= ?", since.Time()).
		Group("operator_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rates := make(map[kernel.UUID]performance.Rates)
	for rows.Next() {
		var rawID uuid.UUID
		var assigned, confirmed, delivered int
		if err := rows.Scan(&rawID, &assigned, &confirmed, &delivered); err != nil {
			return nil, err
		}

		id, err := kernel.UUIDFromBytes(rawID[:])
		if err != nil {
			return nil, err
		}
		rates[id] = performance.Rates{
			Assigned:  assigned,
			Confirmed: confirmed,
			Delivered: delivered,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rates, nil
}

// GetCounters retrieves the raw daily rows for one operator in [from, to),
// newest first.
func (r *GormPerformanceRepository) GetCounters(
	ctx context.Context,
	operatorID kernel.UUID,
	from, to time.Time,
) ([]performance.Counter, error) {
	if err := operatorID.Validate(); err != nil {
		return nil, err
	}

	var dtos []CounterDTO
	err := r.db.WithContext(ctx).
		Where("operator_id = ? AND day >= ? AND day < ?", operatorID.Bytes(), from, to).
		Order("day DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	counters := make([]performance.Counter, 0, len(dtos))
	for _, dto := range dtos {
		counter, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		counters = append(counters, counter)
	}

	return counters, nil
}
