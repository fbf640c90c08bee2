package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. Nullable columns are
// written explicitly so unassignment and cleared fields actually persist.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetUnassignedPending retrieves pending orders with no assigned operator,
// oldest first.
func (r *GormOrderRepository) GetUnassignedPending(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND assigned_to IS NULL", order.Pending.String()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetConfirmedWithoutTracking retrieves confirmed orders without a carrier
// tracking id, oldest first.
func (r *GormOrderRepository) GetConfirmedWithoutTracking(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND carrier_tracking_id IS NULL", order.Confirmed.String()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetWithActiveTracking retrieves non-terminal orders with a tracking id,
// stalest carrier state first, up to limit.
func (r *GormOrderRepository) GetWithActiveTracking(ctx context.Context, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("carrier_tracking_id IS NOT NULL AND status NOT IN ?", terminalStatusStrings()).
		Order("carrier_last_update NULLS FIRST").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// CountOpenByOperator counts open orders (pending, processing, on_hold) per
// assigned operator.
func (r *GormOrderRepository) CountOpenByOperator(ctx context.Context) (map[kernel.UUID]int, error) {
	rows, err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Select("assigned_to, count(*)").
		Where("assigned_to IS NOT NULL AND status IN ?", openStatusStrings()).
		Group("assigned_to").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[kernel.UUID]int)
	for rows.Next() {
		var rawID uuid.UUID
		var count int
		if err := rows.Scan(&rawID, &count); err != nil {
			return nil, err
		}

		id, err := kernel.UUIDFromBytes(rawID[:])
		if err != nil {
			return nil, err
		}
		counts[id] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// Delete removes an order permanently. The audit trail rows are not
// touched; they are the surviving record of the deleted order.
func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&OrderDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return nil
}

func toDomainSlice(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func terminalStatusStrings() []string {
	return []string{
		order.Delivered.String(),
		order.Cancelled.String(),
		order.Returned.String(),
	}
}

func openStatusStrings() []string {
	return []string{
		order.Pending.String(),
		order.Processing.String(),
		order.OnHold.String(),
	}
}
