package trackinglogrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/tracking"

	"gorm.io/gorm"
)

// GormTrackingLogRepository implements TrackingLogRepository using GORM.
// The repository exposes no update or delete; the table is append-only.
type GormTrackingLogRepository struct {
	db *gorm.DB
}

// NewGormTrackingLogRepository creates a new GORM audit log repository.
func NewGormTrackingLogRepository(db *gorm.DB) *GormTrackingLogRepository {
	return &GormTrackingLogRepository{db: db}
}

// Add appends an audit entry.
func (r *GormTrackingLogRepository) Add(ctx context.Context, entry *tracking.LogEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetByOrder retrieves all entries for an order, oldest first.
func (r *GormTrackingLogRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*tracking.LogEntry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []LogEntryDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*tracking.LogEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
