package accountrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCarrierAccountStore implements CarrierAccountStore using GORM.
// Accounts are managed outside this service; the store only reads enabled
// rows.
type GormCarrierAccountStore struct {
	db *gorm.DB
}

// NewGormCarrierAccountStore creates a new GORM carrier account store.
func NewGormCarrierAccountStore(db *gorm.DB) *GormCarrierAccountStore {
	return &GormCarrierAccountStore{db: db}
}

// FindForLocation retrieves the enabled account bound to the given origin
// location.
func (r *GormCarrierAccountStore) FindForLocation(ctx context.Context, locationID string) (*carrier.Account, error) {
	var dto AccountDTO
	err := r.db.WithContext(ctx).
		First(&dto, "location_id = ? AND enabled = ?", locationID, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("carrier account", locationID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindDefault retrieves the enabled fallback account.
func (r *GormCarrierAccountStore) FindDefault(ctx context.Context) (*carrier.Account, error) {
	var dto AccountDTO
	err := r.db.WithContext(ctx).
		First(&dto, "is_default = ? AND enabled = ?", true, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("carrier account", "default")
		}
		return nil, err
	}

	return toDomain(dto)
}
