// Package accountrepo reads carrier account configuration.
package accountrepo

import (
	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AccountDTO represents the database structure for carrier accounts.
type AccountDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string
	BaseURL    string
	APIKey     string
	LocationID *string `gorm:"index"`
	IsDefault  bool
	Enabled    bool
}

// TableName specifies the database table name for carrier accounts.
func (AccountDTO) TableName() string {
	return "carrier_accounts"
}

// toDomain converts a database row back into a carrier account.
func toDomain(dto AccountDTO) (*carrier.Account, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return carrier.NewAccount(id, dto.Name, dto.BaseURL, dto.APIKey, dto.LocationID, dto.IsDefault, dto.Enabled)
}
