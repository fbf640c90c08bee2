package postgres

import (
	"fulfillment/internal/adapters/out/postgres/accountrepo"
	"fulfillment/internal/adapters/out/postgres/operatorrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/perfrepo"
	"fulfillment/internal/adapters/out/postgres/trackinglogrepo"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the database schema for all aggregates.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&operatorrepo.OperatorDTO{},
		&trackinglogrepo.LogEntryDTO{},
		&perfrepo.CounterDTO{},
		&accountrepo.AccountDTO{},
	)
}
