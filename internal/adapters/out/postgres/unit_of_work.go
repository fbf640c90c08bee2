// Package postgres provides the GORM-based implementation of the Unit of
// Work pattern for the fulfillment repositories.
//
// Every mutation of an order travels through a unit of work: the order row,
// its audit entry and any performance counter updates commit together or
// not at all. Each UnitOfWork instance owns one transaction; concurrent
// operations must use separate instances, which the factory guarantees.
package postgres

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/accountrepo"
	"fulfillment/internal/adapters/out/postgres/operatorrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/perfrepo"
	"fulfillment/internal/adapters/out/postgres/trackinglogrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
// Kept for outbox-style post-commit processing.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate interface{}
}

// GormUnitOfWorkFactory creates UnitOfWork instances using a shared GORM
// database connection. Each business operation gets a fresh instance with
// its own transaction state.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory bound to the given database
// connection.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance ready for transaction
// management.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction across the
// fulfillment repositories and tracks the aggregates modified within it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling Begin again on an instance with an
// active transaction is a no-op; transactions never nest.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes the transaction. After commit the instance cannot be
// reused.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. Returns gorm.ErrInvalidTransaction
// when none is active, which makes the deferred rollback after a successful
// commit harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// OrderRepository returns an order repository bound to the current
// transaction, or to the main connection when none is active.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// OperatorRepository returns an operator repository bound to the current
// transaction.
func (uow *GormUnitOfWork) OperatorRepository() ports.OperatorRepository {
	return operatorrepo.NewGormOperatorRepository(uow.conn())
}

// TrackingLogRepository returns an audit log repository bound to the
// current transaction.
func (uow *GormUnitOfWork) TrackingLogRepository() ports.TrackingLogRepository {
	return trackinglogrepo.NewGormTrackingLogRepository(uow.conn())
}

// PerformanceRepository returns a performance counter repository bound to
// the current transaction.
func (uow *GormUnitOfWork) PerformanceRepository() ports.PerformanceRepository {
	return perfrepo.NewGormPerformanceRepository(uow.conn())
}

// CarrierAccountStore returns a carrier account store reading through the
// same connection. Account reads are not transactional; the store is
// exposed here for wiring convenience.
func (uow *GormUnitOfWork) CarrierAccountStore() ports.CarrierAccountStore {
	return accountrepo.NewGormCarrierAccountStore(uow.conn())
}

// TrackAggregate registers a domain aggregate as modified within this unit
// of work. Called by repository implementations.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// GetTrackedAggregates returns the aggregates modified during this unit of
// work, in modification order.
func (uow *GormUnitOfWork) GetTrackedAggregates() []trackedAggregate {
	return uow.trackedAggregates
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
