// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OperatorRepoFactory provides access to the operator repository within a transaction.
	OperatorRepoFactory interface {
		OperatorRepository() ports.OperatorRepository
	}

	// TrackingLogRepoFactory provides access to the audit log repository within a transaction.
	TrackingLogRepoFactory interface {
		TrackingLogRepository() ports.TrackingLogRepository
	}

	// PerformanceRepoFactory provides access to the performance counter repository
	// within a transaction.
	PerformanceRepoFactory interface {
		PerformanceRepository() ports.PerformanceRepository
	}

	// UoW manages transactions across the fulfillment repositories.
	// Every mutation writes its aggregate changes and its audit entry in the
	// same transaction, so the log can never disagree with the order state.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   logRepo := uow.TrackingLogRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		OperatorRepoFactory
		TrackingLogRepoFactory
		PerformanceRepoFactory
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)
