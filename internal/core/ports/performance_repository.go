package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/performance"
)

// PerformanceRepository is a port for the per-operator daily work counters.
type PerformanceRepository interface {
	// Increment adds one to the given counter field for (operatorID, day),
	// creating the row if it does not exist yet.
	Increment(ctx context.Context, operatorID kernel.UUID, field performance.Field, day kernel.Day) error

	// GetRatesSince aggregates counters from the given day onward into
	// per-operator rates. Operators with no counters are absent from the
	// result.
	GetRatesSince(ctx context.Context, since kernel.Day) (map[kernel.UUID]performance.Rates, error)

	// GetCounters retrieves the raw daily rows for one operator in the
	// half-open range [from, to), newest first.
	GetCounters(ctx context.Context, operatorID kernel.UUID, from, to time.Time) ([]performance.Counter, error)
}
