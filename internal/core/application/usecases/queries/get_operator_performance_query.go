package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOperatorPerformanceQueryIsNotConstructed = errors.New(
	"GetOperatorPerformanceQuery must be created via NewGetOperatorPerformanceQuery constructor",
)

// GetOperatorPerformanceQuery retrieves one operator's daily work counters
// over a half-open time range [from, to), newest day first, together with
// the derived totals.
//
// Example:
//
//	to := time.Now().UTC()
//	from := to.AddDate(0, 0, -30)
//	query, err := NewGetOperatorPerformanceQuery(operatorID, from, to)
//	if err != nil {
//	    return err
//	}
//	report, err := handler.Handle(ctx, query)
//	fmt.Printf("confirmation rate: %.2f\n", report.ConfirmationRate)
type GetOperatorPerformanceQuery struct { //nolint:recvcheck //using for validation
	operatorID kernel.UUID
	from       time.Time
	to         time.Time

	guard guard.ConstructorGuard
}

// NewGetOperatorPerformanceQuery creates a performance report query.
func NewGetOperatorPerformanceQuery(operatorID kernel.UUID, from, to time.Time) (GetOperatorPerformanceQuery, error) {
	query := GetOperatorPerformanceQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := operatorID.Validate(); err != nil {
		return GetOperatorPerformanceQuery{}, err
	}
	if !from.Before(to) {
		return GetOperatorPerformanceQuery{}, errs.NewValueIsInvalidError("time range: from must precede to")
	}

	query.operatorID = operatorID
	query.from = from
	query.to = to

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOperatorPerformanceQueryIsNotConstructed if validation fails.
func (q GetOperatorPerformanceQuery) Validate() error {
	return q.guard.Validate(ErrGetOperatorPerformanceQueryIsNotConstructed)
}

// OperatorID returns the operator being reported on.
func (q GetOperatorPerformanceQuery) OperatorID() kernel.UUID {
	return q.operatorID
}

// From returns the inclusive range start.
func (q GetOperatorPerformanceQuery) From() time.Time {
	return q.from
}

// To returns the exclusive range end.
func (q GetOperatorPerformanceQuery) To() time.Time {
	return q.to
}

// OperatorPerformanceDay is one daily counter row in the read model.
type OperatorPerformanceDay struct {
	Day       string
	Assigned  int
	Confirmed int
	Delivered int
}

// GetOperatorPerformanceQueryResponse is the aggregated performance report.
// Rates are computed over the range totals, not averaged per day.
type GetOperatorPerformanceQueryResponse struct {
	OperatorID       kernel.UUID
	Days             []OperatorPerformanceDay
	TotalAssigned    int
	TotalConfirmed   int
	TotalDelivered   int
	ConfirmationRate float64
	DeliveryRate     float64
}
