// Package performance models the per-operator, per-day work counters that
// transition handlers update as a side effect and the performance-based
// distribution policy reads.
package performance

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Field identifies one of the monotonically incremented counters.
type Field int

const (
	// FieldUnknown represents an invalid or undefined field.
	FieldUnknown Field = iota

	// FieldAssigned counts orders assigned to the operator that day.
	FieldAssigned

	// FieldConfirmed counts orders the operator confirmed that day.
	FieldConfirmed

	// FieldDelivered counts orders delivered for the operator that day.
	FieldDelivered
)

func getFieldStrings() map[Field]string {
	return map[Field]string{
		FieldUnknown:   "unknown",
		FieldAssigned:  "orders_assigned",
		FieldConfirmed: "orders_confirmed",
		FieldDelivered: "orders_delivered",
	}
}

// Validate checks the Field is a member of the closed set.
func (f Field) Validate() error {
	if _, ok := getFieldStrings()[f]; !ok || f == FieldUnknown {
		return errs.NewValueIsInvalidErrorWithCause("performance field", fmt.Errorf("%d is not a valid field", f))
	}
	return nil
}

// String returns the column name of the counter field.
func (f Field) String() string {
	if str, ok := getFieldStrings()[f]; ok {
		return str
	}
	return "unknown"
}

// Counter is the raw (operator, day) counter row. Counters are created
// lazily on the first relevant transition of the day and only ever
// incremented; rates are derived, never stored.
type Counter struct {
	OperatorID kernel.UUID
	Day        kernel.Day
	Assigned   int
	Confirmed  int
	Delivered  int
}

// Validate checks the counter's identity fields and monotonic invariants.
func (c Counter) Validate() error {
	if err := errors.Join(c.OperatorID.Validate(), c.Day.Validate()); err != nil {
		return err
	}
	if c.Assigned < 0 || c.Confirmed < 0 || c.Delivered < 0 {
		return errs.NewValueIsInvalidError("counter values must not be negative")
	}
	return nil
}

// Rates carries the derived per-operator quality signals used by the
// performance-based distribution policy.
type Rates struct {
	Assigned  int
	Confirmed int
	Delivered int
}

// ConfirmationRate returns confirmed/assigned, or 0 when nothing was assigned.
func (r Rates) ConfirmationRate() float64 {
	if r.Assigned == 0 {
		return 0
	}
	return float64(r.Confirmed) / float64(r.Assigned)
}

// DeliveryRate returns delivered/assigned, or 0 when nothing was assigned.
func (r Rates) DeliveryRate() float64 {
	if r.Assigned == 0 {
		return 0
	}
	return float64(r.Delivered) / float64(r.Assigned)
}

// Score blends the two rates into the single weight used for ranking
// operators. Equal blend, no tuning knobs.
func (r Rates) Score() float64 {
	return (r.ConfirmationRate() + r.DeliveryRate()) / 2
}
