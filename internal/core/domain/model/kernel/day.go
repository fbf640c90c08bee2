package kernel

import (
	"time"

	"fulfillment/internal/pkg/errs"
)

// ErrDayIsNotConstructed indicates that a Day was not created via DayOf or Today.
var ErrDayIsNotConstructed = errs.NewValueIsRequiredError("Day must be created via DayOf or Today")

// Day is a value object representing a single calendar day in UTC.
// Performance counters are keyed by (operator, Day), so the type normalizes
// away the time-of-day component once, at construction, instead of every
// consumer truncating timestamps on its own.
//
// Day is comparable and may be used as a map key.
type Day struct {
	t time.Time
}

// DayOf returns the Day containing the given instant, evaluated in UTC.
func DayOf(t time.Time) Day {
	y, m, d := t.UTC().Date()
	return Day{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day in UTC.
func Today() Day {
	return DayOf(time.Now())
}

// Time returns the midnight instant of the day in UTC.
func (d Day) Time() time.Time {
	return d.t
}

// String returns the day formatted as YYYY-MM-DD.
func (d Day) String() string {
	return d.t.Format("2006-01-02")
}

// IsEqual compares two days for equality.
func (d Day) IsEqual(other Day) bool {
	return d.t.Equal(other.t)
}

// Validate checks the Day is not a zero value.
func (d Day) Validate() error {
	if d.t.IsZero() {
		return ErrDayIsNotConstructed
	}
	return nil
}
