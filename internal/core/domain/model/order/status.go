package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with a fixed transition table to ensure orders
// follow the fulfillment workflow. The table below applies to the default
// (employee) role; administrators bypass it through the override path in
// Order.ChangeStatus, which keeps the legality matrix itself pure.
//
// Default transitions:
//
//	pending          -> confirmed, cancelled, on_hold
//	confirmed        -> processing, cancelled, on_hold
//	processing       -> out_for_delivery, cancelled, on_hold
//	out_for_delivery -> delivered, returned, cancelled
//	on_hold          -> pending, confirmed, cancelled
//	returned         -> pending, cancelled
//	delivered        -> (terminal)
//	cancelled        -> (terminal)
//
// The negotiation sub-states (0_tent .. 6_tent) have no default transitions
// and are reachable only through the administrator override. The handoff
// state import_to_delivery_company is reachable only from confirmed, for every
// role, because the carrier API does not tolerate resubmission from any other
// local state.
//
// The string vocabulary is part of the external contract and must stay
// bit-exact; it is shared with the UI and import tooling.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of every order at intake.
	Pending

	// Confirmed means an operator validated the order with the customer.
	// Entering this status stamps confirmed_by and triggers carrier
	// shipment creation as a follow-up task.
	Confirmed

	// Processing means the order is being prepared for dispatch.
	Processing

	// OutForDelivery means the physical shipment is with the carrier's courier.
	OutForDelivery

	// Delivered is a terminal status for non-administrators.
	Delivered

	// Cancelled is a terminal status for non-administrators.
	Cancelled

	// Returned means the shipment came back; the order may re-enter the
	// pipeline via pending.
	Returned

	// OnHold parks an order without losing its place in the pipeline.
	OnHold

	// Tent0 through Tent6 are negotiation sub-states used by the call
	// center while a customer is being chased. They carry no default
	// transitions and are managed by administrators only.
	Tent0
	Tent1
	Tent2
	Tent3
	Tent4
	Tent5
	Tent6

	// ImportToDeliveryCompany marks the order as handed to the carrier.
	// Legal only from Confirmed, regardless of role.
	ImportToDeliveryCompany
)

// getStatusStrings returns the mapping of Status values to their external
// string vocabulary. The strings are bit-exact per the interop contract.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:                 "unknown",
		Pending:                 "pending",
		Confirmed:               "confirmed",
		Processing:              "processing",
		OutForDelivery:          "out_for_delivery",
		Delivered:               "delivered",
		Cancelled:               "cancelled",
		Returned:                "returned",
		OnHold:                  "on_hold",
		Tent0:                   "0_tent",
		Tent1:                   "1_tent",
		Tent2:                   "2_tent",
		Tent3:                   "3_tent",
		Tent4:                   "4_tent",
		Tent5:                   "5_tent",
		Tent6:                   "6_tent",
		ImportToDeliveryCompany: "import_to_delivery_company",
	}
}

// transitionTable returns the allowed target statuses per source status for
// the default role. Statuses absent from the table allow no transitions.
// ImportToDeliveryCompany is deliberately absent as a target here: its single
// legal source (Confirmed) is enforced separately and role-independently.
func transitionTable() map[Status][]Status {
	return map[Status][]Status{
		Pending:        {Confirmed, Cancelled, OnHold},
		Confirmed:      {Processing, Cancelled, OnHold},
		Processing:     {OutForDelivery, Cancelled, OnHold},
		OutForDelivery: {Delivered, Returned, Cancelled},
		OnHold:         {Pending, Confirmed, Cancelled},
		Returned:       {Pending, Cancelled},
	}
}

// AllStatuses returns every valid status, in declaration order.
// Useful for exhaustive transition checks in tests and for vocabulary export.
func AllStatuses() []Status {
	return []Status{
		Pending, Confirmed, Processing, OutForDelivery, Delivered,
		Cancelled, Returned, OnHold,
		Tent0, Tent1, Tent2, Tent3, Tent4, Tent5, Tent6,
		ImportToDeliveryCompany,
	}
}

// ParseStatus converts an external vocabulary string to a Status.
// Returns an error for unknown strings; "unknown" itself is not accepted.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", s))
}

// Validate checks if the Status value is a member of the closed vocabulary.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the external vocabulary string for the status.
// Implements fmt.Stringer; safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// CanTransitionTo reports whether the default role may move an order from s
// to target according to the transition table. It does not consider the
// administrator override or the terminal edit guard; those are actor
// concerns handled by Order.ChangeStatus.
func (s Status) CanTransitionTo(target Status) bool {
	if target == ImportToDeliveryCompany {
		return s == Confirmed
	}
	for _, allowed := range transitionTable()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status locks the order against all field
// edits by non-administrators (delivered, cancelled, returned).
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Returned
}
