package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrIllegalTransition is returned when a requested status is not
	// reachable from the order's current status for the actor's role.
	// The request is rejected with no side effects.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrEditForbidden is returned when a non-administrator attempts any
	// mutation of an order in a terminal status (delivered, cancelled,
	// returned).
	ErrEditForbidden = errors.New("order is closed for edits")

	// ErrShipmentAlreadyCreated guards the non-idempotent carrier API:
	// an order that already carries a tracking id must never be
	// resubmitted for shipment creation.
	ErrShipmentAlreadyCreated = errors.New("order already has a carrier tracking id")
)

// Actor identifies who is requesting a mutation and whether the
// administrator override applies. Modeling the override as a property of the
// actor rather than scattering role checks keeps the transition table pure:
// Status.CanTransitionTo never needs to know about roles.
type Actor struct {
	id            kernel.UUID
	administrator bool
}

// NewActor creates an Actor for the given operator.
func NewActor(id kernel.UUID, administrator bool) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, administrator: administrator}, nil
}

// ID returns the acting operator's identifier.
func (a Actor) ID() kernel.UUID { return a.id }

// IsAdministrator reports whether the administrator override applies.
func (a Actor) IsAdministrator() bool { return a.administrator }

// Transition describes an accepted status change. Handlers use it to decide
// which follow-ups fire: performance counter increments, carrier submission,
// audit logging.
type Transition struct {
	From Status
	To   Status
}

// Entered reports whether the transition moved the order into s from a
// different status. Used for the confirmed/delivered counter increments,
// which must not fire on administrator corrections within the same status.
func (t Transition) Entered(s Status) bool {
	return t.To == s && t.From != s
}

// TriggersCarrierSubmission reports whether the transition requires a
// shipment-creation follow-up at the carrier.
func (t Transition) TriggersCarrierSubmission() bool {
	return t.To == Confirmed || t.To == ImportToDeliveryCompany
}

// String renders the transition for audit log details.
func (t Transition) String() string {
	return fmt.Sprintf("%s -> %s", t.From, t.To)
}

// Order is the aggregate root for a fulfillment order. It owns the lifecycle
// status, the payment axis, the operator assignment, and the local mirror of
// the carrier's shipment state.
//
// Invariants:
//   - status and paymentStatus are always members of their closed vocabularies
//   - confirmedBy is set exactly when the order has passed through Confirmed
//   - carrier mirror fields are populated only by a successful shipment
//     creation; a failed attempt never partially populates them
//   - orders in a terminal status accept no edits from non-administrators
//
// All mutations go through methods; the persistence layer restores instances
// via RestoreOrder and must not bypass validation.
type Order struct {
	id     kernel.UUID
	number string

	customer Customer
	items    map[string]string

	unitPrice     float64
	quantity      int
	deliveryPrice float64
	total         float64

	status        Status
	paymentStatus PaymentStatus
	assignedTo    *kernel.UUID
	confirmedBy   *kernel.UUID

	originLocationID *string

	carrierTrackingID *string
	carrierStatus     string
	carrierLocation   string
	carrierLastUpdate *time.Time
	trackingURL       *string

	createdAt time.Time
	updatedAt time.Time

	guard guard.ConstructorGuard
}

// NewOrder creates an order at intake in Pending status with Unpaid payment
// status. The final total is computed from unit price, quantity, and delivery
// price and kept consistent on every commercial edit.
//
// Parameters:
//   - id: unique identifier (must be valid)
//   - number: externally visible order number (must be non-empty, unique
//     across the system; uniqueness is enforced by persistence)
//   - customer: recipient details
//   - items: semi-structured product description (arbitrary keys to values)
//   - unitPrice, quantity, deliveryPrice: commercial terms
//   - originLocationID: optional origin used for carrier account selection
func NewOrder(
	id kernel.UUID,
	number string,
	customer Customer,
	items map[string]string,
	unitPrice float64,
	quantity int,
	deliveryPrice float64,
	originLocationID *string,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: Unpaid,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomer(customer),
		o.setCommercialTerms(unitPrice, quantity, deliveryPrice),
	); err != nil {
		return nil, err
	}

	o.items = copyItems(items)
	o.originLocationID = copyStringPtr(originLocationID)

	now := time.Now().UTC()
	o.createdAt = now
	o.updatedAt = now

	return o, nil
}

// RestoreOrderParams carries the full persisted state of an order.
// Used only by the persistence layer.
type RestoreOrderParams struct {
	ID                kernel.UUID
	Number            string
	Customer          Customer
	Items             map[string]string
	UnitPrice         float64
	Quantity          int
	DeliveryPrice     float64
	Total             float64
	Status            Status
	PaymentStatus     PaymentStatus
	AssignedTo        *kernel.UUID
	ConfirmedBy       *kernel.UUID
	OriginLocationID  *string
	CarrierTrackingID *string
	CarrierStatus     string
	CarrierLocation   string
	CarrierLastUpdate *time.Time
	TrackingURL       *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RestoreOrder reconstructs an order from persistence, re-validating the
// closed vocabularies so corrupt rows surface as errors instead of invalid
// aggregates.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	o := &Order{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		o.setID(p.ID),
		o.setNumber(p.Number),
		o.setCustomer(p.Customer),
		p.Status.Validate(),
		p.PaymentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	o.items = copyItems(p.Items)
	o.unitPrice = p.UnitPrice
	o.quantity = p.Quantity
	o.deliveryPrice = p.DeliveryPrice
	o.total = p.Total
	o.status = p.Status
	o.paymentStatus = p.PaymentStatus
	o.assignedTo = copyUUIDPtr(p.AssignedTo)
	o.confirmedBy = copyUUIDPtr(p.ConfirmedBy)
	o.originLocationID = copyStringPtr(p.OriginLocationID)
	o.carrierTrackingID = copyStringPtr(p.CarrierTrackingID)
	o.carrierStatus = p.CarrierStatus
	o.carrierLocation = p.CarrierLocation
	o.carrierLastUpdate = copyTimePtr(p.CarrierLastUpdate)
	o.trackingURL = copyStringPtr(p.TrackingURL)
	o.createdAt = p.CreatedAt
	o.updatedAt = p.UpdatedAt

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// Number returns the externally visible order number.
func (o *Order) Number() string { return o.number }

// Customer returns the recipient details.
func (o *Order) Customer() Customer { return o.customer }

// Items returns a copy of the itemized product description.
func (o *Order) Items() map[string]string { return copyItems(o.items) }

// UnitPrice returns the per-unit price.
func (o *Order) UnitPrice() float64 { return o.unitPrice }

// Quantity returns the ordered quantity.
func (o *Order) Quantity() int { return o.quantity }

// DeliveryPrice returns the computed delivery price.
func (o *Order) DeliveryPrice() float64 { return o.deliveryPrice }

// Total returns the computed final total.
func (o *Order) Total() float64 { return o.total }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// PaymentStatus returns the current payment status.
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }

// AssignedTo returns the assigned operator's id, or nil if unassigned.
func (o *Order) AssignedTo() *kernel.UUID { return copyUUIDPtr(o.assignedTo) }

// ConfirmedBy returns the id of the operator who confirmed the order,
// or nil if the order has never been confirmed.
func (o *Order) ConfirmedBy() *kernel.UUID { return copyUUIDPtr(o.confirmedBy) }

// OriginLocationID returns the origin location used for carrier account
// selection, or nil.
func (o *Order) OriginLocationID() *string { return copyStringPtr(o.originLocationID) }

// CarrierTrackingID returns the carrier tracking id, or nil if no shipment
// has been created.
func (o *Order) CarrierTrackingID() *string { return copyStringPtr(o.carrierTrackingID) }

// CarrierStatus returns the carrier's own status string for the shipment.
func (o *Order) CarrierStatus() string { return o.carrierStatus }

// CarrierLocation returns the last reported shipment location.
func (o *Order) CarrierLocation() string { return o.carrierLocation }

// CarrierLastUpdate returns when the carrier mirror was last refreshed.
func (o *Order) CarrierLastUpdate() *time.Time { return copyTimePtr(o.carrierLastUpdate) }

// TrackingURL returns the public tracking URL, or nil.
func (o *Order) TrackingURL() *string { return copyStringPtr(o.trackingURL) }

// CreatedAt returns the immutable creation timestamp.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns the timestamp of the last mutation.
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// HasShipment reports whether a carrier shipment exists for the order.
func (o *Order) HasShipment() bool { return o.carrierTrackingID != nil }

// ChangeStatus requests a transition to target on behalf of actor.
//
// Legality is decided in three layers, checked in order:
//  1. ImportToDeliveryCompany is reachable only from Confirmed, for every
//     role, because the carrier API is not idempotent against resubmission.
//  2. Non-administrators are bound by the transition table: a transition
//     succeeds exactly when the table allows it. Returned has table rows
//     (back to Pending, or Cancelled), so a returned order can re-enter the
//     flow without an administrator.
//  3. A table-disallowed attempt out of Delivered or Cancelled is reported
//     as ErrEditForbidden (the order is closed), any other as
//     ErrIllegalTransition. Administrators bypass the table, so operational
//     correction of mis-entered data stays possible.
//
// On acceptance the order's status changes, updatedAt advances, and entering
// Confirmed from another status stamps confirmedBy with the actor. The
// returned Transition tells the caller which follow-ups to run.
func (o *Order) ChangeStatus(target Status, actor Actor) (Transition, error) {
	if err := target.Validate(); err != nil {
		return Transition{}, err
	}

	if target == ImportToDeliveryCompany {
		if o.status != Confirmed {
			return Transition{}, fmt.Errorf("%w: %s -> %s is only legal from %s",
				ErrIllegalTransition, o.status, target, Confirmed)
		}
	} else if !actor.IsAdministrator() && !o.status.CanTransitionTo(target) {
		if o.status == Delivered || o.status == Cancelled {
			return Transition{}, fmt.Errorf("%w: order is %s", ErrEditForbidden, o.status)
		}
		return Transition{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.status, target)
	}

	prev := o.status
	o.status = target

	if target == Confirmed && prev != Confirmed {
		actorID := actor.ID()
		o.confirmedBy = &actorID
	}

	o.touch()
	return Transition{From: prev, To: target}, nil
}

// AssignTo sets or clears the order's operator assignment.
// Assignment is an administrative concern orthogonal to fulfillment status:
// any order, in any status, may be reassigned, and the transition table does
// not apply. Passing nil unassigns the order.
func (o *Order) AssignTo(operatorID *kernel.UUID) error {
	if operatorID != nil {
		if err := operatorID.Validate(); err != nil {
			return err
		}
	}

	o.assignedTo = copyUUIDPtr(operatorID)
	o.touch()
	return nil
}

// UpdateDetails replaces the customer and commercial fields of the order,
// recomputing the total. Terminal-status orders reject the edit from
// non-administrators with ErrEditForbidden.
func (o *Order) UpdateDetails(
	customer Customer,
	items map[string]string,
	unitPrice float64,
	quantity int,
	deliveryPrice float64,
	actor Actor,
) error {
	if err := o.guardEdit(actor); err != nil {
		return err
	}
	if err := o.setCustomer(customer); err != nil {
		return err
	}
	if err := o.setCommercialTerms(unitPrice, quantity, deliveryPrice); err != nil {
		return err
	}

	o.items = copyItems(items)
	o.touch()
	return nil
}

// SetPaymentStatus moves the order along the payment axis.
// Subject to the terminal edit guard like any other field edit.
func (o *Order) SetPaymentStatus(status PaymentStatus, actor Actor) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := o.guardEdit(actor); err != nil {
		return err
	}

	o.paymentStatus = status
	o.touch()
	return nil
}

// ApplyShipment records a successful carrier shipment creation.
// All mirror fields are populated together; the method refuses to overwrite
// an existing shipment (ErrShipmentAlreadyCreated) so a retry can never
// clobber a live tracking id.
func (o *Order) ApplyShipment(trackingID, carrierStatus, trackingURL string, at time.Time) error {
	if trackingID == "" {
		return errs.NewValueIsRequiredError("tracking id")
	}
	if o.carrierTrackingID != nil {
		return fmt.Errorf("%w: %s", ErrShipmentAlreadyCreated, *o.carrierTrackingID)
	}

	o.carrierTrackingID = &trackingID
	o.carrierStatus = carrierStatus
	last := at.UTC()
	o.carrierLastUpdate = &last
	if trackingURL != "" {
		o.trackingURL = &trackingURL
	}

	o.touch()
	return nil
}

// ApplyTrackingUpdate refreshes the local mirror of the carrier's shipment
// state. Requires an existing shipment.
func (o *Order) ApplyTrackingUpdate(carrierStatus, location string, at time.Time) error {
	if o.carrierTrackingID == nil {
		return errs.NewValueIsRequiredError("carrier tracking id")
	}

	o.carrierStatus = carrierStatus
	o.carrierLocation = location
	last := at.UTC()
	o.carrierLastUpdate = &last

	o.touch()
	return nil
}

// guardEdit enforces the terminal-status edit lock for non-administrators.
func (o *Order) guardEdit(actor Actor) error {
	if o.status.IsTerminal() && !actor.IsAdministrator() {
		return fmt.Errorf("%w: order is %s", ErrEditForbidden, o.status)
	}
	return nil
}

func (o *Order) touch() {
	o.updatedAt = time.Now().UTC()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.number = number
	return nil
}

func (o *Order) setCustomer(customer Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	o.customer = customer
	return nil
}

func (o *Order) setCommercialTerms(unitPrice float64, quantity int, deliveryPrice float64) error {
	if unitPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause("unit price", fmt.Errorf("%f is negative", unitPrice))
	}
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if deliveryPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause("delivery price", fmt.Errorf("%f is negative", deliveryPrice))
	}

	o.unitPrice = unitPrice
	o.quantity = quantity
	o.deliveryPrice = deliveryPrice
	o.total = unitPrice*float64(quantity) + deliveryPrice
	return nil
}

func copyItems(items map[string]string) map[string]string {
	if items == nil {
		return nil
	}
	c := make(map[string]string, len(items))
	for k, v := range items {
		c[k] = v
	}
	return c
}

func copyStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func copyUUIDPtr(id *kernel.UUID) *kernel.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

func copyTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
