package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrEditOrderCommandIsNotConstructed = errors.New(
	"EditOrderCommand must be created via NewEditOrderCommand constructor",
)

// EditOrderCommand represents a request to replace an order's customer and
// commercial fields, and optionally move its payment status. Terminal-status
// orders reject the edit from non-administrators.
type EditOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	actorID       kernel.UUID
	customer      order.Customer
	items         map[string]string
	unitPrice     float64
	quantity      int
	deliveryPrice float64
	paymentStatus *order.PaymentStatus

	guard guard.ConstructorGuard
}

// NewEditOrderCommand creates a command to edit an order's details.
// A nil paymentStatus leaves the payment axis untouched.
func NewEditOrderCommand(
	orderID, actorID kernel.UUID,
	customer order.Customer,
	items map[string]string,
	unitPrice float64,
	quantity int,
	deliveryPrice float64,
	paymentStatus *order.PaymentStatus,
) (EditOrderCommand, error) {
	cmd := EditOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActorID(actorID),
		cmd.setCustomer(customer),
		cmd.setPaymentStatus(paymentStatus),
	); err != nil {
		return EditOrderCommand{}, err
	}

	cmd.items = items
	cmd.unitPrice = unitPrice
	cmd.quantity = quantity
	cmd.deliveryPrice = deliveryPrice

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrEditOrderCommandIsNotConstructed if validation fails.
func (c EditOrderCommand) Validate() error {
	return c.guard.Validate(ErrEditOrderCommandIsNotConstructed)
}

// OrderID returns the order being edited.
func (c EditOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the operator performing the edit.
func (c EditOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

// Customer returns the replacement customer details.
func (c EditOrderCommand) Customer() order.Customer {
	return c.customer
}

// Items returns the replacement item descriptor map.
func (c EditOrderCommand) Items() map[string]string {
	return c.items
}

// UnitPrice returns the replacement per-unit price.
func (c EditOrderCommand) UnitPrice() float64 {
	return c.unitPrice
}

// Quantity returns the replacement quantity.
func (c EditOrderCommand) Quantity() int {
	return c.quantity
}

// DeliveryPrice returns the replacement delivery fee.
func (c EditOrderCommand) DeliveryPrice() float64 {
	return c.deliveryPrice
}

// PaymentStatus returns the new payment status, or nil to leave it as is.
func (c EditOrderCommand) PaymentStatus() *order.PaymentStatus {
	return c.paymentStatus
}

func (c *EditOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *EditOrderCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *EditOrderCommand) setCustomer(customer order.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}

	c.customer = customer
	return nil
}

func (c *EditOrderCommand) setPaymentStatus(status *order.PaymentStatus) error {
	if status != nil {
		if err := status.Validate(); err != nil {
			return err
		}
	}

	c.paymentStatus = status
	return nil
}
