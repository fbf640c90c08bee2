package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrSubmitOrderToCarrierCommandIsNotConstructed = errors.New(
	"SubmitOrderToCarrierCommand must be created via NewSubmitOrderToCarrierCommand constructor",
)

// SubmitOrderToCarrierCommand represents a request to create a carrier
// shipment for one order. Issued by the submission worker after a
// confirming transition, by the bulk handoff, and by the periodic sweep that
// retries stuck orders.
type SubmitOrderToCarrierCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewSubmitOrderToCarrierCommand creates a command to submit an order to the
// carrier.
func NewSubmitOrderToCarrierCommand(orderID kernel.UUID) (SubmitOrderToCarrierCommand, error) {
	cmd := SubmitOrderToCarrierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return SubmitOrderToCarrierCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSubmitOrderToCarrierCommandIsNotConstructed if validation fails.
func (c SubmitOrderToCarrierCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderToCarrierCommandIsNotConstructed)
}

// OrderID returns the order to submit.
func (c SubmitOrderToCarrierCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *SubmitOrderToCarrierCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
