package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelShipmentCommandIsNotConstructed = errors.New(
	"CancelShipmentCommand must be created via NewCancelShipmentCommand constructor",
)

// CancelShipmentCommand represents a request to void an order's carrier
// shipment, issued by the carrier worker after the order was cancelled.
type CancelShipmentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelShipmentCommand creates a command to cancel an order's shipment.
func NewCancelShipmentCommand(orderID kernel.UUID) (CancelShipmentCommand, error) {
	cmd := CancelShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return CancelShipmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelShipmentCommandIsNotConstructed if validation fails.
func (c CancelShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCancelShipmentCommandIsNotConstructed)
}

// OrderID returns the order whose shipment to cancel.
func (c CancelShipmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *CancelShipmentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
