package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRefreshTrackingCommandIsNotConstructed = errors.New(
	"RefreshTrackingCommand must be created via NewRefreshTrackingCommand constructor",
)

// RefreshTrackingCommand represents a request to fetch one shipment's
// current state from the carrier and update the order's local mirror.
type RefreshTrackingCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRefreshTrackingCommand creates a command to refresh one order's
// tracking state.
func NewRefreshTrackingCommand(orderID kernel.UUID) (RefreshTrackingCommand, error) {
	cmd := RefreshTrackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return RefreshTrackingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRefreshTrackingCommandIsNotConstructed if validation fails.
func (c RefreshTrackingCommand) Validate() error {
	return c.guard.Validate(ErrRefreshTrackingCommandIsNotConstructed)
}

// OrderID returns the order whose tracking state to refresh.
func (c RefreshTrackingCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *RefreshTrackingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
