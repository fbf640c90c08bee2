package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCarrierHandoffCommandIsNotConstructed = errors.New(
		"CarrierHandoffCommand must be created via NewCarrierHandoffCommand constructor",
	)
	ErrNoOrdersSelected = errors.New("no orders selected")
)

// CarrierHandoffCommand represents a request to hand a batch of confirmed
// orders off to the carrier in one operation. Each order is processed
// independently; one failing order never rolls back the others.
//
// Example:
//
//	cmd, err := NewCarrierHandoffCommand(orderIDs, actorID)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	log.Printf("submitted %d, failed %d, skipped %d",
//	    result.Submitted, result.Failed, result.Skipped)
type CarrierHandoffCommand struct { //nolint:recvcheck //using for validation
	orderIDs []kernel.UUID
	actorID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewCarrierHandoffCommand creates a command for a bulk carrier handoff.
// Requires at least one order id; every id must be valid.
func NewCarrierHandoffCommand(orderIDs []kernel.UUID, actorID kernel.UUID) (CarrierHandoffCommand, error) {
	cmd := CarrierHandoffCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderIDs(orderIDs),
		cmd.setActorID(actorID),
	); err != nil {
		return CarrierHandoffCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCarrierHandoffCommandIsNotConstructed if validation fails.
func (c CarrierHandoffCommand) Validate() error {
	return c.guard.Validate(ErrCarrierHandoffCommandIsNotConstructed)
}

// OrderIDs returns the batch of orders to hand off.
func (c CarrierHandoffCommand) OrderIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(c.orderIDs))
	copy(ids, c.orderIDs)
	return ids
}

// ActorID returns the operator running the handoff.
func (c CarrierHandoffCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c *CarrierHandoffCommand) setOrderIDs(orderIDs []kernel.UUID) error {
	if len(orderIDs) == 0 {
		return ErrNoOrdersSelected
	}
	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.orderIDs = make([]kernel.UUID, len(orderIDs))
	copy(c.orderIDs, orderIDs)
	return nil
}

func (c *CarrierHandoffCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}
