package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand represents a request to assign an order to an operator,
// or to unassign it. Assignment is orthogonal to fulfillment status: any
// order, in any status, may be reassigned.
//
// Example:
//
//	cmd, err := NewAssignOrderCommand(orderID, &operatorID, actorID)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, operator.ErrInvalidOperator) {
//	    // target operator is inactive or unknown
//	}
type AssignOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	operatorID *kernel.UUID
	actorID    kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignOrderCommand creates a command to (re)assign an order.
// A nil operatorID unassigns the order.
func NewAssignOrderCommand(orderID kernel.UUID, operatorID *kernel.UUID, actorID kernel.UUID) (AssignOrderCommand, error) {
	cmd := AssignOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setOperatorID(operatorID),
		cmd.setActorID(actorID),
	); err != nil {
		return AssignOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignOrderCommandIsNotConstructed if validation fails.
func (c AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}

// OrderID returns the order being assigned.
func (c AssignOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// OperatorID returns the target operator, or nil for unassignment.
func (c AssignOrderCommand) OperatorID() *kernel.UUID {
	return c.operatorID
}

// ActorID returns the operator performing the assignment.
func (c AssignOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c *AssignOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignOrderCommand) setOperatorID(operatorID *kernel.UUID) error {
	if operatorID != nil {
		if err := operatorID.Validate(); err != nil {
			return err
		}
	}

	c.operatorID = operatorID
	return nil
}

func (c *AssignOrderCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}
