package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/guard"
)

var ErrDistributeOrdersCommandIsNotConstructed = errors.New(
	"DistributeOrdersCommand must be created via NewDistributeOrdersCommand constructor",
)

// DistributeOrdersCommand represents a request to spread all currently
// unassigned pending orders across the active operator pool using the chosen
// policy.
//
// Example:
//
//	policy, _ := services.ParsePolicy("balanced")
//	cmd, err := NewDistributeOrdersCommand(policy, actorID)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	log.Printf("assigned %d, skipped %d", result.Assigned, result.Skipped)
type DistributeOrdersCommand struct { //nolint:recvcheck //using for validation
	policy  services.Policy
	actorID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDistributeOrdersCommand creates a command to run a distribution pass.
func NewDistributeOrdersCommand(policy services.Policy, actorID kernel.UUID) (DistributeOrdersCommand, error) {
	cmd := DistributeOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPolicy(policy),
		cmd.setActorID(actorID),
	); err != nil {
		return DistributeOrdersCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrDistributeOrdersCommandIsNotConstructed if validation fails.
func (c DistributeOrdersCommand) Validate() error {
	return c.guard.Validate(ErrDistributeOrdersCommandIsNotConstructed)
}

// Policy returns the distribution strategy to apply.
func (c DistributeOrdersCommand) Policy() services.Policy {
	return c.policy
}

// ActorID returns the operator who triggered the run.
func (c DistributeOrdersCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c *DistributeOrdersCommand) setPolicy(policy services.Policy) error {
	if err := policy.Validate(); err != nil {
		return err
	}

	c.policy = policy
	return nil
}

func (c *DistributeOrdersCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}
