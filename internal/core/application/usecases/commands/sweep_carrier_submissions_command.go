package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrSweepCarrierSubmissionsCommandIsNotConstructed = errors.New(
	"SweepCarrierSubmissionsCommand must be created via NewSweepCarrierSubmissionsCommand constructor",
)

// SweepCarrierSubmissionsCommand represents a request to retry carrier
// submission for confirmed orders that still have no tracking id. The sweep
// is the safety net behind the asynchronous submission worker: anything the
// worker dropped or failed is picked up here.
type SweepCarrierSubmissionsCommand struct {
	guard guard.ConstructorGuard
}

// NewSweepCarrierSubmissionsCommand creates a command to run a submission
// sweep.
func NewSweepCarrierSubmissionsCommand() SweepCarrierSubmissionsCommand {
	return SweepCarrierSubmissionsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrSweepCarrierSubmissionsCommandIsNotConstructed if validation fails.
func (c *SweepCarrierSubmissionsCommand) Validate() error {
	return c.guard.Validate(ErrSweepCarrierSubmissionsCommandIsNotConstructed)
}
