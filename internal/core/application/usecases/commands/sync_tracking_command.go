package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrSyncTrackingCommandIsNotConstructed = errors.New(
	"SyncTrackingCommand must be created via NewSyncTrackingCommand constructor",
)

// maxTrackingBatch is the carrier bulk tracking endpoint's hard cap per call.
const maxTrackingBatch = 100

// SyncTrackingCommand represents a request to refresh the carrier state of
// a batch of actively tracked orders, typically issued by the scheduled sync
// job.
type SyncTrackingCommand struct { //nolint:recvcheck //using for validation
	limit int

	guard guard.ConstructorGuard
}

// NewSyncTrackingCommand creates a command for a bulk tracking sync over at
// most limit orders.
func NewSyncTrackingCommand(limit int) (SyncTrackingCommand, error) {
	cmd := SyncTrackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setLimit(limit); err != nil {
		return SyncTrackingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSyncTrackingCommandIsNotConstructed if validation fails.
func (c SyncTrackingCommand) Validate() error {
	return c.guard.Validate(ErrSyncTrackingCommandIsNotConstructed)
}

// Limit returns the maximum number of orders to sync in this run.
func (c SyncTrackingCommand) Limit() int {
	return c.limit
}

func (c *SyncTrackingCommand) setLimit(limit int) error {
	if limit <= 0 {
		return errs.NewValueIsInvalidError("limit must be greater than 0")
	}

	c.limit = limit
	return nil
}
