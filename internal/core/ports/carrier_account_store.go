package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/carrier"
)

// CarrierAccountStore is a port for reading carrier account configuration.
// Accounts are managed externally; the gateway only selects among enabled
// ones.
type CarrierAccountStore interface {
	// FindForLocation retrieves the enabled account bound to the given
	// origin location. Returns errs.ObjectNotFoundError when no binding
	// matches.
	FindForLocation(ctx context.Context, locationID string) (*carrier.Account, error)

	// FindDefault retrieves the enabled fallback account. Returns
	// errs.ObjectNotFoundError when none is configured.
	FindDefault(ctx context.Context) (*carrier.Account, error)
}
