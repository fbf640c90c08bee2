package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/carrier"
)

// CarrierClient is a port for the external delivery carrier API. All calls
// go out over the network; failures surface as errors and must never be
// allowed to fail the domain transition that triggered them.
type CarrierClient interface {
	// CreateShipment registers a shipment under the given account and
	// returns the carrier's tracking info.
	CreateShipment(ctx context.Context, account *carrier.Account, request carrier.ShipmentRequest) (carrier.ShipmentInfo, error)

	// CancelShipment voids a shipment at the carrier. Cancelling an
	// already-cancelled shipment is a carrier-side no-op.
	CancelShipment(ctx context.Context, account *carrier.Account, trackingID string) error

	// GetTracking fetches the current state of one shipment.
	GetTracking(ctx context.Context, account *carrier.Account, trackingID string) (carrier.TrackingUpdate, error)

	// BulkGetTracking fetches the current state of up to 100 shipments in
	// one call. Tracking IDs the carrier does not know are absent from the
	// result.
	BulkGetTracking(ctx context.Context, account *carrier.Account, trackingIDs []string) ([]carrier.TrackingUpdate, error)
}
