package ports

import "fulfillment/internal/core/domain/model/kernel"

// CarrierSubmitQueue is a port for handing an order off to the asynchronous
// carrier worker. Neither method may block the caller; a full queue drops
// the request, which the periodic sweep picks up later.
type CarrierSubmitQueue interface {
	// Enqueue schedules shipment creation for the order.
	Enqueue(orderID kernel.UUID)

	// EnqueueCancel schedules cancellation of the order's shipment.
	EnqueueCancel(orderID kernel.UUID)
}
