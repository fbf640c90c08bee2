package carrier

import "time"

// AccountSource records how the gateway picked the account for a shipment,
// for the audit trail.
type AccountSource string

const (
	// AccountSourceLocationBound means the order's origin location matched
	// an enabled account binding.
	AccountSourceLocationBound AccountSource = "location-bound"

	// AccountSourceFallback means the default account was used because no
	// binding matched.
	AccountSourceFallback AccountSource = "fallback"
)

// ShipmentRequest is the carrier-agnostic shipment creation payload.
// Field names mirror the interop contract; the HTTP adapter serializes this
// shape onto the wire.
type ShipmentRequest struct {
	ExternalOrderRef string

	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	CustomerCity    string

	PackageDescription string
	PackageValue       float64
	PackageWeight      float64

	ScheduledDate *time.Time
	PaymentMethod string
	CODAmount     float64

	Notes string
}

// ShipmentInfo is the carrier's response to a successful shipment creation.
type ShipmentInfo struct {
	TrackingID        string
	Status            string
	TrackingURL       string
	EstimatedDelivery *time.Time
}

// TrackingUpdate is one shipment's current state as reported by the carrier.
type TrackingUpdate struct {
	TrackingID string
	Status     string
	Location   string
	UpdatedAt  time.Time
}
