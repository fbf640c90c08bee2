package carrierclient

import (
	"time"

	"fulfillment/internal/core/domain/model/carrier"
)

// Wire shapes of the carrier HTTP protocol. Field names follow the
// carrier's API contract and must stay stable.

type createShipmentRequest struct {
	ExternalOrderRef   string     `json:"external_order_ref"`
	CustomerName       string     `json:"customer_name"`
	CustomerPhone      string     `json:"customer_phone"`
	CustomerAddress    string     `json:"customer_address"`
	CustomerCity       string     `json:"customer_city"`
	PackageDescription string     `json:"package_description"`
	PackageValue       float64    `json:"package_value"`
	PackageWeight      float64    `json:"package_weight,omitempty"`
	ScheduledDate      *time.Time `json:"scheduled_date,omitempty"`
	PaymentMethod      string     `json:"payment_method"`
	CODAmount          float64    `json:"cod_amount,omitempty"`
	Notes              string     `json:"notes,omitempty"`
}

type shipmentResponse struct {
	TrackingID        string     `json:"tracking_id"`
	Status            string     `json:"status"`
	TrackingURL       string     `json:"tracking_url"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
}

type trackingResponse struct {
	TrackingID string    `json:"tracking_id"`
	Status     string    `json:"status"`
	Location   string    `json:"location"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type bulkTrackingRequest struct {
	TrackingIDs []string `json:"tracking_ids"`
}

type bulkTrackingResponse struct {
	Shipments []trackingResponse `json:"shipments"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func fromCreateRequest(request carrier.ShipmentRequest) createShipmentRequest {
	return createShipmentRequest{
		ExternalOrderRef:   request.ExternalOrderRef,
		CustomerName:       request.CustomerName,
		CustomerPhone:      request.CustomerPhone,
		CustomerAddress:    request.CustomerAddress,
		CustomerCity:       request.CustomerCity,
		PackageDescription: request.PackageDescription,
		PackageValue:       request.PackageValue,
		PackageWeight:      request.PackageWeight,
		ScheduledDate:      request.ScheduledDate,
		PaymentMethod:      request.PaymentMethod,
		CODAmount:          request.CODAmount,
		Notes:              request.Notes,
	}
}

func (r shipmentResponse) toDomain() carrier.ShipmentInfo {
	return carrier.ShipmentInfo{
		TrackingID:        r.TrackingID,
		Status:            r.Status,
		TrackingURL:       r.TrackingURL,
		EstimatedDelivery: r.EstimatedDelivery,
	}
}

func (r trackingResponse) toDomain() carrier.TrackingUpdate {
	return carrier.TrackingUpdate{
		TrackingID: r.TrackingID,
		Status:     r.Status,
		Location:   r.Location,
		UpdatedAt:  r.UpdatedAt,
	}
}
