// Package orderrepo provides data transfer objects and mapping functions
// for order persistence. It implements the repository pattern for the order
// aggregate, converting between domain entities and database rows.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order
// aggregates. Status and payment status are stored as their external
// vocabulary strings so the rows stay readable and the raw-SQL read side
// can filter on them directly.
type OrderDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number            string    `gorm:"uniqueIndex"`
	CustomerName      string
	CustomerPhone     string
	CustomerAddress   string
	CustomerCity      string
	Items             map[string]string `gorm:"serializer:json"`
	UnitPrice         float64
	Quantity          int
	DeliveryPrice     float64
	Total             float64
	Status            string     `gorm:"index"`
	PaymentStatus     string
	AssignedTo        *uuid.UUID `gorm:"type:uuid;index"`
	ConfirmedBy       *uuid.UUID `gorm:"type:uuid"`
	OriginLocationID  *string
	CarrierTrackingID *string `gorm:"index"`
	CarrierStatus     string
	CarrierLocation   string
	CarrierLastUpdate *time.Time
	TrackingURL       *string
	CreatedAt         time.Time `gorm:"index"`
	UpdatedAt         time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:                aggregate.ID().Bytes(),
		Number:            aggregate.Number(),
		CustomerName:      aggregate.Customer().Name(),
		CustomerPhone:     aggregate.Customer().Phone(),
		CustomerAddress:   aggregate.Customer().Address(),
		CustomerCity:      aggregate.Customer().City(),
		Items:             aggregate.Items(),
		UnitPrice:         aggregate.UnitPrice(),
		Quantity:          aggregate.Quantity(),
		DeliveryPrice:     aggregate.DeliveryPrice(),
		Total:             aggregate.Total(),
		Status:            aggregate.Status().String(),
		PaymentStatus:     aggregate.PaymentStatus().String(),
		AssignedTo:        rawUUIDPtr(aggregate.AssignedTo()),
		ConfirmedBy:       rawUUIDPtr(aggregate.ConfirmedBy()),
		OriginLocationID:  aggregate.OriginLocationID(),
		CarrierTrackingID: aggregate.CarrierTrackingID(),
		CarrierStatus:     aggregate.CarrierStatus(),
		CarrierLocation:   aggregate.CarrierLocation(),
		CarrierLastUpdate: aggregate.CarrierLastUpdate(),
		TrackingURL:       aggregate.TrackingURL(),
		CreatedAt:         aggregate.CreatedAt(),
		UpdatedAt:         aggregate.UpdatedAt(),
	}
}

// toDomain converts a database row back into an order aggregate, parsing
// the vocabulary strings so corrupt rows surface as errors.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customer, err := order.NewCustomer(dto.CustomerName, dto.CustomerPhone, dto.CustomerAddress, dto.CustomerCity)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	paymentStatus, err := order.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	assignedTo, err := kernelUUIDPtr(dto.AssignedTo)
	if err != nil {
		return nil, err
	}

	confirmedBy, err := kernelUUIDPtr(dto.ConfirmedBy)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:                id,
		Number:            dto.Number,
		Customer:          customer,
		Items:             dto.Items,
		UnitPrice:         dto.UnitPrice,
		Quantity:          dto.Quantity,
		DeliveryPrice:     dto.DeliveryPrice,
		Total:             dto.Total,
		Status:            status,
		PaymentStatus:     paymentStatus,
		AssignedTo:        assignedTo,
		ConfirmedBy:       confirmedBy,
		OriginLocationID:  dto.OriginLocationID,
		CarrierTrackingID: dto.CarrierTrackingID,
		CarrierStatus:     dto.CarrierStatus,
		CarrierLocation:   dto.CarrierLocation,
		CarrierLastUpdate: dto.CarrierLastUpdate,
		TrackingURL:       dto.TrackingURL,
		CreatedAt:         dto.CreatedAt,
		UpdatedAt:         dto.UpdatedAt,
	})
}

func rawUUIDPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func kernelUUIDPtr(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
