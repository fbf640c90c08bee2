package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderNumberIsRequired = errors.New("order number is required")
)

// CreateOrderCommand represents a request to register a new fulfillment order.
// The order enters the pipeline in pending status with a "created" audit
// entry; carrier interaction starts later, on confirmation.
//
// Example:
//
//	customer, _ := order.NewCustomer("Jane Roe", "+15550100", "12 Main St", "Springfield")
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), "ORD-1042", customer,
//	    map[string]string{"sku-1": "2"}, 19.90, 2, 5.00, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	number           string
	customer         order.Customer
	items            map[string]string
	unitPrice        float64
	quantity         int
	deliveryPrice    float64
	originLocationID *string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates the identifier, order number and customer; commercial values are
// validated later by the aggregate constructor.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	number string,
	customer order.Customer,
	items map[string]string,
	unitPrice float64,
	quantity int,
	deliveryPrice float64,
	originLocationID *string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setNumber(number),
		cmd.setCustomer(customer),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.items = items
	cmd.unitPrice = unitPrice
	cmd.quantity = quantity
	cmd.deliveryPrice = deliveryPrice
	cmd.originLocationID = originLocationID

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Number returns the human-facing order number.
func (c CreateOrderCommand) Number() string {
	return c.number
}

// Customer returns the customer contact details.
func (c CreateOrderCommand) Customer() order.Customer {
	return c.customer
}

// Items returns the item descriptor map.
func (c CreateOrderCommand) Items() map[string]string {
	return c.items
}

// UnitPrice returns the per-unit price.
func (c CreateOrderCommand) UnitPrice() float64 {
	return c.unitPrice
}

// Quantity returns the ordered quantity.
func (c CreateOrderCommand) Quantity() int {
	return c.quantity
}

// DeliveryPrice returns the delivery fee.
func (c CreateOrderCommand) DeliveryPrice() float64 {
	return c.deliveryPrice
}

// OriginLocationID returns the optional origin location binding.
func (c CreateOrderCommand) OriginLocationID() *string {
	return c.originLocationID
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setNumber(number string) error {
	if number == "" {
		return ErrOrderNumberIsRequired
	}

	c.number = number
	return nil
}

func (c *CreateOrderCommand) setCustomer(customer order.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}

	c.customer = customer
	return nil
}
