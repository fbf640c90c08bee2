package order

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrCustomerIsNotConstructed is returned when a Customer instance was not
// created through the NewCustomer factory method.
var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")

// Customer is a value object holding the recipient details of an order.
// Fields are free text, not normalized: addresses and cities arrive from
// intake forms as typed and are forwarded to the carrier verbatim.
type Customer struct {
	name    string
	phone   string
	address string
	city    string
	guard   guard.ConstructorGuard
}

// NewCustomer creates a Customer value object.
// Name and phone are required; address and city may be empty at intake and
// completed later by an operator.
func NewCustomer(name, phone, address, city string) (Customer, error) {
	if name == "" {
		return Customer{}, errs.NewValueIsRequiredError("customer name")
	}
	if phone == "" {
		return Customer{}, errs.NewValueIsRequiredError("customer phone")
	}

	return Customer{
		name:    name,
		phone:   phone,
		address: address,
		city:    city,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Name returns the customer's name.
func (c Customer) Name() string { return c.name }

// Phone returns the customer's phone number.
func (c Customer) Phone() string { return c.phone }

// Address returns the free-text delivery address.
func (c Customer) Address() string { return c.address }

// City returns the free-text delivery city.
func (c Customer) City() string { return c.city }

// Validate ensures the Customer was built via NewCustomer.
func (c Customer) Validate() error {
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}
