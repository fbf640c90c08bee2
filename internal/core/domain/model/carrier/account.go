// Package carrier models the external delivery carrier: the configured
// accounts shipments are created under, and the request/response shapes of
// the carrier-agnostic shipment protocol.
package carrier

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrAccountIsNotConstructed is returned when an Account was not created
// through NewAccount.
var ErrAccountIsNotConstructed = errors.New("Account must be created via NewAccount constructor")

// Account is a configured carrier account: credentials plus the origin
// location it serves. Accounts are owned by the external account store; the
// gateway only reads them (through a cache) to pick the account for an order.
type Account struct {
	id         kernel.UUID
	name       string
	baseURL    string
	apiKey     string
	locationID *string
	isDefault  bool
	enabled    bool
	guard      guard.ConstructorGuard
}

// NewAccount creates a carrier account record.
//
// Parameters:
//   - locationID: the origin location this account is bound to, or nil for
//     an unbound account
//   - isDefault: marks the fallback account used when no location binding
//     matches an order
func NewAccount(
	id kernel.UUID,
	name, baseURL, apiKey string,
	locationID *string,
	isDefault, enabled bool,
) (*Account, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("account name")
	}
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("account base URL")
	}
	if apiKey == "" {
		return nil, errs.NewValueIsRequiredError("account api key")
	}

	var loc *string
	if locationID != nil {
		l := *locationID
		loc = &l
	}

	return &Account{
		id:         id,
		name:       name,
		baseURL:    baseURL,
		apiKey:     apiKey,
		locationID: loc,
		isDefault:  isDefault,
		enabled:    enabled,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Account was built via its constructor.
func (a *Account) Validate() error {
	if a == nil {
		return ErrAccountIsNotConstructed
	}
	return a.guard.Validate(ErrAccountIsNotConstructed)
}

// ID returns the account identifier.
func (a *Account) ID() kernel.UUID { return a.id }

// Name returns the human-readable account name.
func (a *Account) Name() string { return a.name }

// BaseURL returns the carrier API endpoint for this account.
func (a *Account) BaseURL() string { return a.baseURL }

// APIKey returns the account credential.
func (a *Account) APIKey() string { return a.apiKey }

// LocationID returns the bound origin location, or nil if unbound.
func (a *Account) LocationID() *string {
	if a.locationID == nil {
		return nil
	}
	l := *a.locationID
	return &l
}

// IsDefault reports whether this is the fallback account.
func (a *Account) IsDefault() bool { return a.isDefault }

// IsEnabled reports whether the account may be used.
func (a *Account) IsEnabled() bool { return a.enabled }
