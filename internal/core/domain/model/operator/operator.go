// Package operator models the humans who handle orders: employees who take
// assignments and administrators who additionally hold the state-machine
// override. Operator records are owned by the external directory; this
// package is the read-side model consumed for assignment validation and
// distribution.
package operator

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrOperatorIsNotConstructed is returned when an Operator was not
	// created through NewOperator.
	ErrOperatorIsNotConstructed = errors.New("Operator must be created via NewOperator constructor")

	// ErrInvalidOperator is returned when an assignment target is inactive
	// or does not exist.
	ErrInvalidOperator = errors.New("operator is inactive or does not exist")
)

// Role is the closed set of operator roles.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleEmployee operators take order assignments and work within the
	// default transition table.
	RoleEmployee

	// RoleAdministrator operators bypass the transition table and the
	// terminal edit lock, and may hard-delete orders.
	RoleAdministrator
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:       "unknown",
		RoleEmployee:      "employee",
		RoleAdministrator: "administrator",
	}
}

// ParseRole converts an external role string to a Role.
func ParseRole(s string) (Role, error) {
	for role, str := range getRoleStrings() {
		if str == s && role != RoleUnknown {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

// Validate checks the Role is a member of the closed set.
func (r Role) Validate() error {
	if _, ok := getRoleStrings()[r]; !ok || r == RoleUnknown {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the external role string.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// Operator is a read-side entity describing a human order handler.
type Operator struct {
	id     kernel.UUID
	name   string
	role   Role
	active bool
	guard  guard.ConstructorGuard
}

// NewOperator creates an Operator with validation.
func NewOperator(id kernel.UUID, name string, role Role, active bool) (*Operator, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("operator name")
	}

	return &Operator{
		id:     id,
		name:   name,
		role:   role,
		active: active,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Operator was built via its constructor.
func (op *Operator) Validate() error {
	if op == nil {
		return ErrOperatorIsNotConstructed
	}
	return op.guard.Validate(ErrOperatorIsNotConstructed)
}

// ID returns the operator's identifier.
func (op *Operator) ID() kernel.UUID { return op.id }

// Name returns the operator's display name.
func (op *Operator) Name() string { return op.name }

// Role returns the operator's role.
func (op *Operator) Role() Role { return op.role }

// IsActive reports whether the operator may receive work.
func (op *Operator) IsActive() bool { return op.active }

// IsAdministrator reports whether the operator holds the override role.
func (op *Operator) IsAdministrator() bool { return op.role == RoleAdministrator }

// CanTakeAssignments reports whether the distribution engine and the
// assignment primitive may target this operator: active, with the employee
// role. Administrators manage the flow but never hold a work queue.
func (op *Operator) CanTakeAssignments() bool {
	return op.active && op.role == RoleEmployee
}
