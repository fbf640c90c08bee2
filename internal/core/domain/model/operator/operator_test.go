package operator_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Run("should parse known roles", func(t *testing.T) {
		role, err := operator.ParseRole("employee")
		require.NoError(t, err)
		assert.Equal(t, operator.RoleEmployee, role)

		role, err = operator.ParseRole("administrator")
		require.NoError(t, err)
		assert.Equal(t, operator.RoleAdministrator, role)
	})

	t.Run("should reject unknown strings", func(t *testing.T) {
		for _, s := range []string{"", "unknown", "manager", "EMPLOYEE"} {
			_, err := operator.ParseRole(s)
			require.Error(t, err, s)
		}
	})
}

func TestRole_Validate(t *testing.T) {
	require.NoError(t, operator.RoleEmployee.Validate())
	require.NoError(t, operator.RoleAdministrator.Validate())
	require.Error(t, operator.RoleUnknown.Validate())
	require.Error(t, operator.Role(99).Validate())
}

func TestNewOperator(t *testing.T) {
	t.Run("should create a valid operator", func(t *testing.T) {
		id := kernel.NewUUID()
		op, err := operator.NewOperator(id, "Aigerim", operator.RoleEmployee, true)

		require.NoError(t, err)
		assert.True(t, op.ID().IsEqual(id))
		assert.Equal(t, "Aigerim", op.Name())
		assert.Equal(t, operator.RoleEmployee, op.Role())
		assert.True(t, op.IsActive())
		require.NoError(t, op.Validate())
	})

	t.Run("should reject empty name", func(t *testing.T) {
		_, err := operator.NewOperator(kernel.NewUUID(), "", operator.RoleEmployee, true)
		require.Error(t, err)
	})

	t.Run("should reject invalid id and role", func(t *testing.T) {
		_, err := operator.NewOperator(kernel.UUID{}, "Aigerim", operator.RoleEmployee, true)
		require.Error(t, err)

		_, err = operator.NewOperator(kernel.NewUUID(), "Aigerim", operator.RoleUnknown, true)
		require.Error(t, err)
	})
}

func TestOperator_CanTakeAssignments(t *testing.T) {
	testCases := []struct {
		name     string
		role     operator.Role
		active   bool
		expected bool
	}{
		{"active employee", operator.RoleEmployee, true, true},
		{"inactive employee", operator.RoleEmployee, false, false},
		{"active administrator", operator.RoleAdministrator, true, false},
		{"inactive administrator", operator.RoleAdministrator, false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			op, err := operator.NewOperator(kernel.NewUUID(), "Operator", tc.role, tc.active)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, op.CanTakeAssignments())
		})
	}
}

func TestOperator_IsAdministrator(t *testing.T) {
	admin, err := operator.NewOperator(kernel.NewUUID(), "Admin", operator.RoleAdministrator, true)
	require.NoError(t, err)
	assert.True(t, admin.IsAdministrator())

	employee, err := operator.NewOperator(kernel.NewUUID(), "Employee", operator.RoleEmployee, true)
	require.NoError(t, err)
	assert.False(t, employee.IsAdministrator())
}

func TestOperator_Validate(t *testing.T) {
	t.Run("should reject zero-value operators", func(t *testing.T) {
		var op operator.Operator
		require.ErrorIs(t, op.Validate(), operator.ErrOperatorIsNotConstructed)
	})

	t.Run("should reject nil operators", func(t *testing.T) {
		var op *operator.Operator
		require.ErrorIs(t, op.Validate(), operator.ErrOperatorIsNotConstructed)
	})
}
