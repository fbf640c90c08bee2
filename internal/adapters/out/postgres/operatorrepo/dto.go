// Package operatorrepo persists operator records.
package operatorrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"

	"github.com/google/uuid"
)

// OperatorDTO represents the database structure for operator records.
type OperatorDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name   string
	Role   string `gorm:"index"`
	Active bool   `gorm:"index"`
}

// TableName specifies the database table name for operator entities.
func (OperatorDTO) TableName() string {
	return "operators"
}

// fromDomain converts an operator to its database representation.
func fromDomain(op *operator.Operator) OperatorDTO {
	return OperatorDTO{
		ID:     op.ID().Bytes(),
		Name:   op.Name(),
		Role:   op.Role().String(),
		Active: op.IsActive(),
	}
}

// toDomain converts a database row back into an operator.
func toDomain(dto OperatorDTO) (*operator.Operator, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	role, err := operator.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	return operator.NewOperator(id, dto.Name, role, dto.Active)
}
