package operatorrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOperatorRepository implements OperatorRepository using GORM.
type GormOperatorRepository struct {
	db *gorm.DB
}

// NewGormOperatorRepository creates a new GORM operator repository.
func NewGormOperatorRepository(db *gorm.DB) *GormOperatorRepository {
	return &GormOperatorRepository{db: db}
}

// Get retrieves an operator by ID.
func (r *GormOperatorRepository) Get(ctx context.Context, id kernel.UUID) (*operator.Operator, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OperatorDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("operator", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListActiveEmployees retrieves all active operators, ordered by name for
// stable listings.
func (r *GormOperatorRepository) ListActiveEmployees(ctx context.Context) ([]*operator.Operator, error) {
	var dtos []OperatorDTO
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	operators := make([]*operator.Operator, 0, len(dtos))
	for _, dto := range dtos {
		op, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		operators = append(operators, op)
	}

	return operators, nil
}
