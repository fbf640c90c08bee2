package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// resolveActor loads the acting operator and converts it to a domain Actor.
// An unknown or inactive operator is reported as operator.ErrInvalidOperator;
// the caller never learns which of the two it was.
func resolveActor(ctx context.Context, operators ports.OperatorRepository, actorID kernel.UUID) (order.Actor, error) {
	op, err := operators.Get(ctx, actorID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return order.Actor{}, operator.ErrInvalidOperator
	}
	if err != nil {
		return order.Actor{}, err
	}
	if !op.IsActive() {
		return order.Actor{}, operator.ErrInvalidOperator
	}

	return order.NewActor(op.ID(), op.IsAdministrator())
}

// statusString returns the external string of a status, as a pointer for the
// audit entry's nullable status columns.
func statusString(s order.Status) *string {
	str := s.String()
	return &str
}
