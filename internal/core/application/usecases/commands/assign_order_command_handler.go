package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/core/domain/model/performance"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/pkg/errs"
)

// AssignOrderCommandHandler assigns or unassigns a single order.
// Used directly for manual assignment and reused by the distribution run for
// every planned pairing, so both paths produce identical audit entries and
// counter updates.
type AssignOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewAssignOrderCommandHandler creates a handler for order assignment.
func NewAssignOrderCommandHandler(uowFactory UoWFactory) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the assignment command.
// Verifies the target operator can take assignments, updates the order,
// increments the operator's daily assigned counter and appends the
// "assigned" audit entry, all in one transaction.
// Returns operator.ErrInvalidOperator for an unknown or inactive target.
func (h AssignOrderCommandHandler) Handle(ctx context.Context, command AssignOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if command.OperatorID() != nil {
		target, err := uow.OperatorRepository().Get(ctx, *command.OperatorID())
		if errors.Is(err, errs.ErrObjectNotFound) {
			return operator.ErrInvalidOperator
		}
		if err != nil {
			return err
		}
		if !target.CanTakeAssignments() {
			return operator.ErrInvalidOperator
		}
	}

	ord, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err := ord.AssignTo(command.OperatorID()); err != nil {
		return err
	}

	if err := uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}

	if command.OperatorID() != nil {
		err := uow.PerformanceRepository().Increment(ctx, *command.OperatorID(), performance.FieldAssigned, kernel.Today())
		if err != nil {
			return err
		}
	}

	actorID := command.ActorID()
	entry, err := tracking.NewLogEntry(
		ord.ID(),
		&actorID,
		tracking.ActionAssigned,
		nil, nil,
		assignmentDetails(command.OperatorID()),
	)
	if err != nil {
		return err
	}

	if err := uow.TrackingLogRepository().Add(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func assignmentDetails(operatorID *kernel.UUID) string {
	if operatorID == nil {
		return "order unassigned"
	}
	return fmt.Sprintf("order assigned to operator %s", operatorID)
}
