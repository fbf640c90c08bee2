package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/tracking"
)

// ErrAdministratorRequired is returned when a non-administrator attempts an
// administrative operation.
var ErrAdministratorRequired = errors.New("administrator role required")

// DeleteOrderCommandHandler hard-deletes an order on behalf of an
// administrator. The delete and its final "deleted" audit entry commit
// together; audit entries for the order are retained after the delete.
type DeleteOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewDeleteOrderCommandHandler creates a handler for administrative deletes.
func NewDeleteOrderCommandHandler(uowFactory UoWFactory) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the delete command.
// Returns ErrAdministratorRequired for non-administrator actors.
func (h DeleteOrderCommandHandler) Handle(ctx context.Context, command DeleteOrderCommand) error {
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

	actor, err := resolveActor(ctx, uow.OperatorRepository(), command.ActorID())
	if err != nil {
		return err
	}
	if !actor.IsAdministrator() {
		return ErrAdministratorRequired
	}

	ord, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err := uow.OrderRepository().Delete(ctx, ord.ID()); err != nil {
		return err
	}

	actorID := command.ActorID()
	entry, err := tracking.NewLogEntry(
		ord.ID(),
		&actorID,
		tracking.ActionDeleted,
		statusString(ord.Status()), nil,
		fmt.Sprintf("order %s deleted", ord.Number()),
	)
	if err != nil {
		return err
	}

	if err := uow.TrackingLogRepository().Add(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
