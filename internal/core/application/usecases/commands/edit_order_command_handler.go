package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/tracking"
)

// EditOrderCommandHandler applies field edits to an order.
// The terminal-status edit lock lives in the aggregate; the handler only
// orchestrates the transaction and the "updated" audit entry.
type EditOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewEditOrderCommandHandler creates a handler for order edits.
func NewEditOrderCommandHandler(uowFactory UoWFactory) EditOrderCommandHandler {
	return EditOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the edit command.
// Returns order.ErrEditForbidden when a non-administrator edits a
// terminal-status order.
func (h EditOrderCommandHandler) Handle(ctx context.Context, command EditOrderCommand) error {
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

	ord, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err := ord.UpdateDetails(
		command.Customer(),
		command.Items(),
		command.UnitPrice(),
		command.Quantity(),
		command.DeliveryPrice(),
		actor,
	); err != nil {
		return err
	}

	if status := command.PaymentStatus(); status != nil {
		if err := ord.SetPaymentStatus(*status, actor); err != nil {
			return err
		}
	}

	if err := uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}

	actorID := command.ActorID()
	entry, err := tracking.NewLogEntry(
		ord.ID(),
		&actorID,
		tracking.ActionUpdated,
		nil, nil,
		fmt.Sprintf("order %s details updated", ord.Number()),
	)
	if err != nil {
		return err
	}

	if err := uow.TrackingLogRepository().Add(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
