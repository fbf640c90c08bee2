package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/tracking"
)

// CreateOrderCommandHandler registers new orders in the fulfillment pipeline.
// The order row and its "created" audit entry commit in one transaction.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order registration.
func NewCreateOrderCommandHandler(uowFactory UoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command.
// Builds the aggregate in pending status, persists it and appends the
// "created" audit entry atomically.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, command CreateOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	newOrder, err := order.NewOrder(
		command.OrderID(),
		command.Number(),
		command.Customer(),
		command.Items(),
		command.UnitPrice(),
		command.Quantity(),
		command.DeliveryPrice(),
		command.OriginLocationID(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	pending := statusString(order.Pending)
	entry, err := tracking.NewLogEntry(
		newOrder.ID(),
		nil,
		tracking.ActionCreated,
		nil, pending,
		fmt.Sprintf("order %s created", newOrder.Number()),
	)
	if err != nil {
		return err
	}

	if err := uow.TrackingLogRepository().Add(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
