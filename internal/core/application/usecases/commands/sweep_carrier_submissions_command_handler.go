package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/order"
)

// SweepResult is the summary of one submission sweep run.
type SweepResult struct {
	Submitted int `json:"submitted"`
	Failed    int `json:"failed"`
}

// SweepCarrierSubmissionsCommandHandler retries carrier submission for every
// confirmed order without a tracking id. Each order is submitted
// independently; failures are counted and the run continues.
type SweepCarrierSubmissionsCommandHandler struct {
	uowFactory    UoWFactory
	submitHandler SubmitOrderToCarrierCommandHandler
	logger        *slog.Logger
}

// NewSweepCarrierSubmissionsCommandHandler creates a handler for submission
// sweeps.
func NewSweepCarrierSubmissionsCommandHandler(
	uowFactory UoWFactory,
	submitHandler SubmitOrderToCarrierCommandHandler,
	logger *slog.Logger,
) SweepCarrierSubmissionsCommandHandler {
	return SweepCarrierSubmissionsCommandHandler{
		uowFactory:    uowFactory,
		submitHandler: submitHandler,
		logger:        logger,
	}
}

// Handle processes the sweep command and returns run totals.
func (h SweepCarrierSubmissionsCommandHandler) Handle(ctx context.Context, command SweepCarrierSubmissionsCommand) (SweepResult, error) {
	if err := command.Validate(); err != nil {
		return SweepResult{}, err
	}

	orders, err := h.loadStuckOrders(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{}
	for _, ord := range orders {
		submitCmd, err := NewSubmitOrderToCarrierCommand(ord.ID())
		if err == nil {
			_, err = h.submitHandler.Handle(ctx, submitCmd)
		}
		if err != nil {
			h.logger.WarnContext(ctx, "submission sweep: order failed",
				"order_id", ord.ID().String(), "error", err)
			result.Failed++
			continue
		}
		result.Submitted++
	}

	return result, nil
}

func (h SweepCarrierSubmissionsCommandHandler) loadStuckOrders(ctx context.Context) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetConfirmedWithoutTracking(ctx)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return orders, nil
}
