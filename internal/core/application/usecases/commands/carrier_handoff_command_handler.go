package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/ports"
)

// OrderHandoffOutcome reports what happened to one order of a handoff batch.
type OrderHandoffOutcome struct {
	OrderID    string `json:"order_id"`
	Outcome    string `json:"outcome"`
	TrackingID string `json:"tracking_id,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Handoff outcome values.
const (
	HandoffOutcomeSubmitted = "carrier_created"
	HandoffOutcomeFailed    = "carrier_failed"
	HandoffOutcomeSkipped   = "skipped"
)

// HandoffResult is the per-batch summary returned to the caller.
type HandoffResult struct {
	Submitted int                   `json:"submitted"`
	Failed    int                   `json:"failed"`
	Skipped   int                   `json:"skipped"`
	PerOrder  []OrderHandoffOutcome `json:"per_order"`
}

// CarrierHandoffCommandHandler processes a bulk carrier handoff.
//
// Per order: transition confirmed -> import_to_delivery_company in its own
// transaction, then submit the shipment synchronously. Orders not in
// confirmed status are skipped; a carrier failure marks the order failed but
// the status transition stays committed, so the sweep retries the
// submission later. The batch never fails atomically.
type CarrierHandoffCommandHandler struct {
	uowFactory    UoWFactory
	submitHandler SubmitOrderToCarrierCommandHandler
	publisher     ports.EventPublisher
	logger        *slog.Logger
}

// NewCarrierHandoffCommandHandler creates a handler for bulk handoffs.
func NewCarrierHandoffCommandHandler(
	uowFactory UoWFactory,
	submitHandler SubmitOrderToCarrierCommandHandler,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CarrierHandoffCommandHandler {
	return CarrierHandoffCommandHandler{
		uowFactory:    uowFactory,
		submitHandler: submitHandler,
		publisher:     publisher,
		logger:        logger,
	}
}

// Handle processes the handoff command and returns per-order outcomes.
func (h CarrierHandoffCommandHandler) Handle(ctx context.Context, command CarrierHandoffCommand) (HandoffResult, error) {
	if err := command.Validate(); err != nil {
		return HandoffResult{}, err
	}

	actor, err := h.resolveActor(ctx, command.ActorID())
	if err != nil {
		return HandoffResult{}, err
	}

	result := HandoffResult{
		PerOrder: make([]OrderHandoffOutcome, 0, len(command.OrderIDs())),
	}

	for _, orderID := range command.OrderIDs() {
		outcome := h.handoffOne(ctx, orderID, command.ActorID(), actor)
		switch outcome.Outcome {
		case HandoffOutcomeSubmitted:
			result.Submitted++
		case HandoffOutcomeFailed:
			result.Failed++
		default:
			result.Skipped++
		}
		result.PerOrder = append(result.PerOrder, outcome)
	}

	return result, nil
}

func (h CarrierHandoffCommandHandler) resolveActor(ctx context.Context, actorID kernel.UUID) (order.Actor, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Actor{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	actor, err := resolveActor(ctx, uow.OperatorRepository(), actorID)
	if err != nil {
		return order.Actor{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		return order.Actor{}, err
	}
	return actor, nil
}

// handoffOne moves one order into import_to_delivery_company and submits it.
// All failure modes collapse into the outcome record; nothing propagates.
func (h CarrierHandoffCommandHandler) handoffOne(
	ctx context.Context,
	orderID, actorID kernel.UUID,
	actor order.Actor,
) OrderHandoffOutcome {
	transition, ord, err := h.transition(ctx, orderID, actorID, actor)
	if err != nil {
		if errors.Is(err, order.ErrIllegalTransition) {
			return OrderHandoffOutcome{
				OrderID: orderID.String(),
				Outcome: HandoffOutcomeSkipped,
				Reason:  err.Error(),
			}
		}
		h.logger.WarnContext(ctx, "handoff transition failed",
			"order_id", orderID.String(), "error", err)
		return OrderHandoffOutcome{
			OrderID: orderID.String(),
			Outcome: HandoffOutcomeFailed,
			Reason:  err.Error(),
		}
	}

	h.publishChange(ctx, ord, transition)

	submitCmd, err := NewSubmitOrderToCarrierCommand(orderID)
	if err == nil {
		info, submitErr := h.submitHandler.Handle(ctx, submitCmd)
		if submitErr == nil {
			return OrderHandoffOutcome{
				OrderID:    orderID.String(),
				Outcome:    HandoffOutcomeSubmitted,
				TrackingID: info.TrackingID,
			}
		}
		err = submitErr
	}

	return OrderHandoffOutcome{
		OrderID: orderID.String(),
		Outcome: HandoffOutcomeFailed,
		Reason:  err.Error(),
	}
}

// transition performs the confirmed -> import_to_delivery_company step in
// its own transaction, with the same audit shape as a single status change.
func (h CarrierHandoffCommandHandler) transition(
	ctx context.Context,
	orderID, actorID kernel.UUID,
	actor order.Actor,
) (order.Transition, *order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Transition{}, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return order.Transition{}, nil, err
	}

	transition, err := ord.ChangeStatus(order.ImportToDeliveryCompany, actor)
	if err != nil {
		return order.Transition{}, nil, err
	}

	if err := uow.OrderRepository().Update(ctx, ord); err != nil {
		return order.Transition{}, nil, err
	}

	entry, err := tracking.NewLogEntry(
		ord.ID(),
		&actorID,
		tracking.ActionStatusUpdated,
		statusString(transition.From), statusString(transition.To),
		fmt.Sprintf("status changed: %s", transition),
	)
	if err != nil {
		return order.Transition{}, nil, err
	}

	if err := uow.TrackingLogRepository().Add(ctx, entry); err != nil {
		return order.Transition{}, nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return order.Transition{}, nil, err
	}

	return transition, ord, nil
}

func (h CarrierHandoffCommandHandler) publishChange(ctx context.Context, ord *order.Order, transition order.Transition) {
	event := ports.OrderChangedEvent{
		OrderID:        ord.ID().String(),
		OrderNumber:    ord.Number(),
		PreviousStatus: transition.From.String(),
		NewStatus:      transition.To.String(),
		OccurredAt:     ord.UpdatedAt(),
	}
	if err := h.publisher.PublishOrderChanged(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "order-changed event publish failed",
			"order_id", ord.ID().String(),
			"transition", transition.String(),
			"error", err)
	}
}
