package commands

import (
	"context"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/performance"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/ports"
)

// ChangeOrderStatusCommandHandler orchestrates a single status transition.
//
// The transition, its audit entry and any performance counter updates commit
// in one transaction. Follow-ups run strictly after commit and are best
// effort: the order-changed event goes to the broker, and transitions into
// confirmed or import_to_delivery_company hand the order to the carrier
// submission worker. Neither follow-up can fail the transition.
type ChangeOrderStatusCommandHandler struct {
	uowFactory  UoWFactory
	publisher   ports.EventPublisher
	submitQueue ports.CarrierSubmitQueue
	logger      *slog.Logger
}

// NewChangeOrderStatusCommandHandler creates a handler for status transitions.
func NewChangeOrderStatusCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	submitQueue ports.CarrierSubmitQueue,
	logger *slog.Logger,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory:  uowFactory,
		publisher:   publisher,
		submitQueue: submitQueue,
		logger:      logger,
	}
}

// Handle processes the status change command.
// Resolves the actor's role, asks the aggregate to transition, updates the
// relevant daily counters and appends the "status_updated" audit entry, all
// atomically. Returns order.ErrIllegalTransition or order.ErrEditForbidden
// unchanged so the caller can map them to its own error surface.
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, command ChangeOrderStatusCommand) error {
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

	transition, err := ord.ChangeStatus(command.Target(), actor)
	if err != nil {
		return err
	}

	if err := uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}

	if err := h.bumpCounters(ctx, uow, ord, transition, command.ActorID()); err != nil {
		return err
	}

	actorID := command.ActorID()
	entry, err := tracking.NewLogEntry(
		ord.ID(),
		&actorID,
		tracking.ActionStatusUpdated,
		statusString(transition.From), statusString(transition.To),
		fmt.Sprintf("status changed: %s", transition),
	)
	if err != nil {
		return err
	}

	if err := uow.TrackingLogRepository().Add(ctx, entry); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.afterCommit(ctx, ord, transition)
	return nil
}

// bumpCounters updates the daily performance counters affected by the
// transition: entering confirmed credits the actor, entering delivered
// credits the assigned operator (if any).
func (h ChangeOrderStatusCommandHandler) bumpCounters(
	ctx context.Context,
	uow UoW,
	ord *order.Order,
	transition order.Transition,
	actorID kernel.UUID,
) error {
	today := kernel.Today()

	if transition.Entered(order.Confirmed) {
		if err := uow.PerformanceRepository().Increment(ctx, actorID, performance.FieldConfirmed, today); err != nil {
			return err
		}
	}

	if transition.Entered(order.Delivered) {
		if assignee := ord.AssignedTo(); assignee != nil {
			if err := uow.PerformanceRepository().Increment(ctx, *assignee, performance.FieldDelivered, today); err != nil {
				return err
			}
		}
	}

	return nil
}

// afterCommit runs the best-effort follow-ups of a committed transition.
func (h ChangeOrderStatusCommandHandler) afterCommit(ctx context.Context, ord *order.Order, transition order.Transition) {
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

	if transition.TriggersCarrierSubmission() && !ord.HasShipment() {
		h.submitQueue.Enqueue(ord.ID())
	}

	if transition.Entered(order.Cancelled) && ord.HasShipment() {
		h.submitQueue.EnqueueCancel(ord.ID())
	}
}
