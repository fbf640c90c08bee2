package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/ports"
)

// CancelShipmentCommandHandler voids an order's shipment at the carrier.
// Like submission, the carrier call runs outside any transaction and a
// failure is downgraded to a "carrier_error" audit entry; the order itself
// stays as committed by the cancelling transition.
type CancelShipmentCommandHandler struct {
	uowFactory    UoWFactory
	accountStore  ports.CarrierAccountStore
	carrierClient ports.CarrierClient
}

// NewCancelShipmentCommandHandler creates a handler for shipment
// cancellations.
func NewCancelShipmentCommandHandler(
	uowFactory UoWFactory,
	accountStore ports.CarrierAccountStore,
	carrierClient ports.CarrierClient,
) CancelShipmentCommandHandler {
	return CancelShipmentCommandHandler{
		uowFactory:    uowFactory,
		accountStore:  accountStore,
		carrierClient: carrierClient,
	}
}

// Handle processes the cancellation command. Orders without a shipment are
// a no-op.
func (h CancelShipmentCommandHandler) Handle(ctx context.Context, command CancelShipmentCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	ord, err := h.loadOrder(ctx, command)
	if err != nil {
		return err
	}
	if !ord.HasShipment() {
		return nil
	}

	account, err := selectCarrierAccount(ctx, h.accountStore, ord)
	if err != nil {
		recordErr := h.record(ctx, ord, tracking.ActionCarrierError,
			fmt.Sprintf("shipment cancellation failed: %s", err))
		return errors.Join(err, recordErr)
	}

	if err := h.carrierClient.CancelShipment(ctx, account, *ord.CarrierTrackingID()); err != nil {
		recordErr := h.record(ctx, ord, tracking.ActionCarrierError,
			fmt.Sprintf("shipment cancellation failed: %s", err))
		return errors.Join(err, recordErr)
	}

	return h.record(ctx, ord, tracking.ActionCarrierCancelled,
		fmt.Sprintf("shipment %s cancelled", *ord.CarrierTrackingID()))
}

func (h CancelShipmentCommandHandler) loadOrder(ctx context.Context, command CancelShipmentCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return ord, nil
}

func (h CancelShipmentCommandHandler) record(ctx context.Context, ord *order.Order, action tracking.Action, details string) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	entry, err := tracking.NewLogEntry(ord.ID(), nil, action, nil, nil, details)
	if err != nil {
		return err
	}

	if err := uow.TrackingLogRepository().Add(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
