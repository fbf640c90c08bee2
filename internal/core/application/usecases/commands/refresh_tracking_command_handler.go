package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/ports"
)

// ErrNoShipmentToTrack is returned when a tracking refresh is requested for
// an order that has no carrier shipment yet.
var ErrNoShipmentToTrack = errors.New("order has no carrier shipment")

// RefreshTrackingCommandHandler fetches one shipment's state from the
// carrier and mirrors it onto the order. The carrier call happens outside
// any transaction; the fulfillment status is never changed by a refresh,
// only the carrier mirror fields move.
type RefreshTrackingCommandHandler struct {
	uowFactory    UoWFactory
	accountStore  ports.CarrierAccountStore
	carrierClient ports.CarrierClient
}

// NewRefreshTrackingCommandHandler creates a handler for single-order
// tracking refreshes.
func NewRefreshTrackingCommandHandler(
	uowFactory UoWFactory,
	accountStore ports.CarrierAccountStore,
	carrierClient ports.CarrierClient,
) RefreshTrackingCommandHandler {
	return RefreshTrackingCommandHandler{
		uowFactory:    uowFactory,
		accountStore:  accountStore,
		carrierClient: carrierClient,
	}
}

// Handle processes the refresh command.
// Returns ErrNoShipmentToTrack for orders without a tracking id; a carrier
// failure is recorded as a "carrier_error" audit entry and returned.
func (h RefreshTrackingCommandHandler) Handle(ctx context.Context, command RefreshTrackingCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	ord, err := h.loadOrder(ctx, command)
	if err != nil {
		return err
	}
	if !ord.HasShipment() {
		return ErrNoShipmentToTrack
	}

	account, err := selectCarrierAccount(ctx, h.accountStore, ord)
	if err != nil {
		recordErr := h.recordFailure(ctx, ord, err)
		return errors.Join(err, recordErr)
	}

	update, err := h.carrierClient.GetTracking(ctx, account, *ord.CarrierTrackingID())
	if err != nil {
		recordErr := h.recordFailure(ctx, ord, err)
		return errors.Join(err, recordErr)
	}

	return h.applyUpdate(ctx, command, update.Status, update.Location, update.UpdatedAt)
}

func (h RefreshTrackingCommandHandler) loadOrder(ctx context.Context, command RefreshTrackingCommand) (*order.Order, error) {
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

// applyUpdate re-reads the order and writes the new carrier mirror state
// together with its "tracking_updated" audit entry.
func (h RefreshTrackingCommandHandler) applyUpdate(
	ctx context.Context,
	command RefreshTrackingCommand,
	carrierStatus, location string,
	at time.Time,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err := ord.ApplyTrackingUpdate(carrierStatus, location, at); err != nil {
		return err
	}

	if err := uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}

	entry, err := tracking.NewLogEntry(
		ord.ID(),
		nil,
		tracking.ActionTrackingUpdated,
		nil, nil,
		fmt.Sprintf("carrier reports %q at %q", carrierStatus, location),
	)
	if err != nil {
		return err
	}

	if err := uow.TrackingLogRepository().Add(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// recordFailure appends a "carrier_error" audit entry for a failed refresh.
func (h RefreshTrackingCommandHandler) recordFailure(ctx context.Context, ord *order.Order, cause error) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	entry, err := tracking.NewLogEntry(
		ord.ID(),
		nil,
		tracking.ActionCarrierError,
		nil, nil,
		fmt.Sprintf("tracking refresh failed: %s", cause),
	)
	if err != nil {
		return err
	}

	if err := uow.TrackingLogRepository().Add(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
