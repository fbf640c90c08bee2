package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrNoCarrierConfigured is returned when neither a location-bound nor a
// default carrier account exists for an order.
var ErrNoCarrierConfigured = errors.New("no carrier account configured")

// SubmitOrderToCarrierCommandHandler creates a carrier shipment for an order.
//
// The carrier call runs outside any database transaction. The handler reads
// the order in one short transaction, talks to the carrier, then records the
// result in a second transaction. A carrier failure is downgraded to a
// "carrier_error" audit entry; the order itself is never touched on failure,
// and the periodic sweep will retry it.
//
// Submission is idempotent at this level: an order that already carries a
// tracking id is skipped without contacting the carrier.
type SubmitOrderToCarrierCommandHandler struct {
	uowFactory    UoWFactory
	accountStore  ports.CarrierAccountStore
	carrierClient ports.CarrierClient
}

// NewSubmitOrderToCarrierCommandHandler creates a handler for carrier
// submissions.
func NewSubmitOrderToCarrierCommandHandler(
	uowFactory UoWFactory,
	accountStore ports.CarrierAccountStore,
	carrierClient ports.CarrierClient,
) SubmitOrderToCarrierCommandHandler {
	return SubmitOrderToCarrierCommandHandler{
		uowFactory:    uowFactory,
		accountStore:  accountStore,
		carrierClient: carrierClient,
	}
}

// Handle processes the submission command and returns the carrier's
// shipment info. An order that already carries a tracking id is reported
// back with the existing id.
//
// Returns ErrNoCarrierConfigured when account selection fails; carrier API
// errors are recorded in the audit log and returned so callers can count
// failures, but neither failure mode changes the order.
func (h SubmitOrderToCarrierCommandHandler) Handle(ctx context.Context, command SubmitOrderToCarrierCommand) (carrier.ShipmentInfo, error) {
	if err := command.Validate(); err != nil {
		return carrier.ShipmentInfo{}, err
	}

	ord, err := h.loadOrder(ctx, command)
	if err != nil {
		return carrier.ShipmentInfo{}, err
	}
	if ord.HasShipment() {
		return carrier.ShipmentInfo{
			TrackingID:  *ord.CarrierTrackingID(),
			Status:      ord.CarrierStatus(),
			TrackingURL: trackingURLOf(ord),
		}, nil
	}

	account, err := h.selectAccount(ctx, ord)
	if err != nil {
		recordErr := h.recordFailure(ctx, ord, err)
		return carrier.ShipmentInfo{}, errors.Join(err, recordErr)
	}

	info, err := h.carrierClient.CreateShipment(ctx, account, shipmentRequestFor(ord))
	if err != nil {
		recordErr := h.recordFailure(ctx, ord, err)
		return carrier.ShipmentInfo{}, errors.Join(err, recordErr)
	}

	if err := h.recordShipment(ctx, command, account, info); err != nil {
		return carrier.ShipmentInfo{}, err
	}
	return info, nil
}

func trackingURLOf(ord *order.Order) string {
	if url := ord.TrackingURL(); url != nil {
		return *url
	}
	return ""
}

func (h SubmitOrderToCarrierCommandHandler) loadOrder(ctx context.Context, command SubmitOrderToCarrierCommand) (*order.Order, error) {
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

func (h SubmitOrderToCarrierCommandHandler) selectAccount(ctx context.Context, ord *order.Order) (*carrier.Account, error) {
	return selectCarrierAccount(ctx, h.accountStore, ord)
}

// selectCarrierAccount picks the carrier account for an order: the account
// bound to the order's origin location when one exists, the default account
// otherwise.
func selectCarrierAccount(ctx context.Context, store ports.CarrierAccountStore, ord *order.Order) (*carrier.Account, error) {
	if loc := ord.OriginLocationID(); loc != nil {
		account, err := store.FindForLocation(ctx, *loc)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return nil, err
		}
	}

	account, err := store.FindDefault(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, ErrNoCarrierConfigured
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// recordShipment re-reads the order and applies the carrier response. The
// re-read closes the race with a concurrent submission: if another writer
// attached a tracking id while the carrier call was in flight, ApplyShipment
// refuses the overwrite and the duplicate result is discarded.
func (h SubmitOrderToCarrierCommandHandler) recordShipment(
	ctx context.Context,
	command SubmitOrderToCarrierCommand,
	account *carrier.Account,
	info carrier.ShipmentInfo,
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

	if err := ord.ApplyShipment(info.TrackingID, info.Status, info.TrackingURL, time.Now().UTC()); err != nil {
		if errors.Is(err, order.ErrShipmentAlreadyCreated) {
			return nil
		}
		return err
	}

	if err := uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}

	entry, err := tracking.NewLogEntry(
		ord.ID(),
		nil,
		tracking.ActionCarrierCreated,
		nil, nil,
		fmt.Sprintf("shipment %s created via account %q", info.TrackingID, account.Name()),
	)
	if err != nil {
		return err
	}

	if err := uow.TrackingLogRepository().Add(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// recordFailure appends a "carrier_error" audit entry for a failed
// submission. The order is left untouched.
func (h SubmitOrderToCarrierCommandHandler) recordFailure(ctx context.Context, ord *order.Order, cause error) error {
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
		fmt.Sprintf("shipment creation failed: %s", cause),
	)
	if err != nil {
		return err
	}

	if err := uow.TrackingLogRepository().Add(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// shipmentRequestFor maps the order onto the carrier-agnostic shipment
// payload. Cash-on-delivery orders carry the order total as the COD amount.
func shipmentRequestFor(ord *order.Order) carrier.ShipmentRequest {
	request := carrier.ShipmentRequest{
		ExternalOrderRef:   ord.Number(),
		CustomerName:       ord.Customer().Name(),
		CustomerPhone:      ord.Customer().Phone(),
		CustomerAddress:    ord.Customer().Address(),
		CustomerCity:       ord.Customer().City(),
		PackageDescription: describeItems(ord.Items()),
		PackageValue:       ord.Total(),
		PaymentMethod:      "prepaid",
	}

	if ord.PaymentStatus() == order.CodPending {
		request.PaymentMethod = "cod"
		request.CODAmount = ord.Total()
	}

	return request
}

func describeItems(items map[string]string) string {
	if len(items) == 0 {
		return "order items"
	}

	parts := make([]string, 0, len(items))
	for name, qty := range items {
		parts = append(parts, fmt.Sprintf("%s x%s", name, qty))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
