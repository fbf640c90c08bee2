package commands

import (
	"context"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/ports"
)

// SyncResult is the summary of one bulk tracking sync run.
type SyncResult struct {
	Synced  int `json:"synced"`
	Failed  int `json:"failed"`
	Unknown int `json:"unknown"`
}

// SyncTrackingCommandHandler refreshes the carrier mirror of many orders in
// one run.
//
// Orders are grouped by the carrier account that serves them and fetched
// through the bulk tracking endpoint in chunks of up to 100 tracking ids.
// Each order's update commits in its own transaction with a
// "carrier_synced" audit entry; a failing account or order is counted and
// skipped, never aborting the run.
type SyncTrackingCommandHandler struct {
	uowFactory    UoWFactory
	accountStore  ports.CarrierAccountStore
	carrierClient ports.CarrierClient
	logger        *slog.Logger
}

// NewSyncTrackingCommandHandler creates a handler for bulk tracking syncs.
func NewSyncTrackingCommandHandler(
	uowFactory UoWFactory,
	accountStore ports.CarrierAccountStore,
	carrierClient ports.CarrierClient,
	logger *slog.Logger,
) SyncTrackingCommandHandler {
	return SyncTrackingCommandHandler{
		uowFactory:    uowFactory,
		accountStore:  accountStore,
		carrierClient: carrierClient,
		logger:        logger,
	}
}

// Handle processes the sync command and returns run totals. Tracking ids the
// carrier does not recognize are counted as unknown and left untouched.
func (h SyncTrackingCommandHandler) Handle(ctx context.Context, command SyncTrackingCommand) (SyncResult, error) {
	if err := command.Validate(); err != nil {
		return SyncResult{}, err
	}

	orders, err := h.loadTrackedOrders(ctx, command.Limit())
	if err != nil {
		return SyncResult{}, err
	}

	result := SyncResult{}
	for _, group := range h.groupByAccount(ctx, orders, &result) {
		h.syncGroup(ctx, group, &result)
	}
	return result, nil
}

// accountGroup is the set of orders served by one carrier account.
type accountGroup struct {
	account *carrier.Account
	orders  map[string]*order.Order // keyed by tracking id
}

func (h SyncTrackingCommandHandler) loadTrackedOrders(ctx context.Context, limit int) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetWithActiveTracking(ctx, limit)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return orders, nil
}

func (h SyncTrackingCommandHandler) groupByAccount(ctx context.Context, orders []*order.Order, result *SyncResult) []accountGroup {
	groups := make(map[string]*accountGroup)
	keys := make([]string, 0)

	for _, ord := range orders {
		if !ord.HasShipment() {
			continue
		}

		account, err := selectCarrierAccount(ctx, h.accountStore, ord)
		if err != nil {
			h.logger.WarnContext(ctx, "tracking sync: no account for order",
				"order_id", ord.ID().String(), "error", err)
			result.Failed++
			continue
		}

		key := account.ID().String()
		group, ok := groups[key]
		if !ok {
			group = &accountGroup{account: account, orders: make(map[string]*order.Order)}
			groups[key] = group
			keys = append(keys, key)
		}
		group.orders[*ord.CarrierTrackingID()] = ord
	}

	ordered := make([]accountGroup, 0, len(groups))
	for _, key := range keys {
		ordered = append(ordered, *groups[key])
	}
	return ordered
}

// syncGroup fetches tracking for one account's orders in chunks and applies
// the updates.
func (h SyncTrackingCommandHandler) syncGroup(ctx context.Context, group accountGroup, result *SyncResult) {
	trackingIDs := make([]string, 0, len(group.orders))
	for id := range group.orders {
		trackingIDs = append(trackingIDs, id)
	}

	for start := 0; start < len(trackingIDs); start += maxTrackingBatch {
		end := min(start+maxTrackingBatch, len(trackingIDs))
		chunk := trackingIDs[start:end]

		updates, err := h.carrierClient.BulkGetTracking(ctx, group.account, chunk)
		if err != nil {
			h.logger.WarnContext(ctx, "tracking sync: bulk fetch failed",
				"account", group.account.Name(),
				"chunk_size", len(chunk),
				"error", err)
			result.Failed += len(chunk)
			continue
		}

		seen := make(map[string]bool, len(updates))
		for _, update := range updates {
			seen[update.TrackingID] = true
			ord, ok := group.orders[update.TrackingID]
			if !ok {
				continue
			}
			if err := h.applyUpdate(ctx, ord, update); err != nil {
				h.logger.WarnContext(ctx, "tracking sync: apply failed",
					"order_id", ord.ID().String(), "error", err)
				result.Failed++
				continue
			}
			result.Synced++
		}

		for _, id := range chunk {
			if !seen[id] {
				result.Unknown++
			}
		}
	}
}

// applyUpdate writes one order's new carrier mirror state in its own
// transaction with a "carrier_synced" audit entry.
func (h SyncTrackingCommandHandler) applyUpdate(ctx context.Context, ord *order.Order, update carrier.TrackingUpdate) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	fresh, err := uow.OrderRepository().Get(ctx, ord.ID())
	if err != nil {
		return err
	}

	if err := fresh.ApplyTrackingUpdate(update.Status, update.Location, update.UpdatedAt); err != nil {
		return err
	}

	if err := uow.OrderRepository().Update(ctx, fresh); err != nil {
		return err
	}

	entry, err := tracking.NewLogEntry(
		fresh.ID(),
		nil,
		tracking.ActionCarrierSynced,
		nil, nil,
		fmt.Sprintf("carrier reports %q at %q", update.Status, update.Location),
	)
	if err != nil {
		return err
	}

	if err := uow.TrackingLogRepository().Add(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
