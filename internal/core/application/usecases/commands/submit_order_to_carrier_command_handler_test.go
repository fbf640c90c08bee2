package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testAccount(t *testing.T, locationID *string, isDefault bool) *carrier.Account {
	t.Helper()
	account, err := carrier.NewAccount(
		kernel.NewUUID(), "main", "https://carrier.example", "key-123",
		locationID, isDefault, true,
	)
	require.NoError(t, err)
	return account
}

// expectLoadOrder sets up the short read transaction the handler opens
// before talking to the carrier.
func expectLoadOrder(ctx any, uow *MockUoW, orderRepo *MockOrderRepository, ord *order.Order) {
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, ord.ID()).Return(ord, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
}

func TestSubmitOrderToCarrierCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	testOrd := testOrder(t)
	cmd, err := commands.NewSubmitOrderToCarrierCommand(testOrd.ID())
	require.NoError(t, err)

	account := testAccount(t, nil, true)
	info := carrier.ShipmentInfo{
		TrackingID:  "TRK-1001",
		Status:      "registered",
		TrackingURL: "https://carrier.example/t/TRK-1001",
	}

	loadUoW := new(MockUoW)
	recordUoW := new(MockUoW)
	orderRepo := new(MockOrderRepository)
	logRepo := new(MockTrackingLogRepository)

	expectLoadOrder(ctx, loadUoW, orderRepo, testOrd)

	accountStore := new(MockCarrierAccountStore)
	accountStore.On("FindDefault", ctx).Return(account, nil).Once()

	carrierClient := new(MockCarrierClient)
	carrierClient.On("CreateShipment", ctx, account, mock.AnythingOfType("carrier.ShipmentRequest")).
		Return(info, nil).Once()

	mock.InOrder(
		recordUoW.On("Begin", ctx).Return(nil).Once(),
		recordUoW.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrd.ID()).Return(testOrd, nil).Once(),
		recordUoW.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		recordUoW.On("TrackingLogRepository").Return(logRepo).Once(),
		logRepo.On("Add", ctx, mock.AnythingOfType("*tracking.LogEntry")).Return(nil).Once(),
		recordUoW.On("Commit", ctx).Return(nil).Once(),
		recordUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(loadUoW).Once()
	factory.On("Create").Return(recordUoW).Once()

	handler := commands.NewSubmitOrderToCarrierCommandHandler(factory, accountStore, carrierClient)
	got, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, info, got)
	assert.True(t, testOrd.HasShipment())
	assert.Equal(t, "TRK-1001", *testOrd.CarrierTrackingID())

	accountStore.AssertExpectations(t)
	carrierClient.AssertExpectations(t)
	loadUoW.AssertExpectations(t)
	recordUoW.AssertExpectations(t)
}

func TestSubmitOrderToCarrierCommandHandler_Handle_PrefersLocationAccount(t *testing.T) {
	ctx := t.Context()

	locationID := "almaty-01"
	testOrd, err := order.NewOrder(
		kernel.NewUUID(), "ORD-9002", testCustomer(t), nil, 100, 1, 0, &locationID,
	)
	require.NoError(t, err)

	cmd, err := commands.NewSubmitOrderToCarrierCommand(testOrd.ID())
	require.NoError(t, err)

	account := testAccount(t, &locationID, false)

	loadUoW := new(MockUoW)
	recordUoW := new(MockUoW)
	orderRepo := new(MockOrderRepository)
	logRepo := new(MockTrackingLogRepository)

	expectLoadOrder(ctx, loadUoW, orderRepo, testOrd)

	accountStore := new(MockCarrierAccountStore)
	accountStore.On("FindForLocation", ctx, locationID).Return(account, nil).Once()

	carrierClient := new(MockCarrierClient)
	carrierClient.On("CreateShipment", ctx, account, mock.AnythingOfType("carrier.ShipmentRequest")).
		Return(carrier.ShipmentInfo{TrackingID: "TRK-2", Status: "registered"}, nil).Once()

	mock.InOrder(
		recordUoW.On("Begin", ctx).Return(nil).Once(),
		recordUoW.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrd.ID()).Return(testOrd, nil).Once(),
		recordUoW.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		recordUoW.On("TrackingLogRepository").Return(logRepo).Once(),
		logRepo.On("Add", ctx, mock.AnythingOfType("*tracking.LogEntry")).Return(nil).Once(),
		recordUoW.On("Commit", ctx).Return(nil).Once(),
		recordUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(loadUoW).Once()
	factory.On("Create").Return(recordUoW).Once()

	handler := commands.NewSubmitOrderToCarrierCommandHandler(factory, accountStore, carrierClient)
	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	accountStore.AssertNotCalled(t, "FindDefault", mock.Anything)
}

func TestSubmitOrderToCarrierCommandHandler_Handle_AlreadySubmitted(t *testing.T) {
	ctx := t.Context()

	testOrd := testOrder(t)
	require.NoError(t, testOrd.ApplyShipment("TRK-OLD", "in_transit", "", testOrd.CreatedAt()))

	cmd, err := commands.NewSubmitOrderToCarrierCommand(testOrd.ID())
	require.NoError(t, err)

	loadUoW := new(MockUoW)
	orderRepo := new(MockOrderRepository)
	expectLoadOrder(ctx, loadUoW, orderRepo, testOrd)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(loadUoW).Once()

	accountStore := new(MockCarrierAccountStore)
	carrierClient := new(MockCarrierClient)

	handler := commands.NewSubmitOrderToCarrierCommandHandler(factory, accountStore, carrierClient)
	info, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "TRK-OLD", info.TrackingID)
	carrierClient.AssertNotCalled(t, "CreateShipment", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitOrderToCarrierCommandHandler_Handle_NoCarrierConfigured(t *testing.T) {
	ctx := t.Context()

	testOrd := testOrder(t)
	cmd, err := commands.NewSubmitOrderToCarrierCommand(testOrd.ID())
	require.NoError(t, err)

	loadUoW := new(MockUoW)
	failureUoW := new(MockUoW)
	orderRepo := new(MockOrderRepository)
	logRepo := new(MockTrackingLogRepository)

	expectLoadOrder(ctx, loadUoW, orderRepo, testOrd)

	accountStore := new(MockCarrierAccountStore)
	accountStore.On("FindDefault", ctx).
		Return(nil, errs.NewObjectNotFoundError("carrier account", "default")).Once()

	// The failure is recorded as a carrier_error audit entry.
	mock.InOrder(
		failureUoW.On("Begin", ctx).Return(nil).Once(),
		failureUoW.On("TrackingLogRepository").Return(logRepo).Once(),
		logRepo.On("Add", ctx, mock.AnythingOfType("*tracking.LogEntry")).Return(nil).Once(),
		failureUoW.On("Commit", ctx).Return(nil).Once(),
		failureUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(loadUoW).Once()
	factory.On("Create").Return(failureUoW).Once()

	carrierClient := new(MockCarrierClient)

	handler := commands.NewSubmitOrderToCarrierCommandHandler(factory, accountStore, carrierClient)
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrNoCarrierConfigured)
	assert.False(t, testOrd.HasShipment())
	logRepo.AssertExpectations(t)
}

func TestSubmitOrderToCarrierCommandHandler_Handle_CarrierFailure(t *testing.T) {
	ctx := t.Context()

	testOrd := testOrder(t)
	cmd, err := commands.NewSubmitOrderToCarrierCommand(testOrd.ID())
	require.NoError(t, err)

	account := testAccount(t, nil, true)

	loadUoW := new(MockUoW)
	failureUoW := new(MockUoW)
	orderRepo := new(MockOrderRepository)
	logRepo := new(MockTrackingLogRepository)

	expectLoadOrder(ctx, loadUoW, orderRepo, testOrd)

	accountStore := new(MockCarrierAccountStore)
	accountStore.On("FindDefault", ctx).Return(account, nil).Once()

	carrierClient := new(MockCarrierClient)
	carrierClient.On("CreateShipment", ctx, account, mock.AnythingOfType("carrier.ShipmentRequest")).
		Return(carrier.ShipmentInfo{}, errors.New("carrier timeout")).Once()

	mock.InOrder(
		failureUoW.On("Begin", ctx).Return(nil).Once(),
		failureUoW.On("TrackingLogRepository").Return(logRepo).Once(),
		logRepo.On("Add", ctx, mock.AnythingOfType("*tracking.LogEntry")).Return(nil).Once(),
		failureUoW.On("Commit", ctx).Return(nil).Once(),
		failureUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(loadUoW).Once()
	factory.On("Create").Return(failureUoW).Once()

	handler := commands.NewSubmitOrderToCarrierCommandHandler(factory, accountStore, carrierClient)
	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier timeout")
	assert.False(t, testOrd.HasShipment())
}
