package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func confirmedOrder(t *testing.T) *order.Order {
	t.Helper()
	ord := testOrder(t)
	admin, err := order.NewActor(kernel.NewUUID(), true)
	require.NoError(t, err)
	_, err = ord.ChangeStatus(order.Confirmed, admin)
	require.NoError(t, err)
	return ord
}

// expectResolveActor wires the short transaction the handler opens to load
// the acting operator.
func expectResolveActor(ctx any, uow *MockUoW, actorID kernel.UUID, actor *operator.Operator) {
	operatorRepo := new(MockOperatorRepository)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OperatorRepository").Return(operatorRepo).Once(),
		operatorRepo.On("Get", ctx, actorID).Return(actor, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
}

// expectTransition wires the per-order transition transaction of a handoff.
func expectTransition(ctx any, uow *MockUoW, ord *order.Order) {
	orderRepo := new(MockOrderRepository)
	logRepo := new(MockTrackingLogRepository)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, ord.ID()).Return(ord, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("TrackingLogRepository").Return(logRepo).Once(),
		logRepo.On("Add", ctx, mock.AnythingOfType("*tracking.LogEntry")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
}

func TestCarrierHandoffCommandHandler_Handle_MixedBatch(t *testing.T) {
	ctx := t.Context()

	actorID := kernel.NewUUID()
	ready := confirmedOrder(t)
	notReady := testOrder(t) // still pending, cannot enter the import status

	cmd, err := commands.NewCarrierHandoffCommand([]kernel.UUID{ready.ID(), notReady.ID()}, actorID)
	require.NoError(t, err)

	actorUoW := new(MockUoW)
	expectResolveActor(ctx, actorUoW, actorID, testEmployee(t, actorID))

	readyUoW := new(MockUoW)
	expectTransition(ctx, readyUoW, ready)

	// The pending order fails inside ChangeStatus; only the read happens.
	notReadyRepo := new(MockOrderRepository)
	notReadyUoW := new(MockUoW)
	mock.InOrder(
		notReadyUoW.On("Begin", ctx).Return(nil).Once(),
		notReadyUoW.On("OrderRepository").Return(notReadyRepo).Once(),
		notReadyRepo.On("Get", ctx, notReady.ID()).Return(notReady, nil).Once(),
		notReadyUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(actorUoW).Once()
	factory.On("Create").Return(readyUoW).Once()
	factory.On("Create").Return(notReadyUoW).Once()

	// Submission path for the ready order.
	loadUoW := new(MockUoW)
	recordUoW := new(MockUoW)
	submitOrderRepo := new(MockOrderRepository)
	submitLogRepo := new(MockTrackingLogRepository)
	expectLoadOrder(ctx, loadUoW, submitOrderRepo, ready)
	mock.InOrder(
		recordUoW.On("Begin", ctx).Return(nil).Once(),
		recordUoW.On("OrderRepository").Return(submitOrderRepo).Once(),
		submitOrderRepo.On("Get", ctx, ready.ID()).Return(ready, nil).Once(),
		recordUoW.On("OrderRepository").Return(submitOrderRepo).Once(),
		submitOrderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		recordUoW.On("TrackingLogRepository").Return(submitLogRepo).Once(),
		submitLogRepo.On("Add", ctx, mock.AnythingOfType("*tracking.LogEntry")).Return(nil).Once(),
		recordUoW.On("Commit", ctx).Return(nil).Once(),
		recordUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	submitFactory := new(MockUoWFactory)
	submitFactory.On("Create").Return(loadUoW).Once()
	submitFactory.On("Create").Return(recordUoW).Once()

	accountStore := new(MockCarrierAccountStore)
	accountStore.On("FindDefault", ctx).Return(testAccount(t, nil, true), nil).Once()

	carrierClient := new(MockCarrierClient)
	carrierClient.On("CreateShipment", ctx, mock.Anything, mock.AnythingOfType("carrier.ShipmentRequest")).
		Return(carrier.ShipmentInfo{TrackingID: "TRK-77", Status: "registered"}, nil).Once()

	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderChanged", ctx, mock.Anything).Return(nil).Once()

	submitHandler := commands.NewSubmitOrderToCarrierCommandHandler(submitFactory, accountStore, carrierClient)
	handler := commands.NewCarrierHandoffCommandHandler(factory, submitHandler, publisher, discardLogger())

	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Submitted)
	assert.Zero(t, result.Failed)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.PerOrder, 2)

	assert.Equal(t, commands.HandoffOutcomeSubmitted, result.PerOrder[0].Outcome)
	assert.Equal(t, "TRK-77", result.PerOrder[0].TrackingID)
	assert.Equal(t, commands.HandoffOutcomeSkipped, result.PerOrder[1].Outcome)
	assert.NotEmpty(t, result.PerOrder[1].Reason)

	assert.Equal(t, order.ImportToDeliveryCompany, ready.Status())
	assert.Equal(t, order.Pending, notReady.Status())

	publisher.AssertExpectations(t)
	carrierClient.AssertExpectations(t)
}

func TestCarrierHandoffCommandHandler_Handle_CarrierFailureKeepsTransition(t *testing.T) {
	ctx := t.Context()

	actorID := kernel.NewUUID()
	ready := confirmedOrder(t)

	cmd, err := commands.NewCarrierHandoffCommand([]kernel.UUID{ready.ID()}, actorID)
	require.NoError(t, err)

	actorUoW := new(MockUoW)
	expectResolveActor(ctx, actorUoW, actorID, testEmployee(t, actorID))

	transitionUoW := new(MockUoW)
	expectTransition(ctx, transitionUoW, ready)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(actorUoW).Once()
	factory.On("Create").Return(transitionUoW).Once()

	loadUoW := new(MockUoW)
	failureUoW := new(MockUoW)
	submitOrderRepo := new(MockOrderRepository)
	submitLogRepo := new(MockTrackingLogRepository)
	expectLoadOrder(ctx, loadUoW, submitOrderRepo, ready)
	mock.InOrder(
		failureUoW.On("Begin", ctx).Return(nil).Once(),
		failureUoW.On("TrackingLogRepository").Return(submitLogRepo).Once(),
		submitLogRepo.On("Add", ctx, mock.AnythingOfType("*tracking.LogEntry")).Return(nil).Once(),
		failureUoW.On("Commit", ctx).Return(nil).Once(),
		failureUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	submitFactory := new(MockUoWFactory)
	submitFactory.On("Create").Return(loadUoW).Once()
	submitFactory.On("Create").Return(failureUoW).Once()

	accountStore := new(MockCarrierAccountStore)
	accountStore.On("FindDefault", ctx).Return(testAccount(t, nil, true), nil).Once()

	carrierClient := new(MockCarrierClient)
	carrierClient.On("CreateShipment", ctx, mock.Anything, mock.AnythingOfType("carrier.ShipmentRequest")).
		Return(carrier.ShipmentInfo{}, errors.New("carrier timeout")).Once()

	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderChanged", ctx, mock.Anything).Return(nil).Once()

	submitHandler := commands.NewSubmitOrderToCarrierCommandHandler(submitFactory, accountStore, carrierClient)
	handler := commands.NewCarrierHandoffCommandHandler(factory, submitHandler, publisher, discardLogger())

	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Zero(t, result.Submitted)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.PerOrder, 1)
	assert.Equal(t, commands.HandoffOutcomeFailed, result.PerOrder[0].Outcome)
	assert.Contains(t, result.PerOrder[0].Reason, "carrier timeout")

	// The status transition stays committed; the sweep retries submission.
	assert.Equal(t, order.ImportToDeliveryCompany, ready.Status())
	assert.False(t, ready.HasShipment())
}

func TestCarrierHandoffCommandHandler_Handle_UnknownActor(t *testing.T) {
	ctx := t.Context()

	actorID := kernel.NewUUID()
	cmd, err := commands.NewCarrierHandoffCommand([]kernel.UUID{kernel.NewUUID()}, actorID)
	require.NoError(t, err)

	operatorRepo := new(MockOperatorRepository)
	actorUoW := new(MockUoW)
	mock.InOrder(
		actorUoW.On("Begin", ctx).Return(nil).Once(),
		actorUoW.On("OperatorRepository").Return(operatorRepo).Once(),
		operatorRepo.On("Get", ctx, actorID).
			Return(nil, errs.NewObjectNotFoundError("operator", actorID)).Once(),
		actorUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(actorUoW).Once()

	submitHandler := commands.NewSubmitOrderToCarrierCommandHandler(
		new(MockUoWFactory), new(MockCarrierAccountStore), new(MockCarrierClient),
	)
	handler := commands.NewCarrierHandoffCommandHandler(factory, submitHandler, new(MockEventPublisher), discardLogger())

	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, operator.ErrInvalidOperator)
}

func TestCarrierHandoffCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CarrierHandoffCommand{} // not constructed properly

	factory := new(MockUoWFactory)
	submitHandler := commands.NewSubmitOrderToCarrierCommandHandler(
		new(MockUoWFactory), new(MockCarrierAccountStore), new(MockCarrierClient),
	)
	handler := commands.NewCarrierHandoffCommandHandler(factory, submitHandler, new(MockEventPublisher), discardLogger())

	_, err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrCarrierHandoffCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestNewCarrierHandoffCommand_Validation(t *testing.T) {
	_, err := commands.NewCarrierHandoffCommand(nil, kernel.NewUUID())
	require.ErrorIs(t, err, commands.ErrNoOrdersSelected)

	_, err = commands.NewCarrierHandoffCommand([]kernel.UUID{{}}, kernel.NewUUID())
	require.Error(t, err)

	_, err = commands.NewCarrierHandoffCommand([]kernel.UUID{kernel.NewUUID()}, kernel.UUID{})
	require.Error(t, err)
}
