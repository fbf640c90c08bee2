package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/core/domain/model/performance"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAssignOrderCommandHandler_Handle_Assign(t *testing.T) {
	ctx := t.Context()

	actorID := kernel.NewUUID()
	operatorID := kernel.NewUUID()
	testOrd := testOrder(t)

	cmd, err := commands.NewAssignOrderCommand(testOrd.ID(), &operatorID, actorID)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	operatorRepo := new(MockOperatorRepository)
	logRepo := new(MockTrackingLogRepository)
	perfRepo := new(MockPerformanceRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OperatorRepository").Return(operatorRepo).Once(),
		operatorRepo.On("Get", ctx, operatorID).Return(testEmployee(t, operatorID), nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrd.ID()).Return(testOrd, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("PerformanceRepository").Return(perfRepo).Once(),
		perfRepo.On("Increment", ctx, operatorID, performance.FieldAssigned, kernel.Today()).Return(nil).Once(),
		uow.On("TrackingLogRepository").Return(logRepo).Once(),
		logRepo.On("Add", ctx, mock.AnythingOfType("*tracking.LogEntry")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, testOrd.AssignedTo())
	assert.True(t, testOrd.AssignedTo().IsEqual(operatorID))

	orderRepo.AssertExpectations(t)
	operatorRepo.AssertExpectations(t)
	perfRepo.AssertExpectations(t)
	logRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestAssignOrderCommandHandler_Handle_Unassign(t *testing.T) {
	ctx := t.Context()

	actorID := kernel.NewUUID()
	testOrd := testOrder(t)
	previous := kernel.NewUUID()
	require.NoError(t, testOrd.AssignTo(&previous))

	cmd, err := commands.NewAssignOrderCommand(testOrd.ID(), nil, actorID)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	logRepo := new(MockTrackingLogRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrd.ID()).Return(testOrd, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("TrackingLogRepository").Return(logRepo).Once(),
		logRepo.On("Add", ctx, mock.AnythingOfType("*tracking.LogEntry")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Nil(t, testOrd.AssignedTo())
	uow.AssertExpectations(t)
}

func TestAssignOrderCommandHandler_Handle_IneligibleTarget(t *testing.T) {
	ctx := t.Context()

	actorID := kernel.NewUUID()
	adminID := kernel.NewUUID()
	testOrd := testOrder(t)

	cmd, err := commands.NewAssignOrderCommand(testOrd.ID(), &adminID, actorID)
	require.NoError(t, err)

	operatorRepo := new(MockOperatorRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OperatorRepository").Return(operatorRepo).Once(),
		operatorRepo.On("Get", ctx, adminID).Return(testAdministrator(t, adminID), nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, operator.ErrInvalidOperator)
}

func TestAssignOrderCommandHandler_Handle_UnknownTarget(t *testing.T) {
	ctx := t.Context()

	actorID := kernel.NewUUID()
	operatorID := kernel.NewUUID()
	testOrd := testOrder(t)

	cmd, err := commands.NewAssignOrderCommand(testOrd.ID(), &operatorID, actorID)
	require.NoError(t, err)

	operatorRepo := new(MockOperatorRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OperatorRepository").Return(operatorRepo).Once(),
		operatorRepo.On("Get", ctx, operatorID).
			Return(nil, errs.NewObjectNotFoundError("operator", operatorID)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, operator.ErrInvalidOperator)
}

func TestAssignOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.AssignOrderCommand{} // not constructed properly

	factory := new(MockUoWFactory)
	handler := commands.NewAssignOrderCommandHandler(factory)
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrAssignOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
