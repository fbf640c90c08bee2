package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/performance"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// snapshotUoW wires the single read transaction of a distribution run.
func snapshotUoW(
	ctx any,
	orders []*order.Order,
	operators []*operator.Operator,
) (*MockUoW, *MockOrderRepository, *MockOperatorRepository, *MockPerformanceRepository) {
	orderRepo := new(MockOrderRepository)
	operatorRepo := new(MockOperatorRepository)
	perfRepo := new(MockPerformanceRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetUnassignedPending", ctx).Return(orders, nil).Once(),
		uow.On("OperatorRepository").Return(operatorRepo).Once(),
		operatorRepo.On("ListActiveEmployees", ctx).Return(operators, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("CountOpenByOperator", ctx).Return(map[kernel.UUID]int{}, nil).Once(),
		uow.On("PerformanceRepository").Return(perfRepo).Once(),
		perfRepo.On("GetRatesSince", ctx, mock.AnythingOfType("kernel.Day")).
			Return(map[kernel.UUID]performance.Rates{}, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	return uow, orderRepo, operatorRepo, perfRepo
}

// assignmentUoW wires a permissive transaction for the execution phase,
// reused across every pairing of the run.
func assignmentUoW(ctx any, orders []*order.Order, operators []*operator.Operator) *MockUoW {
	orderRepo := new(MockOrderRepository)
	operatorRepo := new(MockOperatorRepository)
	perfRepo := new(MockPerformanceRepository)
	logRepo := new(MockTrackingLogRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("OperatorRepository").Return(operatorRepo)
	uow.On("PerformanceRepository").Return(perfRepo)
	uow.On("TrackingLogRepository").Return(logRepo)

	for _, op := range operators {
		operatorRepo.On("Get", ctx, op.ID()).Return(op, nil)
	}
	for _, o := range orders {
		orderRepo.On("Get", ctx, o.ID()).Return(o, nil)
	}
	orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil)
	perfRepo.On("Increment", ctx, mock.AnythingOfType("kernel.UUID"),
		performance.FieldAssigned, kernel.Today()).Return(nil)
	logRepo.On("Add", ctx, mock.AnythingOfType("*tracking.LogEntry")).Return(nil)

	return uow
}

func TestDistributeOrdersCommandHandler_Handle_RoundRobin(t *testing.T) {
	ctx := t.Context()

	actorID := kernel.NewUUID()
	orders := []*order.Order{testOrder(t), testOrder(t), testOrder(t)}
	operators := []*operator.Operator{
		testEmployee(t, kernel.NewUUID()),
		testEmployee(t, kernel.NewUUID()),
	}

	cmd, err := commands.NewDistributeOrdersCommand(services.PolicyRoundRobin, actorID)
	require.NoError(t, err)

	snapUoW, _, _, _ := snapshotUoW(ctx, orders, operators)
	snapFactory := new(MockUoWFactory)
	snapFactory.On("Create").Return(snapUoW).Once()

	execUoW := assignmentUoW(ctx, orders, operators)
	execFactory := new(MockUoWFactory)
	execFactory.On("Create").Return(execUoW)

	assignHandler := commands.NewAssignOrderCommandHandler(execFactory)
	handler := commands.NewDistributeOrdersCommandHandler(snapFactory, assignHandler, discardLogger())

	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Assigned)
	assert.Zero(t, result.Skipped)
	require.Len(t, result.PerOrder, 3)
	for _, outcome := range result.PerOrder {
		assert.Equal(t, "assigned", outcome.Outcome)
		assert.NotEmpty(t, outcome.OperatorID)
	}

	// Every order ended up assigned to someone from the pool.
	for _, o := range orders {
		require.NotNil(t, o.AssignedTo())
	}

	snapUoW.AssertExpectations(t)
}

func TestDistributeOrdersCommandHandler_Handle_EmptyBacklog(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewDistributeOrdersCommand(services.PolicyBalanced, kernel.NewUUID())
	require.NoError(t, err)

	snapUoW, _, _, _ := snapshotUoW(ctx, []*order.Order{}, nil)
	snapFactory := new(MockUoWFactory)
	snapFactory.On("Create").Return(snapUoW).Once()

	assignHandler := commands.NewAssignOrderCommandHandler(new(MockUoWFactory))
	handler := commands.NewDistributeOrdersCommandHandler(snapFactory, assignHandler, discardLogger())

	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Zero(t, result.Assigned)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.PerOrder)
}

func TestDistributeOrdersCommandHandler_Handle_NoEligibleOperators(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewDistributeOrdersCommand(services.PolicyRoundRobin, kernel.NewUUID())
	require.NoError(t, err)

	snapUoW, _, _, _ := snapshotUoW(ctx, []*order.Order{testOrder(t)}, []*operator.Operator{})
	snapFactory := new(MockUoWFactory)
	snapFactory.On("Create").Return(snapUoW).Once()

	assignHandler := commands.NewAssignOrderCommandHandler(new(MockUoWFactory))
	handler := commands.NewDistributeOrdersCommandHandler(snapFactory, assignHandler, discardLogger())

	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, services.ErrNoEligibleOperators)
}

func TestDistributeOrdersCommandHandler_Handle_FailedPairingIsSkipped(t *testing.T) {
	ctx := t.Context()

	actorID := kernel.NewUUID()
	orders := []*order.Order{testOrder(t), testOrder(t)}
	operators := []*operator.Operator{testEmployee(t, kernel.NewUUID())}

	cmd, err := commands.NewDistributeOrdersCommand(services.PolicyRoundRobin, actorID)
	require.NoError(t, err)

	snapUoW, _, _, _ := snapshotUoW(ctx, orders, operators)
	snapFactory := new(MockUoWFactory)
	snapFactory.On("Create").Return(snapUoW).Once()

	// Every assignment transaction fails at Begin; the run must still
	// report each pairing instead of aborting.
	execUoW := new(MockUoW)
	execUoW.On("Begin", ctx).Return(errors.New("connection lost"))
	execFactory := new(MockUoWFactory)
	execFactory.On("Create").Return(execUoW)

	assignHandler := commands.NewAssignOrderCommandHandler(execFactory)
	handler := commands.NewDistributeOrdersCommandHandler(snapFactory, assignHandler, discardLogger())

	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Zero(t, result.Assigned)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.PerOrder, 2)
	for _, outcome := range result.PerOrder {
		assert.Equal(t, "skipped", outcome.Outcome)
		assert.Contains(t, outcome.Reason, "connection lost")
	}
}
