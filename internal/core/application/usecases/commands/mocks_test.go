package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/performance"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, orderID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetUnassignedPending(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetConfirmedWithoutTracking(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetWithActiveTracking(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountOpenByOperator(ctx context.Context) (map[kernel.UUID]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]int), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockOperatorRepository struct{ mock.Mock }

func (m *MockOperatorRepository) Get(ctx context.Context, operatorID kernel.UUID) (*operator.Operator, error) {
	args := m.Called(ctx, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*operator.Operator), args.Error(1)
}

func (m *MockOperatorRepository) ListActiveEmployees(ctx context.Context) ([]*operator.Operator, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*operator.Operator), args.Error(1)
}

type MockTrackingLogRepository struct{ mock.Mock }

func (m *MockTrackingLogRepository) Add(ctx context.Context, entry *tracking.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTrackingLogRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*tracking.LogEntry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tracking.LogEntry), args.Error(1)
}

type MockPerformanceRepository struct{ mock.Mock }

func (m *MockPerformanceRepository) Increment(ctx context.Context, operatorID kernel.UUID, field performance.Field, day kernel.Day) error {
	args := m.Called(ctx, operatorID, field, day)
	return args.Error(0)
}

func (m *MockPerformanceRepository) GetRatesSince(ctx context.Context, since kernel.Day) (map[kernel.UUID]performance.Rates, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]performance.Rates), args.Error(1)
}

func (m *MockPerformanceRepository) GetCounters(ctx context.Context, operatorID kernel.UUID, from, to time.Time) ([]performance.Counter, error) {
	args := m.Called(ctx, operatorID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]performance.Counter), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) OperatorRepository() ports.OperatorRepository {
	args := m.Called()
	return args.Get(0).(ports.OperatorRepository)
}

func (m *MockUoW) TrackingLogRepository() ports.TrackingLogRepository {
	args := m.Called()
	return args.Get(0).(ports.TrackingLogRepository)
}

func (m *MockUoW) PerformanceRepository() ports.PerformanceRepository {
	args := m.Called()
	return args.Get(0).(ports.PerformanceRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishOrderChanged(ctx context.Context, event ports.OrderChangedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockCarrierSubmitQueue struct{ mock.Mock }

func (m *MockCarrierSubmitQueue) Enqueue(orderID kernel.UUID) {
	m.Called(orderID)
}

func (m *MockCarrierSubmitQueue) EnqueueCancel(orderID kernel.UUID) {
	m.Called(orderID)
}

type MockCarrierAccountStore struct{ mock.Mock }

func (m *MockCarrierAccountStore) FindForLocation(ctx context.Context, locationID string) (*carrier.Account, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*carrier.Account), args.Error(1)
}

func (m *MockCarrierAccountStore) FindDefault(ctx context.Context) (*carrier.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*carrier.Account), args.Error(1)
}

type MockCarrierClient struct{ mock.Mock }

func (m *MockCarrierClient) CreateShipment(ctx context.Context, account *carrier.Account, request carrier.ShipmentRequest) (carrier.ShipmentInfo, error) {
	args := m.Called(ctx, account, request)
	return args.Get(0).(carrier.ShipmentInfo), args.Error(1)
}

func (m *MockCarrierClient) CancelShipment(ctx context.Context, account *carrier.Account, trackingID string) error {
	args := m.Called(ctx, account, trackingID)
	return args.Error(0)
}

func (m *MockCarrierClient) GetTracking(ctx context.Context, account *carrier.Account, trackingID string) (carrier.TrackingUpdate, error) {
	args := m.Called(ctx, account, trackingID)
	return args.Get(0).(carrier.TrackingUpdate), args.Error(1)
}

func (m *MockCarrierClient) BulkGetTracking(ctx context.Context, account *carrier.Account, trackingIDs []string) ([]carrier.TrackingUpdate, error) {
	args := m.Called(ctx, account, trackingIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]carrier.TrackingUpdate), args.Error(1)
}

// Shared test fixtures.

func testCustomer(t *testing.T) order.Customer {
	t.Helper()
	customer, err := order.NewCustomer("Test Customer", "+77000000000", "5 Main St", "Almaty")
	require.NoError(t, err)
	return customer
}

func testOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), "ORD-9001", testCustomer(t),
		map[string]string{"sku": "lamp"},
		1500, 1, 500,
		nil,
	)
	require.NoError(t, err)
	return o
}

func testEmployee(t *testing.T, id kernel.UUID) *operator.Operator {
	t.Helper()
	op, err := operator.NewOperator(id, "Employee", operator.RoleEmployee, true)
	require.NoError(t, err)
	return op
}

func testAdministrator(t *testing.T, id kernel.UUID) *operator.Operator {
	t.Helper()
	op, err := operator.NewOperator(id, "Administrator", operator.RoleAdministrator, true)
	require.NoError(t, err)
	return op
}
