package commands_test

import (
	"context"
	"testing"
	"time"

	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/domain/model/apiconfig"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) GetByCode(ctx context.Context, code string) (*order.Order, error) {
	args := m.Called(ctx, code)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) FindByStatuses(ctx context.Context, statuses []order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, statuses)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockConfigRepository struct{ mock.Mock }

func (m *MockConfigRepository) Add(ctx context.Context, c *apiconfig.Config) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockConfigRepository) FindValid(ctx context.Context) ([]*apiconfig.Config, error) {
	args := m.Called(ctx)
	configs, _ := args.Get(0).([]*apiconfig.Config)
	return configs, args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) ConfigRepository() ports.ConfigRepository {
	return m.Called().Get(0).(ports.ConfigRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

type MockGateway struct{ mock.Mock }

func (m *MockGateway) CreateOrder(ctx context.Context, cfg *apiconfig.Config, o *order.Order) (ports.CreatedOrder, error) {
	args := m.Called(ctx, cfg, o)
	return args.Get(0).(ports.CreatedOrder), args.Error(1)
}

func (m *MockGateway) CancelOrder(ctx context.Context, cfg *apiconfig.Config, code, reason string) error {
	return m.Called(ctx, cfg, code, reason).Error(0)
}

func (m *MockGateway) ModifyOrder(ctx context.Context, cfg *apiconfig.Config, code string, c order.OrderChanges) error {
	return m.Called(ctx, cfg, code, c).Error(0)
}

func (m *MockGateway) QueryOrderDetail(ctx context.Context, cfg *apiconfig.Config, code string) (order.RemoteDetail, error) {
	args := m.Called(ctx, cfg, code)
	return args.Get(0).(order.RemoteDetail), args.Error(1)
}

func (m *MockGateway) QueryLogistics(
	ctx context.Context, cfg *apiconfig.Config, code, mailNo string,
) ([]order.LogisticsEvent, error) {
	args := m.Called(ctx, cfg, code, mailNo)
	events, _ := args.Get(0).([]order.LogisticsEvent)
	return events, args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, events ...order.StatusChanged) error {
	return m.Called(ctx, events).Error(0)
}

type MockBatchLock struct{ mock.Mock }

func (m *MockBatchLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockBatchLock) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// fixture wires one shared UoW behind the factory; every Create returns it.
type fixture struct {
	orders    *MockOrderRepository
	configs   *MockConfigRepository
	uow       *MockUoW
	factory   *MockUoWFactory
	gateway   *MockGateway
	publisher *MockPublisher
	lock      *MockBatchLock
	cfg       *apiconfig.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		orders:    new(MockOrderRepository),
		configs:   new(MockConfigRepository),
		uow:       new(MockUoW),
		factory:   new(MockUoWFactory),
		gateway:   new(MockGateway),
		publisher: new(MockPublisher),
		lock:      new(MockBatchLock),
		cfg:       testConfig(t),
	}
	f.factory.On("Create").Return(f.uow).Maybe()
	f.uow.On("OrderRepository").Return(f.orders).Maybe()
	f.uow.On("ConfigRepository").Return(f.configs).Maybe()
	return f
}

func (f *fixture) expectConfig() {
	f.configs.On("FindValid", mock.Anything).Return([]*apiconfig.Config{f.cfg}, nil)
}

// expectTx sets up n successful write transactions.
func (f *fixture) expectTx(n int) {
	f.uow.On("Begin", mock.Anything).Return(nil).Times(n)
	f.uow.On("Commit", mock.Anything).Return(nil).Times(n)
	f.uow.On("Rollback", mock.Anything).Return(nil).Maybe()
}

func (f *fixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.orders.AssertExpectations(t)
	f.configs.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
	f.lock.AssertExpectations(t)
}

func testConfig(t *testing.T) *apiconfig.Config {
	t.Helper()
	c, err := apiconfig.NewConfig(apiconfig.Params{
		Name:       "default",
		AppSecret:  "s3cr3t",
		AccessCode: "access",
		ProviderID: "provider",
		APIGateway: "https://gateway.example.com/link",
		Valid:      true,
	})
	require.NoError(t, err)
	return c
}

func testAddress(t *testing.T, name string) kernel.Address {
	t.Helper()
	a, err := kernel.NewAddress(kernel.AddressParams{
		Name:     name,
		Mobile:   "13800000000",
		Province: "Zhejiang",
		City:     "Hangzhou",
		Detail:   "1 Wensan Road",
	})
	require.NoError(t, err)
	return a
}

func storedOrder(t *testing.T, code, remote, mailNo string, status order.Status) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.Snapshot{
		ID:               kernel.NewUUID(),
		OrderCode:        code,
		CainiaoOrderCode: remote,
		MailNo:           mailNo,
		Status:           status,
		Sender:           testAddress(t, "sender"),
		Receiver:         testAddress(t, "receiver"),
		Weight:           decimal.NewFromInt(1),
		ItemType:         "document",
		Version:          1,
	})
	require.NoError(t, err)
	return o
}

func strPtr(s string) *string { return &s }
