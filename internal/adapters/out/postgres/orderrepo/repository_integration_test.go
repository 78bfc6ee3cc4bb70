package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"pickup/internal/adapters/out/postgres/orderrepo"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite runs the repository against a real PostgreSQL.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.LogisticsEventDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, logistics_events").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) address(name string) kernel.Address {
	a, err := kernel.NewAddress(kernel.AddressParams{
		Name:     name,
		Phone:    "0571-1234567",
		Province: "Zhejiang",
		City:     "Hangzhou",
		District: "Binjiang",
		Town:     "Changhe",
		Detail:   "88 Jiangnan Avenue",
	})
	suite.Require().NoError(err)
	return a
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(code string) *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), code,
		suite.address("sender"), suite.address("receiver"),
		decimal.RequireFromString("1.250"), "document",
		order.WithItemValue(decimal.RequireFromString("99.90")),
	)
	suite.Require().NoError(err)
	suite.Require().NoError(o.AssignRemoteCode("CN-" + code))
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) trail(mailNo string, n int) []order.LogisticsEvent {
	events := make([]order.LogisticsEvent, 0, n)
	for i := range n {
		e, err := order.NewLogisticsEvent(order.LogisticsEventParams{
			MailNo:      mailNo,
			Status:      "TRANSPORT",
			Description: "scan",
			OccurredAt:  time.Date(2024, 7, 1, i, 0, 0, 0, time.UTC),
			City:        "Hangzhou",
		})
		suite.Require().NoError(err)
		events = append(events, e)
	}
	return events
}

func (suite *OrderRepositoryIntegrationTestSuite) countRows(table string) int64 {
	var count int64
	suite.Require().NoError(suite.db.Table(table).Count(&count).Error)
	return count
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_PersistsAllFields() {
	ctx := context.Background()
	o := suite.newOrder("PO-1")

	suite.Require().NoError(suite.repository.Add(ctx, o))
	suite.Equal(1, o.Version())

	got, err := suite.repository.GetByCode(ctx, "PO-1")
	suite.Require().NoError(err)

	suite.True(o.ID().IsEqual(got.ID()))
	suite.Equal("CN-PO-1", got.CainiaoOrderCode())
	suite.Equal(order.Create, got.Status())
	suite.True(o.Sender().IsEqual(got.Sender()))
	suite.True(o.Receiver().IsEqual(got.Receiver()))
	suite.True(decimal.RequireFromString("1.25").Equal(got.Weight()))
	suite.True(decimal.RequireFromString("99.9").Equal(got.ItemValue()))
	suite.Equal(1, got.Version())
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", o.ID(), o)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateOrderCode() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder("PO-1")))

	dup, err := order.NewOrder(kernel.NewUUID(), "PO-1", suite.address("a"), suite.address("b"),
		decimal.NewFromInt(1), "doc")
	suite.Require().NoError(err)

	suite.Require().Error(suite.repository.Add(ctx, dup))
	suite.Equal(int64(1), suite.countRows("orders"))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetByCode_NotFound() {
	_, err := suite.repository.GetByCode(context.Background(), "missing")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_AppliesRemoteDetailAndBumpsVersion() {
	ctx := context.Background()
	o := suite.newOrder("PO-1")
	suite.Require().NoError(suite.repository.Add(ctx, o))

	status, mailNo := "200", "YT100"
	updated := time.Date(2024, 7, 2, 10, 0, 0, 0, time.UTC)
	suite.Require().NoError(o.ApplyRemoteDetail(order.RemoteDetail{
		StatusCode:     &status,
		MailNo:         &mailNo,
		LastUpdateTime: &updated,
	}))
	suite.Require().NoError(suite.repository.Update(ctx, o))
	suite.Equal(2, o.Version())

	got, err := suite.repository.GetByCode(ctx, "PO-1")
	suite.Require().NoError(err)
	suite.Equal(order.WarehouseConfirmed, got.Status())
	suite.Equal("YT100", got.MailNo())
	suite.True(updated.Equal(*got.LastUpdateTime()))
	suite.Equal(2, got.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersionIsRejected() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder("PO-1")))

	first, err := suite.repository.GetByCode(ctx, "PO-1")
	suite.Require().NoError(err)
	second, err := suite.repository.GetByCode(ctx, "PO-1")
	suite.Require().NoError(err)

	suite.Require().NoError(first.Cancel("first writer", time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	remark := "second writer"
	suite.Require().NoError(second.Modify(order.OrderChanges{Remark: &remark}))
	err = suite.repository.Update(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
	got, err := suite.repository.GetByCode(ctx, "PO-1")
	suite.Require().NoError(err)
	suite.Equal(order.Cancelled, got.Status())
	suite.Empty(got.Remark())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_MissingOrder() {
	err := suite.repository.Update(context.Background(), suite.newOrder("PO-404"))
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ReplacesLogisticsEvents() {
	ctx := context.Background()
	o := suite.newOrder("PO-1")
	mailNo := "YT1"
	suite.Require().NoError(o.ApplyRemoteDetail(order.RemoteDetail{MailNo: &mailNo}))
	suite.Require().NoError(suite.repository.Add(ctx, o))

	suite.Require().NoError(o.ReplaceLogisticsEvents(suite.trail("YT1", 4)))
	suite.Require().NoError(suite.repository.Update(ctx, o))
	suite.Equal(int64(4), suite.countRows("logistics_events"))

	for range 2 {
		suite.Require().NoError(o.ReplaceLogisticsEvents(suite.trail("YT1", 2)))
		suite.Require().NoError(suite.repository.Update(ctx, o))
	}
	suite.Equal(int64(2), suite.countRows("logistics_events"))

	got, err := suite.repository.GetByCode(ctx, "PO-1")
	suite.Require().NoError(err)
	events := got.LogisticsEvents()
	suite.Require().Len(events, 2)
	suite.True(events[0].OccurredAt().Before(events[1].OccurredAt()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_KeepsEventsWhenNotReplaced() {
	ctx := context.Background()
	o := suite.newOrder("PO-1")
	mailNo := "YT1"
	suite.Require().NoError(o.ApplyRemoteDetail(order.RemoteDetail{MailNo: &mailNo}))
	suite.Require().NoError(o.ReplaceLogisticsEvents(suite.trail("YT1", 3)))
	suite.Require().NoError(suite.repository.Add(ctx, o))

	courier := "Wang"
	suite.Require().NoError(o.ApplyRemoteDetail(order.RemoteDetail{CourierName: &courier}))
	suite.Require().NoError(suite.repository.Update(ctx, o))

	suite.Equal(int64(3), suite.countRows("logistics_events"))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestFindByStatuses() {
	ctx := context.Background()
	created := suite.newOrder("PO-1")
	suite.Require().NoError(suite.repository.Add(ctx, created))

	accepted := suite.newOrder("PO-2")
	status := "100"
	suite.Require().NoError(accepted.ApplyRemoteDetail(order.RemoteDetail{StatusCode: &status}))
	suite.Require().NoError(suite.repository.Add(ctx, accepted))

	signed := suite.newOrder("PO-3")
	status = "1000"
	suite.Require().NoError(signed.ApplyRemoteDetail(order.RemoteDetail{StatusCode: &status}))
	suite.Require().NoError(suite.repository.Add(ctx, signed))

	got, err := suite.repository.FindByStatuses(ctx, order.UnfinishedStatuses())
	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	codes := []string{got[0].OrderCode(), got[1].OrderCode()}
	suite.ElementsMatch([]string{"PO-1", "PO-2"}, codes)

	none, err := suite.repository.FindByStatuses(ctx, order.LogisticsSyncStatuses())
	suite.Require().NoError(err)
	suite.Empty(none)

	empty, err := suite.repository.FindByStatuses(ctx, nil)
	suite.Require().NoError(err)
	suite.Empty(empty)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestFindByStatuses_SkipsRowsThatCannotBeRestored() {
	ctx := context.Background()
	broken := suite.newOrder("PO-1")
	suite.Require().NoError(suite.repository.Add(ctx, broken))
	healthy := suite.newOrder("PO-2")
	suite.Require().NoError(suite.repository.Add(ctx, healthy))

	err := suite.db.Exec("UPDATE orders SET weight = 0 WHERE order_code = ?", "PO-1").Error
	suite.Require().NoError(err)

	got, err := suite.repository.FindByStatuses(ctx, order.UnfinishedStatuses())

	var unreadable *ports.UnreadableOrdersError
	suite.Require().ErrorAs(err, &unreadable)
	suite.Require().Len(unreadable.Orders, 1)
	suite.Equal("PO-1", unreadable.Orders[0].OrderCode)
	suite.ErrorIs(err, errs.ErrValueIsInvalid)

	suite.Require().Len(got, 1)
	suite.Equal("PO-2", got[0].OrderCode())
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
