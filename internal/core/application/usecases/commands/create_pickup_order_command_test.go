package commands_test

import (
	"errors"
	"testing"

	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/domain/model/apiconfig"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validCreateParams(t *testing.T) commands.CreatePickupOrderParams {
	t.Helper()
	return commands.CreatePickupOrderParams{
		OrderCode: " PO-1001 ",
		Sender:    testAddress(t, "sender"),
		Receiver:  testAddress(t, "receiver"),
		Weight:    decimal.RequireFromString("1.2"),
		ItemType:  "document",
		ItemValue: decimal.NewFromInt(50),
	}
}

func TestNewCreatePickupOrderCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cmd, err := commands.NewCreatePickupOrderCommand(validCreateParams(t))

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, "PO-1001", cmd.OrderCode())
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := commands.NewCreatePickupOrderCommand(commands.CreatePickupOrderParams{
			Weight:    decimal.NewFromInt(-1),
			ItemValue: decimal.NewFromInt(-1),
		})

		require.Error(t, err)
		for _, field := range []string{"orderCode", "sender", "receiver", "weight", "itemType", "itemValue"} {
			assert.Contains(t, err.Error(), field)
		}
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		assert.ErrorIs(t, commands.CreatePickupOrderCommand{}.Validate(),
			commands.ErrCreatePickupOrderCommandIsNotConstructed)
	})
}

func TestCreatePickupOrderCommandHandler_Handle(t *testing.T) {
	t.Run("stores order after gateway accepted it", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		cmd, err := commands.NewCreatePickupOrderCommand(validCreateParams(t))
		require.NoError(t, err)

		f.orders.On("GetByCode", ctx, "PO-1001").Return(nil, errs.NewObjectNotFoundError("orderCode", "PO-1001"))
		f.expectConfig()
		f.gateway.On("CreateOrder", ctx, f.cfg, mock.AnythingOfType("*order.Order")).
			Return(ports.CreatedOrder{CainiaoOrderCode: "CN-1", MailNo: "YT1"}, nil).Once()
		f.expectTx(1)
		f.orders.On("Add", ctx, mock.MatchedBy(func(o *order.Order) bool {
			return o.CainiaoOrderCode() == "CN-1" && o.MailNo() == "YT1" && o.Status() == order.Create
		})).Return(nil).Once()

		h := commands.NewCreatePickupOrderCommandHandler(f.factory, f.gateway, f.publisher, zap.NewNop())
		o, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, "CN-1", o.CainiaoOrderCode())
		f.assertExpectations(t)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("duplicate order code", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		cmd, _ := commands.NewCreatePickupOrderCommand(validCreateParams(t))
		f.orders.On("GetByCode", ctx, "PO-1001").Return(storedOrder(t, "PO-1001", "CN-1", "", order.Create), nil)

		h := commands.NewCreatePickupOrderCommandHandler(f.factory, f.gateway, f.publisher, zap.NewNop())
		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		f.gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no valid config", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		cmd, _ := commands.NewCreatePickupOrderCommand(validCreateParams(t))
		f.orders.On("GetByCode", ctx, "PO-1001").Return(nil, errs.NewObjectNotFoundError("orderCode", "PO-1001"))
		f.configs.On("FindValid", ctx).Return([]*apiconfig.Config{}, nil)

		h := commands.NewCreatePickupOrderCommandHandler(f.factory, f.gateway, f.publisher, zap.NewNop())
		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, apiconfig.ErrConfiguration)
		f.gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("gateway failure stores nothing", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		cmd, _ := commands.NewCreatePickupOrderCommand(validCreateParams(t))
		f.orders.On("GetByCode", ctx, "PO-1001").Return(nil, errs.NewObjectNotFoundError("orderCode", "PO-1001"))
		f.expectConfig()
		gatewayErr := errors.New("gateway down")
		f.gateway.On("CreateOrder", ctx, f.cfg, mock.Anything).Return(ports.CreatedOrder{}, gatewayErr)

		h := commands.NewCreatePickupOrderCommandHandler(f.factory, f.gateway, f.publisher, zap.NewNop())
		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, gatewayErr)
		f.orders.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("lookup failure is returned", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		cmd, _ := commands.NewCreatePickupOrderCommand(validCreateParams(t))
		dbErr := errors.New("connection refused")
		f.orders.On("GetByCode", ctx, "PO-1001").Return(nil, dbErr)

		h := commands.NewCreatePickupOrderCommandHandler(f.factory, f.gateway, f.publisher, zap.NewNop())
		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, dbErr)
	})

	t.Run("unconstructed command", func(t *testing.T) {
		f := newFixture(t)
		h := commands.NewCreatePickupOrderCommandHandler(f.factory, f.gateway, f.publisher, zap.NewNop())

		_, err := h.Handle(t.Context(), commands.CreatePickupOrderCommand{})

		require.ErrorIs(t, err, commands.ErrCreatePickupOrderCommandIsNotConstructed)
	})
}
