package commands_test

import (
	"errors"
	"testing"
	"time"

	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/domain/model/apiconfig"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSyncOrderDetailHandler(f *fixture) commands.SyncOrderDetailCommandHandler {
	return commands.NewSyncOrderDetailCommandHandler(f.factory, f.gateway, f.publisher, f.lock, time.Minute, zap.NewNop())
}

func TestSyncOrderDetailCommandHandler_Batch(t *testing.T) {
	t.Run("second order failing does not abort the batch", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		first := storedOrder(t, "PO-1", "CN-1", "", order.Create)
		second := storedOrder(t, "PO-2", "CN-2", "", order.WarehouseAccept)

		f.lock.On("Acquire", ctx, "pickup:sync:order-detail", time.Minute).Return(true, nil).Once()
		f.lock.On("Release", mock.Anything, "pickup:sync:order-detail").Return(nil).Once()
		f.expectConfig()
		f.orders.On("FindByStatuses", ctx, order.UnfinishedStatuses()).
			Return([]*order.Order{first, second}, nil)

		f.gateway.On("QueryOrderDetail", ctx, f.cfg, "CN-1").
			Return(order.RemoteDetail{StatusCode: strPtr("100"), CourierName: strPtr("Li")}, nil).Once()
		f.gateway.On("QueryOrderDetail", ctx, f.cfg, "CN-2").
			Return(order.RemoteDetail{}, errors.New("timeout")).Once()

		f.expectTx(1)
		f.orders.On("Update", ctx, first).Return(nil).Once()
		f.publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

		h := newSyncOrderDetailHandler(f)
		report, err := h.Handle(ctx, commands.NewSyncOrderDetailCommand(""))

		require.NoError(t, err)
		assert.Equal(t, 2, report.Total)
		assert.Equal(t, 1, report.Succeeded)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, order.WarehouseAccept, first.Status())
		assert.Equal(t, "Li", first.CourierName())
		assert.NoError(t, report.Items[0].Err)
		assert.EqualError(t, report.Items[1].Err, "timeout")

		lines := report.Lines()
		require.Len(t, lines, 3)
		assert.Contains(t, lines[0], "[OK]")
		assert.Contains(t, lines[1], "[FAIL] PO-2 (CN-2): timeout")
		assert.Equal(t, "order-detail sync: 2 total, 1 succeeded, 1 failed", lines[2])
		f.orders.AssertNotCalled(t, "Update", ctx, second)
		f.assertExpectations(t)
	})

	t.Run("stored rows that cannot be restored are reported and skipped", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		good := storedOrder(t, "PO-1", "CN-1", "", order.Create)
		restoreErr := errs.NewValueIsInvalidError("weight")

		f.lock.On("Acquire", ctx, mock.Anything, mock.Anything).Return(true, nil)
		f.lock.On("Release", mock.Anything, mock.Anything).Return(nil)
		f.expectConfig()
		f.orders.On("FindByStatuses", ctx, order.UnfinishedStatuses()).
			Return([]*order.Order{good}, &ports.UnreadableOrdersError{Orders: []ports.UnreadableOrder{
				{OrderCode: "PO-0", CainiaoOrderCode: "CN-0", Err: restoreErr},
			}})
		f.gateway.On("QueryOrderDetail", ctx, f.cfg, "CN-1").
			Return(order.RemoteDetail{StatusCode: strPtr("100")}, nil).Once()
		f.expectTx(1)
		f.orders.On("Update", ctx, good).Return(nil).Once()
		f.publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

		h := newSyncOrderDetailHandler(f)
		report, err := h.Handle(ctx, commands.NewSyncOrderDetailCommand(""))

		require.NoError(t, err)
		assert.Equal(t, 2, report.Total)
		assert.Equal(t, 1, report.Succeeded)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, "PO-0", report.Items[0].OrderCode)
		assert.ErrorIs(t, report.Items[0].Err, errs.ErrValueIsInvalid)
		assert.Contains(t, report.Lines()[0], "[FAIL] PO-0 (CN-0)")
		assert.Equal(t, order.WarehouseAccept, good.Status())
		f.gateway.AssertNotCalled(t, "QueryOrderDetail", ctx, f.cfg, "CN-0")
	})

	t.Run("listing failure is fatal", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		f.lock.On("Acquire", ctx, mock.Anything, mock.Anything).Return(true, nil)
		f.lock.On("Release", mock.Anything, mock.Anything).Return(nil)
		f.expectConfig()
		f.orders.On("FindByStatuses", ctx, mock.Anything).Return(nil, errors.New("connection reset"))

		h := newSyncOrderDetailHandler(f)
		_, err := h.Handle(ctx, commands.NewSyncOrderDetailCommand(""))

		require.EqualError(t, err, "connection reset")
	})

	t.Run("unknown remote status fails only that order", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		o := storedOrder(t, "PO-1", "CN-1", "", order.WarehouseProcess)

		f.lock.On("Acquire", ctx, mock.Anything, mock.Anything).Return(true, nil)
		f.lock.On("Release", mock.Anything, mock.Anything).Return(nil)
		f.expectConfig()
		f.orders.On("FindByStatuses", ctx, mock.Anything).Return([]*order.Order{o}, nil)
		f.gateway.On("QueryOrderDetail", ctx, f.cfg, "CN-1").
			Return(order.RemoteDetail{StatusCode: strPtr("9999")}, nil)

		h := newSyncOrderDetailHandler(f)
		report, err := h.Handle(ctx, commands.NewSyncOrderDetailCommand(""))

		require.NoError(t, err)
		assert.Equal(t, 1, report.Failed)
		assert.ErrorIs(t, report.Items[0].Err, order.ErrUnknownStatus)
		assert.Equal(t, order.WarehouseProcess, o.Status())
		f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("no matching orders is not an error", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		f.lock.On("Acquire", ctx, mock.Anything, mock.Anything).Return(true, nil)
		f.lock.On("Release", mock.Anything, mock.Anything).Return(nil)
		f.expectConfig()
		f.orders.On("FindByStatuses", ctx, mock.Anything).Return([]*order.Order{}, nil)

		h := newSyncOrderDetailHandler(f)
		report, err := h.Handle(ctx, commands.NewSyncOrderDetailCommand(""))

		require.NoError(t, err)
		assert.Equal(t, []string{"order-detail sync: no matching orders"}, report.Lines())
	})

	t.Run("held lock skips the run", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		f.lock.On("Acquire", ctx, mock.Anything, mock.Anything).Return(false, nil)

		h := newSyncOrderDetailHandler(f)
		report, err := h.Handle(ctx, commands.NewSyncOrderDetailCommand(""))

		require.NoError(t, err)
		assert.True(t, report.Skipped)
		f.configs.AssertNotCalled(t, "FindValid", mock.Anything)
		f.lock.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	})

	t.Run("missing config is fatal", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		f.lock.On("Acquire", ctx, mock.Anything, mock.Anything).Return(true, nil)
		f.lock.On("Release", mock.Anything, mock.Anything).Return(nil).Once()
		f.configs.On("FindValid", ctx).Return([]*apiconfig.Config(nil), nil)

		h := newSyncOrderDetailHandler(f)
		_, err := h.Handle(ctx, commands.NewSyncOrderDetailCommand(""))

		require.ErrorIs(t, err, apiconfig.ErrConfiguration)
		f.lock.AssertExpectations(t)
	})
}

func TestSyncOrderDetailCommandHandler_Single(t *testing.T) {
	t.Run("propagates the error", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		o := storedOrder(t, "PO-1", "CN-1", "", order.Create)
		remoteErr := errors.New("remote 500")

		f.orders.On("GetByCode", ctx, "PO-1").Return(o, nil)
		f.expectConfig()
		f.gateway.On("QueryOrderDetail", ctx, f.cfg, "CN-1").Return(order.RemoteDetail{}, remoteErr)

		h := newSyncOrderDetailHandler(f)
		report, err := h.Handle(ctx, commands.NewSyncOrderDetailCommand("PO-1"))

		require.ErrorIs(t, err, remoteErr)
		assert.Equal(t, 1, report.Failed)
		f.lock.AssertNotCalled(t, "Acquire", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown order code", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		f.orders.On("GetByCode", ctx, "PO-404").Return(nil, errs.NewObjectNotFoundError("orderCode", "PO-404"))

		h := newSyncOrderDetailHandler(f)
		_, err := h.Handle(ctx, commands.NewSyncOrderDetailCommand("PO-404"))

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("order without remote code", func(t *testing.T) {
		ctx := t.Context()
		f := newFixture(t)
		f.orders.On("GetByCode", ctx, "PO-1").Return(storedOrder(t, "PO-1", "", "", order.Create), nil)

		h := newSyncOrderDetailHandler(f)
		_, err := h.Handle(ctx, commands.NewSyncOrderDetailCommand("PO-1"))

		require.ErrorIs(t, err, order.ErrOrder)
		f.gateway.AssertNotCalled(t, "QueryOrderDetail", mock.Anything, mock.Anything, mock.Anything)
	})
}
