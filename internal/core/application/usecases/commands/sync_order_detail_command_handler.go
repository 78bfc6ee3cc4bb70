package commands

import (
	"context"
	"time"

	"pickup/internal/core/domain/model/apiconfig"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/domain/services"
	"pickup/internal/core/ports"

	"go.uber.org/zap"
)

const orderDetailLockKey = "pickup:sync:order-detail"

// SyncOrderDetailCommandHandler reconciles local orders with the remote order detail.
//
// Each order is fetched, mapped and committed on its own, so one failing
// order never rolls back or blocks another.
type SyncOrderDetailCommandHandler struct {
	runner    syncRunner
	gateway   ports.PickupGateway
	publisher ports.OrderEventPublisher
}

// NewSyncOrderDetailCommandHandler creates a handler for order-detail sync.
// Batch runs hold lock for at most lockTTL; DefaultBatchLockTTL is used when
// lockTTL is not positive.
func NewSyncOrderDetailCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PickupGateway,
	publisher ports.OrderEventPublisher,
	lock ports.BatchLock,
	lockTTL time.Duration,
	logger *zap.Logger,
) SyncOrderDetailCommandHandler {
	if lockTTL <= 0 {
		lockTTL = DefaultBatchLockTTL
	}
	return SyncOrderDetailCommandHandler{
		runner: syncRunner{
			operation:  "order-detail sync",
			lockKey:    orderDetailLockKey,
			statuses:   order.UnfinishedStatuses(),
			uowFactory: uowFactory,
			lock:       lock,
			lockTTL:    lockTTL,
			selector:   services.NewGatewaySelector(),
			logger:     logger.Named("order_sync"),
		},
		gateway:   gateway,
		publisher: publisher,
	}
}

// Handle syncs one order when cmd names an order code, otherwise every
// unfinished order.
//
// Single mode returns the first error unchanged. Batch mode records each
// failure in the report and carries on with the next order; a held lock
// yields a report with Skipped set and no error. Status changes are
// published after each order commits.
func (h *SyncOrderDetailCommandHandler) Handle(ctx context.Context, cmd SyncOrderDetailCommand) (SyncReport, error) {
	if err := cmd.Validate(); err != nil {
		return SyncReport{}, err
	}

	if cmd.IsBatch() {
		return h.runner.runBatch(ctx, h.syncOne)
	}
	return h.runner.runSingle(ctx, cmd.OrderCode(), (*order.Order).RequireRemoteCode, h.syncOne)
}

func (h *SyncOrderDetailCommandHandler) syncOne(ctx context.Context, cfg *apiconfig.Config, o *order.Order) error {
	if err := o.RequireRemoteCode(); err != nil {
		return err
	}

	detail, err := h.gateway.QueryOrderDetail(ctx, cfg, o.CainiaoOrderCode())
	if err != nil {
		return err
	}

	if err = o.ApplyRemoteDetail(detail); err != nil {
		return err
	}

	if err = saveOrder(ctx, h.runner.uowFactory, o, false); err != nil {
		return err
	}

	publishDomainEvents(ctx, h.publisher, h.runner.logger, o)
	return nil
}
