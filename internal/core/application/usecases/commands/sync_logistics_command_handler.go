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

const logisticsLockKey = "pickup:sync:logistics"

// SyncLogisticsCommandHandler replaces each order's tracking trail with the
// one the gateway reports. Orders without a mail number fail before any
// remote call.
type SyncLogisticsCommandHandler struct {
	runner  syncRunner
	gateway ports.PickupGateway
}

// NewSyncLogisticsCommandHandler creates a handler for tracking-trail sync.
// Batch runs hold lock for at most lockTTL; DefaultBatchLockTTL is used when
// lockTTL is not positive.
func NewSyncLogisticsCommandHandler(
	uowFactory UoWFactory,
	gateway ports.PickupGateway,
	lock ports.BatchLock,
	lockTTL time.Duration,
	logger *zap.Logger,
) SyncLogisticsCommandHandler {
	if lockTTL <= 0 {
		lockTTL = DefaultBatchLockTTL
	}
	return SyncLogisticsCommandHandler{
		runner: syncRunner{
			operation:  "logistics sync",
			lockKey:    logisticsLockKey,
			statuses:   order.LogisticsSyncStatuses(),
			uowFactory: uowFactory,
			lock:       lock,
			lockTTL:    lockTTL,
			selector:   services.NewGatewaySelector(),
			logger:     logger.Named("logistics_sync"),
		},
		gateway: gateway,
	}
}

// Handle syncs one order when cmd names an order code, otherwise every order
// in a logistics-sync status.
//
// In single mode the first error is returned as is. In batch mode per-order
// failures are only recorded in the report; the returned error is reserved
// for setup failures such as a missing gateway config.
//
// Example:
//
//	report, err := handler.Handle(ctx, NewSyncLogisticsCommand(""))
//	if err != nil {
//	    return err
//	}
//	for _, line := range report.Lines() {
//	    fmt.Println(line)
//	}
func (h *SyncLogisticsCommandHandler) Handle(ctx context.Context, cmd SyncLogisticsCommand) (SyncReport, error) {
	if err := cmd.Validate(); err != nil {
		return SyncReport{}, err
	}

	if cmd.IsBatch() {
		return h.runner.runBatch(ctx, h.syncOne)
	}
	return h.runner.runSingle(ctx, cmd.OrderCode(), (*order.Order).RequireMailNo, h.syncOne)
}

func (h *SyncLogisticsCommandHandler) syncOne(ctx context.Context, cfg *apiconfig.Config, o *order.Order) error {
	if err := o.RequireMailNo(); err != nil {
		return err
	}

	events, err := h.gateway.QueryLogistics(ctx, cfg, o.CainiaoOrderCode(), o.MailNo())
	if err != nil {
		return err
	}

	if err = o.ReplaceLogisticsEvents(events); err != nil {
		return err
	}

	return saveOrder(ctx, h.runner.uowFactory, o, false)
}
