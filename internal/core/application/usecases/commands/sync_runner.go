package commands

import (
	"context"
	"errors"
	"time"

	"pickup/internal/core/domain/model/apiconfig"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/domain/services"
	"pickup/internal/core/ports"

	"go.uber.org/zap"
)

// DefaultBatchLockTTL bounds how long a crashed batch run can block the next one.
const DefaultBatchLockTTL = 10 * time.Minute

// syncOneFunc syncs a single loaded order. It must make no remote call when a
// local precondition fails.
type syncOneFunc func(ctx context.Context, cfg *apiconfig.Config, o *order.Order) error

// precheckFunc runs before the gateway config is resolved in single mode.
type precheckFunc func(o *order.Order) error

type syncRunner struct {
	operation  string
	lockKey    string
	statuses   []order.Status
	uowFactory UoWFactory
	lock       ports.BatchLock
	lockTTL    time.Duration
	selector   services.GatewaySelector
	logger     *zap.Logger
}

// runSingle propagates the first error unchanged; the report still lists the order.
func (r syncRunner) runSingle(ctx context.Context, orderCode string, precheck precheckFunc, one syncOneFunc) (SyncReport, error) {
	report := SyncReport{Operation: r.operation}

	uow := r.uowFactory.Create()
	o, err := uow.OrderRepository().GetByCode(ctx, orderCode)
	if err != nil {
		return report, err
	}

	err = precheck(o)
	if err == nil {
		var cfg *apiconfig.Config
		if cfg, err = selectGatewayConfig(ctx, uow, r.selector); err != nil {
			return report, err
		}
		err = one(ctx, cfg, o)
	}

	report.add(r.outcome(o, err))
	return report, err
}

// runBatch processes every order in r.statuses one at a time. Only setup
// failures (lock backend, config, listing) are returned as errors.
func (r syncRunner) runBatch(ctx context.Context, one syncOneFunc) (SyncReport, error) {
	report := SyncReport{Operation: r.operation}

	acquired, err := r.lock.Acquire(ctx, r.lockKey, r.lockTTL)
	if err != nil {
		return report, err
	}
	if !acquired {
		r.logger.Info("batch already running, skipping", zap.String("lock", r.lockKey))
		report.Skipped = true
		return report, nil
	}
	defer func() {
		if releaseErr := r.lock.Release(context.WithoutCancel(ctx), r.lockKey); releaseErr != nil {
			r.logger.Warn("failed to release batch lock", zap.String("lock", r.lockKey), zap.Error(releaseErr))
		}
	}()

	uow := r.uowFactory.Create()
	cfg, err := selectGatewayConfig(ctx, uow, r.selector)
	if err != nil {
		return report, err
	}

	orders, err := uow.OrderRepository().FindByStatuses(ctx, r.statuses)
	var unreadable *ports.UnreadableOrdersError
	switch {
	case errors.As(err, &unreadable):
		for _, u := range unreadable.Orders {
			report.add(r.unreadableOutcome(u))
		}
	case err != nil:
		return report, err
	}

	r.logger.Info("batch started", zap.Int("orders", len(orders)), zap.Int("unreadable", report.Failed))
	for _, o := range orders {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.add(r.outcome(o, one(ctx, cfg, o)))
	}

	r.logger.Info("batch finished",
		zap.Int("total", report.Total),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (r syncRunner) outcome(o *order.Order, err error) SyncOutcome {
	fields := []zap.Field{
		zap.String("order_code", o.OrderCode()),
		zap.String("cainiao_order_code", o.CainiaoOrderCode()),
		zap.String("status", o.Status().String()),
	}
	if err != nil {
		r.logger.Error("order sync failed", append(fields, zap.Error(err))...)
	} else {
		r.logger.Info("order synced", fields...)
	}

	return SyncOutcome{
		OrderCode:        o.OrderCode(),
		CainiaoOrderCode: o.CainiaoOrderCode(),
		Status:           o.Status(),
		Err:              err,
	}
}

func (r syncRunner) unreadableOutcome(u ports.UnreadableOrder) SyncOutcome {
	r.logger.Error("stored order cannot be restored",
		zap.String("order_code", u.OrderCode),
		zap.String("cainiao_order_code", u.CainiaoOrderCode),
		zap.Error(u.Err),
	)
	return SyncOutcome{
		OrderCode:        u.OrderCode,
		CainiaoOrderCode: u.CainiaoOrderCode,
		Err:              u.Err,
	}
}
