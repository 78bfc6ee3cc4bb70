package jobs

import (
	"context"
	"time"

	"pickup/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultOrderSyncSchedule runs every 10 minutes (six-field cron with seconds).
const DefaultOrderSyncSchedule = "0 */10 * * * *"

type syncOrderDetailHandler interface {
	Handle(ctx context.Context, cmd commands.SyncOrderDetailCommand) (commands.SyncReport, error)
}

// OrderSyncJob refreshes every unfinished order from the gateway.
type OrderSyncJob struct {
	handler  syncOrderDetailHandler
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewOrderSyncJob uses DefaultOrderSyncSchedule when schedule is empty. A run
// is cancelled after timeout.
func NewOrderSyncJob(
	handler syncOrderDetailHandler,
	schedule string,
	timeout time.Duration,
	logger *zap.Logger,
) *OrderSyncJob {
	if schedule == "" {
		schedule = DefaultOrderSyncSchedule
	}
	logger = logger.With(zap.String("component", "order_sync_job"))
	return &OrderSyncJob{
		handler:  handler,
		schedule: schedule,
		timeout:  timeout,
		cron:     newCron(logger),
		logger:   logger,
	}
}

// Start registers the schedule and starts the cron scheduler. An invalid
// cron expression is returned and nothing is started. A tick that fires
// while the previous run is still going is skipped.
//
// Example:
//
//	job := jobs.NewOrderSyncJob(handler, "", 10*time.Minute, logger)
//	if err := job.Start(); err != nil {
//	    return err
//	}
//	defer job.Stop()
func (j *OrderSyncJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("order sync job started", zap.String("schedule", j.schedule))
	return nil
}

// RunOnce performs one batch run and logs its report.
func (j *OrderSyncJob) RunOnce(ctx context.Context) {
	ctx, cancel := withOptionalTimeout(ctx, j.timeout)
	defer cancel()

	report, err := j.handler.Handle(ctx, commands.NewSyncOrderDetailCommand(""))
	logReport(j.logger, report, err)
}

// Stop waits for a running batch to finish.
func (j *OrderSyncJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("order sync job stopped")
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func logReport(logger *zap.Logger, report commands.SyncReport, err error) {
	if err != nil {
		logger.Error("sync run failed", zap.String("operation", report.Operation), zap.Error(err))
		return
	}
	if report.Skipped {
		logger.Info("sync run skipped, another run holds the lock", zap.String("operation", report.Operation))
		return
	}
	logger.Info("sync run finished",
		zap.String("operation", report.Operation),
		zap.Int("total", report.Total),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
	)
}
