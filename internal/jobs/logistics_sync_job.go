package jobs

import (
	"context"
	"time"

	"pickup/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultLogisticsSyncSchedule runs every 30 minutes (six-field cron with seconds).
const DefaultLogisticsSyncSchedule = "0 */30 * * * *"

type syncLogisticsHandler interface {
	Handle(ctx context.Context, cmd commands.SyncLogisticsCommand) (commands.SyncReport, error)
}

// LogisticsSyncJob refreshes tracking trails of confirmed orders.
type LogisticsSyncJob struct {
	handler  syncLogisticsHandler
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewLogisticsSyncJob creates a job that runs a logistics batch on schedule.
// An empty schedule uses DefaultLogisticsSyncSchedule; a positive timeout
// cancels runs that take longer.
func NewLogisticsSyncJob(
	handler syncLogisticsHandler,
	schedule string,
	timeout time.Duration,
	logger *zap.Logger,
) *LogisticsSyncJob {
	if schedule == "" {
		schedule = DefaultLogisticsSyncSchedule
	}
	logger = logger.With(zap.String("component", "logistics_sync_job"))
	return &LogisticsSyncJob{
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
func (j *LogisticsSyncJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("logistics sync job started", zap.String("schedule", j.schedule))
	return nil
}

// RunOnce performs one batch run and logs its report.
func (j *LogisticsSyncJob) RunOnce(ctx context.Context) {
	ctx, cancel := withOptionalTimeout(ctx, j.timeout)
	defer cancel()

	report, err := j.handler.Handle(ctx, commands.NewSyncLogisticsCommand(""))
	logReport(j.logger, report, err)
}

// Stop waits for a running batch to finish.
func (j *LogisticsSyncJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("logistics sync job stopped")
}
