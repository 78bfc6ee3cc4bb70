package jobs

import (
	"fmt"
)

// JobManager starts and stops the sync jobs together.
type JobManager struct {
	orderSyncJob     *OrderSyncJob
	logisticsSyncJob *LogisticsSyncJob
}

// NewJobManager groups the order-detail and logistics sync jobs.
func NewJobManager(orderSyncJob *OrderSyncJob, logisticsSyncJob *LogisticsSyncJob) *JobManager {
	return &JobManager{
		orderSyncJob:     orderSyncJob,
		logisticsSyncJob: logisticsSyncJob,
	}
}

// StartAll stops the jobs it already started when a later one fails.
func (jm *JobManager) StartAll() error {
	if err := jm.orderSyncJob.Start(); err != nil {
		return fmt.Errorf("failed to start order sync job: %w", err)
	}

	if err := jm.logisticsSyncJob.Start(); err != nil {
		jm.orderSyncJob.Stop()
		return fmt.Errorf("failed to start logistics sync job: %w", err)
	}

	return nil
}

// StopAll stops both jobs, waiting for running batches.
func (jm *JobManager) StopAll() {
	jm.logisticsSyncJob.Stop()
	jm.orderSyncJob.Stop()
}
