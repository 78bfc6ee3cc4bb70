// Package jobs runs the batch synchronisations on cron schedules.
//
// OrderSyncJob refreshes order details for unfinished orders and
// LogisticsSyncJob refreshes tracking trails for confirmed orders. Both use
// six-field cron expressions (seconds first) and skip a tick while the
// previous run is still going. Cross-process overlap is prevented by the
// batch lock inside the command handlers.
//
//	manager := jobs.NewJobManager(orderSyncJob, logisticsSyncJob)
//	if err := manager.StartAll(); err != nil {
//	    return err
//	}
//	defer manager.StopAll()
package jobs
