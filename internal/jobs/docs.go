// Package jobs provides scheduled background tasks for the ordering system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the ordering service.
//
// # Available Jobs
//
// 1. KitchenBoardRefreshJob - Runs every 15 seconds to push a full kitchen
// board snapshot to every location with a subscribed kitchen display
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(hub, publisher, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The refresh job uses the cron expression "*/15 * * * * *", running every
// fifteen seconds. Incremental events keep displays current between ticks;
// the snapshot reconciles displays that dropped an event.
//
// # Error Handling
//
// - Snapshot publishing is best-effort; build failures are logged by the
// publisher and never interrupt the schedule
// - Failed job starts will stop any already running jobs
package jobs
