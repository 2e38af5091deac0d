package jobs

import (
	"fmt"
	"log/slog"

	"ordering/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	kitchenBoardRefreshJob *KitchenBoardRefreshJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	targets SnapshotTargets,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		kitchenBoardRefreshJob: NewKitchenBoardRefreshJob(targets, publisher, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.kitchenBoardRefreshJob.Start(); err != nil {
		return fmt.Errorf("failed to start kitchen board refresh job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.kitchenBoardRefreshJob.Stop()
}
