package jobs

import (
	"context"
	"log/slog"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// SnapshotTargets lists the locations that should receive a kitchen
// snapshot on the next tick. The websocket hub implements this with its
// current kitchen-display subscriptions.
type SnapshotTargets interface {
	KitchenDisplayLocations() []kernel.UUID
}

// KitchenBoardRefreshJob periodically pushes a full kitchen board
// snapshot to every location with a subscribed display. Incremental
// events keep displays current between ticks; the snapshot reconciles
// any display that missed one.
type KitchenBoardRefreshJob struct {
	targets   SnapshotTargets
	publisher ports.EventPublisher
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewKitchenBoardRefreshJob creates a new job for refreshing kitchen displays.
func NewKitchenBoardRefreshJob(
	targets SnapshotTargets,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) *KitchenBoardRefreshJob {
	return &KitchenBoardRefreshJob{
		targets:   targets,
		publisher: publisher,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "kitchen_board_refresh_job"),
	}
}

// Start begins the refresh job to run every fifteen seconds.
func (j *KitchenBoardRefreshJob) Start() error {
	_, err := j.cron.AddFunc("*/15 * * * * *", func() {
		ctx := context.Background()

		for _, locationID := range j.targets.KitchenDisplayLocations() {
			j.publisher.PublishKitchenSnapshot(ctx, locationID)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Kitchen board refresh job started (running every 15 seconds)")
	return nil
}

// Stop stops the refresh job.
func (j *KitchenBoardRefreshJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Kitchen board refresh job stopped")
}
