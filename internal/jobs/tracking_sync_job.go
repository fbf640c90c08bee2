package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// trackingSyncBatchSize caps how many orders one sync run touches. Runs are
// frequent, so a stale order missed by one run is reached by the next.
const trackingSyncBatchSize = 500

// TrackingSyncJob periodically refreshes the carrier mirror of all actively
// tracked orders through the bulk tracking endpoint.
type TrackingSyncJob struct {
	handler commands.SyncTrackingCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewTrackingSyncJob creates a job that syncs tracking every ten minutes.
func NewTrackingSyncJob(handler commands.SyncTrackingCommandHandler, logger *slog.Logger) *TrackingSyncJob {
	return &TrackingSyncJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "tracking_sync_job"),
	}
}

// Start begins the sync schedule.
func (j *TrackingSyncJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewSyncTrackingCommand(trackingSyncBatchSize)
		if err != nil {
			j.logger.ErrorContext(ctx, "tracking sync job misconfigured", "error", err)
			return
		}

		result, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "tracking sync failed", "error", err)
			return
		}
		if result.Synced > 0 || result.Failed > 0 || result.Unknown > 0 {
			j.logger.InfoContext(ctx, "tracking sync finished",
				"synced", result.Synced,
				"failed", result.Failed,
				"unknown", result.Unknown)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Tracking sync job started (running every 10 minutes)")
	return nil
}

// Stop stops the sync schedule.
func (j *TrackingSyncJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Tracking sync job stopped")
}
