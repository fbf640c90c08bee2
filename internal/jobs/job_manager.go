package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
)

// JobManager coordinates the background workers of the application: the
// carrier worker draining the submission queue and the two cron jobs.
type JobManager struct {
	carrierWorker   *CarrierWorker
	carrierSweepJob *CarrierSweepJob
	trackingSyncJob *TrackingSyncJob
}

// NewJobManager creates a job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	submitHandler commands.SubmitOrderToCarrierCommandHandler,
	cancelHandler commands.CancelShipmentCommandHandler,
	sweepHandler commands.SweepCarrierSubmissionsCommandHandler,
	syncHandler commands.SyncTrackingCommandHandler,
	queueCapacity int,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		carrierWorker:   NewCarrierWorker(submitHandler, cancelHandler, queueCapacity, logger),
		carrierSweepJob: NewCarrierSweepJob(sweepHandler, logger),
		trackingSyncJob: NewTrackingSyncJob(syncHandler, logger),
	}
}

// CarrierWorker exposes the worker so the composition root can wire it as
// the submit queue of the status transition handler.
func (jm *JobManager) CarrierWorker() *CarrierWorker {
	return jm.carrierWorker
}

// StartAll starts the worker and all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	jm.carrierWorker.Start()

	if err := jm.carrierSweepJob.Start(); err != nil {
		jm.carrierWorker.Stop()
		return fmt.Errorf("failed to start carrier sweep job: %w", err)
	}

	if err := jm.trackingSyncJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.carrierSweepJob.Stop()
		jm.carrierWorker.Stop()
		return fmt.Errorf("failed to start tracking sync job: %w", err)
	}

	return nil
}

// StopAll stops all background work gracefully.
func (jm *JobManager) StopAll() {
	jm.trackingSyncJob.Stop()
	jm.carrierSweepJob.Stop()
	jm.carrierWorker.Stop()
}
