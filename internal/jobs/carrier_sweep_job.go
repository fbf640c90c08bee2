package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// CarrierSweepJob periodically retries carrier submission for confirmed
// orders that still lack a tracking id. This is the safety net behind the
// asynchronous carrier worker: dropped or failed submissions converge here.
type CarrierSweepJob struct {
	handler commands.SweepCarrierSubmissionsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewCarrierSweepJob creates a job that runs a submission sweep every five
// minutes.
func NewCarrierSweepJob(handler commands.SweepCarrierSubmissionsCommandHandler, logger *slog.Logger) *CarrierSweepJob {
	return &CarrierSweepJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "carrier_sweep_job"),
	}
}

// Start begins the sweep schedule.
func (j *CarrierSweepJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewSweepCarrierSubmissionsCommand()

		result, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "carrier submission sweep failed", "error", err)
			return
		}
		if result.Submitted > 0 || result.Failed > 0 {
			j.logger.InfoContext(ctx, "carrier submission sweep finished",
				"submitted", result.Submitted,
				"failed", result.Failed)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Carrier sweep job started (running every 5 minutes)")
	return nil
}

// Stop stops the sweep schedule.
func (j *CarrierSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Carrier sweep job stopped")
}
