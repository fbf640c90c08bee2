// Package jobs provides the background workers of the fulfillment service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// plus a channel-fed worker for asynchronous carrier calls.
//
// # Available Jobs
//
// 1. CarrierWorker - drains the carrier task queue (shipment creation and
// cancellation) on a dedicated goroutine
// 2. CarrierSweepJob - every 5 minutes, retries carrier submission for
// confirmed orders without a tracking id
// 3. TrackingSyncJob - every 10 minutes, bulk-refreshes the carrier mirror
// of actively tracked orders
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(submitHandler, cancelHandler,
//		sweepHandler, syncHandler, queueCapacity, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The worker logs submission failures at warn level; the sweep retries them
// - Cron jobs log run summaries only when they did work
// - Failed job starts stop any already running jobs
package jobs
