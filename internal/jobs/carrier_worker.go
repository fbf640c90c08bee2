package jobs

import (
	"context"
	"log/slog"
	"sync"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
)

// defaultQueueCapacity bounds the carrier worker's backlog. A full queue
// drops new tasks; the submission sweep picks those orders up later.
const defaultQueueCapacity = 1024

// carrierTask is one unit of carrier work handed to the worker.
type carrierTask struct {
	orderID kernel.UUID
	cancel  bool
}

// CarrierWorker is the asynchronous half of the carrier gateway. Status
// transition handlers enqueue orders here after commit; a single goroutine
// drains the queue and talks to the carrier, so slow carrier calls never
// sit inside a request.
//
// CarrierWorker implements ports.CarrierSubmitQueue.
type CarrierWorker struct {
	submitHandler commands.SubmitOrderToCarrierCommandHandler
	cancelHandler commands.CancelShipmentCommandHandler
	tasks         chan carrierTask
	logger        *slog.Logger

	stopOnce sync.Once
	done     chan struct{}
	stopped  chan struct{}
}

// NewCarrierWorker creates a carrier worker with the given queue capacity.
// A non-positive capacity falls back to the default.
func NewCarrierWorker(
	submitHandler commands.SubmitOrderToCarrierCommandHandler,
	cancelHandler commands.CancelShipmentCommandHandler,
	capacity int,
	logger *slog.Logger,
) *CarrierWorker {
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	return &CarrierWorker{
		submitHandler: submitHandler,
		cancelHandler: cancelHandler,
		tasks:         make(chan carrierTask, capacity),
		logger:        logger.With("component", "carrier_worker"),
		done:          make(chan struct{}),
		stopped:       make(chan struct{}),
	}
}

// Enqueue schedules shipment creation for the order. Never blocks; a full
// queue drops the task.
func (w *CarrierWorker) Enqueue(orderID kernel.UUID) {
	w.enqueue(carrierTask{orderID: orderID})
}

// EnqueueCancel schedules cancellation of the order's shipment. Never
// blocks; a full queue drops the task.
func (w *CarrierWorker) EnqueueCancel(orderID kernel.UUID) {
	w.enqueue(carrierTask{orderID: orderID, cancel: true})
}

func (w *CarrierWorker) enqueue(task carrierTask) {
	select {
	case w.tasks <- task:
	default:
		w.logger.Warn("carrier queue full, task dropped",
			"order_id", task.orderID.String(),
			"cancel", task.cancel)
	}
}

// Start launches the worker goroutine.
func (w *CarrierWorker) Start() {
	go w.run()
	w.logger.Info("carrier worker started")
}

// Stop signals the worker to finish the current task and exit, and waits
// for it.
func (w *CarrierWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
	<-w.stopped
	w.logger.Info("carrier worker stopped")
}

func (w *CarrierWorker) run() {
	defer close(w.stopped)

	for {
		select {
		case <-w.done:
			return
		case task := <-w.tasks:
			w.process(task)
		}
	}
}

func (w *CarrierWorker) process(task carrierTask) {
	ctx := context.Background()

	if task.cancel {
		cmd, err := commands.NewCancelShipmentCommand(task.orderID)
		if err == nil {
			err = w.cancelHandler.Handle(ctx, cmd)
		}
		if err != nil {
			w.logger.ErrorContext(ctx, "shipment cancellation failed",
				"order_id", task.orderID.String(), "error", err)
		}
		return
	}

	cmd, err := commands.NewSubmitOrderToCarrierCommand(task.orderID)
	if err == nil {
		_, err = w.submitHandler.Handle(ctx, cmd)
	}
	if err != nil {
		// The submission sweep retries these; error level would be noise.
		w.logger.WarnContext(ctx, "carrier submission failed",
			"order_id", task.orderID.String(), "error", err)
	}
}
