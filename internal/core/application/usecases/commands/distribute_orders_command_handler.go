package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/performance"
	"fulfillment/internal/core/domain/services"
)

// performanceWindowDays is the trailing window the performance policy reads
// counters over.
const performanceWindowDays = 30

// OrderDistributionOutcome reports what happened to one candidate order
// during a distribution run.
type OrderDistributionOutcome struct {
	OrderID    string `json:"order_id"`
	OperatorID string `json:"operator_id,omitempty"`
	Outcome    string `json:"outcome"`
	Reason     string `json:"reason,omitempty"`
}

// DistributionResult is the per-run summary returned to the caller.
type DistributionResult struct {
	Assigned int                        `json:"assigned"`
	Skipped  int                        `json:"skipped"`
	PerOrder []OrderDistributionOutcome `json:"per_order"`
}

// DistributeOrdersCommandHandler runs one distribution pass.
//
// The run has two phases. The snapshot phase reads the closed candidate set
// (unassigned pending orders, active operators, workloads, performance
// rates) in a single transaction; orders created after the snapshot wait for
// the next run. The execution phase applies the plan one order at a time
// through the regular assignment primitive, so each pairing commits
// independently and gets the same audit entry a manual assignment would.
// A failed pairing is recorded as skipped and never aborts the run.
type DistributeOrdersCommandHandler struct {
	uowFactory    UoWFactory
	assignHandler AssignOrderCommandHandler
	distributor   services.Distributor
	logger        *slog.Logger
}

// NewDistributeOrdersCommandHandler creates a handler for distribution runs.
func NewDistributeOrdersCommandHandler(
	uowFactory UoWFactory,
	assignHandler AssignOrderCommandHandler,
	logger *slog.Logger,
) DistributeOrdersCommandHandler {
	return DistributeOrdersCommandHandler{
		uowFactory:    uowFactory,
		assignHandler: assignHandler,
		distributor:   services.NewDistributor(),
		logger:        logger,
	}
}

// Handle processes the distribution command and returns the per-order
// outcomes. Returns services.ErrNoEligibleOperators when the operator pool
// is empty; an empty candidate set is a successful run with zero outcomes.
func (h DistributeOrdersCommandHandler) Handle(ctx context.Context, command DistributeOrdersCommand) (DistributionResult, error) {
	if err := command.Validate(); err != nil {
		return DistributionResult{}, err
	}

	orders, operators, workloads, rates, err := h.snapshot(ctx)
	if err != nil {
		return DistributionResult{}, err
	}
	if len(orders) == 0 {
		return DistributionResult{PerOrder: []OrderDistributionOutcome{}}, nil
	}

	plan, err := h.distributor.Plan(command.Policy(), orders, operators, workloads, rates)
	if err != nil {
		return DistributionResult{}, err
	}

	return h.execute(ctx, plan, command.ActorID()), nil
}

// snapshot reads the closed candidate set for the run in one transaction.
func (h DistributeOrdersCommandHandler) snapshot(ctx context.Context) (
	[]*order.Order,
	[]*operator.Operator,
	map[kernel.UUID]int,
	map[kernel.UUID]performance.Rates,
	error,
) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetUnassignedPending(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	operators, err := uow.OperatorRepository().ListActiveEmployees(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	workloads, err := uow.OrderRepository().CountOpenByOperator(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	since := kernel.DayOf(time.Now().UTC().AddDate(0, 0, -performanceWindowDays))
	rates, err := uow.PerformanceRepository().GetRatesSince(ctx, since)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, nil, nil, nil, err
	}

	return orders, operators, workloads, rates, nil
}

// execute applies the plan through the assignment primitive, one independent
// transaction per order.
func (h DistributeOrdersCommandHandler) execute(ctx context.Context, plan []services.Assignment, actorID kernel.UUID) DistributionResult {
	result := DistributionResult{
		PerOrder: make([]OrderDistributionOutcome, 0, len(plan)),
	}

	for _, pairing := range plan {
		operatorID := pairing.OperatorID
		cmd, err := NewAssignOrderCommand(pairing.OrderID, &operatorID, actorID)
		if err == nil {
			err = h.assignHandler.Handle(ctx, cmd)
		}

		if err != nil {
			h.logger.WarnContext(ctx, "distribution pairing skipped",
				"order_id", pairing.OrderID.String(),
				"operator_id", pairing.OperatorID.String(),
				"error", err)
			result.Skipped++
			result.PerOrder = append(result.PerOrder, OrderDistributionOutcome{
				OrderID: pairing.OrderID.String(),
				Outcome: "skipped",
				Reason:  err.Error(),
			})
			continue
		}

		result.Assigned++
		result.PerOrder = append(result.PerOrder, OrderDistributionOutcome{
			OrderID:    pairing.OrderID.String(),
			OperatorID: pairing.OperatorID.String(),
			Outcome:    "assigned",
		})
	}

	return result
}
