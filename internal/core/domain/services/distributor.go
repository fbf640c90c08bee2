package services

import (
	"errors"
	"fmt"
	"sort"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/performance"
	"fulfillment/internal/pkg/errs"
)

// ErrNoEligibleOperators is returned when a distribution run has no active
// employee operators to assign to.
var ErrNoEligibleOperators = errors.New("no eligible operators")

// Policy selects the distribution strategy for a run.
type Policy int

const (
	// PolicyUnknown represents an invalid or undefined policy.
	PolicyUnknown Policy = iota

	// PolicyRoundRobin walks orders oldest-first and assigns them to
	// operators cyclically in stable id order.
	PolicyRoundRobin

	// PolicyBalanced assigns each order to the operator with the lowest
	// current open workload, updating counts greedily as it goes.
	PolicyBalanced

	// PolicyPerformance weights assignment by historical confirmation and
	// delivery rates; it degrades to PolicyBalanced when no performance
	// data exists.
	PolicyPerformance
)

func getPolicyStrings() map[Policy]string {
	return map[Policy]string{
		PolicyUnknown:     "unknown",
		PolicyRoundRobin:  "round_robin",
		PolicyBalanced:    "balanced",
		PolicyPerformance: "performance",
	}
}

// ParsePolicy converts an external policy string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	for policy, str := range getPolicyStrings() {
		if str == s && policy != PolicyUnknown {
			return policy, nil
		}
	}
	return PolicyUnknown, errs.NewValueIsInvalidErrorWithCause("policy", fmt.Errorf("%q is not a known policy", s))
}

// Validate checks the Policy is a member of the closed set.
func (p Policy) Validate() error {
	if _, ok := getPolicyStrings()[p]; !ok || p == PolicyUnknown {
		return errs.NewValueIsInvalidErrorWithCause("policy", fmt.Errorf("%d is not a valid policy", p))
	}
	return nil
}

// String returns the external policy string.
func (p Policy) String() string {
	if str, ok := getPolicyStrings()[p]; ok {
		return str
	}
	return "unknown"
}

// Assignment is one planned order-to-operator pairing.
type Assignment struct {
	OrderID    kernel.UUID
	OperatorID kernel.UUID
}

// Distributor is the domain service that plans how a batch of unassigned
// orders is spread across a pool of operators.
//
// The planner is pure: it operates on the closed candidate set handed to it
// (orders oldest-first, workload and rate snapshots taken at run start) and
// produces a deterministic plan without touching persistence. Executing the
// plan through the assignment primitive is the handler's job, so every
// planned pairing is logged identically to a manual assignment.
//
// Determinism rules shared by all policies:
//   - operators are ordered once by id string, stable across runs
//   - orders are walked in the order given (callers pass oldest-first)
//   - ties break toward the earlier operator in id order
type Distributor struct{}

// NewDistributor creates a Distributor instance.
func NewDistributor() Distributor {
	return Distributor{}
}

// Plan computes the order-to-operator pairing for one distribution run.
//
// Parameters:
//   - policy: the strategy to apply
//   - orders: the closed candidate set, oldest-first
//   - operators: candidate operators; entries that cannot take assignments
//     are filtered out here
//   - workloads: per-operator open order counts (pending, processing,
//     on_hold), snapshot at run start; consulted by the balanced policy
//   - rates: per-operator historical performance; consulted by the
//     performance policy, which falls back to balanced when empty
//
// Returns ErrNoEligibleOperators when no operator survives filtering.
func (d Distributor) Plan(
	policy Policy,
	orders []*order.Order,
	operators []*operator.Operator,
	workloads map[kernel.UUID]int,
	rates map[kernel.UUID]performance.Rates,
) ([]Assignment, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	eligible, err := eligibleOperators(operators)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleOperators
	}

	switch policy {
	case PolicyRoundRobin:
		return planRoundRobin(orders, eligible), nil
	case PolicyBalanced:
		return planBalanced(orders, eligible, workloads), nil
	case PolicyPerformance:
		return planPerformance(orders, eligible, workloads, rates), nil
	default:
		return nil, errs.NewValueIsInvalidError("policy")
	}
}

// eligibleOperators validates and filters the operator pool, then orders it
// by id string for stable cross-run behavior.
func eligibleOperators(operators []*operator.Operator) ([]*operator.Operator, error) {
	eligible := make([]*operator.Operator, 0, len(operators))
	for _, op := range operators {
		if err := op.Validate(); err != nil {
			return nil, err
		}
		if op.CanTakeAssignments() {
			eligible = append(eligible, op)
		}
	}

	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].ID().String() < eligible[j].ID().String()
	})
	return eligible, nil
}

// planRoundRobin assigns orders[k] to operators[k mod N]. The index advances
// per order regardless of downstream outcome, so the shape of the plan never
// depends on execution failures.
func planRoundRobin(orders []*order.Order, operators []*operator.Operator) []Assignment {
	plan := make([]Assignment, 0, len(orders))
	for i, o := range orders {
		plan = append(plan, Assignment{
			OrderID:    o.ID(),
			OperatorID: operators[i%len(operators)].ID(),
		})
	}
	return plan
}

// planBalanced assigns each order to the operator with the lowest current
// open workload, incrementing the in-memory count immediately so the next
// order's decision reflects it. Greedy, not globally optimal, but
// deterministic and O(N*M).
func planBalanced(orders []*order.Order, operators []*operator.Operator, workloads map[kernel.UUID]int) []Assignment {
	counts := make(map[kernel.UUID]int, len(operators))
	for _, op := range operators {
		counts[op.ID()] = workloads[op.ID()]
	}

	plan := make([]Assignment, 0, len(orders))
	for _, o := range orders {
		best := operators[0]
		for _, op := range operators[1:] {
			if counts[op.ID()] < counts[best.ID()] {
				best = op
			}
		}
		counts[best.ID()]++
		plan = append(plan, Assignment{OrderID: o.ID(), OperatorID: best.ID()})
	}
	return plan
}

// planPerformance weights assignment by each operator's historical score.
// Every order goes to the operator with the largest outstanding expected
// share (score/sum * orders planned so far), so better performers accumulate
// proportionally more work while the plan stays deterministic.
//
// When no operator has any performance data the policy degrades to balanced
// rather than failing; a fresh system distributes evenly until rates exist.
func planPerformance(
	orders []*order.Order,
	operators []*operator.Operator,
	workloads map[kernel.UUID]int,
	rates map[kernel.UUID]performance.Rates,
) []Assignment {
	total := 0.0
	scores := make(map[kernel.UUID]float64, len(operators))
	for _, op := range operators {
		s := rates[op.ID()].Score()
		scores[op.ID()] = s
		total += s
	}

	if total == 0 {
		return planBalanced(orders, operators, workloads)
	}

	assigned := make(map[kernel.UUID]int, len(operators))
	plan := make([]Assignment, 0, len(orders))
	for k, o := range orders {
		best := operators[0]
		bestDeficit := deficit(scores, assigned, total, best.ID(), k+1)
		for _, op := range operators[1:] {
			if d := deficit(scores, assigned, total, op.ID(), k+1); d > bestDeficit {
				best = op
				bestDeficit = d
			}
		}
		assigned[best.ID()]++
		plan = append(plan, Assignment{OrderID: o.ID(), OperatorID: best.ID()})
	}
	return plan
}

// deficit is how far behind its proportional share an operator is after
// planned orders have been placed.
func deficit(scores map[kernel.UUID]float64, assigned map[kernel.UUID]int, total float64, id kernel.UUID, planned int) float64 {
	expected := scores[id] / total * float64(planned)
	return expected - float64(assigned[id])
}
