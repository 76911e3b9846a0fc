package heuristic

import (
	"upside-down-research.com/oss/sasplan/internal/strips"
)

// HMax is the maximum-cost delete-relaxation heuristic. The estimate for a
// state is the δ value of the most expensive goal fact, where δ is the
// relaxed reachability cost computed by generalised Dijkstra over facts.
//
// HMax is admissible: ignoring deletes never makes a plan more expensive.
type HMax struct {
	task    *strips.Task
	rx      *relaxation
	initBuf []strips.Fact
}

// NewHMax builds an evaluator for the task. The task is never mutated.
func NewHMax(t *strips.Task) *HMax {
	nOps := len(t.Operators)
	pre := make([][]strips.Fact, nOps)
	add := make([][]strips.Fact, nOps)
	cost := make([]Cost, nOps)
	for i := range t.Operators {
		op := &t.Operators[i]
		pre[i] = op.Pre
		add[i] = op.Add
		cost[i] = Cost(op.Cost)
	}
	return &HMax{
		task:    t,
		rx:      newRelaxation(t.NumFacts(), pre, add, cost),
		initBuf: make([]strips.Fact, 0, t.NumVariables()),
	}
}

// Name returns the registry name of the heuristic.
func (h *HMax) Name() string { return "hmax" }

// Estimate computes h_max of the given state. Infinity means some goal fact
// is unreachable even in the delete relaxation.
func (h *HMax) Estimate(s strips.State) (Cost, error) {
	h.initBuf = h.task.StateFacts(s, h.initBuf)
	v, _ := h.rx.run(h.initBuf, h.task.Goal)
	return v, nil
}
