package heuristic

import (
	"errors"

	"github.com/charmbracelet/log"

	"upside-down-research.com/oss/sasplan/internal/strips"
)

// ErrNoCut reports an LM-Cut round that found no cut edge (or only
// zero-cost ones) while h_max was still positive. Under the single-init /
// single-goal normalisation this should be unreachable; it is surfaced as an
// explicit failure instead of a silent non-terminating loop.
var ErrNoCut = errors.New("heuristic: lm-cut round made no progress")

// LMCut is the landmark-cut heuristic. Each round computes h_max, hangs
// every operator off its most expensive precondition (the supporter), cuts
// the resulting justification graph between the initial and goal zones, and
// charges the cheapest operator crossing the cut as a landmark. Operator
// costs shrink by that amount in a private working copy until h_max reaches
// zero.
//
// LMCut dominates h_max and stays admissible: every plan must use at least
// one operator from each extracted cut.
type LMCut struct {
	task *strips.Task

	numFacts int
	initFact strips.Fact // synthetic when the task has several variables
	goalFact strips.Fact // synthetic when the task has several goal facts

	hasInitOp bool
	initOp    int32

	pre  [][]strips.Fact
	add  [][]strips.Fact
	base []Cost // costs at entry; synthetic operators are free
	cost []Cost // working copy, aliased by rx

	rx *relaxation

	initAdds []strips.Fact // add set of the synthetic init operator
	initSet  []strips.Fact
	goalSet  []strips.Fact

	supp []strips.Fact
	fwd  [][]edge
	rev  [][]edge

	inStar    []bool
	inZero    []bool
	bfs       []strips.Fact
	landmark  []bool
	landmarks []int32
}

// edge is one justification-graph arc; the operator index carries the label
// and the current cost.
type edge struct {
	other strips.Fact
	op    int32
}

// NewLMCut builds an evaluator for the task. Operator costs are copied at
// construction; the task seen by the search is never mutated.
func NewLMCut(t *strips.Task) *LMCut {
	nOps := len(t.Operators)
	nVars := t.NumVariables()
	hasInitOp := nVars > 1
	hasGoalOp := len(t.Goal) > 1

	numFacts := t.NumFacts()
	nAll := nOps
	lc := &LMCut{task: t, hasInitOp: hasInitOp}

	if hasInitOp {
		lc.initFact = strips.Fact(numFacts)
		numFacts++
		lc.initOp = int32(nAll)
		nAll++
	}
	if hasGoalOp {
		lc.goalFact = strips.Fact(numFacts)
		numFacts++
		nAll++
	} else if len(t.Goal) > 0 {
		lc.goalFact = t.Goal[0]
	}
	lc.numFacts = numFacts

	lc.pre = make([][]strips.Fact, nAll)
	lc.add = make([][]strips.Fact, nAll)
	lc.base = make([]Cost, nAll)
	for i := range t.Operators {
		op := &t.Operators[i]
		lc.pre[i] = op.Pre
		lc.add[i] = op.Add
		lc.base[i] = Cost(op.Cost)
	}
	if hasInitOp {
		lc.initAdds = make([]strips.Fact, nVars)
		lc.pre[lc.initOp] = []strips.Fact{lc.initFact}
		lc.add[lc.initOp] = lc.initAdds
		lc.initSet = []strips.Fact{lc.initFact}
	}
	if hasGoalOp {
		goalOp := nAll - 1
		lc.pre[goalOp] = t.Goal
		lc.add[goalOp] = []strips.Fact{lc.goalFact}
	}
	lc.goalSet = []strips.Fact{lc.goalFact}

	lc.cost = make([]Cost, nAll)
	lc.rx = newRelaxation(numFacts, lc.pre, lc.add, lc.cost)

	lc.supp = make([]strips.Fact, nAll)
	lc.fwd = make([][]edge, numFacts)
	lc.rev = make([][]edge, numFacts)
	lc.inStar = make([]bool, numFacts)
	lc.inZero = make([]bool, numFacts)
	lc.landmark = make([]bool, nAll)
	return lc
}

// Name returns the registry name of the heuristic.
func (lc *LMCut) Name() string { return "lmcut" }

// Estimate computes h_LMCUT of the given state. Infinity means the goal is
// unreachable even in the delete relaxation.
func (lc *LMCut) Estimate(s strips.State) (Cost, error) {
	if len(lc.task.Goal) == 0 {
		return 0, nil
	}
	copy(lc.cost, lc.base)

	if lc.hasInitOp {
		for v, val := range s {
			lc.initAdds[v] = lc.task.FactOf(v, val)
		}
	} else {
		lc.initFact = lc.task.FactOf(0, s[0])
		lc.initSet = lc.initSet[:0]
		lc.initSet = append(lc.initSet, lc.initFact)
	}

	total := Cost(0)
	for round := 1; ; round++ {
		hmax, delta := lc.rx.run(lc.initSet, lc.goalSet)
		if hmax.IsInfinite() {
			return Infinity, nil
		}
		if hmax == 0 {
			return total, nil
		}

		lc.selectSupporters(delta)
		lc.buildGraph()
		lc.cut()

		cl := lc.collectLandmarks()
		if cl <= 0 || cl.IsInfinite() {
			return 0, ErrNoCut
		}
		for _, op := range lc.landmarks {
			lc.cost[op] -= cl
		}
		total = Add(total, cl)
		log.Debug("lm-cut round", "round", round, "hmax", int64(hmax), "landmark", int64(cl), "operators", len(lc.landmarks))
	}
}

// selectSupporters picks, for every operator, the precondition with the
// largest δ. Ties break on the lexicographically greater fact name so
// repeated rounds build the same graph.
func (lc *LMCut) selectSupporters(delta []Cost) {
	for op := range lc.pre {
		ps := lc.pre[op]
		if len(ps) == 0 {
			// Precondition-free operators hang off the initial fact.
			lc.supp[op] = lc.initFact
			continue
		}
		best := ps[0]
		for _, p := range ps[1:] {
			if delta[p] > delta[best] {
				best = p
			} else if delta[p] == delta[best] && lc.factName(p) > lc.factName(best) {
				best = p
			}
		}
		lc.supp[op] = best
	}
}

// buildGraph rebuilds the justification graph for the current supporters.
// Supporter choice and edge costs change every round, so edges are never
// cached across rounds; the adjacency buffers are reused.
func (lc *LMCut) buildGraph() {
	for f := range lc.fwd {
		lc.fwd[f] = lc.fwd[f][:0]
		lc.rev[f] = lc.rev[f][:0]
	}
	for op := range lc.add {
		tail := lc.supp[op]
		for _, head := range lc.add[op] {
			lc.fwd[tail] = append(lc.fwd[tail], edge{other: head, op: int32(op)})
			lc.rev[head] = append(lc.rev[head], edge{other: tail, op: int32(op)})
		}
	}
}

// cut partitions the facts into the goal zone N* (reaches the goal fact via
// zero-cost edges) and the initial zone N⁰ (reachable from the initial fact
// without entering N*). The remainder never needs materialising.
func (lc *LMCut) cut() {
	for f := range lc.inStar {
		lc.inStar[f] = false
		lc.inZero[f] = false
	}

	lc.bfs = lc.bfs[:0]
	lc.inStar[lc.goalFact] = true
	lc.bfs = append(lc.bfs, lc.goalFact)
	for len(lc.bfs) > 0 {
		cur := lc.bfs[0]
		lc.bfs = lc.bfs[1:]
		for _, e := range lc.rev[cur] {
			if lc.cost[e.op] == 0 && !lc.inStar[e.other] {
				lc.inStar[e.other] = true
				lc.bfs = append(lc.bfs, e.other)
			}
		}
	}

	// The initial fact itself belongs to the initial zone whenever h_max is
	// positive (a zero-cost path to the goal would contradict that), so the
	// crossing edge out of N⁰ always exists and every round makes progress.
	lc.bfs = lc.bfs[:0]
	if !lc.inStar[lc.initFact] {
		lc.inZero[lc.initFact] = true
		lc.bfs = append(lc.bfs, lc.initFact)
	}
	for len(lc.bfs) > 0 {
		cur := lc.bfs[0]
		lc.bfs = lc.bfs[1:]
		for _, e := range lc.fwd[cur] {
			if !lc.inStar[e.other] && !lc.inZero[e.other] {
				lc.inZero[e.other] = true
				lc.bfs = append(lc.bfs, e.other)
			}
		}
	}
}

// collectLandmarks gathers the operators whose edges cross from N⁰ into N*
// and returns the cheapest crossing cost, or Infinity when no edge crosses.
func (lc *LMCut) collectLandmarks() Cost {
	for _, op := range lc.landmarks {
		lc.landmark[op] = false
	}
	lc.landmarks = lc.landmarks[:0]

	min := Infinity
	for f := range lc.inZero {
		if !lc.inZero[f] {
			continue
		}
		for _, e := range lc.fwd[f] {
			if !lc.inStar[e.other] {
				continue
			}
			if !lc.landmark[e.op] {
				lc.landmark[e.op] = true
				lc.landmarks = append(lc.landmarks, e.op)
			}
			if lc.cost[e.op] < min {
				min = lc.cost[e.op]
			}
		}
	}
	return min
}

func (lc *LMCut) factName(f strips.Fact) string {
	if int(f) < lc.task.NumFacts() {
		return lc.task.FactName(f)
	}
	if lc.hasInitOp && f == lc.initFact {
		return "I"
	}
	return "G"
}
