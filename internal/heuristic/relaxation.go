package heuristic

import (
	"container/heap"

	"upside-down-research.com/oss/sasplan/internal/strips"
)

// relaxation is the shared delete-relaxation engine behind h_max and LM-Cut:
// a generalised Dijkstra over facts where an operator fires once all its
// preconditions are settled and propagates max(precondition δ) + cost to its
// add set. The engine owns reusable buffers; one instance serves one
// evaluator and is not safe for concurrent use.
type relaxation struct {
	numFacts int
	pre      [][]strips.Fact
	add      [][]strips.Fact
	cost     []Cost // aliased by LM-Cut's working copy

	byPre [][]int32 // fact -> operators with that precondition
	noPre []int32   // operators with no preconditions

	delta   []Cost
	unsat   []int32
	settled []bool
	isGoal  []bool
	queue   factQueue
}

func newRelaxation(numFacts int, pre, add [][]strips.Fact, cost []Cost) *relaxation {
	rx := &relaxation{
		numFacts: numFacts,
		pre:      pre,
		add:      add,
		cost:     cost,
		byPre:    make([][]int32, numFacts),
		delta:    make([]Cost, numFacts),
		unsat:    make([]int32, len(pre)),
		settled:  make([]bool, numFacts),
		isGoal:   make([]bool, numFacts),
	}
	for op, ps := range pre {
		if len(ps) == 0 {
			rx.noPre = append(rx.noPre, int32(op))
			continue
		}
		for _, f := range ps {
			rx.byPre[f] = append(rx.byPre[f], int32(op))
		}
	}
	return rx
}

// run computes the fact cost table for the given initial facts and returns
// max δ over the goal facts, or Infinity if some goal fact is unreachable.
// The returned slice is owned by the engine and valid until the next run.
func (rx *relaxation) run(init, goal []strips.Fact) (Cost, []Cost) {
	for i := range rx.delta {
		rx.delta[i] = Infinity
		rx.settled[i] = false
	}
	for op := range rx.unsat {
		rx.unsat[op] = int32(len(rx.pre[op]))
	}
	rx.queue = rx.queue[:0]

	goalLeft := 0
	for _, g := range goal {
		rx.isGoal[g] = true
		goalLeft++
	}
	defer func() {
		for _, g := range goal {
			rx.isGoal[g] = false
		}
	}()

	for _, f := range init {
		if rx.delta[f] != 0 {
			rx.delta[f] = 0
			heap.Push(&rx.queue, queueEntry{delta: 0, fact: f})
		}
	}
	// Operators without preconditions fire unconditionally once.
	for _, op := range rx.noPre {
		rx.relax(op, 0)
	}

	for goalLeft > 0 && rx.queue.Len() > 0 {
		entry := heap.Pop(&rx.queue).(queueEntry)
		f := entry.fact
		if rx.settled[f] || entry.delta != rx.delta[f] {
			continue // stale queue entry from a lazy decrease-key
		}
		rx.settled[f] = true
		if rx.isGoal[f] {
			goalLeft--
		}
		for _, op := range rx.byPre[f] {
			rx.unsat[op]--
			if rx.unsat[op] == 0 {
				m := Cost(0)
				for _, p := range rx.pre[op] {
					m = Max(m, rx.delta[p])
				}
				rx.relax(op, m)
			}
		}
	}
	if goalLeft > 0 {
		return Infinity, rx.delta
	}

	h := Cost(0)
	for _, g := range goal {
		h = Max(h, rx.delta[g])
	}
	return h, rx.delta
}

// relax propagates operator op from the settled precondition cost m.
func (rx *relaxation) relax(op int32, m Cost) {
	nd := Add(m, rx.cost[op])
	for _, f := range rx.add[op] {
		if nd < rx.delta[f] {
			rx.delta[f] = nd
			heap.Push(&rx.queue, queueEntry{delta: nd, fact: f})
		}
	}
}

type queueEntry struct {
	delta Cost
	fact  strips.Fact
}

// factQueue is a min-heap over (δ, fact). The fact id is the secondary key
// so extraction order is deterministic.
type factQueue []queueEntry

func (q factQueue) Len() int { return len(q) }

func (q factQueue) Less(i, j int) bool {
	if q[i].delta != q[j].delta {
		return q[i].delta < q[j].delta
	}
	return q[i].fact < q[j].fact
}

func (q factQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *factQueue) Push(x interface{}) {
	*q = append(*q, x.(queueEntry))
}

func (q *factQueue) Pop() interface{} {
	old := *q
	n := len(old)
	entry := old[n-1]
	*q = old[:n-1]
	return entry
}
