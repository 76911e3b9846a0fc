// Package search implements cost-optimal A* over grounded propositional
// tasks. With an admissible heuristic the returned plan cost is optimal.
package search

import (
	"container/heap"

	"github.com/charmbracelet/log"

	"upside-down-research.com/oss/sasplan/internal/heuristic"
	"upside-down-research.com/oss/sasplan/internal/strips"
)

// Heuristic estimates the remaining cost from a state to the goal.
// Infinity prunes the state; an error aborts the whole search.
type Heuristic interface {
	Name() string
	Estimate(s strips.State) (heuristic.Cost, error)
}

// Stats counts search effort for logging and telemetry.
type Stats struct {
	Expanded       int64
	Generated      int64
	Pruned         int64
	Deduped        int64
	HeuristicCalls int64
}

// Result is the outcome of one search. Found distinguishes "no plan exists"
// from a plan of zero length.
type Result struct {
	Found bool
	Plan  []string
	Cost  int64
	Stats Stats
}

// Astar runs best-first search with f = g + h over a task.
type Astar struct {
	task *strips.Task
	h    Heuristic

	// MaxExpansions bounds the number of expanded nodes; 0 means no bound.
	MaxExpansions int64

	// Tick, when set, is called periodically with the expansion count.
	Tick func(expanded int64)
}

// node lives in an arena; parents are arena indices, which keeps the search
// tree free of pointer cycles and makes the insertion order the tie-break.
type node struct {
	state  strips.State
	parent int32
	via    int32 // operator index applied to reach this node, -1 at the root
	g      int64
	f      heuristic.Cost
}

const noParent = int32(-1)

// New builds a search driver for the task and heuristic.
func New(task *strips.Task, h Heuristic) *Astar {
	return &Astar{task: task, h: h}
}

// Run searches from the task's initial state. It returns a found Result
// with the optimal plan, a not-found Result when the open list empties, or
// an error if the heuristic fails.
func (a *Astar) Run() (*Result, error) {
	res := &Result{}
	nodes := make([]node, 0, 1024)
	open := openList{nodes: &nodes}
	distance := make(map[string]int64)

	h0, err := a.h.Estimate(a.task.Init)
	if err != nil {
		return nil, err
	}
	res.Stats.HeuristicCalls++
	nodes = append(nodes, node{state: a.task.Init, parent: noParent, via: -1, g: 0, f: h0})
	heap.Push(&open, int32(0))

	for open.Len() > 0 {
		idx := heap.Pop(&open).(int32)
		cur := &nodes[idx]

		// Goal test on pop keeps the result optimal.
		if a.task.Satisfied(cur.state, a.task.Goal) {
			res.Found = true
			res.Cost = cur.g
			res.Plan = a.extractPlan(nodes, idx)
			log.Info("plan found", "cost", res.Cost, "length", len(res.Plan), "expanded", res.Stats.Expanded)
			return res, nil
		}

		key := cur.state.Key()
		if best, seen := distance[key]; seen && cur.g >= best {
			res.Stats.Deduped++
			continue
		}
		distance[key] = cur.g

		res.Stats.Expanded++
		if a.Tick != nil && res.Stats.Expanded%1024 == 0 {
			a.Tick(res.Stats.Expanded)
		}
		if a.MaxExpansions > 0 && res.Stats.Expanded > a.MaxExpansions {
			log.Warn("search aborted", "maxExpansions", a.MaxExpansions)
			return res, nil
		}

		for opIdx := range a.task.Operators {
			op := &a.task.Operators[opIdx]
			if !a.task.Applicable(cur.state, op) {
				continue
			}
			succ := a.task.Apply(cur.state, op)

			hv, err := a.h.Estimate(succ)
			if err != nil {
				return nil, err
			}
			res.Stats.HeuristicCalls++
			if hv.IsInfinite() {
				res.Stats.Pruned++
				continue
			}

			g := cur.g + op.Cost
			res.Stats.Generated++
			nodes = append(nodes, node{
				state:  succ,
				parent: idx,
				via:    int32(opIdx),
				g:      g,
				f:      heuristic.Add(heuristic.Cost(g), hv),
			})
			heap.Push(&open, int32(len(nodes)-1))
			// cur may have moved: the arena can reallocate on append.
			cur = &nodes[idx]
		}
	}

	log.Info("open list exhausted", "expanded", res.Stats.Expanded)
	return res, nil
}

// extractPlan walks parent indices from the goal node back to the root and
// reverses the collected operator names.
func (a *Astar) extractPlan(nodes []node, idx int32) []string {
	plan := []string{}
	for cur := idx; nodes[cur].parent != noParent; cur = nodes[cur].parent {
		plan = append(plan, a.task.Operators[nodes[cur].via].Name)
	}
	for i, j := 0, len(plan)-1; i < j; i, j = i+1, j-1 {
		plan[i], plan[j] = plan[j], plan[i]
	}
	return plan
}

// openList orders arena indices by (f, insertion sequence); the index is the
// sequence, so equal-f nodes pop in insertion order.
type openList struct {
	nodes *[]node
	items []int32
}

func (o openList) Len() int { return len(o.items) }

func (o openList) Less(i, j int) bool {
	ni, nj := o.items[i], o.items[j]
	fi, fj := (*o.nodes)[ni].f, (*o.nodes)[nj].f
	if fi != fj {
		return fi < fj
	}
	return ni < nj
}

func (o openList) Swap(i, j int) { o.items[i], o.items[j] = o.items[j], o.items[i] }

func (o *openList) Push(x interface{}) {
	o.items = append(o.items, x.(int32))
}

func (o *openList) Pop() interface{} {
	old := o.items
	n := len(old)
	item := old[n-1]
	o.items = old[:n-1]
	return item
}
