package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upside-down-research.com/oss/sasplan/internal/heuristic"
	"upside-down-research.com/oss/sasplan/internal/sas"
	"upside-down-research.com/oss/sasplan/internal/strips"
)

type opSpec struct {
	name    string
	effects [][3]int // var, pre (-1 for none), post
	cost    int64
}

func mkTask(t *testing.T, domains []int, init []int, goal [][2]int, ops []opSpec) *strips.Task {
	t.Helper()

	ft := &sas.Task{Version: 3, Metric: 1, Init: init}
	for i, d := range domains {
		ft.Variables = append(ft.Variables, sas.Variable{Name: "var" + string(rune('0'+i)), Range: d})
	}
	for _, g := range goal {
		ft.Goal = append(ft.Goal, sas.Condition{Var: g[0], Val: g[1]})
	}
	for _, spec := range ops {
		op := sas.Operator{Name: spec.name, Cost: spec.cost}
		for _, e := range spec.effects {
			op.Effects = append(op.Effects, sas.Effect{Var: e[0], Pre: e[1], Post: e[2]})
		}
		ft.Operators = append(ft.Operators, op)
	}

	task, err := strips.Ground(ft)
	require.NoError(t, err)
	return task
}

func evaluators(task *strips.Task) map[string]Heuristic {
	return map[string]Heuristic{
		"hmax":  heuristic.NewHMax(task),
		"lmcut": heuristic.NewLMCut(task),
	}
}

func TestAstar(t *testing.T) {
	t.Run("Empty plan when initial state is a goal", func(t *testing.T) {
		task := mkTask(t, []int{1}, []int{0}, [][2]int{{0, 0}}, nil)
		for name, h := range evaluators(task) {
			res, err := New(task, h).Run()
			require.NoError(t, err, name)
			require.True(t, res.Found, name)
			assert.Empty(t, res.Plan, name)
			assert.Equal(t, int64(0), res.Cost, name)
		}
	})

	t.Run("Single operator", func(t *testing.T) {
		task := mkTask(t, []int{2}, []int{0}, [][2]int{{0, 1}}, []opSpec{
			{name: "a", effects: [][3]int{{0, 0, 1}}, cost: 5},
		})
		for name, h := range evaluators(task) {
			res, err := New(task, h).Run()
			require.NoError(t, err, name)
			require.True(t, res.Found, name)
			assert.Equal(t, []string{"a"}, res.Plan, name)
			assert.Equal(t, int64(5), res.Cost, name)
		}
	})

	t.Run("Two-step chain", func(t *testing.T) {
		task := mkTask(t, []int{3}, []int{0}, [][2]int{{0, 2}}, []opSpec{
			{name: "a01", effects: [][3]int{{0, 0, 1}}, cost: 2},
			{name: "a12", effects: [][3]int{{0, 1, 2}}, cost: 3},
		})
		for name, h := range evaluators(task) {
			res, err := New(task, h).Run()
			require.NoError(t, err, name)
			require.True(t, res.Found, name)
			assert.Equal(t, []string{"a01", "a12"}, res.Plan, name)
			assert.Equal(t, int64(5), res.Cost, name)
		}
	})

	t.Run("Optimal route beats the direct one", func(t *testing.T) {
		task := mkTask(t, []int{3}, []int{0}, [][2]int{{0, 2}}, []opSpec{
			{name: "direct", effects: [][3]int{{0, 0, 2}}, cost: 10},
			{name: "a01", effects: [][3]int{{0, 0, 1}}, cost: 2},
			{name: "a12", effects: [][3]int{{0, 1, 2}}, cost: 3},
		})
		for name, h := range evaluators(task) {
			res, err := New(task, h).Run()
			require.NoError(t, err, name)
			require.True(t, res.Found, name)
			assert.Equal(t, int64(5), res.Cost, name)
			assert.Equal(t, []string{"a01", "a12"}, res.Plan, name)
		}
	})

	t.Run("Unreachable goal", func(t *testing.T) {
		task := mkTask(t, []int{2}, []int{0}, [][2]int{{0, 1}}, []opSpec{
			{name: "loop", effects: [][3]int{{0, 0, 0}}, cost: 1},
		})
		for name, h := range evaluators(task) {
			res, err := New(task, h).Run()
			require.NoError(t, err, name)
			assert.False(t, res.Found, name)
			assert.Empty(t, res.Plan, name)
		}
	})

	t.Run("Plan cost equals sum of step costs", func(t *testing.T) {
		task := mkTask(t, []int{3, 2}, []int{0, 0}, [][2]int{{0, 2}, {1, 1}}, []opSpec{
			{name: "a01", effects: [][3]int{{0, 0, 1}}, cost: 2},
			{name: "a12", effects: [][3]int{{0, 1, 2}}, cost: 3},
			{name: "b", effects: [][3]int{{1, 0, 1}}, cost: 1},
		})
		costs := map[string]int64{"a01": 2, "a12": 3, "b": 1}
		for name, h := range evaluators(task) {
			res, err := New(task, h).Run()
			require.NoError(t, err, name)
			require.True(t, res.Found, name)

			sum := int64(0)
			for _, step := range res.Plan {
				sum += costs[step]
			}
			assert.Equal(t, res.Cost, sum, name)
			assert.Equal(t, int64(6), res.Cost, name)
		}
	})

	t.Run("Zero-cost operators terminate", func(t *testing.T) {
		task := mkTask(t, []int{3}, []int{0}, [][2]int{{0, 2}}, []opSpec{
			{name: "free", effects: [][3]int{{0, 0, 1}}, cost: 0},
			{name: "paid", effects: [][3]int{{0, 1, 2}}, cost: 4},
		})
		for name, h := range evaluators(task) {
			res, err := New(task, h).Run()
			require.NoError(t, err, name)
			require.True(t, res.Found, name)
			assert.Equal(t, int64(4), res.Cost, name)
		}
	})

	t.Run("Deterministic across runs", func(t *testing.T) {
		task := mkTask(t, []int{3, 2}, []int{0, 0}, [][2]int{{0, 2}, {1, 1}}, []opSpec{
			{name: "a01", effects: [][3]int{{0, 0, 1}}, cost: 2},
			{name: "a12", effects: [][3]int{{0, 1, 2}}, cost: 3},
			{name: "b", effects: [][3]int{{1, 0, 1}}, cost: 1},
		})
		h := heuristic.NewHMax(task)
		first, err := New(task, h).Run()
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			again, err := New(task, h).Run()
			require.NoError(t, err)
			assert.Equal(t, first.Plan, again.Plan)
			assert.Equal(t, first.Cost, again.Cost)
		}
	})

	t.Run("Expansion bound aborts the search", func(t *testing.T) {
		task := mkTask(t, []int{3}, []int{0}, [][2]int{{0, 2}}, []opSpec{
			{name: "a01", effects: [][3]int{{0, 0, 1}}, cost: 2},
			{name: "a12", effects: [][3]int{{0, 1, 2}}, cost: 3},
		})
		a := New(task, heuristic.NewHMax(task))
		a.MaxExpansions = 1
		res, err := a.Run()
		require.NoError(t, err)
		assert.False(t, res.Found)
	})

	t.Run("Search statistics", func(t *testing.T) {
		task := mkTask(t, []int{3}, []int{0}, [][2]int{{0, 2}}, []opSpec{
			{name: "a01", effects: [][3]int{{0, 0, 1}}, cost: 2},
			{name: "a12", effects: [][3]int{{0, 1, 2}}, cost: 3},
		})
		res, err := New(task, heuristic.NewHMax(task)).Run()
		require.NoError(t, err)
		assert.Greater(t, res.Stats.Expanded, int64(0))
		assert.Greater(t, res.Stats.Generated, int64(0))
		assert.Greater(t, res.Stats.HeuristicCalls, res.Stats.Generated)
	})
}
