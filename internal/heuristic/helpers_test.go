package heuristic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"upside-down-research.com/oss/sasplan/internal/sas"
	"upside-down-research.com/oss/sasplan/internal/strips"
)

type opSpec struct {
	name    string
	effects [][3]int // var, pre (-1 for none), post
	cost    int64
}

// mkTask grounds a small FDR task from domain sizes, an initial assignment,
// goal pairs and operator specs.
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
