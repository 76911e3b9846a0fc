package estimation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"upside-down-research.com/oss/sasplan/internal/sas"
)

func TestEstimate(t *testing.T) {
	task := &sas.Task{
		Variables: []sas.Variable{
			{Name: "var0", Range: 2},
			{Name: "var1", Range: 10},
		},
		Init: []int{0, 0},
		Goal: []sas.Condition{{Var: 0, Val: 1}},
		Operators: []sas.Operator{
			{Name: "a", Effects: []sas.Effect{{Var: 0, Pre: 0, Post: 1}}, Cost: 3},
			{Name: "b", Effects: []sas.Effect{{Var: 1, Pre: -1, Post: 4}}, Cost: 0},
		},
	}

	stats := Estimate(task)
	assert.Equal(t, 2, stats.Variables)
	assert.Equal(t, 12, stats.Facts)
	assert.Equal(t, 2, stats.Operators)
	assert.Equal(t, 1, stats.GoalFacts)
	assert.Equal(t, 6.0, stats.AvgDomainSize)
	assert.Equal(t, 1.0, stats.AvgEffects)
	assert.Equal(t, int64(3), stats.MaxCost)
	assert.Equal(t, 1, stats.ZeroCostOps)
	assert.InDelta(t, 1.301, stats.StateSpaceLog10, 0.001) // log10(20)

	assert.Equal(t, EffortTrivial, stats.Classify())

	report := FormatReport(stats)
	assert.Contains(t, report, "Operators:      2")
	assert.Contains(t, report, "trivial")
}

func TestClassify(t *testing.T) {
	assert.Equal(t, EffortTrivial, (&TaskStats{StateSpaceLog10: 2}).Classify())
	assert.Equal(t, EffortModerate, (&TaskStats{StateSpaceLog10: 5}).Classify())
	assert.Equal(t, EffortLarge, (&TaskStats{StateSpaceLog10: 8}).Classify())
	assert.Equal(t, EffortExtreme, (&TaskStats{StateSpaceLog10: 20}).Classify())
}
