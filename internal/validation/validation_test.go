package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upside-down-research.com/oss/sasplan/internal/sas"
)

func validTask() *sas.Task {
	return &sas.Task{
		Version: 3,
		Metric:  1,
		Variables: []sas.Variable{
			{Name: "var0", Range: 2, Atoms: []string{"Atom a", "Atom b"}},
		},
		Init: []int{0},
		Goal: []sas.Condition{{Var: 0, Val: 1}},
		Operators: []sas.Operator{
			{Name: "a", Effects: []sas.Effect{{Var: 0, Pre: 0, Post: 1}}, Cost: 1},
		},
	}
}

func TestValidateTask(t *testing.T) {
	t.Run("Valid task passes", func(t *testing.T) {
		result := ValidateTask(validTask())
		assert.True(t, result.IsValid())
		assert.Empty(t, result.Warnings)
		assert.NoError(t, result.FirstError())
	})

	t.Run("Initial value out of range", func(t *testing.T) {
		task := validTask()
		task.Init = []int{5}
		result := ValidateTask(task)
		require.False(t, result.IsValid())
		assert.Contains(t, result.Errors[0].Error(), "outside its domain")
	})

	t.Run("Wrong initial state length", func(t *testing.T) {
		task := validTask()
		task.Init = []int{0, 1}
		result := ValidateTask(task)
		assert.False(t, result.IsValid())
	})

	t.Run("Goal references unknown variable", func(t *testing.T) {
		task := validTask()
		task.Goal = []sas.Condition{{Var: 3, Val: 0}}
		result := ValidateTask(task)
		require.False(t, result.IsValid())
		assert.Equal(t, "goal", result.Errors[0].Field)
	})

	t.Run("Effect post value out of range", func(t *testing.T) {
		task := validTask()
		task.Operators[0].Effects[0].Post = 9
		result := ValidateTask(task)
		require.False(t, result.IsValid())
		assert.Contains(t, result.Errors[0].Message, "post-value")
	})

	t.Run("Unconditional effect pre is allowed", func(t *testing.T) {
		task := validTask()
		task.Operators[0].Effects[0].Pre = -1
		result := ValidateTask(task)
		assert.True(t, result.IsValid())
	})

	t.Run("Empty goal warns", func(t *testing.T) {
		task := validTask()
		task.Goal = nil
		result := ValidateTask(task)
		assert.True(t, result.IsValid())
		assert.NotEmpty(t, result.Warnings)
	})

	t.Run("Duplicate goal variable warns", func(t *testing.T) {
		task := validTask()
		task.Goal = append(task.Goal, sas.Condition{Var: 0, Val: 0})
		result := ValidateTask(task)
		assert.True(t, result.IsValid())
		assert.NotEmpty(t, result.Warnings)
	})
}
