package sas

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const miniTask = `begin_version
3
end_version
begin_metric
0
end_metric
begin_variable
var0
-1 3
Atom at(a)
Atom at(b)

Atom at(c)
end_variable
begin_state
0
end_state
begin_goal
1
0 2
end_goal
begin_operator
move a b
0
1
0 0 1 0
1
end_operator
begin_operator
move b c
0
1
0 1 2 0
3
end_operator
`

func TestParse(t *testing.T) {
	t.Run("Complete task", func(t *testing.T) {
		task, err := Parse(strings.NewReader(miniTask))
		require.NoError(t, err)

		assert.Equal(t, 3, task.Version)
		assert.Equal(t, 0, task.Metric)

		require.Len(t, task.Variables, 1)
		v := task.Variables[0]
		assert.Equal(t, "var0", v.Name)
		assert.Equal(t, 3, v.Range)
		assert.Equal(t, []string{"Atom at(a)", "Atom at(b)", "Atom at(c)"}, v.Atoms)

		assert.Equal(t, []int{0}, task.Init)
		require.Len(t, task.Goal, 1)
		assert.Equal(t, Condition{Var: 0, Val: 2}, task.Goal[0])

		require.Len(t, task.Operators, 2)
		op := task.Operators[0]
		assert.Equal(t, "move a b", op.Name)
		assert.Empty(t, op.Prevail)
		require.Len(t, op.Effects, 1)
		assert.Equal(t, Effect{Var: 0, Pre: 0, Post: 1}, op.Effects[0])
		assert.Equal(t, int64(1), op.Cost)
		assert.Equal(t, int64(3), task.Operators[1].Cost)
	})

	t.Run("Multi-line state", func(t *testing.T) {
		input := strings.Replace(miniTask, "begin_state\n0\nend_state",
			"begin_state\n0 \n\nend_state", 1)
		task, err := Parse(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, []int{0}, task.Init)
	})

	t.Run("Prevail conditions", func(t *testing.T) {
		input := `begin_version
3
end_version
begin_metric
1
end_metric
begin_variable
var0
-1 2
end_variable
begin_variable
var1
-1 2
end_variable
begin_state
0 0
end_state
begin_goal
1
1 1
end_goal
begin_operator
flip
1
0 1
1
1 0 1 0
0
end_operator
`
		task, err := Parse(strings.NewReader(input))
		require.NoError(t, err)
		op := task.Operators[0]
		require.Len(t, op.Prevail, 1)
		assert.Equal(t, Condition{Var: 0, Val: 1}, op.Prevail[0])
		assert.Equal(t, int64(0), op.Cost)
	})
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Unterminated section",
			input: "begin_version\n3\n",
			want:  "unterminated version section",
		},
		{
			name:  "Mismatched end token",
			input: "begin_version\n3\nend_metric\n",
			want:  "end_metric closes a version section",
		},
		{
			name:  "End without begin",
			input: "end_goal\n",
			want:  "without matching begin_goal",
		},
		{
			name:  "Content outside sections",
			input: "begin_version\n3\nend_version\nstray\n",
			want:  "outside any section",
		},
		{
			name:  "Non-integer where integer expected",
			input: "begin_version\nthree\nend_version\n",
			want:  "expected an integer",
		},
		{
			name:  "Truncated operator",
			input: "begin_version\n3\nend_version\nbegin_operator\nnoop\n0\n0\nend_operator\n",
			want:  "missing operator cost",
		},
		{
			name:  "Missing version",
			input: "begin_metric\n0\nend_metric\n",
			want:  "missing version section",
		},
		{
			name:  "Nested begin",
			input: "begin_goal\nbegin_state\nend_state\nend_goal\n",
			want:  "inside unterminated goal section",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse(strings.NewReader("begin_version\noops\nend_version\n"))
	require.Error(t, err)

	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, 2, pe.Line)
}
