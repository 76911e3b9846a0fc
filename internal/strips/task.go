// Package strips lowers a finite-domain task into a propositional
// (STRIPS-style) one: ground facts, operators with precondition/add sets,
// and states that assign every variable exactly one value.
//
// Facts are interned to dense int32 handles. The handle of the fact
// "variable v has value k" is offset[v]+k, so grounding the same task twice
// yields the same numbering. A side table keeps the canonical v<i>_is_<k>
// names for output, and a fact→variable table keeps delete semantics
// independent of the name encoding.
package strips

import (
	"fmt"
	"sort"
	"strings"

	"upside-down-research.com/oss/sasplan/internal/sas"
)

// Fact is an interned ground atom.
type Fact int32

// Operator is one ground action of the propositional task.
type Operator struct {
	Name string

	// Pre and Add are sorted, duplicate-free fact sets.
	Pre []Fact
	Add []Fact

	// DelVars lists the variables this operator reassigns. The concrete
	// delete set against a state S is the current assignment of each
	// listed variable.
	DelVars []int32

	Cost int64
}

// Task is a grounded propositional planning task.
type Task struct {
	names   []string // fact -> canonical name
	varOf   []int32  // fact -> owning variable
	offsets []Fact   // variable -> first fact handle

	Init      State
	Goal      []Fact
	Operators []Operator
}

// Ground lowers a parsed FDR task. Out-of-range values and malformed
// operators are reported as errors; the result is deterministic in the
// input order of variables and operators.
func Ground(ft *sas.Task) (*Task, error) {
	nVars := len(ft.Variables)
	if len(ft.Init) != nVars {
		return nil, fmt.Errorf("strips: initial state assigns %d of %d variables", len(ft.Init), nVars)
	}

	t := &Task{offsets: make([]Fact, nVars+1)}
	for i, v := range ft.Variables {
		t.offsets[i+1] = t.offsets[i] + Fact(v.Range)
	}
	total := int(t.offsets[nVars])
	t.names = make([]string, total)
	t.varOf = make([]int32, total)
	for i, v := range ft.Variables {
		for k := 0; k < v.Range; k++ {
			f := t.offsets[i] + Fact(k)
			t.names[f] = fmt.Sprintf("v%d_is_%d", i, k)
			t.varOf[f] = int32(i)
		}
	}

	t.Init = make(State, nVars)
	for i, val := range ft.Init {
		if val < 0 || val >= ft.Variables[i].Range {
			return nil, fmt.Errorf("strips: initial value %d out of range for variable %d", val, i)
		}
		t.Init[i] = int32(val)
	}

	goal := map[Fact]struct{}{}
	for _, c := range ft.Goal {
		f, err := t.fact(ft, c.Var, c.Val, "goal")
		if err != nil {
			return nil, err
		}
		goal[f] = struct{}{}
	}
	t.Goal = sortedFactSet(goal)

	t.Operators = make([]Operator, 0, len(ft.Operators))
	for _, fo := range ft.Operators {
		op, err := t.groundOperator(ft, fo)
		if err != nil {
			return nil, err
		}
		t.Operators = append(t.Operators, op)
	}
	return t, nil
}

func (t *Task) groundOperator(ft *sas.Task, fo sas.Operator) (Operator, error) {
	if fo.Cost < 0 {
		return Operator{}, fmt.Errorf("strips: operator %s has negative cost %d", fo.Name, fo.Cost)
	}
	op := Operator{Name: fo.Name, Cost: fo.Cost}

	pre := map[Fact]struct{}{}
	for _, c := range fo.Prevail {
		f, err := t.fact(ft, c.Var, c.Val, "operator "+fo.Name)
		if err != nil {
			return Operator{}, err
		}
		pre[f] = struct{}{}
	}

	add := map[Fact]struct{}{}
	delVars := map[int32]struct{}{}
	for _, e := range fo.Effects {
		if e.Pre != -1 {
			f, err := t.fact(ft, e.Var, e.Pre, "operator "+fo.Name)
			if err != nil {
				return Operator{}, err
			}
			pre[f] = struct{}{}
		}
		f, err := t.fact(ft, e.Var, e.Post, "operator "+fo.Name)
		if err != nil {
			return Operator{}, err
		}
		add[f] = struct{}{}
		delVars[int32(e.Var)] = struct{}{}
	}

	op.Pre = sortedFactSet(pre)
	op.Add = sortedFactSet(add)
	for v := range delVars {
		op.DelVars = append(op.DelVars, v)
	}
	sort.Slice(op.DelVars, func(i, j int) bool { return op.DelVars[i] < op.DelVars[j] })
	return op, nil
}

func (t *Task) fact(ft *sas.Task, v, val int, where string) (Fact, error) {
	if v < 0 || v >= len(ft.Variables) {
		return 0, fmt.Errorf("strips: %s references unknown variable %d", where, v)
	}
	if val < 0 || val >= ft.Variables[v].Range {
		return 0, fmt.Errorf("strips: %s references value %d out of range for variable %d", where, val, v)
	}
	return t.offsets[v] + Fact(val), nil
}

// NumVariables reports the number of state variables.
func (t *Task) NumVariables() int { return len(t.offsets) - 1 }

// NumFacts reports the size of the fact universe.
func (t *Task) NumFacts() int { return len(t.names) }

// FactName returns the canonical v<i>_is_<k> name of a fact.
func (t *Task) FactName(f Fact) string { return t.names[f] }

// VarOf returns the variable a fact assigns.
func (t *Task) VarOf(f Fact) int32 { return t.varOf[f] }

// FactOf returns the fact handle for variable v holding value val.
func (t *Task) FactOf(v int, val int32) Fact { return t.offsets[v] + Fact(val) }

// Holds reports whether fact f is true in state s.
func (t *Task) Holds(s State, f Fact) bool {
	v := t.varOf[f]
	return t.offsets[v]+Fact(s[v]) == f
}

// Satisfied reports whether every fact in the set holds in s.
func (t *Task) Satisfied(s State, facts []Fact) bool {
	for _, f := range facts {
		if !t.Holds(s, f) {
			return false
		}
	}
	return true
}

// Applicable reports whether op's preconditions are a subset of s.
func (t *Task) Applicable(s State, op *Operator) bool {
	return t.Satisfied(s, op.Pre)
}

// Apply returns the successor of s under op. Every effect reassigns its
// variable, which deletes the previous assignment and adds the new one.
func (t *Task) Apply(s State, op *Operator) State {
	succ := s.Clone()
	for _, f := range op.Add {
		v := t.varOf[f]
		succ[v] = int32(f - t.offsets[v])
	}
	return succ
}

// StateFacts appends the facts true in s to buf and returns it.
func (t *Task) StateFacts(s State, buf []Fact) []Fact {
	buf = buf[:0]
	for v, val := range s {
		buf = append(buf, t.offsets[v]+Fact(val))
	}
	return buf
}

// Dump writes a deterministic textual serialisation of the grounded task,
// used by the parse command and for byte-identity checks.
func (t *Task) Dump(sb *strings.Builder) {
	sb.WriteString("Initial state:")
	for _, f := range t.StateFacts(t.Init, nil) {
		sb.WriteByte(' ')
		sb.WriteString(t.names[f])
	}
	sb.WriteString("\nGoal:")
	for _, f := range t.Goal {
		sb.WriteByte(' ')
		sb.WriteString(t.names[f])
	}
	fmt.Fprintf(sb, "\nFacts: %d\n", len(t.names))
	for _, name := range t.names {
		sb.WriteString(name)
		sb.WriteByte('\n')
	}
	fmt.Fprintf(sb, "Operators: %d\n", len(t.Operators))
	for i := range t.Operators {
		op := &t.Operators[i]
		fmt.Fprintf(sb, "%s cost=%d\n", op.Name, op.Cost)
		sb.WriteString("  pre:")
		for _, f := range op.Pre {
			sb.WriteByte(' ')
			sb.WriteString(t.names[f])
		}
		sb.WriteString("\n  add:")
		for _, f := range op.Add {
			sb.WriteByte(' ')
			sb.WriteString(t.names[f])
		}
		sb.WriteString("\n  del-vars:")
		for _, v := range op.DelVars {
			fmt.Fprintf(sb, " v%d", v)
		}
		sb.WriteByte('\n')
	}
}

func sortedFactSet(set map[Fact]struct{}) []Fact {
	if len(set) == 0 {
		return nil
	}
	out := make([]Fact, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sortFacts(out)
	return out
}

func sortFacts(fs []Fact) {
	sort.Slice(fs, func(i, j int) bool { return fs[i] < fs[j] })
}
