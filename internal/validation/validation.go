package validation

import (
	"fmt"

	"upside-down-research.com/oss/sasplan/internal/sas"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
	Fix     string // Suggested fix
}

func (e ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Field, e.Message)
	if e.Fix != "" {
		msg += fmt.Sprintf("\n  Fix: %s", e.Fix)
	}
	return msg
}

// ValidationResult holds validation results
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no errors
func (v *ValidationResult) IsValid() bool {
	return len(v.Errors) == 0
}

// AddError adds a validation error
func (v *ValidationResult) AddError(field, message, fix string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
		Fix:     fix,
	})
}

// AddWarning adds a validation warning
func (v *ValidationResult) AddWarning(field, message, fix string) {
	v.Warnings = append(v.Warnings, ValidationError{
		Field:   field,
		Message: message,
		Fix:     fix,
	})
}

// ValidateTask checks the semantic consistency of a parsed FDR task:
// assignment lengths, value ranges, and operator references.
func ValidateTask(t *sas.Task) *ValidationResult {
	result := &ValidationResult{}
	nVars := len(t.Variables)

	if nVars == 0 {
		result.AddError("variables",
			"task declares no variables",
			"check the file for begin_variable sections")
	}

	if len(t.Init) != nVars {
		result.AddError("state",
			fmt.Sprintf("initial state assigns %d values for %d variables", len(t.Init), nVars),
			"the state section must list one value per variable")
	}
	for i, val := range t.Init {
		if i < nVars && !inRange(t, i, val) {
			result.AddError("state",
				fmt.Sprintf("variable %d has initial value %d outside its domain of %d", i, val, t.Variables[i].Range),
				"regenerate the task file; values are 0-based domain indices")
		}
	}

	if len(t.Goal) == 0 {
		result.AddWarning("goal",
			"goal section is empty; every state is a goal state",
			"check the begin_goal section")
	}
	seenGoalVar := map[int]bool{}
	for _, c := range t.Goal {
		if !validCondition(t, c) {
			result.AddError("goal",
				fmt.Sprintf("goal pair (%d, %d) references an unknown variable or value", c.Var, c.Val),
				"goal pairs must name a declared variable and an in-domain value")
			continue
		}
		if seenGoalVar[c.Var] {
			result.AddWarning("goal",
				fmt.Sprintf("variable %d is constrained more than once in the goal", c.Var),
				"duplicate goal entries for one variable are contradictory unless equal")
		}
		seenGoalVar[c.Var] = true
	}

	for i := range t.Operators {
		validateOperator(t, i, result)
	}

	for i, v := range t.Variables {
		if len(v.Atoms) > 0 && len(v.Atoms) != v.Range {
			result.AddWarning(fmt.Sprintf("variable[%d]", i),
				fmt.Sprintf("%d atom labels for a domain of %d", len(v.Atoms), v.Range),
				"atom labels are informational; counts usually match the domain size")
		}
	}

	return result
}

func validateOperator(t *sas.Task, i int, result *ValidationResult) {
	op := &t.Operators[i]
	field := fmt.Sprintf("operator[%d] %s", i, op.Name)

	if op.Name == "" {
		result.AddError(field, "operator has no name", "the first line of an operator section is its name")
	}
	if op.Cost < 0 {
		result.AddError(field,
			fmt.Sprintf("negative cost %d", op.Cost),
			"operator costs are non-negative integers")
	}
	for _, c := range op.Prevail {
		if !validCondition(t, c) {
			result.AddError(field,
				fmt.Sprintf("prevail condition (%d, %d) references an unknown variable or value", c.Var, c.Val),
				"prevail conditions must name a declared variable and an in-domain value")
		}
	}
	if len(op.Effects) == 0 {
		result.AddWarning(field,
			"operator has no effects",
			"an effect-free operator can never change the state")
	}
	for _, e := range op.Effects {
		if e.Var < 0 || e.Var >= len(t.Variables) {
			result.AddError(field,
				fmt.Sprintf("effect references unknown variable %d", e.Var),
				"effect variables are 0-based indices into the variable list")
			continue
		}
		if e.Pre != -1 && !inRange(t, e.Var, e.Pre) {
			result.AddError(field,
				fmt.Sprintf("effect pre-value %d outside the domain of variable %d", e.Pre, e.Var),
				"use -1 for an unconditional effect")
		}
		if !inRange(t, e.Var, e.Post) {
			result.AddError(field,
				fmt.Sprintf("effect post-value %d outside the domain of variable %d", e.Post, e.Var),
				"post values are 0-based domain indices")
		}
	}
}

func validCondition(t *sas.Task, c sas.Condition) bool {
	return c.Var >= 0 && c.Var < len(t.Variables) && inRange(t, c.Var, c.Val)
}

func inRange(t *sas.Task, v, val int) bool {
	return val >= 0 && val < t.Variables[v].Range
}

// FirstError returns the first error as a Go error, or nil
func (v *ValidationResult) FirstError() error {
	if len(v.Errors) == 0 {
		return nil
	}
	return v.Errors[0]
}
