package estimation

import (
	"fmt"
	"math"
	"strings"

	"upside-down-research.com/oss/sasplan/internal/sas"
)

// TaskStats summarizes the size of a parsed task
type TaskStats struct {
	Variables       int
	Facts           int
	Operators       int
	GoalFacts       int
	AvgDomainSize   float64
	AvgEffects      float64
	MaxCost         int64
	ZeroCostOps     int
	StateSpaceLog10 float64 // log10 upper bound on the number of states
}

// EffortClass is a coarse bucket for how hard a task is likely to be
type EffortClass string

const (
	EffortTrivial  EffortClass = "trivial"
	EffortModerate EffortClass = "moderate"
	EffortLarge    EffortClass = "large"
	EffortExtreme  EffortClass = "extreme"
)

// Estimate computes size statistics for a task before searching it
func Estimate(t *sas.Task) *TaskStats {
	stats := &TaskStats{
		Variables: len(t.Variables),
		Operators: len(t.Operators),
		GoalFacts: len(t.Goal),
	}

	domains := 0
	for _, v := range t.Variables {
		stats.Facts += v.Range
		domains += v.Range
		stats.StateSpaceLog10 += math.Log10(float64(v.Range))
	}
	if stats.Variables > 0 {
		stats.AvgDomainSize = float64(domains) / float64(stats.Variables)
	}

	effects := 0
	for i := range t.Operators {
		op := &t.Operators[i]
		effects += len(op.Effects)
		if op.Cost > stats.MaxCost {
			stats.MaxCost = op.Cost
		}
		if op.Cost == 0 {
			stats.ZeroCostOps++
		}
	}
	if stats.Operators > 0 {
		stats.AvgEffects = float64(effects) / float64(stats.Operators)
	}

	return stats
}

// Classify buckets a task by its state-space upper bound
func (s *TaskStats) Classify() EffortClass {
	switch {
	case s.StateSpaceLog10 <= 3:
		return EffortTrivial
	case s.StateSpaceLog10 <= 6:
		return EffortModerate
	case s.StateSpaceLog10 <= 10:
		return EffortLarge
	default:
		return EffortExtreme
	}
}

// FormatReport formats the statistics for display
func FormatReport(s *TaskStats) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Variables:      %d (avg domain %.1f)\n", s.Variables, s.AvgDomainSize))
	sb.WriteString(fmt.Sprintf("Facts:          %d\n", s.Facts))
	sb.WriteString(fmt.Sprintf("Operators:      %d (avg effects %.1f, %d zero-cost, max cost %d)\n",
		s.Operators, s.AvgEffects, s.ZeroCostOps, s.MaxCost))
	sb.WriteString(fmt.Sprintf("Goal facts:     %d\n", s.GoalFacts))
	sb.WriteString(fmt.Sprintf("State space:    <= 10^%.1f states\n", s.StateSpaceLog10))
	sb.WriteString(fmt.Sprintf("Effort class:   %s", s.Classify()))

	return sb.String()
}
