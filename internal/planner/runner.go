// Package planner wires the pipeline together: parse a task file, validate
// and ground it, pick a heuristic by name, run A*, and report the plan.
package planner

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"upside-down-research.com/oss/sasplan/internal/config"
	"upside-down-research.com/oss/sasplan/internal/heuristic"
	"upside-down-research.com/oss/sasplan/internal/o11y"
	"upside-down-research.com/oss/sasplan/internal/progress"
	"upside-down-research.com/oss/sasplan/internal/sas"
	"upside-down-research.com/oss/sasplan/internal/search"
	"upside-down-research.com/oss/sasplan/internal/strips"
	"upside-down-research.com/oss/sasplan/internal/validation"
)

// ErrUnknownHeuristic reports a heuristic name outside the registry.
var ErrUnknownHeuristic = errors.New("planner: unknown heuristic")

// Heuristics lists the registry names accepted by NewEvaluator.
var Heuristics = []string{"hmax", "lmcut"}

// NewEvaluator builds the named heuristic for a grounded task.
func NewEvaluator(name string, t *strips.Task) (search.Heuristic, error) {
	switch name {
	case "hmax":
		return heuristic.NewHMax(t), nil
	case "lmcut":
		return heuristic.NewLMCut(t), nil
	default:
		return nil, fmt.Errorf("%w: %q (want hmax or lmcut)", ErrUnknownHeuristic, name)
	}
}

// Runner owns the configuration shared by all pipeline stages.
type Runner struct {
	cfg *config.Config
}

// NewRunner creates a runner over the given configuration.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{cfg: cfg}
}

// Load parses, validates and grounds a task file.
func (r *Runner) Load(path string) (*sas.Task, *strips.Task, error) {
	ft, err := sas.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	result := validation.ValidateTask(ft)
	for _, w := range result.Warnings {
		log.Warn("task validation", "field", w.Field, "message", w.Message)
	}
	if !result.IsValid() {
		return nil, nil, fmt.Errorf("planner: invalid task: %w", result.FirstError())
	}
	t, err := strips.Ground(ft)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("task grounded", "variables", t.NumVariables(), "facts", t.NumFacts(), "operators", len(t.Operators))
	return ft, t, nil
}

// Estimate evaluates the named heuristic on the initial state.
func (r *Runner) Estimate(path, name string) (heuristic.Cost, error) {
	_, t, err := r.Load(path)
	if err != nil {
		return 0, err
	}
	h, err := NewEvaluator(name, t)
	if err != nil {
		return 0, err
	}
	return h.Estimate(t.Init)
}

// Solve runs the full pipeline and returns the search result.
func (r *Runner) Solve(path, name string) (*search.Result, error) {
	ind := progress.NewIndicator(r.cfg.Search.Progress)
	ind.Phase("Solving " + path)

	ind.Step("parse and ground")
	_, t, err := r.Load(path)
	if err != nil {
		return nil, err
	}

	h, err := NewEvaluator(name, t)
	if err != nil {
		return nil, err
	}

	ind.Step("search with " + h.Name())
	a := search.New(t, h)
	a.MaxExpansions = r.cfg.Search.MaxExpansions
	a.Tick = ind.Expanded

	start := time.Now()
	res, err := a.Run()
	if err != nil {
		ind.Error("search", err)
		return nil, err
	}
	dur := time.Since(start)

	if res.Found {
		ind.Success(fmt.Sprintf("plan of cost %d", res.Cost))
	} else {
		ind.Success("search exhausted, no plan")
	}
	ind.Done()

	r.report(path, name, res, dur)
	return res, nil
}

// report forwards the finished run to the configured telemetry sinks and
// the plan artifact store.
func (r *Runner) report(path, name string, res *search.Result, dur time.Duration) {
	if r.cfg.Telemetry.Enabled {
		labels := map[string]string{"task": path, "heuristic": name}
		m := o11y.NewMetrics(r.cfg.Telemetry.PushgatewayURL, "sasplan", labels)
		m.ObserveSearch(res.Stats.Expanded, res.Stats.Generated, res.Stats.Pruned, res.Stats.HeuristicCalls, dur)
		m.Push()

		sink := &o11y.InfluxSink{
			URL:    r.cfg.Telemetry.InfluxURL,
			Token:  r.cfg.Telemetry.InfluxToken,
			Org:    r.cfg.Telemetry.InfluxOrg,
			Bucket: r.cfg.Telemetry.InfluxBucket,
		}
		sink.Record("planner_run", labels, map[string]interface{}{
			"found":    res.Found,
			"cost":     res.Cost,
			"expanded": res.Stats.Expanded,
			"duration": dur.Seconds(),
		})
	}

	if r.cfg.Output.PersistPlans {
		store := NewRecordStore(r.cfg.Output.Directory)
		rec := NewPlanRecord(path, name, res, dur)
		if file, err := store.Save(rec); err != nil {
			log.Warn("persisting plan record failed", "error", err)
		} else {
			log.Info("plan record written", "file", file)
		}
	}
}

// WritePlan prints a result in the agreed surface format: one operator name
// per line, then the cost line, or the no-plan message.
func WritePlan(w io.Writer, res *search.Result) {
	if !res.Found {
		fmt.Fprintln(w, "Plan not found")
		return
	}
	for _, name := range res.Plan {
		fmt.Fprintln(w, name)
	}
	fmt.Fprintf(w, "Plan cost: %d\n", res.Cost)
}

// FormatEstimate renders a heuristic value, using "inf" for unreachable.
func FormatEstimate(c heuristic.Cost) string {
	if c.IsInfinite() {
		return "inf"
	}
	return fmt.Sprintf("%d", int64(c))
}
