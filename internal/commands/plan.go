package commands

import (
	"os"

	"upside-down-research.com/oss/sasplan/internal/planner"
)

// PlanCommand runs A* with the chosen heuristic and prints the plan, one
// operator name per line, followed by the cost line.
type PlanCommand struct {
	SasFile   string `arg:"" name:"sas-file" help:"Task file in SAS/FDR format." type:"path"`
	Heuristic string `arg:"" name:"heuristic" help:"Heuristic to guide the search: hmax or lmcut."`
}

// Run executes the plan command
func (cmd *PlanCommand) Run(ctx *Context) error {
	r := planner.NewRunner(ctx.Config)
	res, err := r.Solve(cmd.SasFile, cmd.Heuristic)
	if err != nil {
		return err
	}
	planner.WritePlan(os.Stdout, res)
	return nil
}
