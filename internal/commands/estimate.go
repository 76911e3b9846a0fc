package commands

import (
	"fmt"

	"upside-down-research.com/oss/sasplan/internal/estimation"
	"upside-down-research.com/oss/sasplan/internal/planner"
)

// EstimateCommand prints size statistics and a coarse effort class for a
// task without searching it.
type EstimateCommand struct {
	SasFile string `arg:"" name:"sas-file" help:"Task file in SAS/FDR format." type:"path"`
}

// Run executes the estimate command
func (cmd *EstimateCommand) Run(ctx *Context) error {
	r := planner.NewRunner(ctx.Config)
	ft, _, err := r.Load(cmd.SasFile)
	if err != nil {
		return err
	}

	stats := estimation.Estimate(ft)
	fmt.Println(estimation.FormatReport(stats))
	return nil
}
