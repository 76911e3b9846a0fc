package commands

import (
	"fmt"

	"upside-down-research.com/oss/sasplan/internal/planner"
)

// HmaxCommand prints h_max of the initial state as a single integer.
type HmaxCommand struct {
	SasFile string `arg:"" name:"sas-file" help:"Task file in SAS/FDR format." type:"path"`
}

// Run executes the hmax command
func (cmd *HmaxCommand) Run(ctx *Context) error {
	return printEstimate(ctx, cmd.SasFile, "hmax")
}

// LmcutCommand prints h_LMCUT of the initial state as a single integer.
type LmcutCommand struct {
	SasFile string `arg:"" name:"sas-file" help:"Task file in SAS/FDR format." type:"path"`
}

// Run executes the lmcut command
func (cmd *LmcutCommand) Run(ctx *Context) error {
	return printEstimate(ctx, cmd.SasFile, "lmcut")
}

func printEstimate(ctx *Context, path, name string) error {
	r := planner.NewRunner(ctx.Config)
	v, err := r.Estimate(path, name)
	if err != nil {
		return err
	}
	fmt.Println(planner.FormatEstimate(v))
	return nil
}
