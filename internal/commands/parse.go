package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"upside-down-research.com/oss/sasplan/internal/planner"
)

// ParseCommand parses and grounds a task file, then prints the grounded
// task in its deterministic serialisation.
type ParseCommand struct {
	SasFile string `arg:"" name:"sas-file" help:"Task file in SAS/FDR format." type:"path"`
}

// Run executes the parse command
func (cmd *ParseCommand) Run(ctx *Context) error {
	r := planner.NewRunner(ctx.Config)
	ft, t, err := r.Load(cmd.SasFile)
	if err != nil {
		return err
	}

	var sb strings.Builder
	t.Dump(&sb)
	fmt.Print(sb.String())

	color.Green("✓ parsed %s: %d variables, %d operators", cmd.SasFile, len(ft.Variables), len(ft.Operators))
	return nil
}
