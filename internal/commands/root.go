// Package commands holds the CLI command implementations behind the kong
// command tree in cmd/sasplan.
package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"

	"upside-down-research.com/oss/sasplan/internal/config"
	"upside-down-research.com/oss/sasplan/internal/sas"
	"upside-down-research.com/oss/sasplan/internal/validation"
)

// CLI is the root command tree.
type CLI struct {
	ConfigFile string `name:"config" help:"Path to a YAML config file." type:"path"`
	Verbose    bool   `short:"v" help:"Enable debug logging."`

	Parse    ParseCommand    `cmd:"" help:"Parse a task file and print the grounded task."`
	Hmax     HmaxCommand     `cmd:"" help:"Print the h_max estimate of the initial state."`
	Lmcut    LmcutCommand    `cmd:"" help:"Print the LM-Cut estimate of the initial state."`
	Plan     PlanCommand     `cmd:"" help:"Find a cost-optimal plan with the chosen heuristic."`
	Estimate EstimateCommand `cmd:"" help:"Print task statistics and an effort estimate."`
	Config   ConfigCommand   `cmd:"" help:"Print the active or an example configuration."`
}

// Context carries shared state into every command's Run method.
type Context struct {
	Config *config.Config
}

// ReportError prints a user-facing diagnostic for err, coloring positioned
// parse errors and validation errors the way the rest of the output expects.
func ReportError(err error) {
	var pe *sas.ParseError
	if errors.As(err, &pe) {
		color.Red("✗ parse error at line %d", pe.Line)
		fmt.Printf("→ %s\n", pe.Message)
		return
	}
	var ve validation.ValidationError
	if errors.As(err, &ve) {
		color.Red("✗ invalid task: %s", ve.Field)
		fmt.Printf("→ %s\n", ve.Message)
		if ve.Fix != "" {
			fmt.Printf("  Fix: %s\n", ve.Fix)
		}
		return
	}
	color.Red("✗ %v", err)
}
