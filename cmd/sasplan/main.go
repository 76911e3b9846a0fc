package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"upside-down-research.com/oss/sasplan/internal/commands"
	"upside-down-research.com/oss/sasplan/internal/config"
)

var cli commands.CLI

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("sasplan"),
		kong.Description("Cost-optimal classical planner for SAS/FDR tasks (A* with h_max or LM-Cut)."),
		kong.UsageOnError(),
		// Argument mistakes print the usage text and terminate cleanly.
		kong.Exit(func(int) { os.Exit(0) }),
	)

	cfg, err := config.LoadConfig(cli.ConfigFile)
	if err != nil {
		log.Fatal("loading config failed", "error", err)
	}
	setLogLevel(cfg, cli.Verbose)

	if err := ctx.Run(&commands.Context{Config: cfg}); err != nil {
		commands.ReportError(err)
		os.Exit(1)
	}
}

func setLogLevel(cfg *config.Config, verbose bool) {
	if verbose {
		log.SetLevel(log.DebugLevel)
		return
	}
	switch cfg.Logging.Level {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}
