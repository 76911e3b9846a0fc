package commands

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"upside-down-research.com/oss/sasplan/internal/config"
)

// ConfigCommand prints the active configuration, or a commented example
// file suitable as a starting point.
type ConfigCommand struct {
	Example bool `help:"Print a commented example config instead of the active one."`
}

// Run executes the config command
func (cmd *ConfigCommand) Run(ctx *Context) error {
	if cmd.Example {
		fmt.Print(config.ExampleConfig())
		return nil
	}
	data, err := yaml.Marshal(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Print(string(data))
	return nil
}
