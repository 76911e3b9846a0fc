package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the planner configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Search    SearchConfig    `yaml:"search"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Output    OutputConfig    `yaml:"output"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// SearchConfig holds search behavior settings
type SearchConfig struct {
	MaxExpansions int64 `yaml:"max_expansions"` // 0 = unlimited
	Progress      bool  `yaml:"progress"`
}

// TelemetryConfig holds metric sink settings
type TelemetryConfig struct {
	Enabled        bool   `yaml:"enabled"`
	PushgatewayURL string `yaml:"pushgateway_url"`
	InfluxURL      string `yaml:"influx_url"`
	InfluxToken    string `yaml:"influx_token"` // supports ${ENV_VAR} interpolation
	InfluxOrg      string `yaml:"influx_org"`
	InfluxBucket   string `yaml:"influx_bucket"`
}

// OutputConfig holds plan artifact settings
type OutputConfig struct {
	Directory    string `yaml:"directory"`
	PersistPlans bool   `yaml:"persist_plans"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Search: SearchConfig{
			MaxExpansions: 0,
			Progress:      false,
		},
		Telemetry: TelemetryConfig{
			Enabled:        false,
			PushgatewayURL: "http://localhost:9091",
			InfluxOrg:      "udr",
			InfluxBucket:   "planner",
		},
		Output: OutputConfig{
			Directory:    "./output",
			PersistPlans: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if file doesn't exist
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the config
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ExampleConfig returns a commented example config
func ExampleConfig() string {
	return `# sasplan configuration file
# Priority: CLI flags > config file > defaults

logging:
  # Level: debug, info, warn, error
  level: info

search:
  # Abort after this many expanded nodes (0 = unlimited)
  max_expansions: 0

  # Print phase and expansion progress while solving
  progress: false

telemetry:
  # Push search counters to a Prometheus push-gateway and record
  # one run point per solve in InfluxDB
  enabled: false

  pushgateway_url: http://localhost:9091

  influx_url: http://localhost:8086
  influx_token: ${INFLUX_TOKEN}
  influx_org: udr
  influx_bucket: planner

output:
  # Directory for plan artifacts
  directory: ./output

  # Write a JSON record per solved task
  persist_plans: false
`
}
