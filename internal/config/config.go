/*
PURPOSE:
  Defines the configuration structure and loading logic for streambench.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Allow configuration of target API base, endpoint, sample count,
    concurrency, timeout, pricing model, and output paths.
  - CLI flags must override file values.

  Implementation-discovered:
  - Needs to support YAML parsing for the optional config file.
  - yaml.v3 cannot unmarshal into time.Duration, so duration fields use a
    wrapper type accepting "30s" strings or integer milliseconds (the same
    unit as the --timeout flag).
  - Samples and concurrency must be validated before a run starts; a bad
    value is a fatal error, not a per-request failure.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing config file falls back to defaults (flags may supply the rest).

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults should be sensible (30s timeout, 100ms batch pause).

USAGE:
  cfg, err := config.Load("streambench.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update Load() defaults.

RELATED FILES:
  - internal/cli/run.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Version is stamped into every report's metadata.
const Version = "0.3.0"

// Duration wraps time.Duration so it can be set from YAML. It accepts a
// time.ParseDuration string ("30s", "100ms") or a bare integer, which is
// read as milliseconds to match the --timeout flag.
type Duration time.Duration

// Duration returns the wrapped time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var ms int64
	if err := value.Decode(&ms); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration at line %d: expected a string or integer milliseconds", value.Line)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config represents the full configuration for a streambench run.
// It is constructed once at startup and treated as immutable afterwards.
type Config struct {
	APIBase      string   `yaml:"api_base"`
	Endpoint     string   `yaml:"endpoint"`
	Samples      int      `yaml:"samples"`
	Concurrent   int      `yaml:"concurrent"`
	Timeout      Duration `yaml:"timeout"`
	AuthToken    string   `yaml:"auth_token"`
	Model        string   `yaml:"model"`
	Output       string   `yaml:"output"`
	CSVOutput    string   `yaml:"csv_output"`
	ScenarioFile string   `yaml:"scenario_file"`
	BatchPause   Duration `yaml:"batch_pause"`
	Verbose      bool     `yaml:"verbose"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		APIBase:    "http://localhost:3000/api",
		Endpoint:   "ai/stream",
		Samples:    50,
		Concurrent: 5,
		Timeout:    Duration(30 * time.Second),
		Model:      "gpt-3.5-turbo",
		Output:     "results/performance.json",
		BatchPause: Duration(100 * time.Millisecond),
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		defaults := []string{"streambench.yaml", "streambench.yml"}
		found := false
		for _, name := range defaults {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the constraints a run cannot start without.
func (c *Config) Validate() error {
	if c.Samples <= 0 {
		return fmt.Errorf("samples must be > 0 (got %d)", c.Samples)
	}
	if c.Concurrent <= 0 {
		return fmt.Errorf("concurrent must be > 0 (got %d)", c.Concurrent)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", c.Timeout)
	}
	if c.APIBase == "" {
		return fmt.Errorf("api base must not be empty")
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	if c.Output == "" {
		return fmt.Errorf("output path must not be empty")
	}
	return nil
}
