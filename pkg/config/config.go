// Package config holds the run configuration shared by the planner commands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-planner/pkg/graph"
	"github.com/dd0wney/cluso-planner/pkg/loader"
	"github.com/dd0wney/cluso-planner/pkg/logging"
	"github.com/dd0wney/cluso-planner/pkg/planner"
	"github.com/dd0wney/cluso-planner/pkg/validation"
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrInvalidFormat  = errors.New("invalid config format")
)

// Config describes one planning run.
type Config struct {
	// Graph is the path of the graph description.
	Graph string `yaml:"graph"`
	// Format overrides extension-based format detection.
	Format    string        `yaml:"format"`
	Budget    int           `yaml:"budget"`
	Agents    []string      `yaml:"agents"`
	Targets   []string      `yaml:"targets"`
	Strategy  string        `yaml:"strategy"`
	Workers   int           `yaml:"workers"`
	MaxStates int           `yaml:"max_states"`
	Timeout   time.Duration `yaml:"timeout"`
	LogLevel  string        `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Budget:   30,
		Agents:   []string{"AA"},
		Strategy: string(planner.StrategyAuto),
		LogLevel: "info",
	}
}

// LoadFile reads a YAML config. Keys missing from the file keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Load(bytes.NewReader(data))
}

// Load reads a YAML config from r, expanding ${VAR} references first.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("config")

	cv.NonNegative("budget", c.Budget).
		CountBetween("agents", len(c.Agents), 1, planner.MaxAgents).
		NonNegative("workers", c.Workers).
		NonNegative("max_states", c.MaxStates).
		MinDuration("timeout", c.Timeout, 0).
		OneOf("log_level", c.LogLevel, []string{"debug", "info", "warn", "error"}).
		Custom("strategy", func() error {
			_, err := planner.ParseStrategy(c.Strategy)
			return err
		}).
		Custom("format", func() error {
			_, err := loader.ParseFormat(c.Format)
			return err
		})

	for i, a := range c.Agents {
		cv.Required(fmt.Sprintf("agents[%d]", i), a)
	}
	for i, t := range c.Targets {
		cv.Required(fmt.Sprintf("targets[%d]", i), t)
	}

	return cv.Validate()
}

// Starts converts the agent list to node ids.
func (c *Config) Starts() []graph.NodeID {
	return toNodeIDs(c.Agents)
}

// SolverOptions translates the config into planner options.
func (c *Config) SolverOptions(logger logging.Logger) []planner.Option {
	strategy, _ := planner.ParseStrategy(c.Strategy)
	opts := []planner.Option{
		planner.WithStrategy(strategy),
		planner.WithWorkers(c.Workers),
		planner.WithMaxStates(c.MaxStates),
		planner.WithLogger(logger),
	}
	if len(c.Targets) > 0 {
		opts = append(opts, planner.WithTargets(toNodeIDs(c.Targets)...))
	}
	return opts
}

func toNodeIDs(ids []string) []graph.NodeID {
	out := make([]graph.NodeID, len(ids))
	for i, id := range ids {
		out[i] = graph.NodeID(id)
	}
	return out
}
