package planner

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-planner/pkg/algorithms"
	"github.com/dd0wney/cluso-planner/pkg/graph"
	"github.com/dd0wney/cluso-planner/pkg/logging"
	"github.com/dd0wney/cluso-planner/pkg/metrics"
)

// Strategy selects how multi-agent problems are searched.
type Strategy string

const (
	// StrategyAuto searches single agents directly and decomposes two.
	StrategyAuto Strategy = "auto"
	// StrategyJoint searches all agents in one state space.
	StrategyJoint Strategy = "joint"
	// StrategyDecompose splits the useful nodes between two agents.
	StrategyDecompose Strategy = "decompose"
)

// ParseStrategy converts a name to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyAuto, StrategyJoint, StrategyDecompose:
		return st, nil
	case "":
		return StrategyAuto, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// MaxDecomposeNodes bounds the number of useful nodes the decomposer will
// split; the number of splits doubles with each node.
const MaxDecomposeNodes = 24

// Options configures a Solver.
type Options struct {
	Strategy  Strategy
	Workers   int
	MaxStates int
	Targets   []graph.NodeID
	Logger    logging.Logger
	Metrics   *metrics.Registry
	Oracle    *algorithms.DistanceOracle
}

// Option mutates Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Strategy: StrategyAuto,
		Logger:   logging.NewNopLogger(),
	}
}

// WithStrategy selects the multi-agent strategy.
func WithStrategy(s Strategy) Option {
	return func(o *Options) { o.Strategy = s }
}

// WithWorkers sets the decomposer's worker count; 0 means one per CPU.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithMaxStates caps the states explored by each engine run; 0 means unlimited.
func WithMaxStates(n int) Option {
	return func(o *Options) { o.MaxStates = n }
}

// WithTargets restricts activation to the given nodes. Zero-rate nodes in the
// list are ignored.
func WithTargets(ids ...graph.NodeID) Option {
	return func(o *Options) { o.Targets = ids }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMetrics records every solve in r.
func WithMetrics(r *metrics.Registry) Option {
	return func(o *Options) { o.Metrics = r }
}

// WithOracle shares an existing distance oracle, and its cache, with the solver.
func WithOracle(oracle *algorithms.DistanceOracle) Option {
	return func(o *Options) { o.Oracle = oracle }
}
