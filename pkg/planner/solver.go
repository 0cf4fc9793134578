package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-planner/pkg/algorithms"
	"github.com/dd0wney/cluso-planner/pkg/graph"
	"github.com/dd0wney/cluso-planner/pkg/logging"
	"github.com/dd0wney/cluso-planner/pkg/metrics"
)

// Result is the outcome of a solve.
type Result struct {
	RunID    string
	Score    int
	Plan     Plan
	Stats    Stats
	Strategy Strategy
	// Split holds each agent's node subset when the decomposer ran.
	Split [2]graph.NodeSet
}

// Solver answers best-score queries over one graph. It is safe for concurrent
// use; every Solve gets its own frontier and dominance table while the
// distance oracle cache is shared.
type Solver struct {
	graph  *graph.Graph
	oracle *algorithms.DistanceOracle
	opts   Options
}

// NewSolver creates a solver for g.
func NewSolver(g *graph.Graph, opts ...Option) *Solver {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = logging.NewNopLogger()
	}

	oracle := o.Oracle
	if oracle == nil || oracle.Graph() != g {
		oracle = algorithms.NewDistanceOracle(g)
	}

	return &Solver{graph: g, oracle: oracle, opts: o}
}

// Graph returns the solver's graph.
func (s *Solver) Graph() *graph.Graph {
	return s.graph
}

// Oracle returns the solver's distance oracle.
func (s *Solver) Oracle() *algorithms.DistanceOracle {
	return s.oracle
}

// Solve returns the best achievable score for agents starting at starts within
// budget time steps, along with the plan that achieves it.
func (s *Solver) Solve(ctx context.Context, budget int, starts ...graph.NodeID) (*Result, error) {
	if err := s.validate(budget, starts); err != nil {
		return nil, err
	}
	allowed, err := s.allowed()
	if err != nil {
		return nil, err
	}

	strategy, err := ParseStrategy(string(s.opts.Strategy))
	if err != nil {
		return nil, err
	}
	if strategy == StrategyAuto {
		strategy = StrategyJoint
		if len(starts) == 2 {
			strategy = StrategyDecompose
		}
	}
	if len(starts) == 1 {
		strategy = StrategyJoint
	}

	runID := uuid.NewString()
	logger := s.opts.Logger.With(logging.Component("planner"), logging.RunID(runID))
	timer := logging.StartTimer(logger, "solve finished",
		logging.Strategy(string(strategy)),
		logging.Budget(budget),
		logging.Agents(nodeStrings(starts)),
	)

	var result *Result
	switch strategy {
	case StrategyDecompose:
		d := &decomposer{
			oracle:    s.oracle,
			budget:    budget,
			starts:    starts,
			members:   allowed.Members(s.graph),
			workers:   s.opts.Workers,
			maxStates: s.opts.MaxStates,
			logger:    logger,
		}
		result, err = d.run(ctx)
	case StrategyJoint:
		result, err = s.searchJoint(ctx, budget, allowed, starts)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	s.record(strategy, timer, result, err)
	if err != nil {
		timer.EndError(err)
		if result != nil {
			result.RunID = runID
		}
		return result, err
	}

	result.RunID = runID
	if result.Stats.Truncated {
		logger.Warn("search truncated by state limit", logging.Int("max_states", s.opts.MaxStates))
	}
	timer.End(
		logging.Score(result.Score),
		logging.Int("explored", result.Stats.Explored),
		logging.Int("pruned", result.Stats.Pruned),
	)
	return result, nil
}

// searchJoint runs one engine carrying every agent.
func (s *Solver) searchJoint(ctx context.Context, budget int, allowed graph.NodeSet, starts []graph.NodeID) (*Result, error) {
	e, err := NewEngine(s.oracle, budget, allowed, starts)
	if err != nil {
		return nil, err
	}
	e.SetMaxStates(s.opts.MaxStates)

	best, stats, err := e.Run(ctx)
	result := &Result{
		Score:    best.Score(),
		Plan:     best.Plan(),
		Stats:    stats,
		Strategy: StrategyJoint,
	}
	return result, err
}

func (s *Solver) validate(budget int, starts []graph.NodeID) error {
	if len(starts) == 0 {
		return ErrNoAgents
	}
	if len(starts) > MaxAgents {
		return fmt.Errorf("%w: %d exceeds %d", ErrTooManyAgents, len(starts), MaxAgents)
	}
	if budget < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeBudget, budget)
	}
	for _, id := range starts {
		if !s.graph.Has(id) {
			return fmt.Errorf("%w: %s", ErrUnknownStart, id)
		}
	}
	return nil
}

// allowed resolves the target restriction into a NodeSet.
func (s *Solver) allowed() (graph.NodeSet, error) {
	if len(s.opts.Targets) == 0 {
		return s.graph.UsefulSet(), nil
	}
	for _, id := range s.opts.Targets {
		if !s.graph.Has(id) {
			return 0, fmt.Errorf("%w: %s", ErrUnknownTarget, id)
		}
	}
	return s.graph.SetOf(s.opts.Targets...), nil
}

func (s *Solver) record(strategy Strategy, timer *logging.TimedOperation, result *Result, err error) {
	if s.opts.Metrics == nil {
		return
	}

	sample := metrics.SearchSample{
		Strategy: string(strategy),
		Status:   "success",
		Duration: timer.Elapsed(),
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		sample.Status = "cancelled"
	case err != nil:
		sample.Status = "error"
	}
	if result != nil {
		sample.Score = result.Score
		sample.Explored = result.Stats.Explored
		sample.Pruned = result.Stats.Pruned
		sample.PeakFrontier = result.Stats.PeakFrontier
		sample.Splits = result.Stats.Splits
		sample.Truncated = result.Stats.Truncated
	}
	s.opts.Metrics.RecordSearch(sample)

	cache := s.oracle.Stats()
	s.opts.Metrics.UpdateOracle(cache.Sources, cache.Hits, cache.Misses)
}

func nodeStrings(ids []graph.NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
