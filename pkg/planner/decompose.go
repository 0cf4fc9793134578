package planner

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/dd0wney/cluso-planner/pkg/algorithms"
	"github.com/dd0wney/cluso-planner/pkg/graph"
	"github.com/dd0wney/cluso-planner/pkg/logging"
	"github.com/dd0wney/cluso-planner/pkg/parallel"
)

// subsetResult is the best single-agent outcome over one subset of nodes.
type subsetResult struct {
	score int
	plan  Plan
	stats Stats
}

// decomposer solves the two-agent problem as independent single-agent
// searches over complementary subsets of the useful nodes.
type decomposer struct {
	oracle    *algorithms.DistanceOracle
	budget    int
	starts    []graph.NodeID
	members   []graph.NodeID
	workers   int
	maxStates int
	logger    logging.Logger
}

// subset maps a split index onto the matching NodeSet: bit i of k selects
// members[i].
func (d *decomposer) subset(k uint64) graph.NodeSet {
	g := d.oracle.Graph()
	var s graph.NodeSet
	for rest := k; rest != 0; rest &= rest - 1 {
		s |= g.Bit(d.members[bits.TrailingZeros64(rest)])
	}
	return s
}

// run evaluates every split and returns the best combined result. Agent 0
// takes subset k, agent 1 the complement. When ctx ends early, subsets not yet
// searched count as empty, the interrupted ones keep the best they reached,
// and the best combination is returned with ctx's error.
func (d *decomposer) run(ctx context.Context) (*Result, error) {
	if len(d.starts) != 2 {
		panic(fmt.Sprintf("planner: decomposition needs exactly 2 agents, got %d", len(d.starts)))
	}
	if len(d.members) > MaxDecomposeNodes {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrDecompositionTooLarge, len(d.members), MaxDecomposeNodes)
	}

	n := 1 << len(d.members)
	full := uint64(n - 1)
	shared := d.starts[0] == d.starts[1]

	// per[agent][k] is agent's best over subset k. With a shared start both
	// agents face the same problem, so one table serves both.
	per := [2][]subsetResult{make([]subsetResult, n)}
	if shared {
		per[1] = per[0]
	} else {
		per[1] = make([]subsetResult, n)
	}

	sides := 2
	if shared {
		sides = 1
	}
	err := parallel.ForEachChunk(ctx, d.workers, n*sides, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			agent, k := i/n, i%n
			r, err := d.solveSubset(ctx, d.starts[agent], d.subset(uint64(k)))
			per[agent][k] = r
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		return nil, err
	}

	var stats Stats
	for a := 0; a < sides; a++ {
		for k := range per[a] {
			stats.add(per[a][k].stats)
		}
	}
	bestSplit, bestScore := uint64(0), -1
	for k := uint64(0); k <= full; k++ {
		score := per[0][k].score + per[1][full^k].score
		if score > bestScore {
			bestScore, bestSplit = score, k
		}
	}
	stats.Splits = n

	left, right := per[0][bestSplit], per[1][full^bestSplit]
	plan := make(Plan, 0, len(left.plan)+len(right.plan))
	plan = append(plan, left.plan...)
	for _, a := range right.plan {
		a.Agent = 1
		plan = append(plan, a)
	}
	sortPlan(plan)

	d.logger.Debug("decomposition finished",
		logging.Int("splits", n),
		logging.String("agent0_nodes", d.subset(bestSplit).Format(d.oracle.Graph())),
		logging.String("agent1_nodes", d.subset(full^bestSplit).Format(d.oracle.Graph())),
		logging.Score(bestScore),
	)

	return &Result{
		Score:    bestScore,
		Plan:     plan,
		Stats:    stats,
		Strategy: StrategyDecompose,
		Split:    [2]graph.NodeSet{d.subset(bestSplit), d.subset(full ^ bestSplit)},
	}, err
}

// solveSubset runs one single-agent search restricted to subset, with its own
// frontier and dominance table. On cancellation the best state reached so far
// is returned along with the error.
func (d *decomposer) solveSubset(ctx context.Context, start graph.NodeID, subset graph.NodeSet) (subsetResult, error) {
	e, err := NewEngine(d.oracle, d.budget, subset, []graph.NodeID{start})
	if err != nil {
		return subsetResult{}, err
	}
	e.SetMaxStates(d.maxStates)

	best, stats, err := e.Run(ctx)
	return subsetResult{score: best.Score(), plan: best.Plan(), stats: stats}, err
}
