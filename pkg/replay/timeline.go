// Package replay rebuilds the timeline behind an action log: per-action gain,
// running score and the route each agent walked. Replaying also checks that
// the log could actually have happened.
package replay

import (
	"fmt"
	"slices"

	"github.com/dd0wney/cluso-planner/pkg/algorithms"
	"github.com/dd0wney/cluso-planner/pkg/graph"
	"github.com/dd0wney/cluso-planner/pkg/planner"
)

// Step is one replayed activation.
type Step struct {
	planner.Action
	Rate int
	// Gain is what this activation adds to the final score.
	Gain int
	// Total is the final-score contribution of every step so far.
	Total int
	// Route is the walk from the agent's previous position, both ends included.
	Route []graph.NodeID
	// Wait is how long the agent stood idle before activating.
	Wait int
	// Open is every node activated once this step is done.
	Open graph.NodeSet
	// Flow is the combined rate of Open.
	Flow int
}

// Timeline is a verified action log.
type Timeline struct {
	Graph  *graph.Graph
	Budget int
	Starts []graph.NodeID
	Steps  []Step
	Score  int
}

// Snapshot is the network state at the end of a time step.
type Snapshot struct {
	Time     int
	Open     graph.NodeSet
	Flow     int
	Released int
}

// Build replays plan for agents starting at starts and checks it: actions in
// time order, known agents, positive-rate nodes activated at most once, every
// activation reachable in time from the agent's previous one and within budget.
func Build(oracle *algorithms.DistanceOracle, budget int, starts []graph.NodeID, plan planner.Plan) (*Timeline, error) {
	g := oracle.Graph()
	if budget < 0 {
		return nil, fmt.Errorf("%w: negative budget %d", ErrInvalidPlan, budget)
	}
	if len(starts) == 0 || len(starts) > planner.MaxAgents {
		return nil, fmt.Errorf("%w: %d agents, want 1 to %d", ErrInvalidPlan, len(starts), planner.MaxAgents)
	}
	for _, s := range starts {
		if !g.Has(s) {
			return nil, fmt.Errorf("%w: unknown start node %s", ErrInvalidPlan, s)
		}
	}

	tl := &Timeline{
		Graph:  g,
		Budget: budget,
		Starts: slices.Clone(starts),
		Steps:  make([]Step, 0, len(plan)),
	}

	pos := slices.Clone(starts)
	free := make([]int, len(starts))
	var open graph.NodeSet
	flow := 0

	for i, a := range plan {
		invalid := func(format string, args ...any) error {
			return fmt.Errorf("%w: action %d (agent %d opens %s at %d): %s",
				ErrInvalidPlan, i, a.Agent, a.Node, a.Time, fmt.Sprintf(format, args...))
		}

		switch {
		case i > 0 && a.Time < plan[i-1].Time:
			return nil, invalid("out of time order")
		case a.Agent < 0 || a.Agent >= len(starts):
			return nil, invalid("no such agent")
		case !g.Has(a.Node):
			return nil, invalid("unknown node")
		case g.Rate(a.Node) == 0:
			return nil, invalid("node has zero rate")
		case open.Has(g.Bit(a.Node)):
			return nil, invalid("node already activated")
		case a.Time > budget:
			return nil, invalid("past the budget of %d", budget)
		}

		from := pos[a.Agent]
		d, ok := oracle.Distance(from, a.Node)
		if !ok {
			return nil, invalid("unreachable from %s", from)
		}
		earliest := free[a.Agent] + d + 1
		if a.Time < earliest {
			return nil, invalid("earliest possible time is %d", earliest)
		}
		route, _ := algorithms.ShortestPath(g, from, a.Node)

		rate := g.Rate(a.Node)
		open |= g.Bit(a.Node)
		flow += rate
		gain := (budget - a.Time) * rate
		tl.Score += gain

		tl.Steps = append(tl.Steps, Step{
			Action: a,
			Rate:   rate,
			Gain:   gain,
			Total:  tl.Score,
			Route:  route,
			Wait:   a.Time - earliest,
			Open:   open,
			Flow:   flow,
		})
		pos[a.Agent] = a.Node
		free[a.Agent] = a.Time
	}

	return tl, nil
}

// At returns the state at the end of time step t, clamped to [0, Budget].
// Released counts what the open nodes have emitted so far, so At(Budget)
// always releases exactly Score.
func (tl *Timeline) At(t int) Snapshot {
	t = max(0, min(t, tl.Budget))
	snap := Snapshot{Time: t}
	for _, s := range tl.Steps {
		if s.Time > t {
			break
		}
		snap.Open |= tl.Graph.Bit(s.Node)
		snap.Flow += s.Rate
		snap.Released += (t - s.Time) * s.Rate
	}
	return snap
}

// AgentSteps returns the steps taken by one agent.
func (tl *Timeline) AgentSteps(agent int) []Step {
	var out []Step
	for _, s := range tl.Steps {
		if s.Agent == agent {
			out = append(out, s)
		}
	}
	return out
}
