package planner

import (
	"cmp"
	"slices"

	"github.com/dd0wney/cluso-planner/pkg/graph"
)

// Action records one activation: Agent (slot) finished activating Node at Time.
type Action struct {
	Time  int
	Agent int
	Node  graph.NodeID
}

// Plan is a chronological list of activations.
type Plan []Action

// sortPlan orders actions by time, then by agent slot.
func sortPlan(p Plan) {
	slices.SortStableFunc(p, func(a, b Action) int {
		if c := cmp.Compare(a.Time, b.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.Agent, b.Agent)
	})
}

// Score recomputes the value of a plan under budget.
func (p Plan) Score(g *graph.Graph, budget int) int {
	total := 0
	for _, a := range p {
		total += (budget - a.Time) * g.Rate(a.Node)
	}
	return total
}

// Nodes returns the activated nodes in plan order.
func (p Plan) Nodes() []graph.NodeID {
	out := make([]graph.NodeID, len(p))
	for i, a := range p {
		out[i] = a.Node
	}
	return out
}

// logEntry is a persistent list cell; successor states share their parent's
// history and prepend only what they add.
type logEntry struct {
	action Action
	prev   *logEntry
}

func (l *logEntry) plan() Plan {
	n := 0
	for e := l; e != nil; e = e.prev {
		n++
	}
	out := make(Plan, n)
	for e := l; e != nil; e = e.prev {
		n--
		out[n] = e.action
	}
	sortPlan(out)
	return out
}
