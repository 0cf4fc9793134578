package planner

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-planner/pkg/graph"
)

// State is an immutable snapshot of a search branch. Successors are built by
// copying the value; the activated set is a bitset and the action log a shared
// persistent list, so branching never copies history.
type State struct {
	time      int
	budget    int
	score     int
	activated graph.NodeSet
	agents    [MaxAgents]Agent
	count     int
	log       *logEntry
}

// newState places every agent, stationed, at its start site with time zero.
func newState(budget int, starts []Agent) *State {
	if len(starts) > MaxAgents {
		panic(fmt.Sprintf("planner: %d agents exceeds the supported maximum of %d", len(starts), MaxAgents))
	}
	s := &State{budget: budget, count: len(starts)}
	copy(s.agents[:], starts)
	return s
}

func (s *State) Time() int                { return s.time }
func (s *State) Budget() int              { return s.budget }
func (s *State) Score() int               { return s.score }
func (s *State) Activated() graph.NodeSet { return s.activated }
func (s *State) Agents() []Agent          { return s.agents[:s.count] }

// Plan returns the activations made along this branch.
func (s *State) Plan() Plan {
	return s.log.plan()
}

// Terminal reports whether the branch has used its whole budget.
func (s *State) Terminal() bool {
	return s.time >= s.budget
}

// claimed returns the nodes no agent may target: activated nodes plus every
// node another agent occupies or is travelling to.
func (s *State) claimed(except int) graph.NodeSet {
	set := s.activated
	for i, a := range s.Agents() {
		if i != except {
			set |= a.Mask
		}
	}
	return set
}

// mustMove reports whether agent i is ready but has nothing to do where it
// stands: its node is exhausted, or a lower slot already stands on it.
func (s *State) mustMove(i int) bool {
	a := s.agents[i]
	if !a.ready() {
		return false
	}
	if a.IsIdleAtExhaustedNode(s.activated) {
		return true
	}
	for j := 0; j < i; j++ {
		b := s.agents[j]
		if b.ready() && b.Site == a.Site {
			return true
		}
	}
	return false
}

// advanceTime jumps to the soonest pending arrival, or to the budget when no
// agent is moving.
func (s *State) advanceTime() *State {
	next := *s
	t := s.budget
	for _, a := range s.Agents() {
		if a.Kind == Moving && a.Arrival < t {
			t = a.Arrival
		}
	}
	next.time = t
	for i := 0; i < next.count; i++ {
		next.agents[i] = next.agents[i].AdvanceTo(t)
	}
	return &next
}

// with returns a copy of s with agent i replaced.
func (s *State) with(i int, a Agent) *State {
	next := *s
	next.agents[i] = a
	return &next
}

// activate spends one time step while every ready agent on an unactivated
// target activates it. sites resolves site indexes to nodes and rates.
func (s *State) activate(sites []site) *State {
	next := *s
	next.time = s.time + 1

	for i := 0; i < s.count; i++ {
		a := s.agents[i]
		if !a.ready() || !a.IsIdleAtOpenableNode(s.activated) {
			continue
		}
		if next.activated.Has(a.Mask) {
			panic(fmt.Sprintf("planner: node %s activated twice at time %d", sites[a.Site].node, next.time))
		}
		next.activated |= a.Mask
		next.score += (s.budget - next.time) * sites[a.Site].rate
		next.log = &logEntry{
			action: Action{Time: next.time, Agent: i, Node: sites[a.Site].node},
			prev:   next.log,
		}
	}

	for i := 0; i < next.count; i++ {
		next.agents[i] = next.agents[i].AdvanceTo(next.time)
	}
	return &next
}

// pendingScore is the score already guaranteed by moves in flight: each moving
// agent activates its target on arrival.
func (s *State) pendingScore(sites []site) int {
	total := s.score
	for _, a := range s.Agents() {
		if a.Kind != Moving {
			continue
		}
		if left := s.budget - a.Arrival - 1; left > 0 {
			total += left * sites[a.Site].rate
		}
	}
	return total
}

func (s *State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "t=%d/%d s=%d open=%b", s.time, s.budget, s.score, uint64(s.activated))
	for i, a := range s.Agents() {
		switch {
		case a.Done:
			fmt.Fprintf(&b, " [%d done@%d]", i, a.Site)
		case a.Kind == Moving:
			fmt.Fprintf(&b, " [%d ->%d@%d]", i, a.Site, a.Arrival)
		default:
			fmt.Fprintf(&b, " [%d @%d]", i, a.Site)
		}
	}
	return b.String()
}
