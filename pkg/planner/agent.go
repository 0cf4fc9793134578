package planner

import (
	"fmt"

	"github.com/dd0wney/cluso-planner/pkg/graph"
)

// MaxAgents is the largest number of agents a search can carry.
const MaxAgents = 2

// AgentKind tags the variant held by an Agent.
type AgentKind uint8

const (
	// Stationed agents occupy Site and are idle.
	Stationed AgentKind = iota
	// Moving agents are travelling to Site and arrive at Arrival.
	Moving
)

func (k AgentKind) String() string {
	switch k {
	case Stationed:
		return "stationed"
	case Moving:
		return "moving"
	default:
		return "unknown"
	}
}

// Agent is the position of one agent: either stationed at a site or moving
// toward one. Site indexes the search's site table; Mask is the site's bit when
// it is an activation target in the current search, zero otherwise.
type Agent struct {
	Kind    AgentKind
	Site    int
	Mask    graph.NodeSet
	Arrival int
	// Done marks an agent that will not act again in this branch.
	Done bool
}

// StationAt returns an idle agent at site.
func StationAt(site int, mask graph.NodeSet) Agent {
	return Agent{Kind: Stationed, Site: site, Mask: mask}
}

// MoveTo starts a move toward site, arriving at arrival. The arrival must be
// strictly after now.
func (a Agent) MoveTo(site int, mask graph.NodeSet, arrival, now int) Agent {
	if arrival <= now {
		panic(fmt.Sprintf("planner: move arrival %d is not after current time %d", arrival, now))
	}
	return Agent{Kind: Moving, Site: site, Mask: mask, Arrival: arrival}
}

// AdvanceTo returns the agent as it stands at time t. Moving agents become
// stationed exactly at their arrival; advancing past it is a logic error.
func (a Agent) AdvanceTo(t int) Agent {
	if a.Kind != Moving {
		return a
	}
	if t > a.Arrival {
		panic(fmt.Sprintf("planner: advanced to %d past arrival %d at site %d", t, a.Arrival, a.Site))
	}
	if t == a.Arrival {
		return Agent{Kind: Stationed, Site: a.Site, Mask: a.Mask}
	}
	return a
}

// IsIdleAtExhaustedNode reports whether the agent is stationed where there is
// nothing left to do: a zero-rate node, a non-target, or an activated node.
func (a Agent) IsIdleAtExhaustedNode(activated graph.NodeSet) bool {
	return a.Kind == Stationed && (a.Mask == 0 || activated.Has(a.Mask))
}

// IsIdleAtOpenableNode reports whether the agent is stationed on an
// unactivated target.
func (a Agent) IsIdleAtOpenableNode(activated graph.NodeSet) bool {
	return a.Kind == Stationed && a.Mask != 0 && !activated.Has(a.Mask)
}

// ready reports whether the agent can still take an action.
func (a Agent) ready() bool {
	return a.Kind == Stationed && !a.Done
}
