package planner

import (
	"context"
	"fmt"

	"github.com/dd0wney/cluso-planner/pkg/algorithms"
	"github.com/dd0wney/cluso-planner/pkg/graph"
)

// ctxCheckInterval is how many popped states pass between context checks.
const ctxCheckInterval = 4096

// unreachable marks a site pair with no connecting path.
const unreachable = -1

// site is one node the search can stand on: an agent start or a target.
type site struct {
	node graph.NodeID
	rate int
	mask graph.NodeSet
}

// Stats describes the work a search did.
type Stats struct {
	Explored      int
	Pruned        int
	PeakFrontier  int
	Splits        int
	Searches      int
	DominanceKeys int
	Truncated     bool
}

func (s *Stats) add(o Stats) {
	s.Explored += o.Explored
	s.Pruned += o.Pruned
	s.Splits += o.Splits
	s.Searches += o.Searches
	s.DominanceKeys += o.DominanceKeys
	if o.PeakFrontier > s.PeakFrontier {
		s.PeakFrontier = o.PeakFrontier
	}
	s.Truncated = s.Truncated || o.Truncated
}

// Engine explores the search states of one problem: a budget, the agents'
// start nodes and the set of nodes they may activate.
type Engine struct {
	budget    int
	sites     []site
	targets   []int
	dist      [][]int
	starts    []Agent
	maxStates int

	frontier []*State
	seen     *DominanceTable
	stats    Stats
}

// NewEngine prepares a search over the targets in allowed (the intersection
// with the graph's useful nodes), with agents starting at starts. Distances
// come from oracle and are copied into a dense site table once.
func NewEngine(oracle *algorithms.DistanceOracle, budget int, allowed graph.NodeSet, starts []graph.NodeID) (*Engine, error) {
	if len(starts) == 0 {
		return nil, ErrNoAgents
	}
	if len(starts) > MaxAgents {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyAgents, len(starts), MaxAgents)
	}
	if budget < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeBudget, budget)
	}

	g := oracle.Graph()
	allowed &= g.UsefulSet()

	e := &Engine{
		budget: budget,
		seen:   NewDominanceTable(),
	}

	for _, id := range allowed.Members(g) {
		e.targets = append(e.targets, len(e.sites))
		e.sites = append(e.sites, site{node: id, rate: g.Rate(id), mask: g.Bit(id)})
	}
	// Start sites never carry a mask, even on a target node: activating where
	// an agent starts is a zero-length dispatch, so skipping it stays possible.
	index := make(map[graph.NodeID]int)
	for _, id := range starts {
		if !g.Has(id) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStart, id)
		}
		i, ok := index[id]
		if !ok {
			i = len(e.sites)
			index[id] = i
			e.sites = append(e.sites, site{node: id, rate: g.Rate(id)})
		}
		e.starts = append(e.starts, StationAt(i, 0))
	}

	e.dist = make([][]int, len(e.sites))
	for i, from := range e.sites {
		e.dist[i] = make([]int, len(e.sites))
		for j, to := range e.sites {
			d, ok := oracle.Distance(from.node, to.node)
			if !ok {
				d = unreachable
			}
			e.dist[i][j] = d
		}
	}

	return e, nil
}

// SetMaxStates caps the number of states explored; 0 means unlimited.
func (e *Engine) SetMaxStates(n int) {
	e.maxStates = n
}

// Initial returns the starting state: time zero, nothing activated, every
// agent stationed at its start.
func (e *Engine) Initial() *State {
	return newState(e.budget, e.starts)
}

// Run explores every non-dominated branch and returns the best state found.
// When ctx is cancelled the best state so far is returned with ctx's error.
// Hitting the state ceiling is not an error; Stats.Truncated is set instead.
func (e *Engine) Run(ctx context.Context) (*State, Stats, error) {
	best := e.Initial()
	if err := ctx.Err(); err != nil {
		return best, e.finish(), err
	}
	e.frontier = append(e.frontier[:0], best)

	for len(e.frontier) > 0 {
		s := e.frontier[len(e.frontier)-1]
		e.frontier[len(e.frontier)-1] = nil
		e.frontier = e.frontier[:len(e.frontier)-1]
		e.stats.Explored++

		if s.score > best.score {
			best = s
		}
		if s.Terminal() {
			continue
		}

		if e.maxStates > 0 && e.stats.Explored >= e.maxStates {
			e.stats.Truncated = true
			break
		}
		if e.stats.Explored%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return best, e.finish(), err
			}
		}

		e.expand(s)
		if len(e.frontier) > e.stats.PeakFrontier {
			e.stats.PeakFrontier = len(e.frontier)
		}
	}

	return best, e.finish(), nil
}

func (e *Engine) finish() Stats {
	e.stats.Searches = 1
	e.stats.DominanceKeys = e.seen.Len()
	return e.stats
}

// expand pushes the successors of s using the first rule that applies:
// advance time when no agent can act, dispatch the lowest slot that has to
// move, otherwise activate.
func (e *Engine) expand(s *State) {
	mover, openable := -1, false
	for i, a := range s.Agents() {
		if s.mustMove(i) {
			mover = i
			break
		}
		if a.ready() && a.IsIdleAtOpenableNode(s.activated) {
			openable = true
		}
	}

	switch {
	case mover >= 0:
		e.dispatch(s, mover)
	case openable:
		e.frontier = append(e.frontier, s.activate(e.sites))
	default:
		e.frontier = append(e.frontier, s.advanceTime())
	}
}

// dispatch branches on every destination agent i can still reach in time.
// A destination at distance zero is the agent's own start node; the agent
// claims it in place. An agent with no destination left is retired. With
// several agents, retiring is always offered so an agent never has to take a
// node its partner needs.
func (e *Engine) dispatch(s *State, i int) {
	a := s.agents[i]
	claimed := s.claimed(i)
	candidates := 0

	for _, t := range e.targets {
		target := e.sites[t]
		if t == a.Site || claimed&target.mask != 0 {
			continue
		}
		d := e.dist[a.Site][t]
		if d == unreachable || s.time+d > s.budget {
			continue
		}
		candidates++

		if d == 0 {
			e.push(s.with(i, StationAt(t, target.mask)))
			continue
		}
		e.push(s.with(i, a.MoveTo(t, target.mask, s.time+d, s.time)))
	}

	if candidates == 0 || s.count > 1 {
		retired := a
		retired.Done = true
		e.push(s.with(i, retired))
	}
}

// push enqueues a committed successor unless it is dominated.
func (e *Engine) push(s *State) {
	if !e.seen.admit(s, e.sites) {
		e.stats.Pruned++
		return
	}
	e.frontier = append(e.frontier, s)
}
