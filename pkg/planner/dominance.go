package planner

import "github.com/dd0wney/cluso-planner/pkg/graph"

// agentKey is the part of an agent that decides its future.
type agentKey struct {
	kind    AgentKind
	done    bool
	site    int32
	arrival int32
}

// dominanceKey identifies branches with identical futures: the same
// prospective activation set, the same agent configuration (slot order
// ignored, since agents are interchangeable) and, while some agent is still
// stationed and ready, the same current time.
type dominanceKey struct {
	set    graph.NodeSet
	time   int32
	agents [MaxAgents]agentKey
}

// DominanceTable remembers the best guaranteed score seen per key. One table
// is shared by every branch of a single search and is never reset mid-search.
// It is not safe for concurrent use; parallel searches each own one.
type DominanceTable struct {
	seen map[dominanceKey]int
}

// NewDominanceTable creates an empty table.
func NewDominanceTable() *DominanceTable {
	return &DominanceTable{seen: make(map[dominanceKey]int)}
}

// Len returns the number of distinct keys recorded.
func (t *DominanceTable) Len() int {
	return len(t.seen)
}

// admit records s and reports whether it should be explored. A state is
// rejected when a previous state with the same key guaranteed at least as much.
func (t *DominanceTable) admit(s *State, sites []site) bool {
	key := keyOf(s)
	value := s.pendingScore(sites)
	if best, ok := t.seen[key]; ok && best >= value {
		return false
	}
	t.seen[key] = value
	return true
}

func keyOf(s *State) dominanceKey {
	key := dominanceKey{set: s.activated, time: -1}

	for i, a := range s.Agents() {
		k := agentKey{kind: a.Kind, done: a.Done, site: int32(a.Site)}
		switch {
		case a.Done:
			k.site = -1
		case a.Kind == Moving:
			key.set |= a.Mask
			k.arrival = int32(a.Arrival)
		default:
			key.time = int32(s.time)
		}
		key.agents[i] = k
	}

	// Canonical slot order
	for i := 1; i < s.count; i++ {
		for j := i; j > 0 && lessAgentKey(key.agents[j], key.agents[j-1]); j-- {
			key.agents[j], key.agents[j-1] = key.agents[j-1], key.agents[j]
		}
	}
	return key
}

func lessAgentKey(a, b agentKey) bool {
	if a.kind != b.kind {
		return a.kind < b.kind
	}
	if a.done != b.done {
		return !a.done
	}
	if a.site != b.site {
		return a.site < b.site
	}
	return a.arrival < b.arrival
}
