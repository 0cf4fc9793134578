package algorithms

import (
	"sync"
	"sync/atomic"

	"github.com/dd0wney/cluso-planner/pkg/graph"
)

// DistanceOracle answers hop-count queries between nodes of a static graph.
// Distances from a source are computed with one BFS on first use and cached
// for the life of the oracle. Safe for concurrent use.
type DistanceOracle struct {
	graph *graph.Graph

	mu    sync.RWMutex
	cache map[graph.NodeID]map[graph.NodeID]int

	hits   atomic.Int64
	misses atomic.Int64
}

// OracleStats reports cache behaviour.
type OracleStats struct {
	Sources int
	Hits    int64
	Misses  int64
}

// NewDistanceOracle creates an oracle over g.
func NewDistanceOracle(g *graph.Graph) *DistanceOracle {
	return &DistanceOracle{
		graph: g,
		cache: make(map[graph.NodeID]map[graph.NodeID]int),
	}
}

// Graph returns the graph the oracle answers for.
func (o *DistanceOracle) Graph() *graph.Graph {
	return o.graph
}

// Distance returns the minimum number of steps from a to b. ok is false when
// either node is unknown or b is unreachable from a.
func (o *DistanceOracle) Distance(a, b graph.NodeID) (steps int, ok bool) {
	steps, ok = o.from(a)[b]
	return steps, ok
}

// from returns the cached distance table for source, computing it on a miss.
func (o *DistanceOracle) from(source graph.NodeID) map[graph.NodeID]int {
	o.mu.RLock()
	table, ok := o.cache[source]
	o.mu.RUnlock()
	if ok {
		o.hits.Add(1)
		return table
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	// Another goroutine may have filled it while we waited for the lock
	if table, ok = o.cache[source]; ok {
		o.hits.Add(1)
		return table
	}

	o.misses.Add(1)
	table = AllShortestPaths(o.graph, source)
	o.cache[source] = table
	return table
}

// Stats returns a snapshot of the cache counters.
func (o *DistanceOracle) Stats() OracleStats {
	o.mu.RLock()
	sources := len(o.cache)
	o.mu.RUnlock()

	return OracleStats{
		Sources: sources,
		Hits:    o.hits.Load(),
		Misses:  o.misses.Load(),
	}
}
