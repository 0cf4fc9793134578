package algorithms

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/dd0wney/cluso-planner/pkg/graph"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestDistanceOracle_Example(t *testing.T) {
	o := NewDistanceOracle(setupTestGraph(t))

	tests := []struct {
		a, b graph.NodeID
		want int
	}{
		{"AA", "AA", 0},
		{"AA", "DD", 1},
		{"DD", "HH", 4},
		{"JJ", "HH", 7},
		{"BB", "EE", 3},
	}

	for _, tt := range tests {
		got, ok := o.Distance(tt.a, tt.b)
		if !ok {
			t.Errorf("%s -> %s: expected reachable", tt.a, tt.b)
			continue
		}
		if got != tt.want {
			t.Errorf("%s -> %s = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDistanceOracle_Unreachable(t *testing.T) {
	g, err := graph.New([]graph.Node{{ID: "A"}, {ID: "B", Rate: 3}})
	if err != nil {
		t.Fatalf("Failed to build graph: %v", err)
	}
	o := NewDistanceOracle(g)

	if _, ok := o.Distance("A", "B"); ok {
		t.Error("Expected A -> B to be unreachable")
	}
	if _, ok := o.Distance("A", "ZZ"); ok {
		t.Error("Expected unknown node to be unreachable")
	}
}

func TestDistanceOracle_Memoizes(t *testing.T) {
	o := NewDistanceOracle(setupTestGraph(t))

	o.Distance("AA", "HH")
	o.Distance("AA", "JJ")
	o.Distance("AA", "BB")

	stats := o.Stats()
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss for a single source, got %d", stats.Misses)
	}
	if stats.Hits != 2 {
		t.Errorf("Expected 2 hits, got %d", stats.Hits)
	}
	if stats.Sources != 1 {
		t.Errorf("Expected 1 cached source, got %d", stats.Sources)
	}
}

func TestDistanceOracle_ConcurrentAccess(t *testing.T) {
	g := setupTestGraph(t)
	o := NewDistanceOracle(g)
	nodes := g.Nodes()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, a := range nodes {
				for _, b := range nodes {
					o.Distance(a, b)
				}
			}
		}()
	}
	wg.Wait()

	if got := o.Stats().Sources; got != len(nodes) {
		t.Errorf("Expected %d cached sources, got %d", len(nodes), got)
	}
	if got := o.Stats().Misses; got != int64(len(nodes)) {
		t.Errorf("Expected each source computed once, got %d misses", got)
	}
}

// randomConnectedGraph builds a connected graph from a seed: a random spanning
// tree plus a few extra edges.
func randomConnectedGraph(seed int64) *graph.Graph {
	rng := rand.New(rand.NewSource(seed))
	n := 2 + rng.Intn(10)

	nodes := make([]graph.Node, n)
	for i := range nodes {
		nodes[i].ID = graph.NodeID(rune('A' + i))
		nodes[i].Rate = rng.Intn(4)
	}
	for i := 1; i < n; i++ {
		parent := rng.Intn(i)
		nodes[i].Neighbors = append(nodes[i].Neighbors, nodes[parent].ID)
	}
	for extra := rng.Intn(n); extra > 0; extra-- {
		a, b := rng.Intn(n), rng.Intn(n)
		nodes[a].Neighbors = append(nodes[a].Neighbors, nodes[b].ID)
	}

	g, err := graph.New(nodes)
	if err != nil {
		panic(err)
	}
	return g
}

// TestDistanceInvariants verifies metric properties on random connected graphs
func TestDistanceInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("distance is symmetric and zero on the diagonal", prop.ForAll(
		func(seed int64) bool {
			g := randomConnectedGraph(seed)
			o := NewDistanceOracle(g)
			for _, a := range g.Nodes() {
				if d, ok := o.Distance(a, a); !ok || d != 0 {
					return false
				}
				for _, b := range g.Nodes() {
					ab, okAB := o.Distance(a, b)
					ba, okBA := o.Distance(b, a)
					if !okAB || !okBA || ab != ba {
						return false
					}
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.Property("distance satisfies the triangle inequality", prop.ForAll(
		func(seed int64) bool {
			g := randomConnectedGraph(seed)
			o := NewDistanceOracle(g)
			nodes := g.Nodes()
			for _, a := range nodes {
				for _, b := range nodes {
					for _, c := range nodes {
						ac, _ := o.Distance(a, c)
						ab, _ := o.Distance(a, b)
						bc, _ := o.Distance(b, c)
						if ac > ab+bc {
							return false
						}
					}
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.Property("bidirectional route length equals oracle distance", prop.ForAll(
		func(seed int64) bool {
			g := randomConnectedGraph(seed)
			o := NewDistanceOracle(g)
			for _, a := range g.Nodes() {
				for _, b := range g.Nodes() {
					path, ok := ShortestPath(g, a, b)
					d, _ := o.Distance(a, b)
					if !ok || len(path)-1 != d {
						return false
					}
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
