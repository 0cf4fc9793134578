package planner

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/dd0wney/cluso-planner/pkg/algorithms"
	"github.com/dd0wney/cluso-planner/pkg/graph"
)

// exampleGraph is the ten node network with six positive-rate nodes used
// throughout the planner tests.
func exampleGraph(t testing.TB) *graph.Graph {
	t.Helper()
	g, err := graph.New([]graph.Node{
		{ID: "AA", Rate: 0, Neighbors: []graph.NodeID{"DD", "II", "BB"}},
		{ID: "BB", Rate: 13, Neighbors: []graph.NodeID{"CC", "AA"}},
		{ID: "CC", Rate: 2, Neighbors: []graph.NodeID{"DD", "BB"}},
		{ID: "DD", Rate: 20, Neighbors: []graph.NodeID{"CC", "AA", "EE"}},
		{ID: "EE", Rate: 3, Neighbors: []graph.NodeID{"FF", "DD"}},
		{ID: "FF", Rate: 0, Neighbors: []graph.NodeID{"EE", "GG"}},
		{ID: "GG", Rate: 0, Neighbors: []graph.NodeID{"FF", "HH"}},
		{ID: "HH", Rate: 22, Neighbors: []graph.NodeID{"GG"}},
		{ID: "II", Rate: 0, Neighbors: []graph.NodeID{"AA", "JJ"}},
		{ID: "JJ", Rate: 21, Neighbors: []graph.NodeID{"II"}},
	})
	if err != nil {
		t.Fatalf("Failed to build example graph: %v", err)
	}
	return g
}

// mustGraph builds a graph or fails the test.
func mustGraph(t testing.TB, nodes ...graph.Node) *graph.Graph {
	t.Helper()
	g, err := graph.New(nodes)
	if err != nil {
		t.Fatalf("Failed to build graph: %v", err)
	}
	return g
}

// chainGraph links n nodes N00..N(n-1) in a line, each with the given rate.
func chainGraph(t testing.TB, n, rate int) *graph.Graph {
	t.Helper()
	nodes := make([]graph.Node, n)
	for i := range nodes {
		nodes[i] = graph.Node{ID: graph.NodeID(fmt.Sprintf("N%02d", i)), Rate: rate}
		if i > 0 {
			nodes[i].Neighbors = []graph.NodeID{nodes[i-1].ID}
		}
	}
	return mustGraph(t, nodes...)
}

func newExampleEngine(t testing.TB, budget int, starts ...graph.NodeID) (*Engine, *graph.Graph) {
	t.Helper()
	g := exampleGraph(t)
	e, err := NewEngine(algorithms.NewDistanceOracle(g), budget, g.UsefulSet(), starts)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return e, g
}

// randomProblem is a small random graph with a budget and two start nodes.
// Graphs may be disconnected and starts may sit on positive-rate nodes.
type randomProblem struct {
	nodes  []graph.Node
	budget int
	starts [2]graph.NodeID
}

func (p randomProblem) String() string {
	return fmt.Sprintf("budget=%d starts=%v nodes=%v", p.budget, p.starts, p.nodes)
}

func newRandomProblem(seed int64) randomProblem {
	rng := rand.New(rand.NewSource(seed))
	n := 1 + rng.Intn(7)
	rates := []int{0, 0, 1, 5, 9}

	// Ids first, so extra edges may point at any node.
	nodes := make([]graph.Node, n)
	for i := range nodes {
		nodes[i].ID = graph.NodeID(rune('A' + i))
	}
	for i := range nodes {
		nodes[i].Rate = rates[rng.Intn(len(rates))]
		if i > 0 && rng.Intn(10) != 0 {
			nodes[i].Neighbors = append(nodes[i].Neighbors, nodes[rng.Intn(i)].ID)
		}
		for extra := rng.Intn(3); extra > 0; extra-- {
			nodes[i].Neighbors = append(nodes[i].Neighbors, nodes[rng.Intn(n)].ID)
		}
	}

	return randomProblem{
		nodes:  nodes,
		budget: rng.Intn(13),
		starts: [2]graph.NodeID{nodes[rng.Intn(n)].ID, nodes[rng.Intn(n)].ID},
	}
}

func (p randomProblem) graph() *graph.Graph {
	g, err := graph.New(p.nodes)
	if err != nil {
		panic(err)
	}
	return g
}

// bruteForce is an exhaustive reference: one agent, every ordering of the
// allowed nodes it can reach in time.
func bruteForce(g *graph.Graph, budget int, start graph.NodeID, allowed graph.NodeSet) int {
	oracle := algorithms.NewDistanceOracle(g)
	best := 0
	var visit func(at graph.NodeID, now int, left graph.NodeSet, score int)
	visit = func(at graph.NodeID, now int, left graph.NodeSet, score int) {
		best = max(best, score)
		for _, next := range left.Members(g) {
			d, ok := oracle.Distance(at, next)
			if !ok || now+d+1 > budget {
				continue
			}
			done := now + d + 1
			visit(next, done, left.Without(g.Bit(next)), score+(budget-done)*g.Rate(next))
		}
	}
	visit(start, 0, allowed&g.UsefulSet(), 0)
	return best
}

// bruteForcePair splits the useful nodes every possible way between two
// exhaustive single-agent searches.
func bruteForcePair(g *graph.Graph, budget int, a, b graph.NodeID) int {
	useful := g.Useful()
	best := 0
	for k := 0; k < 1<<len(useful); k++ {
		var left graph.NodeSet
		for i, id := range useful {
			if k&(1<<i) != 0 {
				left |= g.Bit(id)
			}
		}
		right := g.UsefulSet().Without(left)
		best = max(best, bruteForce(g, budget, a, left)+bruteForce(g, budget, b, right))
	}
	return best
}
