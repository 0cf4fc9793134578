package graph

import (
	"fmt"
	"slices"
)

// New builds a Graph from a node list. Every listed edge is made traversable in
// both directions. Useful nodes are assigned NodeSet bits in ascending ID order.
func New(nodes []Node) (*Graph, error) {
	g := &Graph{
		order:     make([]NodeID, 0, len(nodes)),
		rates:     make(map[NodeID]int, len(nodes)),
		adjacency: make(map[NodeID][]NodeID, len(nodes)),
		bits:      make(map[NodeID]int),
	}

	for _, n := range nodes {
		if n.ID == "" {
			return nil, ErrEmptyNodeID
		}
		if _, exists := g.rates[n.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		if n.Rate < 0 {
			return nil, fmt.Errorf("%w: node %s has rate %d", ErrNegativeRate, n.ID, n.Rate)
		}
		g.order = append(g.order, n.ID)
		g.rates[n.ID] = n.Rate
	}

	for _, n := range nodes {
		for _, nb := range n.Neighbors {
			if _, ok := g.rates[nb]; !ok {
				return nil, fmt.Errorf("%w: %s (neighbor of %s)", ErrUnknownNode, nb, n.ID)
			}
			g.link(n.ID, nb)
			g.link(nb, n.ID)
		}
	}

	for _, id := range g.order {
		if g.rates[id] > 0 {
			g.useful = append(g.useful, id)
		}
	}
	if len(g.useful) > MaxUsefulNodes {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyUsefulNodes, len(g.useful), MaxUsefulNodes)
	}
	slices.Sort(g.useful)
	for i, id := range g.useful {
		g.bits[id] = i
	}

	return g, nil
}

// link adds a directed adjacency entry, skipping duplicates and self loops.
func (g *Graph) link(from, to NodeID) {
	if from == to || slices.Contains(g.adjacency[from], to) {
		return
	}
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Has reports whether id names a node of the graph.
func (g *Graph) Has(id NodeID) bool {
	_, ok := g.rates[id]
	return ok
}

// Rate returns the activation rate of a node, or 0 for unknown nodes.
func (g *Graph) Rate(id NodeID) int {
	return g.rates[id]
}

// Neighbors returns the nodes adjacent to id. The slice must not be modified.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	return g.adjacency[id]
}

// Nodes returns all node identifiers in load order.
func (g *Graph) Nodes() []NodeID {
	return slices.Clone(g.order)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Useful returns the positive-rate nodes in bit order.
func (g *Graph) Useful() []NodeID {
	return slices.Clone(g.useful)
}

// UsefulSet returns the NodeSet containing every positive-rate node.
func (g *Graph) UsefulSet() NodeSet {
	if len(g.useful) == MaxUsefulNodes {
		return ^NodeSet(0)
	}
	return NodeSet(1)<<len(g.useful) - 1
}

// Bit returns the single-node NodeSet for id, or the empty set when id has rate zero.
func (g *Graph) Bit(id NodeID) NodeSet {
	i, ok := g.bits[id]
	if !ok {
		return 0
	}
	return NodeSet(1) << i
}

// TotalRate sums the rates of all nodes in s.
func (g *Graph) TotalRate(s NodeSet) int {
	total := 0
	for _, id := range s.Members(g) {
		total += g.rates[id]
	}
	return total
}
