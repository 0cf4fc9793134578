package graph

// NodeID identifies a node. Identifiers are opaque and compared for equality only.
type NodeID string

// Node is one location in the graph as supplied by a loader.
type Node struct {
	ID        NodeID
	Rate      int
	Neighbors []NodeID
}

// MaxUsefulNodes is the number of positive-rate nodes a NodeSet can address.
const MaxUsefulNodes = 64

// Graph is an immutable, undirected graph of nodes with activation rates.
// Nodes with a positive rate are "useful" and each gets a stable bit in NodeSet.
type Graph struct {
	order     []NodeID
	rates     map[NodeID]int
	adjacency map[NodeID][]NodeID
	useful    []NodeID
	bits      map[NodeID]int
}
