package algorithms

import (
	"container/list"

	"github.com/dd0wney/cluso-planner/pkg/graph"
)

// Component is a maximal set of mutually reachable nodes.
type Component struct {
	ID    int
	Nodes []graph.NodeID
	Size  int
	// Rate is the summed rate of the component's nodes.
	Rate int
}

// ComponentsResult partitions a graph into its connected components.
type ComponentsResult struct {
	Components    []*Component
	NodeComponent map[graph.NodeID]int // Node ID -> Component ID
}

// ConnectedComponents finds all connected components of g. Components are
// numbered in node declaration order.
func ConnectedComponents(g *graph.Graph) *ComponentsResult {
	visited := make(map[graph.NodeID]bool, g.Len())
	nodeComponent := make(map[graph.NodeID]int, g.Len())
	components := make([]*Component, 0)

	// BFS to find each component
	for _, startNode := range g.Nodes() {
		if visited[startNode] {
			continue
		}

		component := &Component{ID: len(components)}

		queue := list.New()
		queue.PushBack(startNode)
		visited[startNode] = true

		for queue.Len() > 0 {
			nodeID := queue.Remove(queue.Front()).(graph.NodeID)
			component.Nodes = append(component.Nodes, nodeID)
			component.Rate += g.Rate(nodeID)
			nodeComponent[nodeID] = component.ID

			for _, neighbor := range g.Neighbors(nodeID) {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue.PushBack(neighbor)
				}
			}
		}

		component.Size = len(component.Nodes)
		components = append(components, component)
	}

	return &ComponentsResult{
		Components:    components,
		NodeComponent: nodeComponent,
	}
}

// Unreachable lists the positive-rate nodes of g that share a component with
// none of starts. Unknown starts reach nothing.
func (r *ComponentsResult) Unreachable(g *graph.Graph, starts ...graph.NodeID) []graph.NodeID {
	reached := make(map[int]bool, len(starts))
	for _, s := range starts {
		if id, ok := r.NodeComponent[s]; ok {
			reached[id] = true
		}
	}

	var out []graph.NodeID
	for _, id := range g.Useful() {
		if !reached[r.NodeComponent[id]] {
			out = append(out, id)
		}
	}
	return out
}
