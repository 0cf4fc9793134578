package algorithms

import (
	"container/list"

	"github.com/dd0wney/cluso-planner/pkg/graph"
)

// ShortestPath finds a shortest route between two nodes using bidirectional BFS.
// The returned route includes both endpoints. ok is false when no route exists.
func ShortestPath(g *graph.Graph, start, end graph.NodeID) ([]graph.NodeID, bool) {
	if !g.Has(start) || !g.Has(end) {
		return nil, false
	}
	if start == end {
		return []graph.NodeID{start}, true
	}

	// Forward search from start
	forwardQueue := list.New()
	forwardVisited := make(map[graph.NodeID]graph.NodeID) // node -> parent
	forwardQueue.PushBack(start)
	forwardVisited[start] = start

	// Backward search from end
	backwardQueue := list.New()
	backwardVisited := make(map[graph.NodeID]graph.NodeID)
	backwardQueue.PushBack(end)
	backwardVisited[end] = end

	for forwardQueue.Len() > 0 && backwardQueue.Len() > 0 {
		if meeting, found := expandFrontier(g, forwardQueue, forwardVisited, backwardVisited); found {
			return reconstructPath(meeting, forwardVisited, backwardVisited), true
		}
		if meeting, found := expandFrontier(g, backwardQueue, backwardVisited, forwardVisited); found {
			return reconstructPath(meeting, forwardVisited, backwardVisited), true
		}
	}

	return nil, false
}

// expandFrontier expands one BFS level and reports the first node already
// reached by the opposite search.
func expandFrontier(
	g *graph.Graph,
	queue *list.List,
	visited map[graph.NodeID]graph.NodeID,
	otherVisited map[graph.NodeID]graph.NodeID,
) (graph.NodeID, bool) {
	levelSize := queue.Len()
	for i := 0; i < levelSize; i++ {
		current := queue.Remove(queue.Front()).(graph.NodeID)

		for _, neighbor := range g.Neighbors(current) {
			if _, seen := visited[neighbor]; seen {
				continue
			}
			visited[neighbor] = current
			if _, found := otherVisited[neighbor]; found {
				return neighbor, true
			}
			queue.PushBack(neighbor)
		}
	}

	return "", false
}

// reconstructPath joins the forward half (start -> meeting) with the backward
// half (meeting -> end).
func reconstructPath(
	meeting graph.NodeID,
	forwardVisited map[graph.NodeID]graph.NodeID,
	backwardVisited map[graph.NodeID]graph.NodeID,
) []graph.NodeID {
	forwardPath := make([]graph.NodeID, 0)
	node := meeting
	for node != forwardVisited[node] {
		forwardPath = append(forwardPath, node)
		node = forwardVisited[node]
	}
	forwardPath = append(forwardPath, node)

	for i, j := 0, len(forwardPath)-1; i < j; i, j = i+1, j-1 {
		forwardPath[i], forwardPath[j] = forwardPath[j], forwardPath[i]
	}

	node = meeting
	for node != backwardVisited[node] {
		node = backwardVisited[node]
		forwardPath = append(forwardPath, node)
	}

	return forwardPath
}

// AllShortestPaths returns the hop count from source to every reachable node.
func AllShortestPaths(g *graph.Graph, source graph.NodeID) map[graph.NodeID]int {
	distances := make(map[graph.NodeID]int, g.Len())
	if !g.Has(source) {
		return distances
	}
	distances[source] = 0

	queue := list.New()
	queue.PushBack(source)

	for queue.Len() > 0 {
		current := queue.Remove(queue.Front()).(graph.NodeID)
		currentDist := distances[current]

		for _, neighbor := range g.Neighbors(current) {
			if _, visited := distances[neighbor]; !visited {
				distances[neighbor] = currentDist + 1
				queue.PushBack(neighbor)
			}
		}
	}

	return distances
}
