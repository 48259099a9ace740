package routing

import (
	"github.com/caminoseguro/walkroute_core/internal/geoutil"
	"github.com/caminoseguro/walkroute_core/internal/graphcore"
	"github.com/caminoseguro/walkroute_core/internal/models"
)

const greedyMaxIterations = 10000

// Greedy implements the greedy best-first search with backtrack of spec §4.6:
// at each step it follows the unvisited neighbor minimizing a blend of edge
// cost and straight-line distance to the goal, backtracking one step when a
// node has no unvisited neighbor left. It self-limits at 10000 iterations,
// returning NoPath if the cap is exhausted (spec §7's IterationLimitExceeded,
// which always degrades to NoPath rather than surfacing as an error).
func Greedy(g *graphcore.Graph, start, end models.NodeID, opt models.Optimization) models.PathResult {
	if start == end {
		return models.PathResult{Found: true, Path: []models.NodeID{start}, Cost: 0, NodesExplored: 0}
	}

	endNode, ok := g.Node(end)
	if !ok {
		return models.PathResult{Found: false}
	}

	path := []models.NodeID{start}
	visited := map[models.NodeID]bool{start: true}
	// totalCost only ever grows: a backtrack undoes the path, not the cost
	// already charged for the abandoned edge, matching spec §4.6's "sum of
	// selected edge weights (not including any backtrack undo)".
	totalCost := 0.0

	iterations := 0
	for len(path) > 0 && iterations < greedyMaxIterations {
		current := path[len(path)-1]
		if current == end {
			return models.PathResult{Found: true, Path: append([]models.NodeID(nil), path...), Cost: totalCost, NodesExplored: iterations}
		}
		iterations++

		next, cost, found := bestGreedyNeighbor(g, current, endNode, opt, visited)
		if !found {
			path = path[:len(path)-1]
			continue
		}

		visited[next] = true
		path = append(path, next)
		totalCost += cost
	}

	if len(path) > 0 && path[len(path)-1] == end {
		return models.PathResult{Found: true, Path: append([]models.NodeID(nil), path...), Cost: totalCost, NodesExplored: iterations}
	}

	return models.PathResult{Found: false, NodesExplored: iterations}
}

// bestGreedyNeighbor selects the unvisited neighbor of current minimizing
// 0.7*edge_cost + 0.3*(straight_line_m_to_goal/1000), per spec §4.6.
func bestGreedyNeighbor(g *graphcore.Graph, current models.NodeID, endNode models.Node, opt models.Optimization, visited map[models.NodeID]bool) (models.NodeID, float64, bool) {
	var bestNode models.NodeID
	var bestCost float64
	var bestScore float64
	found := false

	for _, edge := range g.OutEdges(current) {
		if visited[edge.To] {
			continue
		}
		neighborNode, ok := g.Node(edge.To)
		if !ok {
			continue
		}
		cost := edge.Weight.Get(opt)
		straightLine := geoutil.StraightLineMeters(neighborNode.Lon, neighborNode.Lat, endNode.Lon, endNode.Lat)
		score := 0.7*cost + 0.3*(straightLine/1000)

		if !found || score < bestScore {
			bestNode = edge.To
			bestCost = cost
			bestScore = score
			found = true
		}
	}

	return bestNode, bestCost, found
}
