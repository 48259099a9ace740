package routing

import (
	"math"

	"github.com/caminoseguro/walkroute_core/internal/graphcore"
	"github.com/caminoseguro/walkroute_core/internal/models"
)

const backtrackingMaxDepth = 100

// frame is one explicit-stack entry for Backtracking's DFS. nextEdgeIdx tracks
// which outgoing edge of node to try next, so the search can resume a partially
// explored node without recursion.
type frame struct {
	node        models.NodeID
	cost        float64
	nextEdgeIdx int
}

// Backtracking implements the bounded exhaustive simple-path search of spec
// §4.6: depth capped at 100 nodes, pruned whenever the accumulated cost is no
// better than the best path found so far or exceeds maxCost. maxCost is
// +Inf by default (spec §9 Open Questions: no API exposes a tighter budget in
// this implementation, the default always applies).
func Backtracking(g *graphcore.Graph, start, end models.NodeID, opt models.Optimization, maxCost float64) models.PathResult {
	if maxCost <= 0 {
		maxCost = math.Inf(1)
	}

	bestCost := math.Inf(1)
	var bestPath []models.NodeID
	explored := 0

	path := []models.NodeID{start}
	onPath := map[models.NodeID]bool{start: true}
	stack := []frame{{node: start, cost: 0, nextEdgeIdx: 0}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		explored++

		if top.node == end && top.cost < bestCost {
			bestCost = top.cost
			bestPath = append([]models.NodeID(nil), path...)
		}

		if len(path) > backtrackingMaxDepth || top.cost >= bestCost || top.cost > maxCost {
			popFrame(&stack, &path, onPath)
			continue
		}

		edges := g.OutEdges(top.node)
		advanced := false
		for top.nextEdgeIdx < len(edges) {
			edge := edges[top.nextEdgeIdx]
			top.nextEdgeIdx++

			if onPath[edge.To] {
				continue
			}
			newCost := top.cost + edge.Weight.Get(opt)
			if newCost >= bestCost || newCost > maxCost {
				continue
			}

			path = append(path, edge.To)
			onPath[edge.To] = true
			stack = append(stack, frame{node: edge.To, cost: newCost, nextEdgeIdx: 0})
			advanced = true
			break
		}

		if !advanced {
			popFrame(&stack, &path, onPath)
		}
	}

	if bestPath == nil {
		return models.PathResult{Found: false, NodesExplored: explored}
	}
	return models.PathResult{Found: true, Path: bestPath, Cost: bestCost, NodesExplored: explored}
}

func popFrame(stack *[]frame, path *[]models.NodeID, onPath map[models.NodeID]bool) {
	s := *stack
	node := (*path)[len(*path)-1]
	delete(onPath, node)
	*path = (*path)[:len(*path)-1]
	*stack = s[:len(s)-1]
}
