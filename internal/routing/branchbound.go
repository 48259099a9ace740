package routing

import (
	"container/heap"
	"math"

	"github.com/caminoseguro/walkroute_core/internal/graphcore"
	"github.com/caminoseguro/walkroute_core/internal/models"
)

const branchAndBoundMaxDepth = 100

// BranchAndBound implements the best-first priority-queue search of spec
// §4.6: a min-heap keyed by accumulated cost, a visited_with_cost map
// recording the best cost reached per node so far, and pruning on cost
// bound / depth / simple-path violation. Returns the global optimum among
// simple paths of length <= 100.
func BranchAndBound(g *graphcore.Graph, start, end models.NodeID, opt models.Optimization) models.PathResult {
	if start == end {
		return models.PathResult{Found: true, Path: []models.NodeID{start}, Cost: 0, NodesExplored: 0}
	}

	open := &priorityQueue{}
	heap.Init(open)
	heap.Push(open, &searchItem{node: start, gScore: 0, fScore: 0, path: []models.NodeID{start}})

	visitedWithCost := make(map[models.NodeID]float64)
	bestCost := math.Inf(1)
	var bestPath []models.NodeID
	explored := 0

	for open.Len() > 0 {
		item := heap.Pop(open).(*searchItem)
		explored++

		if existing, ok := visitedWithCost[item.node]; ok && item.gScore >= existing {
			continue
		}
		visitedWithCost[item.node] = item.gScore

		if item.node == end {
			if item.gScore < bestCost {
				bestCost = item.gScore
				bestPath = item.path
			}
			continue
		}

		if item.gScore >= bestCost || len(item.path) > branchAndBoundMaxDepth {
			continue
		}

		onPath := make(map[models.NodeID]bool, len(item.path))
		for _, n := range item.path {
			onPath[n] = true
		}

		for _, edge := range g.OutEdges(item.node) {
			if onPath[edge.To] {
				continue
			}
			newCost := item.gScore + edge.Weight.Get(opt)
			if newCost > bestCost {
				continue
			}

			newPath := make([]models.NodeID, len(item.path)+1)
			copy(newPath, item.path)
			newPath[len(item.path)] = edge.To

			heap.Push(open, &searchItem{node: edge.To, gScore: newCost, fScore: newCost, path: newPath})
		}
	}

	if bestPath == nil {
		return models.PathResult{Found: false, NodesExplored: explored}
	}
	return models.PathResult{Found: true, Path: bestPath, Cost: bestCost, NodesExplored: explored}
}
