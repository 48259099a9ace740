// Package routing implements the shortest-path core and heuristic search
// variants of spec §4.5/§4.6: Dijkstra, A*, Bellman-Ford, Greedy best-first
// with backtrack, bounded Backtracking, Branch-and-Bound, and Yen's
// K-shortest simple paths. All of the priority-queue-driven searches share
// a container/heap-based open set keyed by an arbitrary models.Optimization
// weight.
package routing

import (
	"container/heap"

	"github.com/caminoseguro/walkroute_core/internal/geoutil"
	"github.com/caminoseguro/walkroute_core/internal/graphcore"
	"github.com/caminoseguro/walkroute_core/internal/models"
)

// Dijkstra finds the minimum-cost path from s to t under weight key opt
// (spec §4.5). Requires non-negative edge weights, guaranteed by the graph's
// own invariant.
func Dijkstra(g *graphcore.Graph, s, t models.NodeID, opt models.Optimization) models.PathResult {
	return bestFirstSearch(g, s, t, opt, zeroHeuristic)
}

// AStar finds the minimum-cost path from s to t under weight key opt, guided
// by the admissible heuristic table of spec §4.5.
func AStar(g *graphcore.Graph, s, t models.NodeID, opt models.Optimization) models.PathResult {
	targetNode, ok := g.Node(t)
	if !ok {
		return models.PathResult{Found: false}
	}
	h := func(n models.NodeID) float64 {
		node, ok := g.Node(n)
		if !ok {
			return 0
		}
		return heuristicFor(g, opt, node, targetNode)
	}
	return bestFirstSearch(g, s, t, opt, h)
}

func zeroHeuristic(models.NodeID) float64 { return 0 }

// heuristicFor implements the A* heuristic table of spec §4.5. The 1e-4/1e-5
// fallbacks are admissible only because risk_score/combined_cost/incidents are
// normalized into [0,1] by the upstream dataset-unification pipeline (spec §9
// Open Questions); this must not be relied on if that normalization changes.
func heuristicFor(g *graphcore.Graph, opt models.Optimization, from, to models.Node) float64 {
	d := geoutil.StraightLineMeters(from.Lon, from.Lat, to.Lon, to.Lat)
	switch opt {
	case models.OptDistance:
		return d
	case models.OptCombined:
		return d * g.MinRatio[models.OptCombined]
	case models.OptRisk:
		ratio := g.MinRatio[models.OptRisk]
		if ratio == 0 {
			return d * 1e-4
		}
		return d * ratio
	case models.OptIncidents:
		ratio := g.MinRatio[models.OptIncidents]
		if ratio == 0 {
			return d * 1e-5
		}
		return d * ratio
	default:
		return 0
	}
}

// bestFirstSearch is the shared engine behind Dijkstra and A*: a
// container/heap open set ordered by gScore+heuristic(node). Passing
// zeroHeuristic recovers plain Dijkstra.
func bestFirstSearch(g *graphcore.Graph, s, t models.NodeID, opt models.Optimization, heuristic func(models.NodeID) float64) models.PathResult {
	open := &priorityQueue{}
	heap.Init(open)

	best := map[models.NodeID]float64{s: 0}
	heap.Push(open, &searchItem{node: s, gScore: 0, fScore: heuristic(s), path: []models.NodeID{s}})

	explored := 0
	for open.Len() > 0 {
		current := heap.Pop(open).(*searchItem)
		explored++

		if bestG, ok := best[current.node]; ok && current.gScore > bestG {
			continue
		}
		if current.node == t {
			return models.PathResult{Found: true, Path: current.path, Cost: current.gScore, NodesExplored: explored}
		}

		for _, edge := range g.OutEdges(current.node) {
			cost := edge.Weight.Get(opt)
			tentativeG := current.gScore + cost
			if existing, ok := best[edge.To]; ok && tentativeG >= existing {
				continue
			}
			best[edge.To] = tentativeG

			newPath := make([]models.NodeID, len(current.path)+1)
			copy(newPath, current.path)
			newPath[len(current.path)] = edge.To

			heap.Push(open, &searchItem{
				node:   edge.To,
				gScore: tentativeG,
				fScore: tentativeG + heuristic(edge.To),
				path:   newPath,
			})
		}
	}

	return models.PathResult{Found: false, NodesExplored: explored}
}

// BellmanFord finds the minimum-cost path from s to t under weight key opt,
// tolerating any real edge weights without negative cycles (spec §4.5). The
// graph invariant guarantees non-negative weights, so this always terminates
// after exactly one full relaxation pass beyond convergence.
func BellmanFord(g *graphcore.Graph, s, t models.NodeID, opt models.Optimization) models.PathResult {
	dist := make(map[models.NodeID]float64)
	prev := make(map[models.NodeID]models.NodeID)
	dist[s] = 0

	nodes := g.AllNodes()
	explored := 0

	for i := 0; i < len(nodes)-1; i++ {
		changed := false
		for _, node := range nodes {
			d, ok := dist[node.ID]
			if !ok {
				continue
			}
			for _, edge := range g.OutEdges(node.ID) {
				explored++
				cost := edge.Weight.Get(opt)
				next := d + cost
				if existing, ok := dist[edge.To]; !ok || next < existing {
					dist[edge.To] = next
					prev[edge.To] = node.ID
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	finalDist, ok := dist[t]
	if !ok {
		return models.PathResult{Found: false, NodesExplored: explored}
	}

	path := reconstructPath(prev, s, t)
	return models.PathResult{Found: true, Path: path, Cost: finalDist, NodesExplored: explored}
}

func reconstructPath(prev map[models.NodeID]models.NodeID, s, t models.NodeID) []models.NodeID {
	if s == t {
		return []models.NodeID{s}
	}
	var reversed []models.NodeID
	cur := t
	for cur != s {
		reversed = append(reversed, cur)
		p, ok := prev[cur]
		if !ok {
			return nil
		}
		cur = p
	}
	reversed = append(reversed, s)

	path := make([]models.NodeID, len(reversed))
	for i, n := range reversed {
		path[len(reversed)-1-i] = n
	}
	return path
}
