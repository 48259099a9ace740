package routing

import (
	"sort"

	"github.com/caminoseguro/walkroute_core/internal/graphcore"
	"github.com/caminoseguro/walkroute_core/internal/models"
)

// DefaultK is the default number of ranked paths returned by KShortest (spec §4.6).
const DefaultK = 3

// KShortest enumerates the top-k simple paths from s to t in non-decreasing
// total-cost order via Yen's algorithm, each carrying a rank starting at 1
// (spec §4.6). Returns fewer than k entries if the graph does not admit that
// many distinct simple paths.
func KShortest(g *graphcore.Graph, s, t models.NodeID, opt models.Optimization, k int) []models.RankedPath {
	if k <= 0 {
		k = DefaultK
	}

	first := Dijkstra(g, s, t, opt)
	if !first.Found {
		return nil
	}

	a := [][]models.NodeID{first.Path}
	costs := []float64{first.Cost}

	var candidates []models.RankedPath
	seen := map[string]bool{pathKey(first.Path): true}

	for len(a) < k {
		prevPath := a[len(a)-1]

		for i := 0; i < len(prevPath)-1; i++ {
			spurNode := prevPath[i]
			rootPath := append([]models.NodeID(nil), prevPath[:i+1]...)

			removedEdges := map[edgeKey]bool{}
			for _, p := range a {
				if len(p) > i && pathsShareRoot(p, rootPath) {
					removedEdges[edgeKey{from: p[i], to: p[i+1]}] = true
				}
			}

			removedNodes := map[models.NodeID]bool{}
			for _, n := range rootPath[:len(rootPath)-1] {
				removedNodes[n] = true
			}

			spurResult := dijkstraRestricted(g, spurNode, t, opt, removedEdges, removedNodes)
			if !spurResult.Found {
				continue
			}

			totalPath := append(append([]models.NodeID(nil), rootPath[:len(rootPath)-1]...), spurResult.Path...)
			key := pathKey(totalPath)
			if seen[key] {
				continue
			}
			seen[key] = true

			rootCost := pathCost(g, rootPath, opt)
			candidates = append(candidates, models.RankedPath{
				Path: totalPath,
				Cost: rootCost + spurResult.Cost,
			})
		}

		if len(candidates) == 0 {
			break
		}

		sort.Slice(candidates, func(i, j int) bool { return candidates[i].Cost < candidates[j].Cost })
		next := candidates[0]
		candidates = candidates[1:]

		a = append(a, next.Path)
		costs = append(costs, next.Cost)
	}

	result := make([]models.RankedPath, len(a))
	for i := range a {
		result[i] = models.RankedPath{Rank: i + 1, Path: a[i], Cost: costs[i]}
	}
	return result
}

type edgeKey struct {
	from, to models.NodeID
}

// dijkstraRestricted runs Dijkstra while ignoring a set of banned edges and
// forbidding a set of banned intermediate nodes, used by Yen's spur search.
// Uses a linear-scan frontier rather than the shared heap-based priority
// queue: the restricted edge/node set is rebuilt fresh on every spur, so
// there is no running queue to amortize a heap over.
func dijkstraRestricted(g *graphcore.Graph, s, t models.NodeID, opt models.Optimization, removedEdges map[edgeKey]bool, removedNodes map[models.NodeID]bool) models.PathResult {
	if removedNodes[s] && s != t {
		return models.PathResult{Found: false}
	}

	type state struct {
		node models.NodeID
		cost float64
		path []models.NodeID
	}

	best := map[models.NodeID]float64{s: 0}
	frontier := []state{{node: s, cost: 0, path: []models.NodeID{s}}}
	explored := 0

	for len(frontier) > 0 {
		minIdx := 0
		for i := 1; i < len(frontier); i++ {
			if frontier[i].cost < frontier[minIdx].cost {
				minIdx = i
			}
		}
		current := frontier[minIdx]
		frontier = append(frontier[:minIdx], frontier[minIdx+1:]...)
		explored++

		if bestCost, ok := best[current.node]; ok && current.cost > bestCost {
			continue
		}
		if current.node == t {
			return models.PathResult{Found: true, Path: current.path, Cost: current.cost, NodesExplored: explored}
		}

		for _, edge := range g.OutEdges(current.node) {
			if removedEdges[edgeKey{from: current.node, to: edge.To}] {
				continue
			}
			if removedNodes[edge.To] {
				continue
			}
			newCost := current.cost + edge.Weight.Get(opt)
			if existing, ok := best[edge.To]; ok && newCost >= existing {
				continue
			}
			best[edge.To] = newCost
			newPath := make([]models.NodeID, len(current.path)+1)
			copy(newPath, current.path)
			newPath[len(current.path)] = edge.To
			frontier = append(frontier, state{node: edge.To, cost: newCost, path: newPath})
		}
	}

	return models.PathResult{Found: false, NodesExplored: explored}
}

func pathsShareRoot(p, root []models.NodeID) bool {
	if len(p) < len(root) {
		return false
	}
	for i, n := range root {
		if p[i] != n {
			return false
		}
	}
	return true
}

func pathCost(g *graphcore.Graph, path []models.NodeID, opt models.Optimization) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		for _, edge := range g.OutEdges(path[i]) {
			if edge.To == path[i+1] {
				total += edge.Weight.Get(opt)
				break
			}
		}
	}
	return total
}

func pathKey(path []models.NodeID) string {
	key := make([]byte, 0, len(path)*4)
	for _, n := range path {
		key = append(key, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	}
	return string(key)
}
