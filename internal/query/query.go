// Package query implements the single route() facade of spec §4.8: snap
// coordinates to graph nodes, dispatch to the requested algorithm (corridor
// then full graph for the standard algorithms, full graph directly for the
// heuristic variants), fall back to Dijkstra on a failed heuristic variant,
// and return a uniform models.Result.
package query

import (
	"errors"
	"time"

	"github.com/caminoseguro/walkroute_core/internal/graphcore"
	"github.com/caminoseguro/walkroute_core/internal/models"
	"github.com/caminoseguro/walkroute_core/internal/routing"
	"github.com/caminoseguro/walkroute_core/internal/spatial"
	"github.com/caminoseguro/walkroute_core/internal/stats"
)

// ErrUnknownOptimization is returned when the optimization label does not map
// to any known weight key (spec §4.8 step 1, §7).
var ErrUnknownOptimization = errors.New("query: unknown optimization")

// ErrUnknownAlgorithm is returned when the algorithm label is not recognized.
var ErrUnknownAlgorithm = errors.New("query: unknown algorithm")

// ErrNoSnap is returned when origin or destination cannot be snapped to any
// graph node (an empty graph, most likely).
var ErrNoSnap = errors.New("query: no node found near coordinate")

// Engine bundles the built graph with its spatial indexes; it is the shared,
// immutable state a route() call reads from (spec §5).
type Engine struct {
	Graph     *graphcore.Graph
	NodeIndex *spatial.NodeIndex
	EdgeIndex *spatial.EdgeIndex
}

// NewEngine builds the spatial indexes over an already-finalized graph.
func NewEngine(g *graphcore.Graph) *Engine {
	return &Engine{
		Graph:     g,
		NodeIndex: spatial.NewNodeIndex(g.AllNodes()),
		EdgeIndex: spatial.NewEdgeIndex(g.AllEdges()),
	}
}

// Route implements route(origin, destination, optimization, algorithm), spec §4.8.
func (e *Engine) Route(originLon, originLat, destLon, destLat float64, optimizationLabel string, algorithmLabel string) (models.Result, error) {
	start := time.Now()

	opt, ok := models.ParseOptimization(optimizationLabel)
	if !ok {
		return models.Result{}, ErrUnknownOptimization
	}

	algo, ok := parseAlgorithm(algorithmLabel)
	if !ok {
		return models.Result{}, ErrUnknownAlgorithm
	}

	originID, ok := e.NodeIndex.FindNearest(originLon, originLat)
	if !ok {
		return models.Result{}, ErrNoSnap
	}
	destID, ok := e.NodeIndex.FindNearest(destLon, destLat)
	if !ok {
		return models.Result{}, ErrNoSnap
	}

	pathResult, note := e.dispatch(originID, destID, opt, algo)

	statistics, edges := stats.Aggregate(e.Graph, pathResult.Path)

	result := models.Result{
		Found:        pathResult.Found,
		Path:         pathResult.Path,
		Cost:         pathResult.Cost,
		Optimization: opt,
		Algorithm:    algo,
		Statistics:   statistics,
		Edges:        edges,
		Note:         note,
		Performance: models.Performance{
			ExecutionTimeMs: float64(time.Since(start).Microseconds()) / 1000.0,
			NodesExplored:   pathResult.NodesExplored,
			NodesInPath:     len(pathResult.Path),
		},
	}
	return result, nil
}

// dispatch runs the requested algorithm per the corridor-then-full / full-only
// split of spec §4.8 step 3, falling back to Dijkstra on a failed heuristic
// variant (step 4).
func (e *Engine) dispatch(originID, destID models.NodeID, opt models.Optimization, algo models.Algorithm) (models.PathResult, string) {
	if algo.IsStandard() {
		return e.runStandard(originID, destID, opt, algo), ""
	}

	result := e.runHeuristic(originID, destID, opt, algo)
	if result.Found {
		return result, ""
	}

	fallback := routing.Dijkstra(e.Graph, originID, destID, opt)
	return fallback, "fallback: Dijkstra"
}

// runStandard runs Dijkstra/A*/Bellman-Ford on the corridor subgraph first,
// falling back to the full graph if the corridor selector could not place
// both endpoints after its internal retries (spec §4.4, §4.8).
func (e *Engine) runStandard(originID, destID models.NodeID, opt models.Optimization, algo models.Algorithm) models.PathResult {
	originNode, _ := e.Graph.Node(originID)
	destNode, _ := e.Graph.Node(destID)

	graphToSearch := e.Graph
	searchOrigin, searchDest := originID, destID

	corridor := spatial.SelectCorridor(e.Graph, e.EdgeIndex, originNode, destNode)
	if corridor.OK {
		if id, ok := corridor.Subgraph.NodeIDFor(originNode.Lon, originNode.Lat); ok {
			if destIDSub, ok2 := corridor.Subgraph.NodeIDFor(destNode.Lon, destNode.Lat); ok2 {
				graphToSearch = corridor.Subgraph
				searchOrigin = id
				searchDest = destIDSub
			}
		}
	}

	result := runAlgorithm(graphToSearch, searchOrigin, searchDest, opt, algo)
	if result.Found && graphToSearch != e.Graph {
		return translateSubgraphPath(e.Graph, corridor.Subgraph, result)
	}
	if !result.Found && graphToSearch != e.Graph {
		return runAlgorithm(e.Graph, originID, destID, opt, algo)
	}
	return result
}

// translateSubgraphPath maps a path found in the corridor subgraph back to
// full-graph node ids by coordinate, since the subgraph interns its own
// parallel NodeID numbering (spec §4.4: "any path it produces is a valid path
// in the full graph").
func translateSubgraphPath(full, sub *graphcore.Graph, result models.PathResult) models.PathResult {
	translated := make([]models.NodeID, len(result.Path))
	for i, subID := range result.Path {
		node, _ := sub.Node(subID)
		fullID, ok := full.NodeIDFor(node.Lon, node.Lat)
		if !ok {
			return result
		}
		translated[i] = fullID
	}
	result.Path = translated
	return result
}

func runAlgorithm(g *graphcore.Graph, s, t models.NodeID, opt models.Optimization, algo models.Algorithm) models.PathResult {
	switch algo {
	case models.AlgoDijkstra:
		return routing.Dijkstra(g, s, t, opt)
	case models.AlgoAStar:
		return routing.AStar(g, s, t, opt)
	case models.AlgoBellmanFord:
		return routing.BellmanFord(g, s, t, opt)
	default:
		return models.PathResult{Found: false}
	}
}

// runHeuristic runs the full-graph-only heuristic variants of spec §4.6.
func (e *Engine) runHeuristic(originID, destID models.NodeID, opt models.Optimization, algo models.Algorithm) models.PathResult {
	switch algo {
	case models.AlgoGreedy:
		return routing.Greedy(e.Graph, originID, destID, opt)
	case models.AlgoBacktracking:
		return routing.Backtracking(e.Graph, originID, destID, opt, 0)
	case models.AlgoBranchAndBound:
		return routing.BranchAndBound(e.Graph, originID, destID, opt)
	case models.AlgoKShortest:
		ranked := routing.KShortest(e.Graph, originID, destID, opt, routing.DefaultK)
		if len(ranked) == 0 {
			return models.PathResult{Found: false}
		}
		top := ranked[0]
		return models.PathResult{Found: true, Path: top.Path, Cost: top.Cost}
	default:
		return models.PathResult{Found: false}
	}
}

func parseAlgorithm(label string) (models.Algorithm, bool) {
	switch models.Algorithm(label) {
	case models.AlgoDijkstra, models.AlgoAStar, models.AlgoBellmanFord,
		models.AlgoGreedy, models.AlgoBacktracking, models.AlgoBranchAndBound, models.AlgoKShortest:
		return models.Algorithm(label), true
	default:
		return "", false
	}
}
