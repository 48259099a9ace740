// Package models defines the fixed-schema records shared across the routing engine:
// nodes, directed edges, optimization/algorithm enums, and the uniform query result.
//
// The source dataset (and the offline pipeline that produces it) stores per-edge
// attributes as an open, string-keyed dictionary. This package replaces that with a
// single fixed-schema Edge record plus an enumerated Optimization tag, so that a
// misspelled attribute name is a compile error instead of a silent zero-value lookup.
package models

import "github.com/paulmach/orb"

// Optimization selects which weight field of an Edge a route query minimizes.
type Optimization string

const (
	OptDistance  Optimization = "distance"
	OptRisk      Optimization = "risk"
	OptCombined  Optimization = "combined"
	OptIncidents Optimization = "incidents"
)

// ParseOptimization maps an external optimization label to its canonical tag.
// "incident" and "incidentes" are accepted aliases for "incidents" (§4.8).
// ok is false when the label does not correspond to any known weight.
func ParseOptimization(label string) (Optimization, bool) {
	switch label {
	case "distance":
		return OptDistance, true
	case "risk":
		return OptRisk, true
	case "combined":
		return OptCombined, true
	case "incidents", "incident", "incidentes":
		return OptIncidents, true
	default:
		return "", false
	}
}

// Algorithm names a pathfinding or heuristic-search routine.
type Algorithm string

const (
	AlgoDijkstra       Algorithm = "dijkstra"
	AlgoAStar          Algorithm = "astar"
	AlgoBellmanFord    Algorithm = "bellman_ford"
	AlgoGreedy         Algorithm = "greedy"
	AlgoBacktracking   Algorithm = "backtracking"
	AlgoBranchAndBound Algorithm = "branch_and_bound"
	AlgoKShortest      Algorithm = "k_shortest"
)

// IsStandard reports whether the algorithm runs corridor-then-full-graph (§4.8 step 3),
// as opposed to the heuristic variants, which always run on the full graph.
func (a Algorithm) IsStandard() bool {
	switch a {
	case AlgoDijkstra, AlgoAStar, AlgoBellmanFord:
		return true
	default:
		return false
	}
}

// NodeID is a stable, dense integer identifier assigned to a Node at graph-build time.
// Interning coordinate tuples to integers avoids floating-point-equality node identity
// and lets visited-sets/priority-queues/indexes key off a cheap comparable type.
type NodeID int32

// InvalidNode is returned by lookups that fail to resolve a coordinate to a node.
const InvalidNode NodeID = -1

// Node is a WGS84 geographic point. Node identity is the exact coordinate pair; the
// graph builder interns each distinct pair to one NodeID the first time it is seen.
type Node struct {
	ID  NodeID
	Lon float64
	Lat float64
}

// Point returns the node's coordinate as an orb.Point (lon, lat order, matching orb's GeoJSON convention).
func (n Node) Point() orb.Point { return orb.Point{n.Lon, n.Lat} }

// Weights holds one scalar cost per optimization mode for a single edge.
// All fields must be finite and non-negative; NaNs are normalized to 0 at ingest.
type Weights struct {
	Distance  float64
	Risk      float64
	Combined  float64
	Incidents float64
}

// Get returns the weight selected by opt.
func (w Weights) Get(opt Optimization) float64 {
	switch opt {
	case OptDistance:
		return w.Distance
	case OptRisk:
		return w.Risk
	case OptCombined:
		return w.Combined
	case OptIncidents:
		return w.Incidents
	default:
		return 0
	}
}

// Edge is a directed street segment between two registered nodes.
type Edge struct {
	ID   int32
	From NodeID
	To   NodeID

	// FromPoint/ToPoint carry the endpoints' exact coordinates alongside their
	// interned ids, so an edge pulled out of one graph (e.g. by the spatial
	// index) can be re-interned into a fresh graph — the corridor selector's
	// subgraph materialization (§4.4) — without a reverse NodeID->Node lookup
	// against the graph the edge came from.
	FromPoint orb.Point
	ToPoint   orb.Point

	Name     string
	LengthM  float64
	OneWay   bool
	Geometry orb.LineString

	HarassmentRisk    float64
	CamerasCount      int
	IncidentsCount    int
	IncidentsSeverity float64

	RiskScore    float64
	CombinedCost float64

	Weight Weights

	// Bound is the edge's precomputed bounding box, derived from Geometry, falling
	// back to the two endpoints' bbox when geometry is missing (§4.2).
	Bound orb.Bound
}

// PathResult is the outcome of a single-path search: either a node sequence and its
// total cost, or "no path" (Found == false). NoPath is a normal terminal outcome (§7),
// never an error value.
type PathResult struct {
	Found        bool
	Path         []NodeID
	Cost         float64
	NodesExplored int
}

// RankedPath is one entry of a K-shortest-paths result, numbered from 1 (§4.6).
type RankedPath struct {
	Rank int
	Path []NodeID
	Cost float64
}

// Statistics aggregates per-edge metrics along a path (§4.7).
type Statistics struct {
	TotalDistanceM float64 `json:"total_distance_m"`
	TotalRisk      float64 `json:"total_risk"`
	AvgRisk        float64 `json:"avg_risk"`
	CamerasCount   int     `json:"cameras_count"`
	IncidentsCount int     `json:"incidents_count"`
	NumSegments    int     `json:"num_segments"`
}

// EdgeDetail describes one traversed edge for rendering/serialization (§4.7).
type EdgeDetail struct {
	From              NodeID         `json:"-"`
	To                NodeID         `json:"-"`
	Name              string         `json:"name"`
	LengthM           float64        `json:"length_m"`
	HarassmentRisk    float64        `json:"harassment_risk"`
	CamerasCount      int            `json:"cameras_count"`
	IncidentsCount    int            `json:"incidents_count"`
	RiskScore         float64        `json:"risk_score"`
	Geometry          orb.LineString `json:"-"`
}

// Performance carries query-local diagnostics (§4.8 step 5).
type Performance struct {
	ExecutionTimeMs float64 `json:"execution_time_ms"`
	NodesExplored   int     `json:"nodes_explored"`
	NodesInPath     int     `json:"nodes_in_path"`
}

// Result is the uniform record returned by the query facade (§4.8).
type Result struct {
	Found       bool
	Path        []NodeID
	Cost        float64
	Optimization Optimization
	Algorithm   Algorithm
	Statistics  Statistics
	Edges       []EdgeDetail
	Performance Performance
	Note        string
}
