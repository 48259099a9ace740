// Package graphcore builds and holds the directed multi-attribute street graph
// (spec §3, §4.2): node interning, per-edge weight vectors, and the global
// min_ratio[w] constants used by the A* heuristic.
package graphcore

import (
	"fmt"
	"math"
	"sync"

	"github.com/paulmach/orb"

	"github.com/caminoseguro/walkroute_core/internal/dataset"
	"github.com/caminoseguro/walkroute_core/internal/models"
)

// Graph is the immutable-after-build directed multi-attribute street graph.
// Nodes is indexed by models.NodeID; Edges maps a from-node to its outgoing
// edges (last-wins dedup of parallel edges, per the Open Question in spec
// §9: a pair's second insertion overwrites the first).
type Graph struct {
	mu sync.RWMutex

	Nodes []models.Node
	Edges map[models.NodeID][]models.Edge

	// nodeIndex interns an (lon,lat) pair to its NodeID.
	nodeIndex map[orb.Point]models.NodeID

	// MinRatio holds the global lower bounds described in spec §3: the smallest
	// positive edge.weight[w]/edge.length_m observed, for w in {combined, risk,
	// incidents}. Zero when no positive ratio was observed for that weight.
	MinRatio map[models.Optimization]float64

	built bool
}

// New returns an empty, mutable Graph ready for Insert calls.
func New() *Graph {
	return &Graph{
		Edges:     make(map[models.NodeID][]models.Edge),
		nodeIndex: make(map[orb.Point]models.NodeID),
		MinRatio: map[models.Optimization]float64{
			models.OptCombined:  0,
			models.OptRisk:      0,
			models.OptIncidents: 0,
		},
	}
}

// internNode returns the NodeID for (lon,lat), registering a new node on first sight.
func (g *Graph) internNode(lon, lat float64) models.NodeID {
	key := orb.Point{lon, lat}
	if id, ok := g.nodeIndex[key]; ok {
		return id
	}
	id := models.NodeID(len(g.Nodes))
	g.Nodes = append(g.Nodes, models.Node{ID: id, Lon: lon, Lat: lat})
	g.nodeIndex[key] = id
	return id
}

// InsertRow inserts one dataset row as a directed edge, interning its endpoints
// as nodes on first sight (§4.2). Self-loops are rejected, matching spec §3's
// "self-loops are forbidden" invariant.
func (g *Graph) InsertRow(row dataset.Row, edgeID int32) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	from := g.internNode(row.OriginLon, row.OriginLat)
	to := g.internNode(row.DestLon, row.DestLat)
	if from == to {
		return fmt.Errorf("graphcore: self-loop rejected at node %d", from)
	}

	weights := models.Weights{
		Distance:  nanToZero(row.LengthM),
		Risk:      nanToZero(row.RiskScore),
		Combined:  nanToZero(row.CombinedCost),
		Incidents: nanToZero(float64(row.IncidentsCount)),
	}

	bound := boundFromGeometry(row.Geometry, row.OriginLon, row.OriginLat, row.DestLon, row.DestLat)

	edge := models.Edge{
		ID:        edgeID,
		From:      from,
		To:        to,
		FromPoint: orb.Point{row.OriginLon, row.OriginLat},
		ToPoint:   orb.Point{row.DestLon, row.DestLat},
		Name:      row.Name,
		LengthM:  weights.Distance,
		OneWay:   row.OneWay,
		Geometry: row.Geometry,

		HarassmentRisk:    nanToZero(row.HarassmentRisk),
		CamerasCount:      row.CamerasCount,
		IncidentsCount:    row.IncidentsCount,
		IncidentsSeverity: nanToZero(row.IncidentsSeverity),

		RiskScore:    weights.Risk,
		CombinedCost: weights.Combined,

		Weight: weights,
		Bound:  bound,
	}

	g.replaceEdge(from, edge)
	g.updateMinRatio(models.OptCombined, weights.Combined, weights.Distance)
	g.updateMinRatio(models.OptRisk, weights.Risk, weights.Distance)
	g.updateMinRatio(models.OptIncidents, weights.Incidents, weights.Distance)

	return nil
}

// InsertEdgeCopy inserts an already-built Edge (with its nodes re-interned
// into this graph) without recomputing weights from a raw row. Used by the
// corridor selector to materialize a subgraph from edges pulled out of the
// full graph's own edge index (spec §4.4), preserving each edge's full
// attribute bundle untouched.
func (g *Graph) InsertEdgeCopy(edge models.Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()

	from := g.internNode(edge.FromPoint[0], edge.FromPoint[1])
	to := g.internNode(edge.ToPoint[0], edge.ToPoint[1])

	edge.From = from
	edge.To = to
	g.replaceEdge(from, edge)

	g.updateMinRatio(models.OptCombined, edge.Weight.Combined, edge.Weight.Distance)
	g.updateMinRatio(models.OptRisk, edge.Weight.Risk, edge.Weight.Distance)
	g.updateMinRatio(models.OptIncidents, edge.Weight.Incidents, edge.Weight.Distance)
}

// replaceEdge implements the documented last-wins rule for parallel edges
// (spec §3 and §9 Open Question): if an edge already exists between the same
// (From, To) pair, it is replaced in place rather than appended.
func (g *Graph) replaceEdge(from models.NodeID, edge models.Edge) {
	existing := g.Edges[from]
	for i, e := range existing {
		if e.To == edge.To {
			existing[i] = edge
			return
		}
	}
	g.Edges[from] = append(existing, edge)
}

func (g *Graph) updateMinRatio(opt models.Optimization, weight, lengthM float64) {
	if lengthM <= 0 || weight <= 0 {
		return
	}
	ratio := weight / lengthM
	current := g.MinRatio[opt]
	if current == 0 || ratio < current {
		g.MinRatio[opt] = ratio
	}
}

// Finalize marks the graph built and immutable. Node interning and min_ratio
// computation are already complete as a side effect of InsertRow; Finalize's
// role is to flip the flag so later code can assert the graph is ready.
func (g *Graph) Finalize() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.built = true
}

// Built reports whether Finalize has run.
func (g *Graph) Built() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.built
}

// Node returns the node registered under id.
func (g *Graph) Node(id models.NodeID) (models.Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if id < 0 || int(id) >= len(g.Nodes) {
		return models.Node{}, false
	}
	return g.Nodes[id], true
}

// NodeIDFor returns the NodeID already interned for an exact (lon,lat) pair, if any.
func (g *Graph) NodeIDFor(lon, lat float64) (models.NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.nodeIndex[orb.Point{lon, lat}]
	return id, ok
}

// OutEdges returns the outgoing edges of a node. The returned slice must not be mutated.
func (g *Graph) OutEdges(id models.NodeID) []models.Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.Edges[id]
}

// NodeCount and EdgeCount report the graph's size, used by cmd/loadgraph's
// ingest report and by tests.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.Nodes)
}

func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	count := 0
	for _, edges := range g.Edges {
		count += len(edges)
	}
	return count
}

// AllNodes returns a copy-free view of the node slice, used by spatial index construction.
func (g *Graph) AllNodes() []models.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.Nodes
}

// AllEdges returns every edge in the graph, used by spatial index construction.
func (g *Graph) AllEdges() []models.Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var all []models.Edge
	for _, edges := range g.Edges {
		all = append(all, edges...)
	}
	return all
}

func nanToZero(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// boundFromGeometry computes an edge's bounding box from its polyline (§4.2),
// falling back to the endpoint bbox when geometry is absent.
func boundFromGeometry(geom orb.LineString, fromLon, fromLat, toLon, toLat float64) orb.Bound {
	if len(geom) == 0 {
		return orb.MultiPoint{{fromLon, fromLat}, {toLon, toLat}}.Bound()
	}
	return geom.Bound()
}
