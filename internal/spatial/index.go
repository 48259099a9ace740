// Package spatial implements the two R-tree-style indexes of spec §4.3 (node
// index for nearest-node queries, edge index for bbox-intersection queries)
// plus linear-scan fallbacks that must be observationally indistinguishable
// from the indexed path. Both indexes are backed by github.com/tidwall/rtree's
// generic tree.
package spatial

import (
	"math"

	"github.com/tidwall/rtree"

	"github.com/caminoseguro/walkroute_core/internal/geoutil"
	"github.com/caminoseguro/walkroute_core/internal/models"
)

// NodeIndex answers nearest-node and bbox-range queries over a fixed set of nodes.
type NodeIndex struct {
	tree  rtree.Generic[models.NodeID]
	nodes map[models.NodeID]models.Node
}

// NewNodeIndex builds a node index over every node supplied. The
// insertion-order tie-break of spec §8 property 5 compares NodeIDs, which the
// graph assigns in node-interning order.
func NewNodeIndex(nodes []models.Node) *NodeIndex {
	idx := &NodeIndex{nodes: make(map[models.NodeID]models.Node, len(nodes))}
	for _, n := range nodes {
		point := [2]float64{n.Lon, n.Lat}
		idx.tree.Insert(point, point, n.ID)
		idx.nodes[n.ID] = n
	}
	return idx
}

// FindNearest implements find_nearest_node (§4.3): searches a box around
// (lon,lat), growing it until the box is provably large enough that no node
// outside it can beat the best candidate found inside it, then returns the
// true argmin of squared-degree-distance, breaking ties by insertion order
// (the order nodes were inserted into the index, which mirrors
// graph-build/node-interning order).
//
// An axis-aligned box of half-width r only bounds the inscribed circle of
// radius r: a candidate inside the box can be up to r*sqrt(2) away, and a
// node just outside one edge of the box can be closer than that. So a single
// fixed-size box cannot be trusted to contain the true nearest node. The fix
// is to re-search with the box grown to the best candidate's actual distance
// whenever that distance exceeds the box's half-width — once the half-width
// reaches or exceeds the best candidate's distance, the box fully contains
// the circle of that radius, which proves nothing closer exists outside it.
func (idx *NodeIndex) FindNearest(lon, lat float64) (models.NodeID, bool) {
	if len(idx.nodes) == 0 {
		return 0, false
	}

	type candidate struct {
		id   models.NodeID
		dist float64
	}

	searchBox := func(radius float64) []candidate {
		var found []candidate
		idx.tree.Search(
			[2]float64{lon - radius, lat - radius}, [2]float64{lon + radius, lat + radius},
			func(min, max [2]float64, data models.NodeID) bool {
				n := idx.nodes[data]
				found = append(found, candidate{
					id:   data,
					dist: geoutil.SquaredDegreeDistance(lon, lat, n.Lon, n.Lat),
				})
				return true
			},
		)
		return found
	}

	argmin := func(cands []candidate) candidate {
		best := cands[0]
		for _, c := range cands[1:] {
			if c.dist < best.dist || (c.dist == best.dist && c.id < best.id) {
				best = c
			}
		}
		return best
	}

	radius := 0.01 // degrees; ~1km at equator
	candidates := searchBox(radius)
	verified := false
	for attempt := 0; attempt < 10; attempt++ {
		if len(candidates) >= len(idx.nodes) {
			verified = true
			break
		}
		if len(candidates) == 0 {
			radius *= 2
			candidates = searchBox(radius)
			continue
		}
		proofRadius := math.Sqrt(argmin(candidates).dist)
		if proofRadius <= radius {
			verified = true
			break
		}
		radius = proofRadius * (1 + 1e-6)
		candidates = searchBox(radius)
	}

	if !verified || len(candidates) == 0 {
		return idx.linearNearest(lon, lat)
	}

	best := argmin(candidates)
	return best.id, true
}

// linearNearest is the fallback path of §4.3: identical semantics (argmin of
// squared degree distance, insertion-order tie-break) via a plain scan.
func (idx *NodeIndex) linearNearest(lon, lat float64) (models.NodeID, bool) {
	var best models.NodeID
	bestDist := -1.0
	found := false
	for id := models.NodeID(0); int(id) < len(idx.nodes); id++ {
		n, ok := idx.nodes[id]
		if !ok {
			continue
		}
		d := geoutil.SquaredDegreeDistance(lon, lat, n.Lon, n.Lat)
		if !found || d < bestDist {
			best = n.ID
			bestDist = d
			found = true
		}
	}
	return best, found
}

// EdgeIndex answers bbox-intersection queries over a fixed set of edges.
type EdgeIndex struct {
	tree  rtree.Generic[int32]
	edges map[int32]models.Edge
}

// NewEdgeIndex builds an edge index keyed by edge row id, using each edge's
// precomputed bounding box (§4.2).
func NewEdgeIndex(edges []models.Edge) *EdgeIndex {
	idx := &EdgeIndex{edges: make(map[int32]models.Edge, len(edges))}
	for _, e := range edges {
		min := [2]float64{e.Bound.Min[0], e.Bound.Min[1]}
		max := [2]float64{e.Bound.Max[0], e.Bound.Max[1]}
		idx.tree.Insert(min, max, e.ID)
		idx.edges[e.ID] = e
	}
	return idx
}

// IntersectBBox returns every edge whose precomputed bbox intersects the given box.
func (idx *EdgeIndex) IntersectBBox(minLon, minLat, maxLon, maxLat float64) []models.Edge {
	var result []models.Edge
	idx.tree.Search(
		[2]float64{minLon, minLat}, [2]float64{maxLon, maxLat},
		func(min, max [2]float64, data int32) bool {
			result = append(result, idx.edges[data])
			return true
		},
	)
	return result
}

// LinearIntersectBBox is the fallback path of §4.3 for the edge index: identical
// semantics via a plain scan, used when no index is available.
func LinearIntersectBBox(edges []models.Edge, minLon, minLat, maxLon, maxLat float64) []models.Edge {
	var result []models.Edge
	for _, e := range edges {
		if e.Bound.Max[0] < minLon || e.Bound.Min[0] > maxLon {
			continue
		}
		if e.Bound.Max[1] < minLat || e.Bound.Min[1] > maxLat {
			continue
		}
		result = append(result, e)
	}
	return result
}
