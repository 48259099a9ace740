package spatial

import (
	"math"

	"github.com/caminoseguro/walkroute_core/internal/geoutil"
	"github.com/caminoseguro/walkroute_core/internal/graphcore"
	"github.com/caminoseguro/walkroute_core/internal/models"
)

// CorridorResult is the outcome of SelectCorridor: either a subgraph limited to
// the corridor, or a signal that the caller should fall back to the full graph.
type CorridorResult struct {
	Subgraph *graphcore.Graph
	OK       bool
}

// SelectCorridor implements the corridor selector of spec §4.4: compute the
// straight-line distance between start and end, form a margin, expand the
// endpoint bbox by a degree buffer, and materialize a subgraph of edges whose
// bbox intersects the corridor. Makes up to 3 attempts in total, multiplying
// the buffer by 1.5 before each retry, if either endpoint is absent from the
// resulting subgraph.
// The subgraph is itself a graphcore.Graph, so it inherits identical
// weight/min_ratio semantics.
func SelectCorridor(full *graphcore.Graph, edgeIndex *EdgeIndex, start, end models.Node) CorridorResult {
	startLon, startLat := start.Lon, start.Lat
	endLon, endLat := end.Lon, end.Lat

	dM := geoutil.StraightLineMeters(startLon, startLat, endLon, endLat)
	marginM := math.Max(300, 0.25*dM)

	refLat := (startLat + endLat) / 2
	minLon, maxLon := math.Min(startLon, endLon), math.Max(startLon, endLon)
	minLat, maxLat := math.Min(startLat, endLat), math.Max(startLat, endLat)

	for attempt := 0; attempt < 3; attempt++ {
		dx, dy := geoutil.DegreeBuffer(marginM, refLat)
		boxMinLon, boxMaxLon := minLon-dx, maxLon+dx
		boxMinLat, boxMaxLat := minLat-dy, maxLat+dy

		var candidates []models.Edge
		if edgeIndex != nil {
			candidates = edgeIndex.IntersectBBox(boxMinLon, boxMinLat, boxMaxLon, boxMaxLat)
		} else {
			candidates = LinearIntersectBBox(full.AllEdges(), boxMinLon, boxMinLat, boxMaxLon, boxMaxLat)
		}

		sub := materializeSubgraph(candidates)

		_, hasStart := sub.NodeIDFor(startLon, startLat)
		_, hasEnd := sub.NodeIDFor(endLon, endLat)
		if hasStart && hasEnd {
			return CorridorResult{Subgraph: sub, OK: true}
		}

		marginM *= 1.5
	}

	return CorridorResult{OK: false}
}

// materializeSubgraph builds a fresh graph containing exactly the given edges'
// nodes and full attribute bundles, per the "copy attribute bundles, do not
// alias mutable containers" guidance of spec §5.
func materializeSubgraph(edges []models.Edge) *graphcore.Graph {
	sub := graphcore.New()
	for _, e := range edges {
		sub.InsertEdgeCopy(e)
	}
	sub.Finalize()
	return sub
}
