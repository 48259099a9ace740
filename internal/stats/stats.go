// Package stats aggregates per-edge metrics along a computed path and
// serializes the result to GeoJSON, per spec §4.7. Geometry and GeoJSON
// encoding are delegated to github.com/paulmach/orb/geojson.
package stats

import (
	"github.com/caminoseguro/walkroute_core/internal/graphcore"
	"github.com/caminoseguro/walkroute_core/internal/models"
)

// Aggregate walks the given node path, looks up each traversed edge in g, and
// produces the Statistics totals plus an ordered EdgeDetail list (spec §4.7).
// An empty or single-node path yields zeroed statistics and no edges.
func Aggregate(g *graphcore.Graph, path []models.NodeID) (models.Statistics, []models.EdgeDetail) {
	var stat models.Statistics
	var edges []models.EdgeDetail

	for i := 0; i+1 < len(path); i++ {
		edge, ok := findEdge(g, path[i], path[i+1])
		if !ok {
			continue
		}

		stat.TotalDistanceM += edge.LengthM
		stat.TotalRisk += edge.RiskScore
		stat.CamerasCount += edge.CamerasCount
		stat.IncidentsCount += edge.IncidentsCount
		stat.NumSegments++

		edges = append(edges, models.EdgeDetail{
			From:           edge.From,
			To:             edge.To,
			Name:           edge.Name,
			LengthM:        edge.LengthM,
			HarassmentRisk: edge.HarassmentRisk,
			CamerasCount:   edge.CamerasCount,
			IncidentsCount: edge.IncidentsCount,
			RiskScore:      edge.RiskScore,
			Geometry:       edge.Geometry,
		})
	}

	if stat.NumSegments > 0 {
		stat.AvgRisk = stat.TotalRisk / float64(stat.NumSegments)
	}

	return stat, edges
}

func findEdge(g *graphcore.Graph, from, to models.NodeID) (models.Edge, bool) {
	for _, edge := range g.OutEdges(from) {
		if edge.To == to {
			return edge, true
		}
	}
	return models.Edge{}, false
}
