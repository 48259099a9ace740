package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caminoseguro/walkroute_core/internal/dataset"
	"github.com/caminoseguro/walkroute_core/internal/graphcore"
	"github.com/caminoseguro/walkroute_core/internal/models"
)

func buildPathGraph(t *testing.T) (*graphcore.Graph, []models.NodeID) {
	t.Helper()
	rows := []dataset.Row{
		{OriginLon: 0, OriginLat: 0, DestLon: 1, DestLat: 0, Name: "first", LengthM: 100, RiskScore: 0.2, CamerasCount: 1, IncidentsCount: 2},
		{OriginLon: 1, OriginLat: 0, DestLon: 2, DestLat: 0, Name: "second", LengthM: 200, RiskScore: 0.4, CamerasCount: 3, IncidentsCount: 1},
	}
	g := graphcore.BuildFromRows(rows)
	s, _ := g.NodeIDFor(0, 0)
	mid, _ := g.NodeIDFor(1, 0)
	e, _ := g.NodeIDFor(2, 0)
	return g, []models.NodeID{s, mid, e}
}

func TestAggregate_SumsPerEdgeMetrics(t *testing.T) {
	g, path := buildPathGraph(t)
	stat, edges := Aggregate(g, path)

	assert.Equal(t, 300.0, stat.TotalDistanceM)
	assert.InDelta(t, 0.6, stat.TotalRisk, 1e-9)
	assert.InDelta(t, 0.3, stat.AvgRisk, 1e-9)
	assert.Equal(t, 4, stat.CamerasCount)
	assert.Equal(t, 3, stat.IncidentsCount)
	assert.Equal(t, 2, stat.NumSegments)
	require.Len(t, edges, 2)
	assert.Equal(t, "first", edges[0].Name)
}

func TestAggregate_EmptyPathYieldsZeroStatistics(t *testing.T) {
	g, _ := buildPathGraph(t)
	stat, edges := Aggregate(g, nil)
	assert.Equal(t, models.Statistics{}, stat)
	assert.Empty(t, edges)
}

func TestToFeatureCollection_NoPathYieldsEmptyFeatureList(t *testing.T) {
	fc := ToFeatureCollection(models.Result{Found: false})
	assert.Empty(t, fc.Features)
}

func TestToFeatureCollection_OneFeaturePerEdge(t *testing.T) {
	g, path := buildPathGraph(t)
	stat, edges := Aggregate(g, path)
	result := models.Result{
		Found:        true,
		Optimization: models.OptDistance,
		Algorithm:    models.AlgoDijkstra,
		Cost:         300,
		Statistics:   stat,
		Edges:        edges,
	}

	fc := ToFeatureCollection(result)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "first", fc.Features[0].Properties["name"])
}
