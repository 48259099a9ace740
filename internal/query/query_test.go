package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caminoseguro/walkroute_core/internal/dataset"
	"github.com/caminoseguro/walkroute_core/internal/graphcore"
)

func buildEngine(t *testing.T) *Engine {
	t.Helper()
	rows := []dataset.Row{
		{OriginLon: -75.5657, OriginLat: 6.2080, DestLon: -75.5660, DestLat: 6.2090, Name: "seg1", LengthM: 120, RiskScore: 0.3, CombinedCost: 0.4, IncidentsCount: 1},
		{OriginLon: -75.5660, OriginLat: 6.2090, DestLon: -75.5676, DestLat: 6.2528, Name: "seg2", LengthM: 4800, RiskScore: 0.2, CombinedCost: 0.3, IncidentsCount: 0},
	}
	g := graphcore.BuildFromRows(rows)
	return NewEngine(g)
}

func TestRoute_HappyPath(t *testing.T) {
	e := buildEngine(t)
	result, err := e.Route(-75.5657, 6.2080, -75.5676, 6.2528, "combined", "dijkstra")
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.GreaterOrEqual(t, result.Statistics.NumSegments, 1)
	assert.Greater(t, result.Cost, 0.0)
}

func TestRoute_AStarMatchesDijkstraCost(t *testing.T) {
	e := buildEngine(t)
	dij, err := e.Route(-75.5657, 6.2080, -75.5676, 6.2528, "distance", "dijkstra")
	require.NoError(t, err)
	star, err := e.Route(-75.5657, 6.2080, -75.5676, 6.2528, "distance", "astar")
	require.NoError(t, err)

	assert.InDelta(t, dij.Cost, star.Cost, 1e-9)
	assert.InDelta(t, dij.Statistics.TotalDistanceM, star.Statistics.TotalDistanceM, 1e-9)
}

func TestRoute_UnknownOptimization(t *testing.T) {
	e := buildEngine(t)
	_, err := e.Route(-75.5657, 6.2080, -75.5676, 6.2528, "nonsense", "dijkstra")
	assert.ErrorIs(t, err, ErrUnknownOptimization)
}

func TestRoute_UnknownAlgorithm(t *testing.T) {
	e := buildEngine(t)
	_, err := e.Route(-75.5657, 6.2080, -75.5676, 6.2528, "distance", "nonsense")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestRoute_GreedyPreservesRequestedAlgorithmLabel(t *testing.T) {
	rows := []dataset.Row{
		{OriginLon: 0, OriginLat: 0, DestLon: 100, DestLat: 0, Name: "isolated", LengthM: 10},
	}
	g := graphcore.BuildFromRows(rows)
	e := NewEngine(g)

	result, err := e.Route(0, 0, 100, 0, "distance", "greedy")
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, "greedy", string(result.Algorithm), "caller-requested algorithm label is preserved")
}

func TestRoute_KShortestReturnsBestRankedPath(t *testing.T) {
	e := buildEngine(t)
	result, err := e.Route(-75.5657, 6.2080, -75.5676, 6.2528, "distance", "k_shortest")
	require.NoError(t, err)
	assert.True(t, result.Found)
}
