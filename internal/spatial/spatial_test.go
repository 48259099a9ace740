package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caminoseguro/walkroute_core/internal/dataset"
	"github.com/caminoseguro/walkroute_core/internal/graphcore"
	"github.com/caminoseguro/walkroute_core/internal/models"
)

func buildTestGraph(t *testing.T) *graphcore.Graph {
	t.Helper()
	rows := []dataset.Row{
		{OriginLon: -75.560, OriginLat: 6.200, DestLon: -75.561, DestLat: 6.201, LengthM: 50},
		{OriginLon: -75.561, OriginLat: 6.201, DestLon: -75.562, DestLat: 6.202, LengthM: 50},
		{OriginLon: -75.700, OriginLat: 6.400, DestLon: -75.701, DestLat: 6.401, LengthM: 50},
	}
	return graphcore.BuildFromRows(rows)
}

func TestNodeIndex_FindNearest(t *testing.T) {
	g := buildTestGraph(t)
	idx := NewNodeIndex(g.AllNodes())

	id, ok := idx.FindNearest(-75.5601, 6.2001)
	require.True(t, ok)
	node, _ := g.Node(id)
	assert.InDelta(t, -75.560, node.Lon, 0.01)
	assert.InDelta(t, 6.200, node.Lat, 0.01)
}

func TestNodeIndex_MatchesLinearFallback(t *testing.T) {
	g := buildTestGraph(t)
	idx := NewNodeIndex(g.AllNodes())

	queries := [][2]float64{
		{-75.65, 6.30},
		{-75.560, 6.200},
		{-75.5601, 6.2001},
		{-75.701, 6.401},
		{-75.562, 6.202},
	}
	for _, q := range queries {
		indexed, _ := idx.FindNearest(q[0], q[1])
		linear, _ := idx.linearNearest(q[0], q[1])
		assert.Equal(t, linear, indexed, "indexed and linear-scan paths must agree for query %v", q)
	}
}

// TestNodeIndex_FindNearest_BeatsAxisAlignedBoxBlindSpot targets the failure
// mode of a single fixed-size box search: a node placed just past one edge of
// the initial search box, at a true distance between the box's half-width and
// its diagonal, must still beat a node that merely falls inside the box.
func TestNodeIndex_FindNearest_BeatsAxisAlignedBoxBlindSpot(t *testing.T) {
	rows := []dataset.Row{
		// Sits inside the initial 0.01-degree box, at the far (diagonal) corner.
		{OriginLon: 0.009, OriginLat: 0.009, DestLon: 1, DestLat: 1, LengthM: 50},
		// Sits just outside the initial box on a single axis, closer in true
		// Euclidean terms than the corner node above.
		{OriginLon: 0.011, OriginLat: 0.0, DestLon: 2, DestLat: 2, LengthM: 50},
	}
	g := graphcore.BuildFromRows(rows)
	idx := NewNodeIndex(g.AllNodes())

	indexed, ok := idx.FindNearest(0, 0)
	require.True(t, ok)
	linear, _ := idx.linearNearest(0, 0)
	assert.Equal(t, linear, indexed)

	node, _ := g.Node(indexed)
	assert.InDelta(t, 0.011, node.Lon, 1e-9)
	assert.InDelta(t, 0.0, node.Lat, 1e-9)
}

func TestEdgeIndex_IntersectBBoxMatchesLinear(t *testing.T) {
	g := buildTestGraph(t)
	edges := g.AllEdges()
	idx := NewEdgeIndex(edges)

	indexed := idx.IntersectBBox(-75.58, 6.19, -75.55, 6.21)
	linear := LinearIntersectBBox(edges, -75.58, 6.19, -75.55, 6.21)
	assert.Equal(t, len(linear), len(indexed))
}

func TestSelectCorridor_FindsBothEndpoints(t *testing.T) {
	g := buildTestGraph(t)
	edgeIdx := NewEdgeIndex(g.AllEdges())

	start := models.Node{Lon: -75.560, Lat: 6.200}
	end := models.Node{Lon: -75.562, Lat: 6.202}

	result := SelectCorridor(g, edgeIdx, start, end)
	require.True(t, result.OK)
	assert.GreaterOrEqual(t, result.Subgraph.EdgeCount(), 2)
}

func TestSelectCorridor_SubgraphIsSubsetOfFullGraph(t *testing.T) {
	g := buildTestGraph(t)
	edgeIdx := NewEdgeIndex(g.AllEdges())

	start := models.Node{Lon: -75.560, Lat: 6.200}
	end := models.Node{Lon: -75.701, Lat: 6.401}

	result := SelectCorridor(g, edgeIdx, start, end)
	require.True(t, result.OK, "corridor bbox always contains both endpoints by construction")
	assert.LessOrEqual(t, result.Subgraph.EdgeCount(), g.EdgeCount())
}
