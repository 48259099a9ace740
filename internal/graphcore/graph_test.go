package graphcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caminoseguro/walkroute_core/internal/dataset"
	"github.com/caminoseguro/walkroute_core/internal/models"
)

func sampleRows() []dataset.Row {
	return []dataset.Row{
		{
			OriginLon: -75.56, OriginLat: 6.20,
			DestLon: -75.57, DestLat: 6.21,
			Name: "A", LengthM: 100, RiskScore: 0.5, CombinedCost: 0.6, IncidentsCount: 2,
		},
		{
			OriginLon: -75.57, OriginLat: 6.21,
			DestLon: -75.58, DestLat: 6.22,
			Name: "B", LengthM: 200, RiskScore: 0.1, CombinedCost: 0.2, IncidentsCount: 0,
		},
	}
}

func TestInsertRow_InternsNodesAndBuildsEdges(t *testing.T) {
	g := New()
	for i, row := range sampleRows() {
		require.NoError(t, g.InsertRow(row, int32(i)))
	}
	g.Finalize()

	assert.True(t, g.Built())
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())

	originID, ok := g.NodeIDFor(-75.56, 6.20)
	require.True(t, ok)
	edges := g.OutEdges(originID)
	require.Len(t, edges, 1)
	assert.Equal(t, "A", edges[0].Name)
}

func TestInsertRow_RejectsSelfLoop(t *testing.T) {
	g := New()
	err := g.InsertRow(dataset.Row{
		OriginLon: -75.56, OriginLat: 6.20,
		DestLon: -75.56, DestLat: 6.20,
	}, 0)
	assert.Error(t, err)
}

func TestInsertRow_ParallelEdgeLastWins(t *testing.T) {
	g := New()
	require.NoError(t, g.InsertRow(dataset.Row{
		OriginLon: -75.56, OriginLat: 6.20, DestLon: -75.57, DestLat: 6.21,
		Name: "first", LengthM: 100,
	}, 0))
	require.NoError(t, g.InsertRow(dataset.Row{
		OriginLon: -75.56, OriginLat: 6.20, DestLon: -75.57, DestLat: 6.21,
		Name: "second", LengthM: 150,
	}, 1))

	originID, _ := g.NodeIDFor(-75.56, 6.20)
	edges := g.OutEdges(originID)
	require.Len(t, edges, 1)
	assert.Equal(t, "second", edges[0].Name, "last insert wins for a parallel edge")
}

func TestMinRatio_OnlyConsidersPositiveWeightAndLength(t *testing.T) {
	g := New()
	for i, row := range sampleRows() {
		require.NoError(t, g.InsertRow(row, int32(i)))
	}

	// risk: min(0.5/100, 0.1/200) = min(0.005, 0.0005) = 0.0005
	assert.InDelta(t, 0.0005, g.MinRatio[models.OptRisk], 1e-9)
	// incidents: only the first row has a positive incidents count: 2/100 = 0.02
	assert.InDelta(t, 0.02, g.MinRatio[models.OptIncidents], 1e-9)
}

func TestMinRatio_ZeroWhenNoPositiveRatioObserved(t *testing.T) {
	g := New()
	require.NoError(t, g.InsertRow(dataset.Row{
		OriginLon: -75.56, OriginLat: 6.20, DestLon: -75.57, DestLat: 6.21,
		LengthM: 100, IncidentsCount: 0,
	}, 0))
	assert.Equal(t, 0.0, g.MinRatio[models.OptIncidents])
}
