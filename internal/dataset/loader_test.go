package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `origin,destination,name,length,oneway,geometry,harassmentRisk,cameras_count,incidents_count,incidents_severity,risk_score,combined_cost
"(-75.5657, 6.2080)","(-75.5660, 6.2090)",Calle 10,120.5,true,"LINESTRING(-75.5657 6.2080, -75.5660 6.2090)",0.2,1,3,0.4,0.35,0.5
"(-75.5660, 6.2090)","(-75.5670, 6.2100)",Carrera 45,80,false,"LINESTRING(-75.5660 6.2090, -75.5670 6.2100)",0.0,0,,0.0,0.0,0.1
`

func TestLoad_ParsesValidRows(t *testing.T) {
	result, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, 0, result.RejectedCount)
	require.Len(t, result.Rows, 2)

	first := result.Rows[0]
	assert.Equal(t, -75.5657, first.OriginLon)
	assert.Equal(t, 6.2080, first.OriginLat)
	assert.Equal(t, "Calle 10", first.Name)
	assert.True(t, first.OneWay)
	assert.Len(t, first.Geometry, 2)

	second := result.Rows[1]
	assert.Equal(t, 0, second.IncidentsCount, "missing incidents_count defaults to 0")
	assert.False(t, second.OneWay)
}

func TestLoad_RejectsMalformedCoordinate(t *testing.T) {
	csvData := `origin,destination,name,length,oneway,geometry,harassmentRisk,cameras_count,incidents_count,incidents_severity,risk_score,combined_cost
"not-a-point","(-75.5660, 6.2090)",Calle 10,120.5,true,"LINESTRING(-75.5657 6.2080, -75.5660 6.2090)",0.2,1,3,0.4,0.35,0.5
`
	result, err := Load(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowCount)
	assert.Equal(t, 1, result.RejectedCount)
	assert.Empty(t, result.Rows)
}

func TestLoad_RejectsMalformedGeometry(t *testing.T) {
	csvData := `origin,destination,name,length,oneway,geometry,harassmentRisk,cameras_count,incidents_count,incidents_severity,risk_score,combined_cost
"(-75.5657, 6.2080)","(-75.5660, 6.2090)",Calle 10,120.5,true,"POINT(-75.5657 6.2080)",0.2,1,3,0.4,0.35,0.5
`
	result, err := Load(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, result.RejectedCount)
}

func TestParseWKTLineString(t *testing.T) {
	line, err := parseWKTLineString("LINESTRING(-75.1 6.1, -75.2 6.2, -75.3 6.3)")
	require.NoError(t, err)
	require.Len(t, line, 3)
	assert.Equal(t, -75.1, line[0][0])
	assert.Equal(t, 6.1, line[0][1])
}

func TestParseCoordPair(t *testing.T) {
	lon, lat, err := parseCoordPair("(-75.5657, 6.2080)")
	require.NoError(t, err)
	assert.Equal(t, -75.5657, lon)
	assert.Equal(t, 6.2080, lat)

	_, _, err = parseCoordPair("(200, 6.2080)")
	assert.Error(t, err)
}
