package stats

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"

	"github.com/caminoseguro/walkroute_core/internal/models"
)

// ToFeatureCollection wraps a path's edge details into a standard GeoJSON
// FeatureCollection (spec §4.7, §6): one Feature per edge (LineString
// geometry, properties `name,length,harassmentRisk,cameras_count,
// incidents_count,risk_score,optimization,algorithm`) plus the top-level
// properties block carrying the algorithm name, optimization label, cost,
// and aggregate statistics. An empty edge list yields an empty FeatureCollection
// (no features and no top-level properties block), matching the no-path
// contract of §6.
func ToFeatureCollection(result models.Result) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, edge := range result.Edges {
		feature := geojson.NewFeature(edge.Geometry)
		feature.Properties = geojson.Properties{
			"name":            edge.Name,
			"length":          edge.LengthM,
			"harassmentRisk":  edge.HarassmentRisk,
			"cameras_count":   edge.CamerasCount,
			"incidents_count": edge.IncidentsCount,
			"risk_score":      edge.RiskScore,
			"optimization":    string(result.Optimization),
			"algorithm":       string(result.Algorithm),
		}
		fc.Append(feature)
	}

	if len(result.Edges) == 0 {
		return fc
	}

	fc.ExtraMembers = geojson.Properties{
		"properties": map[string]interface{}{
			"statistics":   result.Statistics,
			"cost":         result.Cost,
			"optimization": string(result.Optimization),
			"algorithm":    string(result.Algorithm),
		},
	}

	return fc
}

// WriteGeoJSONFile writes result's FeatureCollection to path, creating parent
// directories as needed (spec §6's "GeoJSON export file" contract).
func WriteGeoJSONFile(path string, result models.Result) error {
	fc := ToFeatureCollection(result)
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0o644)
}

// EdgeWKT returns an edge's geometry encoded as WKT, used when a caller wants
// the raw polyline string instead of GeoJSON (spec §4.7: "ordered edge-detail
// list with each edge's geometry as WKT"). Encode-only: orb's wkt package does
// not offer a general decode, matched by the dataset loader's own hand-rolled
// decode path (internal/dataset/loader.go).
func EdgeWKT(detail models.EdgeDetail) string {
	if len(detail.Geometry) == 0 {
		return ""
	}
	return wkt.MarshalString(detail.Geometry)
}

// MarshalEdgeDetailsWKT renders each edge detail with its geometry as a WKT
// string rather than embedded GeoJSON coordinates, for callers building their
// own response shape around the statistics aggregation.
func MarshalEdgeDetailsWKT(edges []models.EdgeDetail) ([]byte, error) {
	type wireEdge struct {
		Name           string  `json:"name"`
		LengthM        float64 `json:"length_m"`
		HarassmentRisk float64 `json:"harassment_risk"`
		CamerasCount   int     `json:"cameras_count"`
		IncidentsCount int     `json:"incidents_count"`
		RiskScore      float64 `json:"risk_score"`
		Geometry       string  `json:"geometry"`
	}

	wire := make([]wireEdge, len(edges))
	for i, e := range edges {
		wire[i] = wireEdge{
			Name:           e.Name,
			LengthM:        e.LengthM,
			HarassmentRisk: e.HarassmentRisk,
			CamerasCount:   e.CamerasCount,
			IncidentsCount: e.IncidentsCount,
			RiskScore:      e.RiskScore,
			Geometry:       EdgeWKT(e),
		}
	}

	return json.Marshal(wire)
}
