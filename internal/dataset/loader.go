// Package dataset ingests the pre-unified tabular edge file described in spec §4.1
// and §6: one directed street segment per row, already enriched with safety metrics
// by the (out-of-scope) dataset-unification pipeline. A header->column map is built
// once; malformed rows are rejected and skipped rather than aborting the whole ingest.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Row is one parsed, not-yet-validated CSV record before it becomes a graph edge.
type Row struct {
	OriginLon, OriginLat           float64
	DestLon, DestLat               float64
	Name                           string
	LengthM                        float64
	OneWay                         bool
	Geometry                       orb.LineString
	HarassmentRisk                 float64
	CamerasCount                   int
	IncidentsCount                 int
	IncidentsSeverity              float64
	RiskScore                      float64
	CombinedCost                   float64
}

// LoadResult bundles the rows that ingested cleanly plus the loader's reject/row
// counters, matching spec §4.1's "reports row count and rejection count" contract.
type LoadResult struct {
	Rows            []Row
	RowCount        int
	RejectedCount   int
	RejectionReasons []string
}

var requiredColumns = []string{
	"origin", "destination", "name", "length", "oneway", "geometry",
	"harassmentRisk", "cameras_count", "incidents_count", "incidents_severity",
	"risk_score", "combined_cost",
}

// Load parses a CSV edge dataset from r. Rows with malformed geometry or
// origin/destination coordinates are rejected with a diagnostic and skipped;
// ingest continues (§4.1). A missing incidents_count defaults to 0; any other
// missing required field rejects the row, except name and geometry, which may
// be empty (an empty geometry leaves the edge bbox to its endpoints).
func Load(r io.Reader) (*LoadResult, error) {
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to read header: %w", err)
	}
	colMap := makeColumnMap(header)
	for _, col := range requiredColumns {
		if _, ok := colMap[col]; !ok {
			return nil, fmt.Errorf("dataset: header missing required column %q", col)
		}
	}

	result := &LoadResult{}

	lineNo := 1
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		lineNo++
		if err != nil {
			log.Printf("dataset: skipping malformed row %d: %v", lineNo, err)
			result.RejectedCount++
			result.RejectionReasons = append(result.RejectionReasons, fmt.Sprintf("row %d: %v", lineNo, err))
			continue
		}
		result.RowCount++

		row, rejectReason := parseRow(record, colMap)
		if rejectReason != "" {
			log.Printf("dataset: rejecting row %d: %s", lineNo, rejectReason)
			result.RejectedCount++
			result.RejectionReasons = append(result.RejectionReasons, fmt.Sprintf("row %d: %s", lineNo, rejectReason))
			continue
		}

		result.Rows = append(result.Rows, *row)
	}

	return result, nil
}

func parseRow(record []string, colMap map[string]int) (*Row, string) {
	originLon, originLat, err := parseCoordPair(getField(record, colMap, "origin"))
	if err != nil {
		return nil, fmt.Sprintf("bad origin coordinate: %v", err)
	}
	destLon, destLat, err := parseCoordPair(getField(record, colMap, "destination"))
	if err != nil {
		return nil, fmt.Sprintf("bad destination coordinate: %v", err)
	}

	lengthStr := getField(record, colMap, "length")
	if lengthStr == "" {
		return nil, "missing length"
	}
	length, err := strconv.ParseFloat(lengthStr, 64)
	if err != nil || length < 0 {
		return nil, fmt.Sprintf("invalid length: %q", lengthStr)
	}

	geomStr := getField(record, colMap, "geometry")
	geometry, err := parseWKTLineString(geomStr)
	if err != nil {
		return nil, fmt.Sprintf("bad geometry: %v", err)
	}

	for _, col := range []string{"oneway", "harassmentRisk", "cameras_count", "incidents_severity", "risk_score", "combined_cost"} {
		if getField(record, colMap, col) == "" {
			return nil, fmt.Sprintf("missing %s", col)
		}
	}

	row := &Row{
		OriginLon: originLon,
		OriginLat: originLat,
		DestLon:   destLon,
		DestLat:   destLat,
		Name:      getField(record, colMap, "name"),
		LengthM:   length,
		OneWay:    parseBool(getField(record, colMap, "oneway")),
		Geometry:  geometry,

		HarassmentRisk:     parseFloatOrZero(getField(record, colMap, "harassmentRisk")),
		CamerasCount:       parseIntOrZero(getField(record, colMap, "cameras_count")),
		IncidentsCount:     parseIntOrZero(getField(record, colMap, "incidents_count")), // missing -> 0
		IncidentsSeverity:  parseFloatOrZero(getField(record, colMap, "incidents_severity")),
		RiskScore:          parseFloatOrZero(getField(record, colMap, "risk_score")),
		CombinedCost:       parseFloatOrZero(getField(record, colMap, "combined_cost")),
	}

	return row, ""
}

// parseCoordPair parses a `"(lon, lat)"` cell (outer quotes already stripped by the
// CSV reader) into its two float components.
func parseCoordPair(s string) (lon, lat float64, err error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected \"(lon, lat)\", got %q", s)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude: %w", err)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude: %w", err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("coordinate out of range: lon=%v lat=%v", lon, lat)
	}
	return lon, lat, nil
}

// parseWKTLineString parses a "LINESTRING(lon1 lat1, lon2 lat2, ...)" literal.
// orb's encoding/wkt package only marshals WKT (it assumes a driver already parsed
// incoming WKT/EWKB); since the loader reads raw text out of a CSV cell, decoding
// is hand-rolled here.
func parseWKTLineString(s string) (orb.LineString, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	upper := strings.ToUpper(s)
	if !strings.HasPrefix(upper, "LINESTRING") {
		return nil, fmt.Errorf("expected LINESTRING, got %q", s)
	}
	open := strings.Index(s, "(")
	closeIdx := strings.LastIndex(s, ")")
	if open < 0 || closeIdx < 0 || closeIdx < open {
		return nil, fmt.Errorf("malformed LINESTRING: %q", s)
	}
	body := s[open+1 : closeIdx]
	coordPairs := strings.Split(body, ",")

	line := make(orb.LineString, 0, len(coordPairs))
	for _, pair := range coordPairs {
		fields := strings.Fields(strings.TrimSpace(pair))
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed coordinate %q in %q", pair, s)
		}
		lon, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid lon in %q: %w", pair, err)
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid lat in %q: %w", pair, err)
		}
		line = append(line, orb.Point{lon, lat})
	}
	if len(line) < 2 {
		return nil, fmt.Errorf("linestring needs at least 2 points, got %d", len(line))
	}
	return line, nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "t"
}

func parseFloatOrZero(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}

func parseIntOrZero(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func makeColumnMap(header []string) map[string]int {
	colMap := make(map[string]int, len(header))
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}
	return colMap
}

func getField(record []string, colMap map[string]int, fieldName string) string {
	if idx, ok := colMap[fieldName]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
