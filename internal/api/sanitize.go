package api

import (
	"math"

	"github.com/caminoseguro/walkroute_core/internal/models"
)

// sanitizeResult enforces spec §6's boundary contract right before a result
// is serialized: every outgoing float NaN becomes 0.0, every outgoing int
// stays 0 if it was never set (Go zero-values ints already default to 0, so
// the only real risk is a NaN float silently round-tripping through JSON as
// null).
func sanitizeResult(result models.Result) models.Result {
	result.Cost = sanitizeFloat(result.Cost)
	result.Statistics = sanitizeStatistics(result.Statistics)
	for i := range result.Edges {
		result.Edges[i].LengthM = sanitizeFloat(result.Edges[i].LengthM)
		result.Edges[i].HarassmentRisk = sanitizeFloat(result.Edges[i].HarassmentRisk)
		result.Edges[i].RiskScore = sanitizeFloat(result.Edges[i].RiskScore)
	}
	result.Performance.ExecutionTimeMs = sanitizeFloat(result.Performance.ExecutionTimeMs)
	return result
}

func sanitizeStatistics(s models.Statistics) models.Statistics {
	s.TotalDistanceM = sanitizeFloat(s.TotalDistanceM)
	s.TotalRisk = sanitizeFloat(s.TotalRisk)
	s.AvgRisk = sanitizeFloat(s.AvgRisk)
	return s
}

func sanitizeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
