package routing

import "errors"

// Sentinel errors for the routing core (spec §7's error taxonomy). NoPath is
// the normal "disconnected" outcome and is never returned as an error — it is
// represented by models.PathResult.Found == false instead; these sentinels
// cover the genuinely exceptional, programming-error-adjacent cases.
var (
	// ErrGraphNotBuilt names a search against a Graph that was never
	// Finalize()'d. The searches in this package do not check Graph.Built and
	// do not return it.
	ErrGraphNotBuilt = errors.New("routing: graph is not built")

	// ErrUnknownAlgorithm names an unrecognized algorithm. The query facade
	// returns its own query.ErrUnknownAlgorithm; nothing returns this value.
	ErrUnknownAlgorithm = errors.New("routing: unknown algorithm")
)
