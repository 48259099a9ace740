package graphcore

import (
	"log"
	"time"

	"github.com/caminoseguro/walkroute_core/internal/dataset"
)

// BuildFromRows inserts every loaded dataset row into a fresh Graph and
// finalizes it.
func BuildFromRows(rows []dataset.Row) *Graph {
	start := time.Now()
	log.Printf("graphcore: building graph from %d rows", len(rows))

	g := New()
	var edgeID int32
	inserted := 0
	for _, row := range rows {
		if err := g.InsertRow(row, edgeID); err != nil {
			log.Printf("graphcore: skipping row: %v", err)
			continue
		}
		edgeID++
		inserted++
	}
	g.Finalize()

	log.Printf("graphcore: built graph in %v (%d nodes, %d edges inserted)",
		time.Since(start), g.NodeCount(), inserted)

	return g
}
