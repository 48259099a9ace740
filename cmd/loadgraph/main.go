// Command loadgraph is an offline diagnostic CLI: it loads the edge dataset,
// builds the graph and spatial indexes, and prints an ingest/graph report.
// No server is started.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/caminoseguro/walkroute_core/internal/dataset"
	"github.com/caminoseguro/walkroute_core/internal/graphcore"
	"github.com/caminoseguro/walkroute_core/internal/models"
	"github.com/caminoseguro/walkroute_core/internal/query"
)

func main() {
	datasetPath := flag.String("dataset", "data/edges.csv", "path to the edge dataset CSV")
	flag.Parse()

	f, err := os.Open(*datasetPath)
	if err != nil {
		log.Fatalf("failed to open dataset %s: %v", *datasetPath, err)
	}
	defer f.Close()

	loadResult, err := dataset.Load(f)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}

	fmt.Printf("rows read:     %d\n", loadResult.RowCount)
	fmt.Printf("rows rejected: %d\n", loadResult.RejectedCount)
	if loadResult.RejectedCount > 0 {
		fmt.Println("rejection reasons:")
		for _, reason := range loadResult.RejectionReasons {
			fmt.Printf("  - %s\n", reason)
		}
	}

	g := graphcore.BuildFromRows(loadResult.Rows)

	fmt.Printf("\nnodes: %d\n", g.NodeCount())
	fmt.Printf("edges: %d\n", g.EdgeCount())
	fmt.Println("\nmin_ratio constants:")
	fmt.Printf("  combined:  %.8f\n", g.MinRatio[models.OptCombined])
	fmt.Printf("  risk:      %.8f\n", g.MinRatio[models.OptRisk])
	fmt.Printf("  incidents: %.8f\n", g.MinRatio[models.OptIncidents])

	query.NewEngine(g)
	fmt.Printf("\nnode index entries: %d\n", g.NodeCount())
	fmt.Printf("edge index entries: %d\n", len(g.AllEdges()))
}
