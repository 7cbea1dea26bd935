// Command benchmark loads a dataset, builds both the RMI and the page-tree
// baseline, runs a query sweep, and prints the comparison table, grounded on
// original_source/benchmark.cpp's main().
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"rmindex/pkg/benchmark"
	"rmindex/pkg/common"
	"rmindex/pkg/config"
	"rmindex/pkg/dataset"
	"rmindex/pkg/index"
)

func main() {
	configPath := flag.String("config", "", "path to rmindex.yaml (defaults searched if empty)")
	jsonOut := flag.String("json", "", "optional path to write JSON results to")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[Benchmark] load config: %v", err)
	}

	src, err := resolveSource(cfg.Dataset)
	if err != nil {
		log.Fatalf("[Benchmark] resolve dataset: %v", err)
	}

	data, err := src.Load()
	if err != nil {
		log.Fatalf("[Benchmark] load dataset: %v", err)
	}
	log.Printf("[Benchmark] loaded %d records from %q", len(data), cfg.Dataset.Source)

	queries := sampleQueries(data, cfg.Benchmark.Iterations, cfg.Dataset.Seed)

	candidates := map[string]benchmark.Index{}
	buildTimes := map[string]float64{}

	var learned *index.Learned
	var rmiBuildMs float64
	rmiBuildMs, err = benchmark.BuildTimer(func() error {
		learned, err = index.BuildLearned(data, cfg.RMI.ToModelConfig())
		return err
	})
	if err != nil {
		log.Fatalf("[Benchmark] build RMI: %v", err)
	}
	candidates[learned.Type()] = learned
	buildTimes[learned.Type()] = rmiBuildMs

	var btree *index.Baseline
	buildTimes["BTree"], _ = benchmark.BuildTimer(func() error {
		btree = index.BuildBaseline(data, cfg.Baseline.PageSize)
		return nil
	})
	candidates[btree.Type()] = btree

	o := benchmark.NewOrchestrator()
	results := o.Run(data, queries, candidates, buildTimes)

	benchmark.PrintTable(os.Stdout, cfg.Dataset.Source, len(data), results)

	if *jsonOut != "" {
		f, err := os.Create(*jsonOut)
		if err != nil {
			log.Fatalf("[Benchmark] create %s: %v", *jsonOut, err)
		}
		defer f.Close()
		if err := benchmark.SaveResultsJSON(f, map[string][]benchmark.Result{cfg.Dataset.Source: results}); err != nil {
			log.Fatalf("[Benchmark] write json: %v", err)
		}
		fmt.Printf("\nResults saved to %s\n", *jsonOut)
	}
}

func resolveSource(cfg config.DatasetConfig) (dataset.Source, error) {
	switch cfg.Source {
	case "sequential":
		return dataset.Sequential{Count: cfg.Count}, nil
	case "uniform":
		return dataset.Uniform{Count: cfg.Count, Max: float64(cfg.Count) * 10, Seed: cfg.Seed}, nil
	case "weblog":
		return dataset.WebLogSource{Path: cfg.Path, MaxRecords: cfg.Count}, nil
	case "csv":
		return dataset.CSVColumnSource{Path: cfg.Path, Column: cfg.Column, HasHeader: true, MaxRecords: cfg.Count}, nil
	case "synthetic", "":
		return dataset.Synthetic{Count: cfg.Count, Seed: cfg.Seed}, nil
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Source)
	}
}

func sampleQueries(data []common.Record, n int, seed int64) []float64 {
	if len(data) == 0 || n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	queries := make([]float64, n)
	for i := range queries {
		queries[i] = data[rng.Intn(len(data))].Key
	}
	return queries
}
