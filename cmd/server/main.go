// Command server builds an index from a configured dataset and serves it
// read-only over both TCP (binary protocol) and HTTP.
package main

import (
	"flag"
	"fmt"
	"log"

	"rmindex/pkg/api"
	"rmindex/pkg/config"
	"rmindex/pkg/dataset"
	"rmindex/pkg/index"
	"rmindex/pkg/network"
)

func main() {
	configPath := flag.String("config", "", "path to rmindex.yaml (defaults searched if empty)")
	useBaseline := flag.Bool("baseline", false, "serve the page-tree baseline instead of the RMI")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[Server] load config: %v", err)
	}

	src, err := resolveSource(cfg.Dataset)
	if err != nil {
		log.Fatalf("[Server] resolve dataset: %v", err)
	}
	data, err := src.Load()
	if err != nil {
		log.Fatalf("[Server] load dataset: %v", err)
	}
	log.Printf("[Server] loaded %d records from %q", len(data), cfg.Dataset.Source)

	var idx index.Index
	if *useBaseline {
		idx = index.BuildBaseline(data, cfg.Baseline.PageSize)
	} else {
		learned, err := index.BuildLearned(data, cfg.RMI.ToModelConfig())
		if err != nil {
			log.Fatalf("[Server] build RMI: %v", err)
		}
		idx = learned
	}
	log.Printf("[Server] built %s index (%d bytes)", idx.Type(), idx.TotalSizeBytes())

	go func() {
		tcp := network.NewTCPServer(idx)
		if err := tcp.Start(cfg.Server.TCPAddr); err != nil {
			log.Fatalf("[Server] tcp server: %v", err)
		}
	}()

	http := api.NewServer(idx)
	http.Start(cfg.Server.Addr)
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
