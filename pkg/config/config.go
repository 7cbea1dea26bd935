// Package config loads the yaml configuration recognized by the RMI engine,
// the page-tree baseline, dataset ingestion, and the benchmark orchestrator
// (spec §6.3, §6.4).
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"rmindex/pkg/model"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	RMI       RMIConfig       `yaml:"rmi"`
	Baseline  BaselineConfig  `yaml:"baseline"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
}

type ServerConfig struct {
	Addr    string `yaml:"addr"`     // HTTP listen address (e.g. :8080)
	TCPAddr string `yaml:"tcp_addr"` // TCP listen address (e.g. :9090)
}

// RMIConfig mirrors spec §6.3's recognized options.
type RMIConfig struct {
	StageSizes      []int   `yaml:"stage_sizes"`
	HiddenSize      int     `yaml:"hidden_size"`
	NumHiddenLayers int     `yaml:"num_hidden_layers"`
	ErrorThreshold  float64 `yaml:"error_threshold"`
	UseHybrid       bool    `yaml:"use_hybrid"`
}

func (c RMIConfig) ToModelConfig() model.Config {
	return model.Config{
		StageSizes:      c.StageSizes,
		HiddenSize:      c.HiddenSize,
		NumHiddenLayers: c.NumHiddenLayers,
		ErrorThreshold:  c.ErrorThreshold,
		UseHybrid:       c.UseHybrid,
	}
}

// BaselineConfig mirrors spec §6.4.
type BaselineConfig struct {
	PageSize int `yaml:"page_size"`
}

// DatasetConfig selects and parameterizes a dataset source (spec §1's
// out-of-scope collaborator, supplemented per original_source/dataset_loader.hpp).
type DatasetConfig struct {
	Source string `yaml:"source"` // synthetic | sequential | uniform | weblog | csv
	Path   string `yaml:"path"`   // file path for weblog/csv sources
	Column int    `yaml:"column"` // CSV column index (0-based)
	Count  int    `yaml:"count"`
	Seed   int64  `yaml:"seed"`
}

type BenchmarkConfig struct {
	Iterations int    `yaml:"iterations"`
	ReportPath string `yaml:"report_path"`
}

func Load(configPath string) (*Config, error) {
	cfg := defaultConfig()

	if configPath == "" {
		for _, p := range []string{"configs/rmindex.yaml", "rmindex.yaml"} {
			data, err := os.ReadFile(p)
			if err == nil {
				if err := yaml.Unmarshal(data, cfg); err != nil {
					return cfg, err
				}
				applyDefaults(cfg)
				return cfg, nil
			}
		}
		applyDefaults(cfg)
		return cfg, nil // no file found: use defaults
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    ":8080",
			TCPAddr: ":9090",
		},
		RMI: RMIConfig{
			StageSizes:      []int{1},
			HiddenSize:      8,
			NumHiddenLayers: 1,
			ErrorThreshold:  128,
			UseHybrid:       false,
		},
		Baseline: BaselineConfig{
			PageSize: 256,
		},
		Dataset: DatasetConfig{
			Source: "synthetic",
			Count:  1000000,
			Seed:   42,
		},
		Benchmark: BenchmarkConfig{
			Iterations: 10000,
		},
	}
}

func applyDefaults(cfg *Config) {
	if len(cfg.RMI.StageSizes) == 0 {
		cfg.RMI.StageSizes = []int{1}
	}
	if cfg.RMI.HiddenSize <= 0 {
		cfg.RMI.HiddenSize = 8
	}
	if cfg.RMI.ErrorThreshold <= 0 {
		cfg.RMI.ErrorThreshold = 128
	}
	if cfg.Baseline.PageSize <= 0 {
		cfg.Baseline.PageSize = 256
	}
	if cfg.Dataset.Source == "" {
		cfg.Dataset.Source = "synthetic"
	}
	if cfg.Dataset.Count <= 0 {
		cfg.Dataset.Count = 1000000
	}
	if cfg.Dataset.Seed == 0 {
		cfg.Dataset.Seed = 42
	}
	if cfg.Benchmark.Iterations <= 0 {
		cfg.Benchmark.Iterations = 10000
	}
}
