package model

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"sort"

	"rmindex/pkg/common"
)

func init() {
	gob.Register(&LinearModel{})
	gob.Register(&NeuralModel{})
}

// Config shapes an RMI build (spec §6.3). StageSizes must be non-empty and
// start with 1 — the root stage always has exactly one model.
type Config struct {
	StageSizes      []int
	HiddenSize      int
	NumHiddenLayers int
	ErrorThreshold  float64
	UseHybrid       bool
}

// DefaultConfig returns a single-stage RMI whose root is a neural model
// (one layer, hidden size 8): a safe starting point callers narrow with
// their own stage_sizes.
func DefaultConfig() Config {
	return Config{
		StageSizes:      []int{1},
		HiddenSize:      8,
		NumHiddenLayers: 1,
		ErrorThreshold:  128,
		UseHybrid:       false,
	}
}

func (c Config) Validate() error {
	if len(c.StageSizes) == 0 {
		return fmt.Errorf("model: stage_sizes must be non-empty")
	}
	if c.StageSizes[0] != 1 {
		return fmt.Errorf("model: stage_sizes[0] must be 1, got %d", c.StageSizes[0])
	}
	for i, sz := range c.StageSizes {
		if sz <= 0 {
			return fmt.Errorf("model: stage_sizes[%d] must be positive, got %d", i, sz)
		}
	}
	return nil
}

// Stage is one horizontal level of the hierarchy: a sequence of models and
// the per-model [min_error, max_error] bounds recorded over its training
// bucket (spec §3, Stage).
type Stage struct {
	Models   []Model
	MinError []float64
	MaxError []float64
}

// RMI is the staged learned index (spec §3, §4.4). Built once from a single
// sorted batch; immutable thereafter.
type RMI struct {
	Stages          []Stage
	SortedKeys      []float64
	SortedPositions []int
	N               int
	Config          Config
}

func NewRMI(cfg Config) *RMI {
	return &RMI{Config: cfg}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// nextStageIndex implements invariant I4: clamp(floor(p/N * nextSize), 0, nextSize-1).
func nextStageIndex(pred float64, n, nextSize int) int {
	if n == 0 {
		return 0
	}
	idx := int(math.Floor(pred / float64(n) * float64(nextSize)))
	return clampInt(idx, 0, nextSize-1)
}

// Build trains the full hierarchy from a single batch (spec §4.4). The input
// is sorted in place (stable: tied keys keep their input order) and its positions
// are overwritten to match the final order, per the collaborator contract
// in spec §6.2.
func (r *RMI) Build(data []common.Record) error {
	if err := r.Config.Validate(); err != nil {
		return err
	}

	n := len(data)
	r.N = n
	r.Stages = make([]Stage, len(r.Config.StageSizes))

	if n == 0 {
		for s, sz := range r.Config.StageSizes {
			r.Stages[s] = Stage{
				Models:   make([]Model, sz),
				MinError: make([]float64, sz),
				MaxError: make([]float64, sz),
			}
			for m := 0; m < sz; m++ {
				r.Stages[s].Models[m] = NewLinearModel()
			}
		}
		r.SortedKeys = nil
		r.SortedPositions = nil
		return nil
	}

	sort.SliceStable(data, func(i, j int) bool { return data[i].Key < data[j].Key })

	r.SortedKeys = make([]float64, n)
	r.SortedPositions = make([]int, n)
	for i := range data {
		data[i].Position = i
		r.SortedKeys[i] = data[i].Key
		r.SortedPositions[i] = i
	}

	numStages := len(r.Config.StageSizes)
	buckets := make([][][]common.Record, numStages)
	buckets[0] = [][]common.Record{data}
	for s := 1; s < numStages; s++ {
		buckets[s] = make([][]common.Record, r.Config.StageSizes[s])
	}

	for s := 0; s < numStages; s++ {
		size := r.Config.StageSizes[s]
		stage := Stage{
			Models:   make([]Model, size),
			MinError: make([]float64, size),
			MaxError: make([]float64, size),
		}

		for m := 0; m < size; m++ {
			bucket := buckets[s][m]
			if len(bucket) == 0 {
				stage.Models[m] = NewLinearModel()
				stage.MinError[m] = 0
				stage.MaxError[m] = 0
				continue
			}

			var mdl Model
			if s == 0 && r.Config.NumHiddenLayers > 0 {
				mdl = NewNeuralModel(r.Config.HiddenSize, r.Config.NumHiddenLayers)
			} else {
				mdl = NewLinearModel()
			}
			mdl.Train(bucket)
			stage.Models[m] = mdl

			hasNext := s < numStages-1
			var nextSize int
			if hasNext {
				nextSize = r.Config.StageSizes[s+1]
			}

			minErr, maxErr := math.Inf(1), math.Inf(-1)
			for _, rec := range bucket {
				pred := mdl.Predict(rec.Key)
				errVal := pred - float64(rec.Position)
				if errVal < minErr {
					minErr = errVal
				}
				if errVal > maxErr {
					maxErr = errVal
				}

				if hasNext {
					clamped := clampFloat(pred, 0, float64(n-1))
					next := nextStageIndex(clamped, n, nextSize)
					buckets[s+1][next] = append(buckets[s+1][next], rec)
				}
			}
			stage.MinError[m] = minErr
			stage.MaxError[m] = maxErr
		}

		r.Stages[s] = stage
	}

	return nil
}

// Lookup returns the rank of key: the smallest index i with sorted_keys[i]
// >= key, or N if none (spec §4.4). lower_bound is a synonym (spec §9).
func (r *RMI) Lookup(key common.KeyType) int {
	if r.N == 0 {
		return 0
	}

	m := 0
	var pred float64
	for s := 0; s < len(r.Stages); s++ {
		pred = r.Stages[s].Models[m].Predict(key)
		if s < len(r.Stages)-1 {
			m = nextStageIndex(clampFloat(pred, 0, float64(r.N-1)), r.N, r.Config.StageSizes[s+1])
		}
	}

	leaf := r.Stages[len(r.Stages)-1]
	loE := leaf.MinError[m]
	hiE := leaf.MaxError[m]

	phatF := clampFloat(pred, 0, float64(r.N-1))
	phat := int(phatF)

	start := clampInt(phat+int(math.Floor(loE)), 0, r.N)
	end := clampInt(phat+int(math.Ceil(hiE))+1, 0, r.N)
	if start >= end {
		start, end = 0, r.N
	}

	window := r.SortedKeys[start:end]
	i := start + sort.Search(len(window), func(j int) bool { return window[j] >= key })
	// When the window does not bracket the answer, search the whole array.
	if (start > 0 && r.SortedKeys[start-1] >= key) || (i == end && end < r.N && r.SortedKeys[end] < key) {
		i = sort.Search(r.N, func(j int) bool { return r.SortedKeys[j] >= key })
	}
	return i
}

func (r *RMI) LowerBound(key common.KeyType) int {
	return r.Lookup(key)
}

// UpperBound finds the lower bound then advances over equal keys (spec §4.4).
func (r *RMI) UpperBound(key common.KeyType) int {
	i := r.Lookup(key)
	for i < r.N && r.SortedKeys[i] == key {
		i++
	}
	return i
}

// TotalSizeBytes sums model storage, per-model error bounds, and the sorted
// key/position arrays (spec §6.1).
func (r *RMI) TotalSizeBytes() int {
	total := 0
	for _, stage := range r.Stages {
		for _, m := range stage.Models {
			total += m.SizeInBytes()
		}
		total += len(stage.MinError) * 8
		total += len(stage.MaxError) * 8
	}
	total += len(r.SortedKeys) * 8
	total += len(r.SortedPositions) * 8
	return total
}

// AverageError samples up to 10000 keys at an even stride through
// SortedKeys and averages |Lookup(key) - i| (spec §6.1, grounded on
// original_source/rmi.cpp's get_average_error). Valid only after build.
func (r *RMI) AverageError() float64 {
	if r.N == 0 {
		return 0
	}

	sampleSize := r.N
	if sampleSize > 10000 {
		sampleSize = 10000
	}
	step := (r.N + sampleSize - 1) / sampleSize
	if step == 0 {
		step = 1
	}

	totalErr := 0.0
	count := 0
	for i := 0; i < r.N; i += step {
		key := r.SortedKeys[i]
		predicted := r.Lookup(key)
		diff := float64(predicted) - float64(i)
		if diff < 0 {
			diff = -diff
		}
		totalErr += diff
		count++
	}

	if count == 0 {
		return 0
	}
	return totalErr / float64(count)
}

// SampledErrors returns the per-leaf-model error bound widths, for
// diagnostics and benchmark reporting — not required by the core contract.
func (r *RMI) SampledErrors() []float64 {
	if len(r.Stages) == 0 {
		return nil
	}
	leaf := r.Stages[len(r.Stages)-1]
	out := make([]float64, len(leaf.Models))
	for i := range leaf.Models {
		out[i] = leaf.MaxError[i] - leaf.MinError[i]
	}
	return out
}

// gobRMI mirrors RMI's exported fields for gob encoding; Model is an
// interface and needs its concrete variants registered (see init above).
type gobRMI struct {
	Stages          []Stage
	SortedKeys      []float64
	SortedPositions []int
	N               int
	Config          Config
}

// Save persists the built RMI (models, error bounds, sorted keys) via gob.
// The core has no required persisted state (spec §6.5); this is a
// convenience for callers who want to skip rebuilding between runs.
func (r *RMI) Save() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	g := gobRMI{
		Stages:          r.Stages,
		SortedKeys:      r.SortedKeys,
		SortedPositions: r.SortedPositions,
		N:               r.N,
		Config:          r.Config,
	}
	if err := enc.Encode(g); err != nil {
		return nil, fmt.Errorf("model: encode rmi: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadRMI reconstructs an RMI previously produced by Save.
func LoadRMI(data []byte) (*RMI, error) {
	var g gobRMI
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&g); err != nil {
		return nil, fmt.Errorf("model: decode rmi: %w", err)
	}
	return &RMI{
		Stages:          g.Stages,
		SortedKeys:      g.SortedKeys,
		SortedPositions: g.SortedPositions,
		N:               g.N,
		Config:          g.Config,
	}, nil
}

// SaveFile persists the RMI directly to disk.
func (r *RMI) SaveFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	g := gobRMI{
		Stages:          r.Stages,
		SortedKeys:      r.SortedKeys,
		SortedPositions: r.SortedPositions,
		N:               r.N,
		Config:          r.Config,
	}
	return gob.NewEncoder(f).Encode(g)
}

// LoadRMIFile reconstructs an RMI previously written by SaveFile.
func LoadRMIFile(filename string) (*RMI, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var g gobRMI
	if err := gob.NewDecoder(f).Decode(&g); err != nil {
		return nil, err
	}
	return &RMI{
		Stages:          g.Stages,
		SortedKeys:      g.SortedKeys,
		SortedPositions: g.SortedPositions,
		N:               g.N,
		Config:          g.Config,
	}, nil
}
