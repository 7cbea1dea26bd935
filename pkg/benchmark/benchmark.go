// Package benchmark times and compares built index.Index candidates,
// grounded on original_source/benchmark.cpp's benchmark_btree/benchmark_learned
// and the teacher's LearnedIndex.BenchmarkInternal timing shape.
package benchmark

import (
	"sort"
	"time"

	"rmindex/pkg/common"
)

// Index is the subset of index.Index the orchestrator needs. Declared
// locally (rather than importing rmindex/pkg/index) so this package can be
// driven by any candidate implementation, including test doubles.
type Index interface {
	LowerBound(key float64) int
	UpperBound(key float64) int
	TotalSizeBytes() int
	Type() string
}

// Result mirrors benchmark.cpp's BenchmarkResult: one row of the comparison
// table for a single candidate against a single dataset/query set.
type Result struct {
	Name        string
	BuildTimeMs float64
	AvgLookupNs float64
	SizeBytes   int
	AvgError    float64
}

// Orchestrator runs timed query sweeps against a set of pre-built
// candidates and scores each against a binary-search oracle over data.
type Orchestrator struct{}

func NewOrchestrator() *Orchestrator {
	return &Orchestrator{}
}

// Run times a query sweep against every candidate and computes each one's
// average absolute position error relative to data (which must already be
// sorted by key, the same input every candidate was built from). Build
// time is not measured here — candidates arrive pre-built, since building a
// learned model and a page tree require different constructors; callers
// time their own Build call with BuildTimer and pass the elapsed duration in
// via buildTimesMs.
func (o *Orchestrator) Run(data []common.Record, queries []float64, candidates map[string]Index, buildTimesMs map[string]float64) []Result {
	results := make([]Result, 0, len(candidates))

	names := make([]string, 0, len(candidates))
	for name := range candidates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		idx := candidates[name]
		start := time.Now()
		var totalErr float64
		for _, q := range queries {
			pred := idx.LowerBound(q)
			truePos := oracleLowerBound(data, q)
			diff := pred - truePos
			if diff < 0 {
				diff = -diff
			}
			totalErr += float64(diff)
		}
		elapsed := time.Since(start)

		avgErr := 0.0
		if len(queries) > 0 {
			avgErr = totalErr / float64(len(queries))
		}

		results = append(results, Result{
			Name:        name,
			BuildTimeMs: buildTimesMs[name],
			AvgLookupNs: float64(elapsed.Nanoseconds()) / float64(maxInt(len(queries), 1)),
			SizeBytes:   idx.TotalSizeBytes(),
			AvgError:    avgErr,
		})
	}
	return results
}

// BuildTimer times a build function and returns its elapsed milliseconds
// alongside whatever error the build function returns.
func BuildTimer(build func() error) (float64, error) {
	start := time.Now()
	err := build()
	return float64(time.Since(start).Milliseconds()), err
}

func oracleLowerBound(data []common.Record, key float64) int {
	return sort.Search(len(data), func(i int) bool {
		return data[i].Key >= key
	})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
