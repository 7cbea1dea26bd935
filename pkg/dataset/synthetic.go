package dataset

import (
	"math"
	"math/rand"
	"sort"

	"rmindex/pkg/common"
)

// Sequential produces 0, 1, 2, ..., Count-1 -- the strictly increasing
// dataset of spec scenario E5.
type Sequential struct {
	Count int
}

func (s Sequential) Load() ([]common.Record, error) {
	keys := make([]float64, s.Count)
	for i := range keys {
		keys[i] = float64(i)
	}
	return toRecords(keys), nil
}

// Uniform draws Count samples uniformly from [0, Max) with a fixed seed.
type Uniform struct {
	Count int
	Max   float64
	Seed  int64
}

func (u Uniform) Load() ([]common.Record, error) {
	rng := rand.New(rand.NewSource(u.Seed))
	keys := make([]float64, u.Count)
	for i := range keys {
		keys[i] = rng.Float64() * u.Max
	}
	sort.Float64s(keys)
	return toRecords(keys), nil
}

// Synthetic draws Count samples from a lognormal distribution (mu=0,
// sigma=2), scaled by 1e9, matching the heavy-tailed dataset used
// throughout benchmarking (spec scenarios E3/E4; grounded on
// original_source/dataset_loader.hpp's generate_lognormal, seed 42).
type Synthetic struct {
	Count int
	Seed  int64
}

func (s Synthetic) Load() ([]common.Record, error) {
	seed := s.Seed
	if seed == 0 {
		seed = 42
	}
	rng := rand.New(rand.NewSource(seed))
	keys := make([]float64, s.Count)
	for i := range keys {
		z := rng.NormFloat64() * 2.0
		keys[i] = math.Exp(z) * 1e9
	}
	sort.Float64s(keys)
	return toRecords(keys), nil
}
