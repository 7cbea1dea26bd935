package dataset

import (
	"hash/fnv"
	"math"

	"github.com/google/btree"

	"rmindex/pkg/common"
)

// stageItem orders staged records by key, tie-broken by position, so a
// Stager can merge several Sources into one ascending sequence without a
// final sort pass (grounded on pkg/core/memory/memtable.go's btree.Item).
type stageItem struct {
	common.Record
}

func (i stageItem) Less(than btree.Item) bool {
	o := than.(stageItem)
	if i.Key != o.Key {
		return i.Key < o.Key
	}
	return i.Position < o.Position
}

// dedupFilter is a probabilistic "have I seen this key before" prefilter,
// adapted from pkg/core/structure/bloom.go for float64 keys (the teacher's
// version truncates the key to int64 before hashing, which collides
// fractional keys that share an integer part -- real-valued keys need the
// full bit pattern).
type dedupFilter struct {
	bitset []bool
	k, m   uint
}

func newDedupFilter(n uint, falsePositiveRate float64) *dedupFilter {
	if n == 0 {
		n = 1
	}
	m := uint(math.Ceil(float64(n) * math.Log(falsePositiveRate) / math.Log(1.0/math.Pow(2.0, math.Log(2.0)))))
	if m == 0 {
		m = 1
	}
	k := uint(math.Ceil((float64(m) / float64(n)) * math.Log(2.0)))
	if k == 0 {
		k = 1
	}
	return &dedupFilter{bitset: make([]bool, m), k: k, m: m}
}

func (f *dedupFilter) positions(key float64) (h1, h2 uint32) {
	bits := int64(math.Float64bits(key))
	h := fnv.New32a()
	h.Write([]byte{
		byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24),
		byte(bits >> 32), byte(bits >> 40), byte(bits >> 48), byte(bits >> 56),
	})
	return h.Sum32(), uint32(bits ^ (bits >> 32))
}

func (f *dedupFilter) add(key float64) {
	h1, h2 := f.positions(key)
	for i := uint(0); i < f.k; i++ {
		pos := (h1 + uint32(i)*h2) % uint32(f.m)
		f.bitset[pos] = true
	}
}

func (f *dedupFilter) maybeContains(key float64) bool {
	h1, h2 := f.positions(key)
	for i := uint(0); i < f.k; i++ {
		pos := (h1 + uint32(i)*h2) % uint32(f.m)
		if !f.bitset[pos] {
			return false
		}
	}
	return true
}

// Stager merges records from one or more Sources into a single ordered,
// duplicate-free batch ready for RMI.Build. "Duplicate" here means an exact
// (key, position) pair arriving twice -- e.g. a source file read twice, or
// overlapping chunks of a sharded ingest -- not merely a repeated key
// (repeated keys are legitimate input, per spec scenario E2).
type Stager struct {
	tree   *btree.BTree
	filter *dedupFilter
	count  int
}

func NewStager(estimatedCount int, falsePositiveRate float64) *Stager {
	if falsePositiveRate <= 0 || falsePositiveRate >= 1 {
		falsePositiveRate = 0.01
	}
	return &Stager{
		tree:   btree.New(32),
		filter: newDedupFilter(uint(estimatedCount), falsePositiveRate),
	}
}

// Add stages one record, returning false if it was a confirmed duplicate of
// an already-staged (key, position) pair.
func (s *Stager) Add(rec common.Record) bool {
	item := stageItem{rec}
	if s.filter.maybeContains(rec.Key) {
		if existing := s.tree.Get(item); existing != nil {
			return false
		}
	}
	s.filter.add(rec.Key)
	s.tree.ReplaceOrInsert(item)
	s.count++
	return true
}

// AddAll stages every record from a Source, returning the number of
// confirmed duplicates skipped.
func (s *Stager) AddAll(src Source) (skipped int, err error) {
	records, err := src.Load()
	if err != nil {
		return 0, err
	}
	for _, r := range records {
		if !s.Add(r) {
			skipped++
		}
	}
	return skipped, nil
}

// Drain returns every staged record in ascending key order, positions
// renumbered 0..count-1 to match the final sequence (spec §6.2).
func (s *Stager) Drain() []common.Record {
	out := make([]common.Record, 0, s.count)
	s.tree.Ascend(func(i btree.Item) bool {
		out = append(out, i.(stageItem).Record)
		return true
	})
	for i := range out {
		out[i].Position = i
	}
	return out
}

func (s *Stager) Len() int { return s.count }
