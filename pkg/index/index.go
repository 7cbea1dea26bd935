// Package index provides the common query surface shared by the RMI and
// the page-tree baseline, the abstraction the benchmark orchestrator and
// network-facing servers depend on instead of either concrete type (spec
// §6.1, §2 component 6).
package index

import (
	"sort"

	"rmindex/pkg/baseline"
	"rmindex/pkg/common"
	"rmindex/pkg/model"
)

// Index hides whether queries are served by a learned model hierarchy or by
// the classical page tree. "Type" identifies which, for diagnostics and
// benchmark reports.
type Index interface {
	LowerBound(key common.KeyType) int
	UpperBound(key common.KeyType) int
	TotalSizeBytes() int
	Type() string
}

// Learned wraps model.RMI to satisfy Index.
type Learned struct {
	RMI *model.RMI
}

func BuildLearned(data []common.Record, cfg model.Config) (*Learned, error) {
	rmi := model.NewRMI(cfg)
	if err := rmi.Build(data); err != nil {
		return nil, err
	}
	return &Learned{RMI: rmi}, nil
}

func (l *Learned) LowerBound(key common.KeyType) int { return l.RMI.LowerBound(key) }
func (l *Learned) UpperBound(key common.KeyType) int { return l.RMI.UpperBound(key) }
func (l *Learned) TotalSizeBytes() int               { return l.RMI.TotalSizeBytes() }
func (l *Learned) AverageError() float64             { return l.RMI.AverageError() }

func (l *Learned) Type() string {
	if l.RMI.Config.NumHiddenLayers > 0 {
		return "Learned-NN"
	}
	return "Learned-Linear"
}

// Baseline wraps baseline.PageTree to satisfy Index.
type Baseline struct {
	Tree *baseline.PageTree
}

// BuildBaseline bulk-loads a page tree from data, sorting it first so both
// Index implementations see the same record order (a Benchmark Orchestrator
// typically sorts once and builds both from the shared array instead).
func BuildBaseline(data []common.Record, pageSize int) *Baseline {
	keys := make([]float64, len(data))
	for i, r := range data {
		keys[i] = r.Key
	}
	sort.Float64s(keys)

	tree := baseline.NewPageTree(pageSize)
	tree.Build(keys)
	return &Baseline{Tree: tree}
}

func (b *Baseline) LowerBound(key common.KeyType) int { return b.Tree.LowerBound(key) }
func (b *Baseline) UpperBound(key common.KeyType) int { return b.Tree.UpperBound(key) }
func (b *Baseline) TotalSizeBytes() int               { return b.Tree.TotalSizeBytes() }
func (b *Baseline) Type() string                      { return "BTree" }
