// Package monitor tracks lightweight runtime counters for the query surface
// and the benchmark orchestrator.
package monitor

import "sync/atomic"

// QueryStats counts lookups served and how they resolved: against the
// sorted domain (in range or not) and, where an oracle is available, against
// the baseline's answer.
type QueryStats struct {
	LookupCount       uint64
	OutOfRangeCount   uint64
	AgreementCount    uint64
	DisagreementCount uint64
}

func NewQueryStats() *QueryStats {
	return &QueryStats{}
}

func (qs *QueryStats) RecordLookup() {
	atomic.AddUint64(&qs.LookupCount, 1)
}

func (qs *QueryStats) RecordOutOfRange() {
	atomic.AddUint64(&qs.OutOfRangeCount, 1)
}

func (qs *QueryStats) RecordAgreement(agree bool) {
	if agree {
		atomic.AddUint64(&qs.AgreementCount, 1)
	} else {
		atomic.AddUint64(&qs.DisagreementCount, 1)
	}
}

// OutOfRangeRatio mirrors the teacher's GetReadWriteRatio shape: a
// percentage guarded against division by zero.
func (qs *QueryStats) OutOfRangeRatio() float64 {
	lookups := atomic.LoadUint64(&qs.LookupCount)
	outOfRange := atomic.LoadUint64(&qs.OutOfRangeCount)

	if lookups == 0 {
		return 0.0
	}
	return float64(outOfRange) / float64(lookups) * 100.0
}

// DisagreementRatio reports how often a lookup diverged from the oracle it
// was checked against, as a percentage of checked lookups.
func (qs *QueryStats) DisagreementRatio() float64 {
	agree := atomic.LoadUint64(&qs.AgreementCount)
	disagree := atomic.LoadUint64(&qs.DisagreementCount)
	checked := agree + disagree

	if checked == 0 {
		return 0.0
	}
	return float64(disagree) / float64(checked) * 100.0
}
