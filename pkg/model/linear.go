package model

import (
	"math"

	"rmindex/pkg/common"
)

// LinearModel is a closed-form least-squares fit of key -> position (spec
// §4.1). It is also installed as the zero-parameter placeholder for empty
// training buckets (spec I5).
type LinearModel struct {
	Slope     float64
	Intercept float64
}

func NewLinearModel() *LinearModel {
	return &LinearModel{}
}

// Train computes slope/intercept in a single pass over records, tie-break
// free since records are assumed already in (key, position) form.
func (lm *LinearModel) Train(records []common.Record) {
	if len(records) == 0 {
		return
	}

	n := float64(len(records))
	var sumX, sumY, sumXY, sumXX float64
	for _, r := range records {
		x := r.Key
		y := float64(r.Position)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	meanX := sumX / n
	meanY := sumY / n
	denominator := sumXX - n*meanX*meanX

	if math.Abs(denominator) < 1e-10 {
		lm.Slope = 0
		lm.Intercept = meanY
		return
	}

	lm.Slope = (sumXY - n*meanX*meanY) / denominator
	lm.Intercept = meanY - lm.Slope*meanX
}

func (lm *LinearModel) Predict(key common.KeyType) float64 {
	return lm.Slope*key + lm.Intercept
}

func (lm *LinearModel) SizeInBytes() int {
	return 2 * 8 // Slope, Intercept: two float64
}
