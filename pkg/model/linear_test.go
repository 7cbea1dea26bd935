package model

import (
	"math"
	"testing"

	"rmindex/pkg/common"
)

func TestLinearModelExactFit(t *testing.T) {
	lm := NewLinearModel()
	records := make([]common.Record, 10000)
	for i := range records {
		records[i] = common.Record{Key: float64(i), Position: i}
	}
	lm.Train(records)

	for _, r := range records {
		pred := lm.Predict(r.Key)
		if math.Abs(pred-float64(r.Position)) > 1e-6 {
			t.Fatalf("key %v: got %v, want %v", r.Key, pred, r.Position)
		}
	}
}

func TestLinearModelDegenerateConstantKeys(t *testing.T) {
	lm := NewLinearModel()
	records := []common.Record{
		{Key: 5, Position: 0},
		{Key: 5, Position: 1},
		{Key: 5, Position: 2},
	}
	lm.Train(records)

	if lm.Slope != 0 {
		t.Errorf("expected zero slope for constant-key bucket, got %v", lm.Slope)
	}
	want := 1.0 // mean of 0,1,2
	if math.Abs(lm.Intercept-want) > 1e-9 {
		t.Errorf("expected intercept = mean(y) = %v, got %v", want, lm.Intercept)
	}
}

func TestLinearModelSingleRecord(t *testing.T) {
	lm := NewLinearModel()
	lm.Train([]common.Record{{Key: 42, Position: 7}})
	if lm.Slope != 0 || lm.Intercept != 7 {
		t.Errorf("single-record bucket should degenerate to slope=0, intercept=position; got slope=%v intercept=%v", lm.Slope, lm.Intercept)
	}
}

func TestLinearModelEmptyTrainIsNoop(t *testing.T) {
	lm := NewLinearModel()
	lm.Train(nil)
	if lm.Slope != 0 || lm.Intercept != 0 {
		t.Errorf("empty train should leave placeholder zero parameters, got slope=%v intercept=%v", lm.Slope, lm.Intercept)
	}
}

func TestLinearModelSizeInBytes(t *testing.T) {
	lm := NewLinearModel()
	if got := lm.SizeInBytes(); got != 16 {
		t.Errorf("expected 16 bytes (two float64), got %d", got)
	}
}
