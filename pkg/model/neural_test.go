package model

import (
	"math"
	"testing"

	"rmindex/pkg/common"
)

func sequentialRecords(n int) []common.Record {
	records := make([]common.Record, n)
	for i := 0; i < n; i++ {
		records[i] = common.Record{Key: float64(i), Position: i}
	}
	return records
}

func TestNeuralModelLearnsSequentialRange(t *testing.T) {
	nm := NewNeuralModel(8, 2)
	records := sequentialRecords(2000)
	nm.Train(records)

	var sumAbsErr float64
	for _, r := range records {
		pred := nm.Predict(r.Key)
		sumAbsErr += math.Abs(pred - float64(r.Position))
	}
	meanAbsErr := sumAbsErr / float64(len(records))
	if meanAbsErr > float64(len(records))*0.1 {
		t.Errorf("mean abs error too large for a near-linear CDF: %v", meanAbsErr)
	}
}

func TestNeuralModelDeterministic(t *testing.T) {
	records := sequentialRecords(500)

	a := NewNeuralModel(4, 1)
	a.Train(records)
	b := NewNeuralModel(4, 1)
	b.Train(records)

	for _, r := range records[:10] {
		pa := a.Predict(r.Key)
		pb := b.Predict(r.Key)
		if pa != pb {
			t.Fatalf("seeded training should be deterministic: key %v got %v vs %v", r.Key, pa, pb)
		}
	}
}

func TestNeuralModelUseLogHeuristic(t *testing.T) {
	nm := NewNeuralModel(4, 1)
	records := []common.Record{
		{Key: 1, Position: 0},
		{Key: 1e6, Position: 1},
	}
	nm.Train(records)
	if !nm.UseLog {
		t.Errorf("expected heavy-tail heuristic to trigger use_log for max/min = 1e6")
	}
}

func TestNeuralModelNoLogForNarrowRange(t *testing.T) {
	nm := NewNeuralModel(4, 1)
	records := sequentialRecords(100)
	nm.Train(records)
	if nm.UseLog {
		t.Errorf("did not expect use_log for a narrow sequential range")
	}
}

func TestNeuralModelSingleLayerShape(t *testing.T) {
	nm := NewNeuralModel(8, 1)
	if len(nm.Layers) != 1 {
		t.Fatalf("expected exactly 1 layer, got %d", len(nm.Layers))
	}
	if nm.Layers[0].In != 1 || nm.Layers[0].Out != 1 {
		t.Errorf("L==1 should map scalar input directly to scalar output, got in=%d out=%d", nm.Layers[0].In, nm.Layers[0].Out)
	}
}

func TestNeuralModelMultiLayerShape(t *testing.T) {
	nm := NewNeuralModel(8, 3)
	if len(nm.Layers) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(nm.Layers))
	}
	if nm.Layers[0].In != 1 || nm.Layers[0].Out != 8 {
		t.Errorf("layer 0 should map 1->H, got in=%d out=%d", nm.Layers[0].In, nm.Layers[0].Out)
	}
	if nm.Layers[1].In != 8 || nm.Layers[1].Out != 8 {
		t.Errorf("middle layer should map H->H, got in=%d out=%d", nm.Layers[1].In, nm.Layers[1].Out)
	}
	if nm.Layers[2].In != 8 || nm.Layers[2].Out != 1 {
		t.Errorf("final layer should map H->1, got in=%d out=%d", nm.Layers[2].In, nm.Layers[2].Out)
	}
}

func TestNeuralModelEmptyTrainIsNoop(t *testing.T) {
	nm := NewNeuralModel(4, 1)
	nm.Train(nil)
	if nm.Predict(0) != 0 {
		t.Errorf("untrained model should predict 0, got %v", nm.Predict(0))
	}
}
