package storage

import (
	"path/filepath"
	"testing"

	"rmindex/pkg/common"
)

func TestDatasetStoreBatchStageAndLoadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staged.db")
	store, err := NewDatasetStore(path)
	if err != nil {
		t.Fatalf("NewDatasetStore: %v", err)
	}
	defer store.Close()

	records := []common.Record{
		{Key: 30, Position: 2},
		{Key: 10, Position: 0},
		{Key: 20, Position: 1},
	}
	if err := store.BatchStage(records); err != nil {
		t.Fatalf("BatchStage: %v", err)
	}

	loaded, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 records, got %d", len(loaded))
	}
	for i, want := range []float64{10, 20, 30} {
		if loaded[i].Key != want {
			t.Errorf("record %d: key = %v, want %v", i, loaded[i].Key, want)
		}
	}
}

func TestDatasetStoreBatchStageFast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staged.db")
	store, err := NewDatasetStore(path)
	if err != nil {
		t.Fatalf("NewDatasetStore: %v", err)
	}
	defer store.Close()

	records := make([]common.Record, 0, 500)
	for i := 0; i < 500; i++ {
		records = append(records, common.Record{Key: float64(500 - i), Position: i})
	}
	if err := store.BatchStageFast(records); err != nil {
		t.Fatalf("BatchStageFast: %v", err)
	}

	loaded, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(loaded) != 500 {
		t.Fatalf("expected 500 records, got %d", len(loaded))
	}
	for i := 1; i < len(loaded); i++ {
		if loaded[i].Key < loaded[i-1].Key {
			t.Fatalf("not sorted ascending at %d", i)
		}
	}
}

func TestDatasetStoreTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staged.db")
	store, err := NewDatasetStore(path)
	if err != nil {
		t.Fatalf("NewDatasetStore: %v", err)
	}
	defer store.Close()

	store.BatchStage([]common.Record{{Key: 1, Position: 0}})
	if err := store.Truncate(); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	loaded, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty store after truncate, got %d records", len(loaded))
	}
}
