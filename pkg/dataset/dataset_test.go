package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"rmindex/pkg/common"
)

func TestSequentialSource(t *testing.T) {
	records, err := Sequential{Count: 100}.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 100 {
		t.Fatalf("expected 100 records, got %d", len(records))
	}
	for i, r := range records {
		if r.Key != float64(i) {
			t.Errorf("record %d: key = %v, want %v", i, r.Key, i)
		}
	}
}

func TestUniformSourceSortedAndDeterministic(t *testing.T) {
	a, _ := Uniform{Count: 1000, Max: 500, Seed: 7}.Load()
	b, _ := Uniform{Count: 1000, Max: 500, Seed: 7}.Load()
	for i := range a {
		if a[i].Key != b[i].Key {
			t.Fatalf("same seed should reproduce identical dataset, differs at %d", i)
		}
		if i > 0 && a[i].Key < a[i-1].Key {
			t.Fatalf("dataset not sorted ascending at index %d", i)
		}
	}
}

func TestSyntheticLognormalSorted(t *testing.T) {
	records, err := Synthetic{Count: 5000, Seed: 42}.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := 1; i < len(records); i++ {
		if records[i].Key < records[i-1].Key {
			t.Fatalf("synthetic dataset not sorted at index %d", i)
		}
	}
}

func TestCSVColumnSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "points.csv")
	content := "id,lon,lat\n1,10.5,0\n2,bad,0\n3,-4.25,0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	src := CSVColumnSource{Path: path, Column: 1, HasHeader: true}
	records, err := src.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 valid numeric rows (one malformed skipped), got %d", len(records))
	}
	if records[0].Key != -4.25 || records[1].Key != 10.5 {
		t.Errorf("expected sorted [-4.25, 10.5], got %v, %v", records[0].Key, records[1].Key)
	}
}

func TestWebLogSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "access.log")
	content := `127.0.0.1 - - [01/Jul/1995:00:00:01 -0400] "GET / HTTP/1.0" 200 1024
127.0.0.1 - - [01/Jul/1995:00:00:00 -0400] "GET /a HTTP/1.0" 200 512
not a log line without brackets
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	records, err := WebLogSource{Path: path}.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 parsed timestamps, got %d", len(records))
	}
	if records[0].Key > records[1].Key {
		t.Errorf("expected ascending sort by epoch, got %v then %v", records[0].Key, records[1].Key)
	}
}

func TestStagerDedupesExactRecords(t *testing.T) {
	s := NewStager(100, 0.01)

	added1 := s.Add(common.Record{Key: 5, Position: 0})
	added2 := s.Add(common.Record{Key: 5, Position: 0}) // exact duplicate (key, position)
	added3 := s.Add(common.Record{Key: 5, Position: 1}) // same key, different position: legitimate duplicate key

	if !added1 {
		t.Errorf("first add should succeed")
	}
	if added2 {
		t.Errorf("exact duplicate (key, position) should be rejected")
	}
	if !added3 {
		t.Errorf("same key at a different position is legitimate and should be kept")
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 staged records, got %d", s.Len())
	}
}

func TestStagerDrainOrdersAndRenumbers(t *testing.T) {
	s := NewStager(10, 0.01)
	for _, k := range []float64{3, 1, 2} {
		s.Add(common.Record{Key: k, Position: 0})
	}
	out := s.Drain()
	for i, r := range out {
		if r.Position != i {
			t.Errorf("record %d: position = %d, want %d", i, r.Position, i)
		}
	}
	if out[0].Key != 1 || out[1].Key != 2 || out[2].Key != 3 {
		t.Errorf("expected ascending [1,2,3], got %v", out)
	}
}
