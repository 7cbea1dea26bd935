package sql

import (
	"testing"
)

func TestParseSelect(t *testing.T) {
	tests := []struct {
		sql   string
		table string
		limit int
		hasW  bool
		err   bool
	}{
		{"SELECT * FROM users", "users", -1, false, false},
		{"select * from users", "users", -1, false, false},
		{"SELECT * FROM users;", "users", -1, false, false},
		{"  SELECT * FROM products  ", "products", -1, false, false},
		{"SELECT * FROM my_table_1", "my_table_1", -1, false, false},
		{"SELECT * FROM users LIMIT 10", "users", 10, false, false},
		{"SELECT * FROM users WHERE id >= 100", "users", -1, true, false},
		{"SELECT * FROM users WHERE id >= 100 LIMIT 5", "users", 5, true, false},
		{"SELECT * FROM users WHERE name = 1", "", 0, false, true},
		{"SELECT * FROM ", "", 0, false, true},
		{"SELECT a FROM users", "", 0, false, true},
		{"INSERT INTO users", "", 0, false, true},
		{"", "", 0, false, true},
	}
	for _, tt := range tests {
		stmt, err := Parse(tt.sql)
		if tt.err {
			if err == nil {
				t.Errorf("Parse(%q): expected error", tt.sql)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.sql, err)
			continue
		}
		if stmt.Table != tt.table {
			t.Errorf("Parse(%q): table=%q, want %q", tt.sql, stmt.Table, tt.table)
		}
		if stmt.Limit != tt.limit {
			t.Errorf("Parse(%q): limit=%d, want %d", tt.sql, stmt.Limit, tt.limit)
		}
		if (stmt.Where != nil) != tt.hasW {
			t.Errorf("Parse(%q): where=%v, want hasWhere=%v", tt.sql, stmt.Where, tt.hasW)
		}
	}
}

// fakeIndex is a minimal RangeIndex for exercising Range without pulling in
// pkg/index (which would make this a cross-package test).
type fakeIndex struct{ keys []float64 }

func (f fakeIndex) LowerBound(key float64) int {
	i := 0
	for i < len(f.keys) && f.keys[i] < key {
		i++
	}
	return i
}

func (f fakeIndex) UpperBound(key float64) int {
	i := 0
	for i < len(f.keys) && f.keys[i] <= key {
		i++
	}
	return i
}

func TestRange(t *testing.T) {
	idx := fakeIndex{keys: []float64{10, 20, 20, 30, 40}}
	n := len(idx.keys)

	stmt, _ := Parse("SELECT * FROM users WHERE id >= 20")
	start, end, exact := stmt.Range(idx, n)
	if !exact || start != 1 || end != n {
		t.Errorf("id>=20: got (%d,%d,%v), want (1,%d,true)", start, end, exact, n)
	}

	stmt2, _ := Parse("SELECT * FROM users WHERE id = 20")
	start2, end2, exact2 := stmt2.Range(idx, n)
	if !exact2 || start2 != 1 || end2 != 3 {
		t.Errorf("id=20: got (%d,%d,%v), want (1,3,true)", start2, end2, exact2)
	}

	stmt3, _ := Parse("SELECT * FROM users WHERE id != 20")
	_, _, exact3 := stmt3.Range(idx, n)
	if exact3 {
		t.Errorf("id!=20 should not be representable as a single exact range")
	}

	stmt4, _ := Parse("SELECT * FROM users")
	start4, end4, exact4 := stmt4.Range(idx, n)
	if !exact4 || start4 != 0 || end4 != n {
		t.Errorf("no WHERE: got (%d,%d,%v), want (0,%d,true)", start4, end4, exact4, n)
	}
}

func TestMatchID(t *testing.T) {
	stmt, _ := Parse("SELECT * FROM users WHERE id >= 10")
	if stmt.MatchID(9) {
		t.Fatalf("expected id=9 not to match")
	}
	if !stmt.MatchID(10) || !stmt.MatchID(11) {
		t.Fatalf("expected id>=10 to match")
	}
	stmt2, _ := Parse("SELECT * FROM users")
	if !stmt2.MatchID(1) || !stmt2.MatchID(999) {
		t.Fatalf("expected query without WHERE to match any id")
	}
}
