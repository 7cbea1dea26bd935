package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"rmindex/pkg/common"
)

// CSVColumnSource loads one numeric column from a delimited file, skipping
// a header row if present (grounded on
// original_source/dataset_loader.hpp's load_csv_column / load_osm_longitudes).
type CSVColumnSource struct {
	Path       string
	Column     int
	HasHeader  bool
	Delimiter  rune
	MaxRecords int // 0 means unbounded
}

func (c CSVColumnSource) Load() ([]common.Record, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", c.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows may have ragged trailing fields
	if c.Delimiter != 0 {
		r.Comma = c.Delimiter
	}

	if c.HasHeader {
		if _, err := r.Read(); err != nil {
			return nil, fmt.Errorf("dataset: read header: %w", err)
		}
	}

	var keys []float64
	for {
		row, err := r.Read()
		if err != nil {
			break // EOF or malformed trailing row; stop reading like the source loader does
		}
		if c.Column >= len(row) {
			continue
		}
		v, err := strconv.ParseFloat(row[c.Column], 64)
		if err != nil {
			continue
		}
		keys = append(keys, v)
		if c.MaxRecords > 0 && len(keys) >= c.MaxRecords {
			break
		}
	}

	sort.Float64s(keys)
	return toRecords(keys), nil
}
