package dataset

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"rmindex/pkg/common"
)

// nasaTimestampLayout matches "[01/Jul/1995:00:00:01 -0400]" with the
// brackets stripped, per original_source/dataset_loader.hpp's
// parse_nasa_timestamp.
const nasaTimestampLayout = "02/Jan/2006:15:04:05 -0700"

// WebLogSource extracts the bracketed timestamp from each line of a
// Common-Log-Format access log and uses its Unix epoch as the key
// (grounded on original_source/dataset_loader.hpp's load_nasa_logs).
type WebLogSource struct {
	Path       string
	MaxRecords int // 0 means unbounded
}

func (w WebLogSource) Load() ([]common.Record, error) {
	f, err := os.Open(w.Path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", w.Path, err)
	}
	defer f.Close()

	var keys []float64
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		start := strings.IndexByte(line, '[')
		end := strings.IndexByte(line, ']')
		if start < 0 || end < 0 || end <= start {
			continue
		}
		ts, err := time.Parse(nasaTimestampLayout, line[start+1:end])
		if err != nil {
			continue
		}
		keys = append(keys, float64(ts.Unix()))
		if w.MaxRecords > 0 && len(keys) >= w.MaxRecords {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dataset: scan %s: %w", w.Path, err)
	}

	sort.Float64s(keys)
	return toRecords(keys), nil
}
