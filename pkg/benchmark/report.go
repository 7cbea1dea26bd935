package benchmark

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// PrintTable renders results in the teacher's fixed-width column style,
// grounded on benchmark.cpp's print_results.
func PrintTable(w io.Writer, datasetName string, datasetSize int, results []Result) {
	fmt.Fprintln(w, strings.Repeat("=", 100))
	fmt.Fprintf(w, "DATASET: %s (%d records)\n", datasetName, datasetSize)
	fmt.Fprintln(w, strings.Repeat("=", 100))
	fmt.Fprintf(w, "%-35s%15s%15s%15s%15s\n", "Configuration", "Build (ms)", "Lookup (ns)", "Size (MB)", "Avg Error")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range results {
		sizeMB := float64(r.SizeBytes) / (1024.0 * 1024.0)
		fmt.Fprintf(w, "%-35s%15.2f%15.2f%15.2f%15.1f\n", r.Name, r.BuildTimeMs, r.AvgLookupNs, sizeMB, r.AvgError)
	}
	fmt.Fprintln(w, strings.Repeat("=", 100))
}

// jsonResult mirrors benchmark.cpp's per-result JSON object; size is
// reported in MB to match save_results_json's units.
type jsonResult struct {
	Name        string  `json:"name"`
	BuildTimeMs float64 `json:"build_time_ms"`
	AvgLookupNs float64 `json:"avg_lookup_ns"`
	SizeMB      float64 `json:"size_mb"`
	AvgError    float64 `json:"avg_error"`
}

// SaveResultsJSON writes allResults (dataset name -> results) as JSON,
// grounded on benchmark.cpp's save_results_json.
func SaveResultsJSON(w io.Writer, allResults map[string][]Result) error {
	out := make(map[string][]jsonResult, len(allResults))
	for dataset, results := range allResults {
		rows := make([]jsonResult, len(results))
		for i, r := range results {
			rows[i] = jsonResult{
				Name:        r.Name,
				BuildTimeMs: r.BuildTimeMs,
				AvgLookupNs: r.AvgLookupNs,
				SizeMB:      float64(r.SizeBytes) / (1024.0 * 1024.0),
				AvgError:    r.AvgError,
			}
		}
		out[dataset] = rows
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
