// Package dataset implements the producers that feed the RMI and baseline
// builds. They are external collaborators per spec §1 / §6.2: each must
// deliver a finite sequence of (key, position) pairs; the engine sorts and
// renumbers positions itself, so a Source's own position field is advisory.
package dataset

import "rmindex/pkg/common"

// Source is the collaborator contract of spec §6.2.
type Source interface {
	Load() ([]common.Record, error)
}

func toRecords(keys []float64) []common.Record {
	records := make([]common.Record, len(keys))
	for i, k := range keys {
		records[i] = common.Record{Key: k, Position: i}
	}
	return records
}
