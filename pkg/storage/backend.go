// Package storage persists staged dataset records to disk so ingestion of a
// very large source (a NASA access log, a multi-gigabyte CSV column) does
// not need to be re-parsed on every run before a bulk Build.
package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"rmindex/pkg/common"
)

// DatasetStore is a sqlite-backed cache of staged (key, position) records,
// grounded on the teacher's SQLiteBackend (same database/sql + modernc.org/sqlite
// stack, same mutex-guarded batch-write shape) repurposed from an arbitrary
// KV payload store to a dataset staging cache.
type DatasetStore struct {
	db *sql.DB
	mu sync.Mutex
}

func NewDatasetStore(path string) (*DatasetStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS staged_records (
			key      REAL NOT NULL,
			position INTEGER NOT NULL
		);`); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: init schema: %w", err)
	}

	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA synchronous = NORMAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: set pragma: %w", err)
	}

	return &DatasetStore{db: db}, nil
}

// BatchStage appends a batch of staged records inside a single transaction
// (grounded on SQLiteBackend.BatchWrite).
func (s *DatasetStore) BatchStage(records []common.Record) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: begin tx: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO staged_records (key, position) VALUES (?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("storage: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.Key, rec.Position); err != nil {
			tx.Rollback()
			return fmt.Errorf("storage: insert record: %w", err)
		}
	}

	return tx.Commit()
}

// BatchStageFast mirrors SQLiteBackend.BatchWriteFast's single multi-value
// INSERT for large batches where per-row prepared-statement overhead
// dominates.
func (s *DatasetStore) BatchStageFast(records []common.Record) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := "INSERT INTO staged_records (key, position) VALUES "
	vals := make([]interface{}, 0, len(records)*2)
	placeholders := make([]string, 0, len(records))

	for _, r := range records {
		placeholders = append(placeholders, "(?, ?)")
		vals = append(vals, r.Key, r.Position)
	}

	query += strings.Join(placeholders, ",")
	_, err := s.db.Exec(query, vals...)
	if err != nil {
		return fmt.Errorf("storage: batch insert: %w", err)
	}
	return nil
}

// LoadAll returns every staged record ordered by key ascending, ready to
// hand to RMI.Build (positions are renumbered by the build itself).
func (s *DatasetStore) LoadAll() ([]common.Record, error) {
	rows, err := s.db.Query("SELECT key, position FROM staged_records ORDER BY key ASC")
	if err != nil {
		return nil, fmt.Errorf("storage: query staged records: %w", err)
	}
	defer rows.Close()

	var records []common.Record
	for rows.Next() {
		var rec common.Record
		if err := rows.Scan(&rec.Key, &rec.Position); err != nil {
			return nil, fmt.Errorf("storage: scan staged record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *DatasetStore) Truncate() error {
	if _, err := s.db.Exec("DELETE FROM staged_records"); err != nil {
		return fmt.Errorf("storage: truncate: %w", err)
	}
	return nil
}

func (s *DatasetStore) Close() error {
	return s.db.Close()
}
