// Package store persists table row sets as per-table JSON artifacts.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound reports that no artifact exists for a table. Restore treats it
// as a per-table skip, not a failure.
var ErrNotFound = errors.New("no artifact for table")

// Store reads and writes one JSON file per table under Dir.
type Store struct {
	Dir string
}

func New(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the artifact location for a table.
func (s *Store) Path(table string) string {
	return filepath.Join(s.Dir, table+".json")
}

// Exists reports whether a regular-file artifact is present for the table.
func (s *Store) Exists(table string) bool {
	info, err := os.Stat(s.Path(table))
	return err == nil && info.Mode().IsRegular()
}

// Write serializes rows to the table's artifact. An empty row set produces a
// valid empty-array artifact.
func (s *Store) Write(table string, rows RowSet) error {
	if rows == nil {
		rows = RowSet{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encoding rows for %s: %w", table, err)
	}
	if err := os.WriteFile(s.Path(table), data, 0644); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	return nil
}

// Read loads the table's artifact. Returns ErrNotFound when no artifact
// exists.
func (s *Store) Read(table string) (RowSet, error) {
	data, err := os.ReadFile(s.Path(table))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", table, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	var rows RowSet
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.Path(table), err)
	}
	return rows, nil
}
