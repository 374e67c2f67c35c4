// Package resultstore is a SQLite-backed cache of previously computed
// (start,stop) -> count/checksum sieve runs, keyed so a repeated CLI
// invocation over the same range skips the sieve entirely.
//
// Grounded on main.go's openDatabase/loadPoolsFromDatabase and
// router.go's sql.Open("sqlite3", path) pattern: a single *sql.DB handle
// opened once; a schema-creation failure is returned from Open as an error,
// and a normal cache miss is the ErrCacheMiss sentinel.
package resultstore

import (
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"
)

// ErrCacheMiss signals that no cached row exists for a given (start,stop) —
// normal flow, not logged as an error (§7).
var ErrCacheMiss = errors.New("resultstore: cache miss")

// Row is one cached sieve run.
type Row struct {
	Start, Stop uint64
	Count       uint64
	Checksum    [32]byte
	ComputedAt  int64 // unix seconds
}

// Store wraps a sieve_runs cache table in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures the sieve_runs table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	const schema = `
		CREATE TABLE IF NOT EXISTS sieve_runs (
			start       INTEGER NOT NULL,
			stop        INTEGER NOT NULL,
			count       INTEGER NOT NULL,
			checksum    BLOB NOT NULL,
			computed_at INTEGER NOT NULL,
			PRIMARY KEY (start, stop)
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lookup returns the cached row for [start, stop), or ErrCacheMiss if none
// exists.
func (s *Store) Lookup(start, stop uint64) (Row, error) {
	var row Row
	var checksum []byte
	err := s.db.QueryRow(
		`SELECT start, stop, count, checksum, computed_at FROM sieve_runs WHERE start = ? AND stop = ?`,
		start, stop,
	).Scan(&row.Start, &row.Stop, &row.Count, &checksum, &row.ComputedAt)
	if err == sql.ErrNoRows {
		return Row{}, ErrCacheMiss
	}
	if err != nil {
		return Row{}, err
	}
	if len(checksum) != len(row.Checksum) {
		return Row{}, ErrCacheMiss
	}
	copy(row.Checksum[:], checksum)
	return row, nil
}

// Put inserts or replaces the cached row for [start, stop).
func (s *Store) Put(row Row) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO sieve_runs (start, stop, count, checksum, computed_at) VALUES (?, ?, ?, ?, ?)`,
		row.Start, row.Stop, row.Count, row.Checksum[:], row.ComputedAt,
	)
	return err
}
