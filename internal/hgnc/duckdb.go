package hgnc

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

// Store holds a converted reference table in a DuckDB database. The ord
// column preserves TSV file order, which resolution semantics depend on.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSchema creates the reference table if it doesn't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS hgnc (
		ord INTEGER,
		hgnc_id VARCHAR,
		approved VARCHAR,
		previous VARCHAR,
		aliases VARCHAR,
		refseq VARCHAR,
		PRIMARY KEY (ord)
	)`)
	return err
}

// WriteTable replaces the stored reference table with the given one.
func (s *Store) WriteTable(t *Table) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM hgnc`); err != nil {
		return fmt.Errorf("clear hgnc table: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO hgnc (ord, hgnc_id, approved, previous, aliases, refseq)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range t.Entries() {
		previous, err := json.Marshal(e.Previous)
		if err != nil {
			return fmt.Errorf("marshal previous symbols: %w", err)
		}
		aliases, err := json.Marshal(e.Aliases)
		if err != nil {
			return fmt.Errorf("marshal alias symbols: %w", err)
		}

		if _, err := stmt.Exec(i, e.ID, e.Approved, string(previous), string(aliases), e.RefSeq); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// ReadTable loads the stored reference table in original file order.
func (s *Store) ReadTable() (*Table, error) {
	rows, err := s.db.Query(`SELECT hgnc_id, approved, previous, aliases, refseq
		FROM hgnc ORDER BY ord`)
	if err != nil {
		return nil, fmt.Errorf("query hgnc table: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var previous, aliases string
		if err := rows.Scan(&e.ID, &e.Approved, &previous, &aliases, &e.RefSeq); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if err := json.Unmarshal([]byte(previous), &e.Previous); err != nil {
			return nil, fmt.Errorf("unmarshal previous symbols for %s: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(aliases), &e.Aliases); err != nil {
			return nil, fmt.Errorf("unmarshal alias symbols for %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read hgnc table: %w", err)
	}

	return NewTable(entries), nil
}
