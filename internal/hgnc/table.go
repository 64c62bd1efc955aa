// Package hgnc loads the HGNC nomenclature reference table and resolves
// transcript accessions to stable HGNC identifiers.
package hgnc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one row of the HGNC reference dump: the stable identifier, the
// approved gene symbol, the previous and alias symbol sets, and the RefSeq
// accession prefix (no version suffix).
type Entry struct {
	ID       string
	Approved string
	Previous []string
	Aliases  []string
	RefSeq   string
}

// HasSymbol reports whether gene matches the approved symbol or appears in
// the previous or alias symbol sets.
func (e *Entry) HasSymbol(gene string) bool {
	if gene == e.Approved {
		return true
	}
	for _, s := range e.Previous {
		if gene == s {
			return true
		}
	}
	for _, s := range e.Aliases {
		if gene == s {
			return true
		}
	}
	return false
}

// Table is the loaded reference table, read-only after construction.
// Entries keep their file order; the prefix index maps a RefSeq accession
// prefix to all entries carrying it, still in file order.
type Table struct {
	entries  []Entry
	byPrefix map[string][]int
}

// NewTable builds a table over the given entries, preserving their order.
func NewTable(entries []Entry) *Table {
	t := &Table{
		entries:  entries,
		byPrefix: make(map[string][]int, len(entries)),
	}
	for i, e := range entries {
		if e.RefSeq == "" {
			continue
		}
		t.byPrefix[e.RefSeq] = append(t.byPrefix[e.RefSeq], i)
	}
	return t
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns all entries in file order.
func (t *Table) Entries() []Entry {
	return t.entries
}

// LookupPrefix returns all entries whose RefSeq prefix equals prefix,
// in file order.
func (t *Table) LookupPrefix(prefix string) []Entry {
	idxs := t.byPrefix[prefix]
	if len(idxs) == 0 {
		return nil
	}
	entries := make([]Entry, 0, len(idxs))
	for _, i := range idxs {
		entries = append(entries, t.entries[i])
	}
	return entries
}

// Load reads a reference table from path, choosing the loader by extension:
// .duckdb and .db open a converted database, anything else parses TSV.
func Load(path string) (*Table, error) {
	switch filepath.Ext(path) {
	case ".duckdb", ".db":
		store, err := OpenStore(path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.ReadTable()
	default:
		return LoadTSV(path)
	}
}

// LoadTSV reads the tab-separated HGNC dump: a header row followed by five
// fixed columns (identifier, approved symbol, previous symbols, alias
// symbols, RefSeq accession prefix).
func LoadTSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hgnc dump: %w", err)
	}
	defer f.Close()

	return parseTSV(f)
}

// parseTSV parses the dump content.
func parseTSV(reader io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	// Skip header line
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("scan hgnc dump: %w", err)
		}
		return NewTable(nil), nil
	}

	var entries []Entry
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		for len(fields) < 5 {
			fields = append(fields, "")
		}

		entries = append(entries, Entry{
			ID:       strings.TrimSpace(fields[0]),
			Approved: strings.TrimSpace(fields[1]),
			Previous: splitSymbols(fields[2]),
			Aliases:  splitSymbols(fields[3]),
			RefSeq:   strings.TrimSpace(fields[4]),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan hgnc dump: %w", err)
	}

	return NewTable(entries), nil
}

// splitSymbols parses a multi-value symbol cell. The custom download writes
// these comma-separated, optionally quoted.
func splitSymbols(cell string) []string {
	cell = strings.Trim(strings.TrimSpace(cell), `"`)
	if cell == "" {
		return nil
	}

	var symbols []string
	for _, s := range strings.Split(cell, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}
