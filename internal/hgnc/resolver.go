package hgnc

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/covqc/covqc/internal/coverage"
)

// Resolver assigns HGNC identifiers to coverage issues by matching the
// accession prefix against the reference table.
type Resolver struct {
	table  *Table
	logger *zap.Logger
}

// NewResolver creates a resolver over the given reference table.
func NewResolver(t *Table) *Resolver {
	return &Resolver{
		table:  t,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for resolution detail messages.
func (r *Resolver) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Annotate resolves an identifier for every issue and returns a new slice
// with the HGNC field populated. Input order is preserved.
func (r *Resolver) Annotate(issues []coverage.Issue) ([]coverage.Issue, error) {
	resolved := make([]coverage.Issue, 0, len(issues))
	for _, issue := range issues {
		id, err := r.Resolve(issue.Gene, issue.Accession)
		if err != nil {
			return nil, err
		}
		issue.HGNC = id
		resolved = append(resolved, issue)
	}
	return resolved, nil
}

// Resolve returns the HGNC identifier for a gene/accession pair.
//
// The accession prefix (text before the first ".") is looked up in the
// reference table. No match degrades to the "-" sentinel. Matching entries
// are scanned in file order and the first whose symbol sets contain the gene
// symbol wins; entries that match the prefix but never the symbol indicate
// stale or corrupt reference data and fail with a MatchIntegrityError.
func (r *Resolver) Resolve(gene, accession string) (string, error) {
	prefix, _, ok := strings.Cut(accession, ".")
	if !ok {
		return "", &FormatError{Accession: accession}
	}

	entries := r.table.LookupPrefix(prefix)
	if len(entries) == 0 {
		r.logger.Debug("no reference entry for accession",
			zap.String("gene", gene),
			zap.String("accession", accession))
		return coverage.NoIdentifier, nil
	}

	for _, e := range entries {
		if e.HasSymbol(gene) {
			return e.ID, nil
		}
	}

	return "", &MatchIntegrityError{
		Accession: accession,
		HGNC:      entries[0].ID,
	}
}

// FormatError indicates an accession without the expected version delimiter,
// so no prefix could be extracted.
type FormatError struct {
	Accession string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("accession %q has no version delimiter", e.Accession)
}

// MatchIntegrityError indicates that the reference entries matched by an
// accession prefix do not correspond to the record's gene symbol.
type MatchIntegrityError struct {
	Accession string
	HGNC      string
}

func (e *MatchIntegrityError) Error() string {
	return fmt.Sprintf("%s wrongly matched to %s", e.Accession, e.HGNC)
}
