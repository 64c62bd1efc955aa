// Package coverage identifies exons with incomplete coverage and collapses
// them into a per-gene summary.
package coverage

import (
	"fmt"

	"github.com/covqc/covqc/internal/sambamba"
)

// NoIdentifier is assigned when a gene has no reference table match.
const NoIdentifier = "-"

// Issue is one exon that failed the 100% coverage-at-30x check.
// HGNC holds the canonical identifier once resolved, or NoIdentifier.
type Issue struct {
	Gene         string
	Accession    string
	ExonPosition string
	Percent30    float64
	HGNC         string
}

// Display renders the deduplication key for the gene list output.
func (i Issue) Display() string {
	return fmt.Sprintf("%s\t%s\t%s", i.Gene, i.Accession, i.HGNC)
}

// Filter returns the records whose coverage-at-30x percentage is not exactly
// 100, in report order. An empty result means no coverage issues.
func Filter(report *sambamba.Report) []Issue {
	var issues []Issue
	for _, rec := range report.Records {
		if rec.Percent30 == 100 {
			continue
		}
		issues = append(issues, Issue{
			Gene:         rec.GeneSymbol,
			Accession:    rec.Accession,
			ExonPosition: rec.FullPosition,
			Percent30:    rec.Percent30,
		})
	}
	return issues
}

// UniqueGenes collapses resolved issues into an ordered list of unique
// gene/accession/identifier display strings, first occurrence winning.
func UniqueGenes(issues []Issue) []string {
	seen := make(map[string]bool, len(issues))
	var genes []string
	for _, issue := range issues {
		key := issue.Display()
		if seen[key] {
			continue
		}
		seen[key] = true
		genes = append(genes, key)
	}
	return genes
}
