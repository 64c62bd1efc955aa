// Package output renders the coverage pipeline results to disk.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/covqc/covqc/internal/coverage"
)

// Output file name suffixes.
const (
	GeneListSuffix     = ".low_coverage_genes.txt"
	ExonWorkbookSuffix = ".low_coverage_gene_exons.xlsx"
)

// GeneListPath returns the gene list file path for an output prefix.
func GeneListPath(prefix string) string {
	return prefix + GeneListSuffix
}

// ExonWorkbookPath returns the exon workbook file path for an output prefix.
func ExonWorkbookPath(prefix string) string {
	return prefix + ExonWorkbookSuffix
}

// GeneListWriter writes the plain-text summary of genes with coverage issues.
type GeneListWriter struct {
	w      *bufio.Writer
	sample string
}

// NewGeneListWriter creates a gene list writer for the named sample.
func NewGeneListWriter(w io.Writer, sample string) *GeneListWriter {
	return &GeneListWriter{
		w:      bufio.NewWriter(w),
		sample: sample,
	}
}

// WriteHeader writes the sample line and section header.
func (gw *GeneListWriter) WriteHeader() error {
	_, err := fmt.Fprintf(gw.w, "Sample: %s\n\nGenes with <100%% coverage at 30x:\n", gw.sample)
	return err
}

// WriteGenes writes the newline-joined gene list.
func (gw *GeneListWriter) WriteGenes(genes []string) error {
	_, err := gw.w.WriteString(strings.Join(genes, "\n"))
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (gw *GeneListWriter) Flush() error {
	return gw.w.Flush()
}

// WriteGeneList renders the gene list file for the given prefix,
// overwriting any previous run.
func WriteGeneList(prefix string, genes []string) error {
	path := GeneListPath(prefix)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gene list file: %w", err)
	}

	gw := NewGeneListWriter(f, prefix)
	if err := gw.WriteHeader(); err != nil {
		f.Close()
		return fmt.Errorf("write gene list header: %w", err)
	}
	if err := gw.WriteGenes(genes); err != nil {
		f.Close()
		return fmt.Errorf("write gene list: %w", err)
	}
	if err := gw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush gene list: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close gene list file: %w", err)
	}
	return nil
}

// WriteAll renders both output artifacts for a finished pipeline run.
func WriteAll(prefix string, issues []coverage.Issue, genes []string) error {
	if err := WriteGeneList(prefix, genes); err != nil {
		return err
	}
	return WriteExonWorkbook(ExonWorkbookPath(prefix), issues)
}
