// Package pipeline runs the coverage QC stages end to end.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/covqc/covqc/internal/coverage"
	"github.com/covqc/covqc/internal/hgnc"
	"github.com/covqc/covqc/internal/output"
	"github.com/covqc/covqc/internal/sambamba"
)

// Options configures a pipeline run.
type Options struct {
	// ReportPath is the sambamba coverage report to analyse.
	ReportPath string
	// HGNCPath is the reference dump, either TSV or a converted DuckDB file.
	HGNCPath string
	// Logger receives progress detail; nil disables logging.
	Logger *zap.Logger
}

// Result summarises a completed run.
type Result struct {
	Prefix       string
	Issues       []coverage.Issue
	Genes        []string
	GeneListPath string
	WorkbookPath string
}

// Run executes the pipeline: parse the report, filter exons below full
// coverage, resolve HGNC identifiers, deduplicate genes, and write both
// output files next to the input.
func Run(opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	report, err := sambamba.ParseFile(opts.ReportPath)
	if err != nil {
		return nil, err
	}
	logger.Info("parsed coverage report",
		zap.String("prefix", report.Prefix),
		zap.Int("records", len(report.Records)))

	issues := coverage.Filter(report)
	logger.Info("filtered coverage issues", zap.Int("issues", len(issues)))

	table, err := hgnc.Load(opts.HGNCPath)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded hgnc reference table",
		zap.String("path", opts.HGNCPath),
		zap.Int("entries", table.Len()))

	resolver := hgnc.NewResolver(table)
	resolver.SetLogger(logger)
	issues, err = resolver.Annotate(issues)
	if err != nil {
		return nil, err
	}

	genes := coverage.UniqueGenes(issues)
	logger.Info("deduplicated affected genes", zap.Int("genes", len(genes)))

	if err := output.WriteAll(report.Prefix, issues, genes); err != nil {
		return nil, err
	}

	return &Result{
		Prefix:       report.Prefix,
		Issues:       issues,
		Genes:        genes,
		GeneListPath: output.GeneListPath(report.Prefix),
		WorkbookPath: output.ExonWorkbookPath(report.Prefix),
	}, nil
}
