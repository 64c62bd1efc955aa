package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/covqc/covqc/internal/hgnc"
)

func newConvertCmd() *cobra.Command {
	var (
		inputPath  string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert the HGNC TSV dump to a DuckDB database",
		Long: `Convert the tab-separated HGNC reference dump to a DuckDB database.

The converted database loads faster on repeated runs and can be passed to
covqc via --hgnc. Row order is preserved, so identifier resolution behaves
exactly as with the TSV dump.`,
		Example: `  covqc convert --input 230224_hgnc_dump.tsv --output hgnc.duckdb
  covqc --hgnc hgnc.duckdb sample1.sambamba_output.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(inputPath, outputPath)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input HGNC TSV dump")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output DuckDB file path")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runConvert(inputPath, outputPath string) error {
	if ext := filepath.Ext(outputPath); ext != ".duckdb" && ext != ".db" {
		outputPath += ".duckdb"
	}

	table, err := hgnc.LoadTSV(inputPath)
	if err != nil {
		return err
	}

	// Replace any existing database wholesale
	if _, err := os.Stat(outputPath); err == nil {
		if err := os.Remove(outputPath); err != nil {
			return fmt.Errorf("remove existing database: %w", err)
		}
	}

	store, err := hgnc.OpenStore(outputPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.WriteTable(table); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Converted %d entries to %s\n", table.Len(), outputPath)
	return nil
}
