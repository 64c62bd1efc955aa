// Package main provides the covqc command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/covqc/covqc/internal/pipeline"
)

// Default reference dump file name, expected in the working directory when
// no flag or config value is set.
const defaultHGNCDump = "230224_hgnc_dump.tsv"

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cobra.OnInitialize(initConfig)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetConfigName(".covqc")
	viper.SetConfigType("yaml")

	// Missing config file is fine; flags and defaults cover everything.
	_ = viper.ReadInConfig()
}

func newRootCmd() *cobra.Command {
	var (
		hgncPath string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "covqc <coverage-report>",
		Short: "Identify genes with exons under 100% coverage at 30x",
		Long: `covqc parses a sambamba depth-region coverage report, flags every exon
whose coverage at 30x is below 100%, and annotates the affected genes with
HGNC IDs from a reference dump of the HGNC site.

It writes two files next to the input:
  <prefix>.low_coverage_genes.txt       unique affected genes
  <prefix>.low_coverage_gene_exons.xlsx one row per affected exon`,
		Example: `  covqc sample1.sambamba_output.txt
  covqc --hgnc 230224_hgnc_dump.tsv sample1.sambamba_output.txt
  covqc --hgnc hgnc.duckdb sample1.sambamba_output.txt`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)
			defer logger.Sync()

			result, err := pipeline.Run(pipeline.Options{
				ReportPath: args[0],
				HGNCPath:   viper.GetString("hgnc.dump"),
				Logger:     logger,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Found %d affected exons in %d genes\n",
				len(result.Issues), len(result.Genes))
			fmt.Fprintf(os.Stderr, "Wrote %s\n", result.GeneListPath)
			fmt.Fprintf(os.Stderr, "Wrote %s\n", result.WorkbookPath)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().StringVar(&hgncPath, "hgnc", defaultHGNCDump,
		"HGNC reference dump (TSV or converted .duckdb)")
	_ = viper.BindPFlag("hgnc.dump", cmd.Flags().Lookup("hgnc"))

	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newDownloadCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// newLogger builds a console logger writing to stderr.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
