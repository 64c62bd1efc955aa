package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// HGNC custom download URL requesting the five columns the resolver uses:
// HGNC ID, approved symbol, previous symbols, alias symbols, RefSeq ID.
const hgncCustomDownloadURL = "https://www.genenames.org/cgi-bin/download/custom" +
	"?col=gd_hgnc_id&col=gd_app_sym&col=gd_prev_sym&col=gd_aliases&col=md_refseq_id" +
	"&status=Approved&hgnc_dbtag=on&order_by=gd_app_sym_sort&format=text&submit=submit"

func newDownloadCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download a fresh HGNC reference dump",
		Long: `Download a reference dump from the HGNC custom download service at
genenames.org, with the columns covqc needs: HGNC ID, approved symbol,
previous symbols, alias symbols, and RefSeq ID.`,
		Example: `  covqc download --output hgnc_dump.tsv
  covqc config set hgnc.dump hgnc_dump.tsv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "hgnc_dump.tsv", "Destination file")

	return cmd
}

func runDownload(destPath string) error {
	fmt.Fprintf(os.Stderr, "Downloading HGNC dump to %s\n", destPath)

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(hgncCustomDownloadURL)
	if err != nil {
		return fmt.Errorf("download hgnc dump: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download hgnc dump: HTTP %s", resp.Status)
	}

	f, err := os.Create(destPath + ".tmp")
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(destPath + ".tmp")
		return fmt.Errorf("write hgnc dump: %w", err)
	}
	f.Close()

	if err := os.Rename(destPath+".tmp", destPath); err != nil {
		os.Remove(destPath + ".tmp")
		return fmt.Errorf("rename hgnc dump: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Done\n")
	return nil
}
