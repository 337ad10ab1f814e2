package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/bslanalyzer/docs/formxml"
	"github.com/oxhq/bslanalyzer/docs/hbk"
	"github.com/oxhq/bslanalyzer/docs/report"
	"github.com/oxhq/bslanalyzer/index"
)

// sourceFlags names the three documentation inputs an ingestion run can
// draw from; every one is optional so a partial ingestion (e.g. HBK
// only) still produces a usable index.
type sourceFlags struct {
	hbkArchive string
	reportFile string
	configDir  string
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.hbkArchive, "hbk", "", "path to the HBK syntax-help ZIP archive")
	cmd.Flags().StringVar(&s.reportFile, "report", "", "path to the configuration report text file")
	cmd.Flags().StringVar(&s.configDir, "config-dir", "", "path to a configuration directory to scan for Form.xml files")
}

// buildIndex ingests whichever of the three documentation sources are
// set, skipping (and reporting, not failing on) any one that errors, per
// §7's "per-entry parse errors never poison the overall ingestion" rule.
func buildIndex(s sourceFlags) *index.Index {
	idx := index.New()

	if s.hbkArchive != "" {
		db, err := hbk.Ingest(s.hbkArchive)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hbk ingestion failed, skipping: %v\n", err)
		} else {
			hbk.Convert(db, idx)
		}
	}

	if s.reportFile != "" {
		if err := ingestReport(s.reportFile, idx); err != nil {
			fmt.Fprintf(os.Stderr, "report ingestion failed, skipping: %v\n", err)
		}
	}

	if s.configDir != "" {
		forms, err := formxml.ParseAll(s.configDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "form xml discovery failed, skipping: %v\n", err)
		} else {
			formxml.Convert(forms, idx)
		}
	}

	return idx
}

func ingestReport(path string, idx *index.Index) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	content, enc := report.Decode(raw)
	contracts := report.Parse(content, path, enc)
	report.Convert(contracts, idx)
	return nil
}

func newIngestCommand() *cobra.Command {
	var sources sourceFlags

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest HBK syntax help, a configuration report, and Form.xml files into a documentation index",
		RunE: func(cmd *cobra.Command, args []string) error {
			idx := buildIndex(sources)
			fmt.Printf("indexed %d entities\n", idx.EntityCount())
			return nil
		},
	}

	sources.register(cmd)
	return cmd
}
