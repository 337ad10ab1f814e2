package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxhq/bslanalyzer/docs/export"
)

func newExportDocsCommand() *cobra.Command {
	var sources sourceFlags
	var outputDir string
	var maxItemsPerFile int
	var maxFileSizeKB int

	cmd := &cobra.Command{
		Use:   "export-docs",
		Short: "Ingest documentation sources and write the chunked documentation index",
		RunE: func(cmd *cobra.Command, args []string) error {
			idx := buildIndex(sources)

			opts := export.DefaultOptions(outputDir)
			if maxItemsPerFile > 0 {
				opts.MaxItemsPerFile = maxItemsPerFile
			}
			if maxFileSizeKB > 0 {
				opts.MaxFileSizeKB = maxFileSizeKB
			}

			if err := export.Export(idx.Catalog(), opts); err != nil {
				return fmt.Errorf("export documentation index: %w", err)
			}
			fmt.Printf("exported %d entities to %s\n", idx.EntityCount(), outputDir)
			return nil
		},
	}

	sources.register(cmd)
	cmd.Flags().StringVar(&outputDir, "out", "", "output directory for the chunked documentation tree (required)")
	cmd.Flags().IntVar(&maxItemsPerFile, "max-items-per-file", 0, "override the default chunk item-count threshold")
	cmd.Flags().IntVar(&maxFileSizeKB, "max-file-size-kb", 0, "override the default chunk size threshold in KB")
	cmd.MarkFlagRequired("out")
	return cmd
}
