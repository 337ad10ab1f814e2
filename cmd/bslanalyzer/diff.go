package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxhq/bslanalyzer/cache"
	"github.com/oxhq/bslanalyzer/catalog"
	"github.com/oxhq/bslanalyzer/diagnostics"
	"github.com/oxhq/bslanalyzer/pipeline"
	"github.com/oxhq/bslanalyzer/semantic"
)

// newDiffCommand compares the diagnostics produced for two runs of the
// same (or two different) files, so a caller can see exactly what a
// source or catalog change added, removed, or moved.
func newDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <before-file> <after-file>",
		Short: "Show the diagnostic difference between two analysis runs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := analyzeSingle(args[0])
			if err != nil {
				return err
			}
			after, err := analyzeSingle(args[1])
			if err != nil {
				return err
			}

			diffText, err := diagnostics.UnifiedDiff(args[0], before, args[1], after)
			if err != nil {
				return fmt.Errorf("render diff: %w", err)
			}

			if diffText == "" {
				fmt.Fprintln(cmd.OutOrStdout(), diagnostics.FormatDiffSummary(diffText))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), diffText)
			return nil
		},
	}
	return cmd
}

func analyzeSingle(file string) ([]diagnostics.Diagnostic, error) {
	co := pipeline.NewCoordinator(catalog.New(), (*cache.Cache)(nil), semantic.DefaultConfig())
	return co.AnalyzeFiles(context.Background(), []string{file})
}
