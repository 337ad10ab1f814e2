package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/bslanalyzer/cache"
	"github.com/oxhq/bslanalyzer/catalog"
	"github.com/oxhq/bslanalyzer/config"
	"github.com/oxhq/bslanalyzer/core"
	"github.com/oxhq/bslanalyzer/pipeline"
	"github.com/oxhq/bslanalyzer/semantic"
)

func newAnalyzeCommand() *cobra.Command {
	var configPath string
	var cachePath string

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyze one or more BSL source modules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			semCfg := semantic.DefaultConfig()
			if configPath != "" {
				cfg, errs := config.Load(configPath)
				if len(errs) > 0 {
					return newExitCodeError(exitValidationFailed, errors.Join(errs...))
				}
				semCfg = applyRunConfig(semCfg, cfg)
			}

			var c *cache.Cache
			if cachePath != "" {
				opts := cache.DefaultOptions()
				opts.PersistPath = cachePath
				opened, err := cache.Open(opts)
				if err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
				c = opened
			}

			files, err := expandModulePaths(context.Background(), args)
			if err != nil {
				return err
			}

			co := pipeline.NewCoordinator(catalog.New(), c, semCfg)
			diags, err := co.AnalyzeFiles(context.Background(), files)
			if err != nil {
				return err
			}

			for _, d := range diags {
				fmt.Println(d.String())
			}

			errorCount := 0
			for _, d := range diags {
				if d.IsError() {
					errorCount++
				}
			}
			fmt.Fprintf(os.Stderr, "%d diagnostics (%d errors)\n", len(diags), errorCount)

			if errorCount > 0 {
				return newExitCodeError(exitErrorsPresent, fmt.Errorf("%d error(s) found", errorCount))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to the analyzer's key/value configuration document")
	cmd.Flags().StringVar(&cachePath, "cache", "", "path to a persistent cache database file (in-memory only if unset)")
	return cmd
}

// expandModulePaths resolves each argument to a list of files to analyze.
// A path that names a directory is walked for .bsl/.os source modules; a
// path that names a file is passed through unchanged, even if its
// extension is not recognized, so the pipeline's own input validation can
// report on it directly.
func expandModulePaths(ctx context.Context, args []string) ([]string, error) {
	var files []string
	walker := core.NewFileWalker()

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		found, err := walker.FastScan(ctx, core.FileScope{Path: arg})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", arg, err)
		}
		files = append(files, found...)
	}

	return files, nil
}

// applyRunConfig folds the run-time config document's recognized flags
// into a semantic.Config. max_errors_per_file and check_documentation are
// accepted and validated by config.Load but have no enforcement point
// here yet: nothing in the semantic pass currently caps diagnostics per
// file or lints documentation comments.
func applyRunConfig(base semantic.Config, cfg *config.Config) semantic.Config {
	base.Verbose = cfg.Verbose
	if !cfg.StrictMode {
		base.SuggestSimilarNames = false
		base.WarnImplicitConversion = false
	}
	return base
}
