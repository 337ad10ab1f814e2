// Command bslanalyzer is the CLI entry point for the static analyzer:
// analyzing BSL modules, ingesting documentation sources into a unified
// index, and exporting that index as a chunked documentation tree.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes per the external interface contract: 0 = no errors, 1 =
// errors present, 2 = input validation failed.
const (
	exitOK               = 0
	exitErrorsPresent    = 1
	exitValidationFailed = 2
)

// exitCodeError lets a subcommand signal which process exit code a
// non-nil result should produce, without calling os.Exit itself — only
// main does that, so subcommand logic stays testable in-process.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

func newExitCodeError(code int, err error) error {
	return &exitCodeError{code: code, err: err}
}

func main() {
	root := &cobra.Command{
		Use:   "bslanalyzer",
		Short: "Static analyzer for BSL (1C:Enterprise) configurations",
	}

	root.AddCommand(newAnalyzeCommand())
	root.AddCommand(newIngestCommand())
	root.AddCommand(newExportDocsCommand())
	root.AddCommand(newDiffCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ec *exitCodeError
		if errors.As(err, &ec) {
			os.Exit(ec.code)
		}
		os.Exit(exitValidationFailed)
	}
}
