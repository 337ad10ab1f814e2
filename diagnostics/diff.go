package diagnostics

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders a unified diff between the rendered diagnostics of
// two runs (e.g. the same file analyzed before and after a catalog or
// source change), so a caller can see exactly which findings appeared,
// disappeared, or shifted position.
func UnifiedDiff(fromLabel string, from []Diagnostic, toLabel string, to []Diagnostic) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        renderLines(from),
		B:        renderLines(to),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

func renderLines(diags []Diagnostic) []string {
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = d.String()
	}
	return lines
}

// FormatDiffSummary renders a one-line human summary of a diff's size,
// used when the CLI reports a diff with no textual changes.
func FormatDiffSummary(diffText string) string {
	if strings.TrimSpace(diffText) == "" {
		return "no differences"
	}
	return fmt.Sprintf("%d line(s) changed", strings.Count(diffText, "\n"))
}
