// Package pipeline wires the lexer, parser, data-flow pass, and semantic
// pass into the module- and configuration-level orchestration described
// in spec §5: single-threaded per module, parallel across modules.
package pipeline

import (
	"unicode"

	"github.com/oxhq/bslanalyzer/catalog"
	"github.com/oxhq/bslanalyzer/dataflow"
	"github.com/oxhq/bslanalyzer/diagnostics"
	"github.com/oxhq/bslanalyzer/parser"
	"github.com/oxhq/bslanalyzer/semantic"
)

// maxSourceBytes is the size past which a module emits a warning but is
// still analyzed (spec §6 input 1).
const maxSourceBytes = 1 << 20

// ModuleResult is the outcome of analyzing one source module.
type ModuleResult struct {
	File        string
	Diagnostics []diagnostics.Diagnostic
	// Variables carries the data-flow pass's per-symbol state, including
	// the full ordered list of use positions, keyed by variable name.
	// Cached alongside Diagnostics so a cache hit doesn't lose it.
	Variables map[string]*dataflow.VariableState
}

// AnalyzeModule runs the full single-module pipeline (B through G) over
// src in strict sequence: lexing happens inside Parse, then the data-flow
// pass, then the semantic pass (which owns method verification
// internally). Every pass's diagnostics are collected regardless of
// whether a later pass also runs, per the §7 propagation rule.
func AnalyzeModule(file, src string, cat *catalog.Catalog, cfg semantic.Config) ModuleResult {
	var diags []diagnostics.Diagnostic
	diags = append(diags, validateSource(file, src)...)

	module := parser.Parse(src)

	dfResult := dataflow.Analyze(module, file)
	diags = append(diags, dfResult.Diagnostics...)

	sem := semantic.New(cat, cfg, file)
	semResult := sem.Analyze(module)
	diags = append(diags, semResult.Errors...)
	diags = append(diags, semResult.Warnings...)

	return ModuleResult{File: file, Diagnostics: diags, Variables: dfResult.Variables}
}

// validateSource implements the §6 input-1 / §7 "input validation"
// checks that don't require a parsed module: oversized files and stray
// control characters are warnings, not fatal errors, so analysis
// continues regardless.
func validateSource(file, src string) []diagnostics.Diagnostic {
	var diags []diagnostics.Diagnostic

	if len(src) > maxSourceBytes {
		diags = append(diags, diagnostics.Diagnostic{
			Level:   diagnostics.LevelWarning,
			Code:    "oversized-file",
			Message: "source file exceeds 1 MB; analysis continues but may be slow",
			Source:  file,
		})
	}

	if line, col, ok := firstDisallowedControlChar(src); ok {
		diags = append(diags, diagnostics.Diagnostic{
			Level:   diagnostics.LevelWarning,
			Code:    "control-character",
			Message: "source contains a control character other than tab, newline, or carriage return",
			Line:    line,
			Column:  col,
			Source:  file,
		})
	}

	return diags
}

func firstDisallowedControlChar(src string) (line, col int, found bool) {
	line, col = 1, 1
	for _, r := range src {
		switch r {
		case '\n':
			line++
			col = 1
			continue
		case '\t', '\r':
			col++
			continue
		}
		if unicode.IsControl(r) {
			return line, col, true
		}
		col++
	}
	return 0, 0, false
}
