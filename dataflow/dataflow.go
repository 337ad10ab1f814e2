// Package dataflow implements the per-module variable-lifecycle pass
// (spec §4.D). It deliberately approximates scope with a single flat map
// per module — see spec §9 "Scope modelling approximation" — while the
// semantic package (§4.F) maintains the real scope stack.
package dataflow

import (
	"fmt"
	"sort"

	"github.com/oxhq/bslanalyzer/ast"
	"github.com/oxhq/bslanalyzer/diagnostics"
)

// VariableState tracks one variable's declaration/initialization/use
// lifecycle across a module (spec §3).
type VariableState struct {
	Name            string
	Declared        bool
	Initialized     bool
	Used            bool
	DeclarationLine int
	FirstUseLine    int // 0 means unset
	LastUseLine     int // 0 means unset
	IsParameter     bool
	// Usages is the full ordered list of positions where the variable was
	// read, in source order. FirstUseLine/LastUseLine are a cheap summary
	// of the same data kept for callers that don't need the full list.
	Usages []ast.Position
}

// Result is the outcome of running the data-flow pass over one module.
type Result struct {
	Variables   map[string]*VariableState
	Diagnostics []diagnostics.Diagnostic
}

// Analyzer runs the two data-flow sub-passes over an AST (spec §4.D):
// collect declarations, then track usage.
type Analyzer struct {
	vars map[string]*VariableState
}

// New creates an empty data-flow analyzer.
func New() *Analyzer {
	return &Analyzer{vars: make(map[string]*VariableState)}
}

// Analyze runs both sub-passes over module and returns the resulting
// variable states plus the warnings/errors required by spec §4.D.
func Analyze(module *ast.Node, file string) Result {
	a := New()
	a.collectDeclarations(module)
	diags := a.trackUsage(module, file)
	diags = append(diags, a.finalWarnings(file)...)
	sortDiagnostics(diags, a.vars)
	return Result{Variables: a.vars, Diagnostics: diags}
}

// collectDeclarations records a variable state for every variable
// declaration and parameter node with a name, keyed by name in a single
// flat per-module map.
func (a *Analyzer) collectDeclarations(module *ast.Node) {
	ast.Walk(module, func(n *ast.Node) bool {
		switch n.Kind {
		case ast.KindVariable:
			a.declare(n.Value, n.Span.Start.Line, false)
		case ast.KindParameter:
			a.declare(n.Value, n.Span.Start.Line, true)
		}
		return true
	})
}

func (a *Analyzer) declare(name string, line int, isParameter bool) {
	if name == "" {
		return
	}
	if _, exists := a.vars[name]; exists {
		return
	}
	a.vars[name] = &VariableState{
		Name:            name,
		Declared:        true,
		Initialized:     isParameter,
		DeclarationLine: line,
		IsParameter:     isParameter,
	}
}

// trackUsage walks the tree a second time: identifiers outside an
// assignment's LHS slot mark a use; an assignment's LHS identifier marks
// initialized without counting as a use.
func (a *Analyzer) trackUsage(module *ast.Node, file string) []diagnostics.Diagnostic {
	var diags []diagnostics.Diagnostic

	var walkExpr func(n *ast.Node, isAssignmentTarget bool)
	walkExpr = func(n *ast.Node, isAssignmentTarget bool) {
		if n == nil {
			return
		}
		switch n.Kind {
		case ast.KindAssignment:
			target := n.AssignmentTarget()
			if target != nil {
				walkExpr(target, true)
			}
			if val := n.AssignmentValue(); val != nil {
				walkExpr(val, false)
			}
			return
		case ast.KindCall:
			if recv := n.CallReceiver(); recv != nil {
				walkExpr(recv, false)
			}
			for _, arg := range n.CallArgs() {
				walkExpr(arg, false)
			}
			return
		case ast.KindIdentifier:
			if isAssignmentTarget {
				if state, ok := a.vars[n.Value]; ok {
					state.Initialized = true
				} else {
					diags = append(diags, diagnostics.Diagnostic{
						Level:   diagnostics.LevelError,
						Message: fmt.Sprintf("variable %s used in assignment but not declared", n.Value),
						Line:    n.Span.Start.Line,
						Column:  n.Span.Start.Column,
						Source:  file,
					})
				}
				return
			}
			if state, ok := a.vars[n.Value]; ok {
				markUse(state, n.Span.Start)
			} else {
				diags = append(diags, diagnostics.Diagnostic{
					Level:   diagnostics.LevelError,
					Message: fmt.Sprintf("variable %s used but not declared", n.Value),
					Line:    n.Span.Start.Line,
					Column:  n.Span.Start.Column,
					Source:  file,
				})
			}
			return
		}
		for _, c := range n.Children {
			walkExpr(c, false)
		}
	}

	walkExpr(module, false)
	return diags
}

func markUse(state *VariableState, pos ast.Position) {
	state.Used = true
	if state.FirstUseLine == 0 {
		state.FirstUseLine = pos.Line
	}
	state.LastUseLine = pos.Line
	state.Usages = append(state.Usages, pos)
}

// finalWarnings emits, for every non-parameter variable: "declared but
// possibly not initialized" when never initialized, and "declared but
// never used" when never used.
func (a *Analyzer) finalWarnings(file string) []diagnostics.Diagnostic {
	var diags []diagnostics.Diagnostic
	for _, v := range a.vars {
		if v.IsParameter {
			continue
		}
		if v.Declared && !v.Initialized {
			diags = append(diags, diagnostics.Diagnostic{
				Level:   diagnostics.LevelWarning,
				Message: fmt.Sprintf("variable %s declared but possibly not initialized", v.Name),
				Line:    v.DeclarationLine,
				Source:  file,
			})
		}
		if v.Declared && !v.Used {
			diags = append(diags, diagnostics.Diagnostic{
				Level:   diagnostics.LevelWarning,
				Message: fmt.Sprintf("variable %s declared but never used", v.Name),
				Line:    v.DeclarationLine,
				Source:  file,
			})
		}
	}
	return diags
}

// UnusedVariables returns the names of every declared, non-parameter
// variable that was never used, in declaration-line then name order.
func (r Result) UnusedVariables() []string {
	return r.filterNames(func(v *VariableState) bool { return !v.IsParameter && !v.Used })
}

// UninitializedVariables returns the names of every declared,
// non-parameter variable that was never initialized.
func (r Result) UninitializedVariables() []string {
	return r.filterNames(func(v *VariableState) bool { return !v.IsParameter && !v.Initialized })
}

func (r Result) filterNames(pred func(*VariableState) bool) []string {
	var states []*VariableState
	for _, v := range r.Variables {
		if pred(v) {
			states = append(states, v)
		}
	}
	sort.Slice(states, func(i, j int) bool {
		if states[i].DeclarationLine != states[j].DeclarationLine {
			return states[i].DeclarationLine < states[j].DeclarationLine
		}
		return states[i].Name < states[j].Name
	})
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = s.Name
	}
	return names
}

// sortDiagnostics orders diagnostics in ascending declaration-line, with
// ties broken by name (spec §4.D "Determinism"). Errors carry an explicit
// line already; this pass's diagnostics are additionally stable-sorted by
// (line, message) to guarantee deterministic output across runs.
func sortDiagnostics(diags []diagnostics.Diagnostic, vars map[string]*VariableState) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Line != diags[j].Line {
			return diags[i].Line < diags[j].Line
		}
		return diags[i].Message < diags[j].Message
	})
}
