// Package semantic implements the semantic pass (spec §4.F): scope
// management, identifier resolution, constructor checks, call
// verification, and similarity-based suggestions.
package semantic

import (
	"fmt"
	"sort"

	"github.com/oxhq/bslanalyzer/ast"
	"github.com/oxhq/bslanalyzer/catalog"
	"github.com/oxhq/bslanalyzer/diagnostics"
	"github.com/oxhq/bslanalyzer/verifier"
)

// Config toggles (spec §4.F); every flag defaults true.
type Config struct {
	CheckUnusedVariables    bool
	CheckUndefinedVariables bool
	CheckTypeCompatibility  bool
	CheckMethodCalls        bool
	CheckParameterCount     bool
	WarnImplicitConversion  bool
	SuggestSimilarNames     bool
	CheckGlobalFunctions    bool
	Verbose                 bool
}

// DefaultConfig returns a Config with every flag on.
func DefaultConfig() Config {
	return Config{
		CheckUnusedVariables:    true,
		CheckUndefinedVariables: true,
		CheckTypeCompatibility:  true,
		CheckMethodCalls:        true,
		CheckParameterCount:     true,
		WarnImplicitConversion:  true,
		SuggestSimilarNames:     true,
		CheckGlobalFunctions:    true,
		Verbose:                 false,
	}
}

// Analyzer owns the current scope, the type catalog, and diagnostic
// buffers for one module's semantic pass.
type Analyzer struct {
	cfg      Config
	cat      *catalog.Catalog
	verifier *verifier.Verifier
	scope    *Scope
	file     string
	errors   []diagnostics.Diagnostic
	warnings []diagnostics.Diagnostic
}

// New creates a semantic analyzer bound to cat and cfg. file is attached
// to every emitted diagnostic.
func New(cat *catalog.Catalog, cfg Config, file string) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		cat:      cat,
		verifier: verifier.New(cat),
		scope:    NewScope("global", ScopeGlobal, nil),
		file:     file,
	}
}

// Result is the outcome of a semantic pass.
type Result struct {
	Errors   []diagnostics.Diagnostic
	Warnings []diagnostics.Diagnostic
}

// Analyze runs the semantic pass over module and returns its diagnostics.
// The active scope is the root global scope both before and after this
// call (spec §8 "Scope stack hygiene").
func (a *Analyzer) Analyze(module *ast.Node) Result {
	a.visit(module)
	a.finalUnusedWarnings()
	return Result{Errors: a.errors, Warnings: a.warnings}
}

func (a *Analyzer) emitError(code, message string, n *ast.Node) {
	a.errors = append(a.errors, diagnostics.Diagnostic{
		Level:   diagnostics.LevelError,
		Code:    code,
		Message: message,
		Line:    n.Span.Start.Line,
		Column:  n.Span.Start.Column,
		Source:  a.file,
	})
}

func (a *Analyzer) emitWarning(code, message string, n *ast.Node) {
	a.warnings = append(a.warnings, diagnostics.Diagnostic{
		Level:   diagnostics.LevelWarning,
		Code:    code,
		Message: message,
		Line:    n.Span.Start.Line,
		Column:  n.Span.Start.Column,
		Source:  a.file,
	})
}

func (a *Analyzer) pushScope(name string, kind ScopeKind) {
	a.scope = NewScope(name, kind, a.scope)
}

func (a *Analyzer) popScope() {
	if a.scope.Parent != nil {
		a.scope = a.scope.Parent
	}
}

func (a *Analyzer) visit(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindModule:
		for _, c := range n.Children {
			a.visit(c)
		}
		return

	case ast.KindProcedure, ast.KindFunction:
		a.pushScope(n.Value, scopeKindFor(n.Kind))
		for _, p := range n.Parameters() {
			a.scope.Declare(p.Name(), true, p.Span.Start.Line)
		}
		for _, c := range n.Children {
			if c.Kind == ast.KindParameterList {
				continue
			}
			a.visit(c)
		}
		a.popScope()
		return

	case ast.KindBlock:
		a.pushScope("block", ScopeBlock)
		for _, c := range n.Children {
			a.visit(c)
		}
		a.popScope()
		return

	case ast.KindVariable:
		if a.cfg.CheckUndefinedVariables {
			if !a.scope.Declare(n.Value, false, n.Span.Start.Line) {
				a.emitError("redeclaration", fmt.Sprintf("variable %s redeclared in this scope", n.Value), n)
			}
		} else {
			a.scope.Declare(n.Value, false, n.Span.Start.Line)
		}
		return

	case ast.KindAssignment:
		if target := n.AssignmentTarget(); target != nil && target.Kind == ast.KindIdentifier {
			a.resolveIdentifier(target, true)
		}
		if val := n.AssignmentValue(); val != nil {
			a.visit(val)
		}
		return

	case ast.KindNew:
		a.checkConstructor(n)
		return

	case ast.KindCall:
		a.checkCall(n)
		return

	case ast.KindIdentifier:
		a.resolveIdentifier(n, false)
		return
	}

	for _, c := range n.Children {
		a.visit(c)
	}
}

func scopeKindFor(k ast.Kind) ScopeKind {
	if k == ast.KindFunction {
		return ScopeFunction
	}
	return ScopeProcedure
}

// resolveIdentifier implements the identifier dispatch in §4.F: known
// global function, then scope-chain lookup, then an undefined-identifier
// warning with similarity suggestions.
func (a *Analyzer) resolveIdentifier(n *ast.Node, isAssignmentTarget bool) {
	name := n.Value
	if isAssignmentTarget {
		if !a.scope.MarkUsed(name) {
			if a.cfg.CheckUndefinedVariables {
				a.emitWarning("undefined-variable", fmt.Sprintf("identifier %s used but not declared", name), n)
			}
		}
		return
	}

	if a.cfg.CheckGlobalFunctions && a.cat != nil && a.cat.IsGlobalFunction(name) {
		return
	}
	if a.scope.MarkUsed(name) {
		return
	}
	if !a.cfg.CheckUndefinedVariables {
		return
	}
	message := fmt.Sprintf("identifier %s used but not declared", name)
	if a.cfg.SuggestSimilarNames {
		suggestions := catalog.SuggestSimilar(name, a.visibleNames())
		if len(suggestions) > 0 {
			message = fmt.Sprintf("%s (did you mean: %v?)", message, suggestions)
		}
	}
	a.emitWarning("undefined-variable", message, n)
}

// checkConstructor implements the `Новый T(...)` constructor check in
// §4.F: T must be a known object type in the catalog.
func (a *Analyzer) checkConstructor(n *ast.Node) {
	typeName := n.Value
	if a.cat == nil || a.cat.Exists(typeName) {
		for _, c := range n.Children {
			a.visit(c)
		}
		return
	}
	message := fmt.Sprintf("Unknown object type '%s' in constructor", typeName)
	if a.cfg.SuggestSimilarNames {
		suggestions := catalog.SuggestSimilar(typeName, a.cat.TypeIDs())
		if len(suggestions) > 0 {
			message = fmt.Sprintf("%s (did you mean: %v?)", message, suggestions)
		}
	}
	a.emitError("unknown-constructor-type", message, n)
	for _, c := range n.Children {
		a.visit(c)
	}
}

// checkCall implements the call-expression dispatch in §4.F: global
// function parameter-count check, or delegation to the method verifier
// when the receiver's type can be inferred.
func (a *Analyzer) checkCall(n *ast.Node) {
	name := n.CallName()
	args := n.CallArgs()
	for _, arg := range args {
		a.visit(arg)
	}
	receiver := n.CallReceiver()
	if receiver != nil {
		a.visit(receiver)
	}

	if receiver == nil {
		if a.cfg.CheckGlobalFunctions && a.cat != nil {
			if m, ok := a.cat.GlobalFunction(name); ok && a.cfg.CheckParameterCount {
				if err := catalog.ValidateCall(m, len(args)); err != nil {
					a.emitError("parameter-count", err.Error(), n)
				}
			}
		}
		return
	}

	if !a.cfg.CheckMethodCalls || a.cat == nil {
		return
	}

	receiverType, ok := receiver.Attribute("inferred_type")
	if !ok {
		return
	}
	argTypes := make([]string, len(args))
	for i, arg := range args {
		argTypes[i] = verifier.InferLiteralType(a.cat, arg.Value)
	}
	result := a.verifier.Verify(receiverType, name, argTypes, n.Span.Start.Line)
	if !result.OK {
		a.emitError("method-call", verifier.FormatFailure(result), n)
	}
}

// visibleNames collects every variable name visible from the current
// scope chain, used as the candidate pool for similarity suggestions.
func (a *Analyzer) visibleNames() []string {
	var names []string
	for s := a.scope; s != nil; s = s.Parent {
		names = append(names, s.Names()...)
	}
	return names
}

// finalUnusedWarnings emits, for the global scope only, "declared but
// never used" for every non-parameter variable that was never marked
// used (spec §4.F "Final pass").
func (a *Analyzer) finalUnusedWarnings() {
	if !a.cfg.CheckUnusedVariables {
		return
	}
	root := a.scope.Root()
	names := root.UnusedVariables()
	sort.Strings(names)
	for _, name := range names {
		v, _ := root.Lookup(name)
		a.warnings = append(a.warnings, diagnostics.Diagnostic{
			Level:   diagnostics.LevelWarning,
			Code:    "unused-variable",
			Message: fmt.Sprintf("variable %s declared but never used", name),
			Line:    v.Line,
			Source:  a.file,
		})
	}
}
