package semantic

// ScopeKind enumerates the scope tree's node kinds (spec §3).
type ScopeKind string

const (
	ScopeGlobal    ScopeKind = "global"
	ScopeProcedure ScopeKind = "procedure"
	ScopeFunction  ScopeKind = "function"
	ScopeBlock     ScopeKind = "block"
)

// variable is a symbol tracked by the semantic pass — lighter than
// dataflow.VariableState since the semantic pass only needs declaration
// and use, not the full lifecycle.
type variable struct {
	Name        string
	IsParameter bool
	Used        bool
	Line        int
}

// Scope is one node in the scope tree (spec §3): a name, kind, variable
// map, and parent link. Lookup walks parents; declaration always targets
// the innermost scope.
type Scope struct {
	Name      string
	Kind      ScopeKind
	Parent    *Scope
	variables map[string]*variable
}

// NewScope creates a scope chained to parent.
func NewScope(name string, kind ScopeKind, parent *Scope) *Scope {
	return &Scope{
		Name:      name,
		Kind:      kind,
		Parent:    parent,
		variables: make(map[string]*variable),
	}
}

// Declare records name in this scope (not a parent). Returns false if name
// is already declared directly in this scope (redeclaration).
func (s *Scope) Declare(name string, isParameter bool, line int) bool {
	if _, exists := s.variables[name]; exists {
		return false
	}
	s.variables[name] = &variable{Name: name, IsParameter: isParameter, Line: line}
	return true
}

// Lookup walks from s up through its parents for name, returning the
// owning scope's variable record.
func (s *Scope) Lookup(name string) (*variable, *Scope) {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := cur.variables[name]; ok {
			return v, cur
		}
	}
	return nil, nil
}

// MarkUsed marks name used if it resolves on the scope chain; returns
// false if not found anywhere.
func (s *Scope) MarkUsed(name string) bool {
	v, _ := s.Lookup(name)
	if v == nil {
		return false
	}
	v.Used = true
	return true
}

// Root walks up to the outermost (global) scope.
func (s *Scope) Root() *Scope {
	cur := s
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// Names returns every variable name declared directly in this scope.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.variables))
	for name := range s.variables {
		names = append(names, name)
	}
	return names
}

// UnusedVariables returns names declared in this scope, not parameters,
// never marked used.
func (s *Scope) UnusedVariables() []string {
	var names []string
	for name, v := range s.variables {
		if !v.IsParameter && !v.Used {
			names = append(names, name)
		}
	}
	return names
}
