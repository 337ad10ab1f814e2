package ast

// Kind enumerates the tagged node kinds produced by the syntax analyzer.
type Kind string

const (
	KindModule Kind = "module"

	// Declarations
	KindProcedure      Kind = "procedure"
	KindFunction       Kind = "function"
	KindVariable       Kind = "variable"
	KindParameter      Kind = "parameter"
	KindParameterList  Kind = "parameter_list"

	// Statements
	KindAssignment Kind = "assignment"
	KindIf         Kind = "if"
	KindFor        Kind = "for"
	KindForEach    Kind = "for_each"
	KindWhile      Kind = "while"
	KindTry        Kind = "try"
	KindReturn     Kind = "return"
	KindBreak      Kind = "break"
	KindContinue   Kind = "continue"
	KindBlock      Kind = "block"

	// Expressions
	KindCall   Kind = "call"
	KindMember Kind = "member"
	KindIndex  Kind = "index"
	KindNew    Kind = "new"
	KindBinary Kind = "binary"
	KindUnary  Kind = "unary"

	// Literals
	KindStringLiteral    Kind = "string_literal"
	KindNumberLiteral    Kind = "number_literal"
	KindBooleanLiteral   Kind = "boolean_literal"
	KindDateLiteral      Kind = "date_literal"
	KindUndefinedLiteral Kind = "undefined_literal"
	KindNullLiteral      Kind = "null_literal"

	KindIdentifier Kind = "identifier"
	KindKeyword    Kind = "keyword"
	KindComment    Kind = "comment"
	KindUnknown    Kind = "unknown"
)

// Node is a tagged record over a source span. Invariant: a node's span
// covers the union of its children's spans; procedure/function nodes carry
// the declared name in Value and their parameters as a single
// parameter_list child; assignment's first child is the assignment target.
//
// Nodes are immutable once the parent pass that built them has finished:
// re-parenting after that point is forbidden.
type Node struct {
	Kind       Kind
	Span       Span
	Value      string
	Children   []*Node
	Attributes map[string]string
}

// NewNode builds a node with an empty attribute map and no children.
func NewNode(kind Kind, span Span) *Node {
	return &Node{
		Kind:       kind,
		Span:       span,
		Attributes: make(map[string]string),
	}
}

// AddChild appends child to n's children, preserving insertion order, and
// widens n's span to cover the child.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
	if len(n.Children) == 1 {
		n.Span = child.Span
	} else {
		n.Span = n.Span.Union(child.Span)
	}
}

// SetAttribute records a string attribute on the node.
func (n *Node) SetAttribute(key, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[key] = value
}

// Attribute returns the value of key and whether it was present.
func (n *Node) Attribute(key string) (string, bool) {
	v, ok := n.Attributes[key]
	return v, ok
}

// IsExport reports whether the node carries attribute export="true".
func (n *Node) IsExport() bool {
	v, ok := n.Attribute("export")
	return ok && v == "true"
}

// Name returns the node's declared name: its Value for procedure,
// function, variable, and identifier nodes.
func (n *Node) Name() string {
	switch n.Kind {
	case KindProcedure, KindFunction, KindVariable, KindIdentifier:
		return n.Value
	default:
		return ""
	}
}

// Parameters returns the children of n's parameter_list child, or nil if
// n has none (n is expected to be a procedure or function node).
func (n *Node) Parameters() []*Node {
	list := n.FindFirstChildOfKind(KindParameterList)
	if list == nil {
		return nil
	}
	return list.Children
}

// FindFirstChildOfKind returns the first direct child with the given kind.
func (n *Node) FindFirstChildOfKind(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// FindAllOfKind recursively collects every descendant node (including n
// itself) matching kind, in pre-order.
func (n *Node) FindAllOfKind(kind Kind) []*Node {
	var result []*Node
	Walk(n, func(node *Node) bool {
		if node.Kind == kind {
			result = append(result, node)
		}
		return true
	})
	return result
}

// CallCallee returns the callee expression of a call node (its first
// child); nil if n is not a call or has no children.
func (n *Node) CallCallee() *Node {
	if n.Kind != KindCall || len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// CallArgs returns the argument expressions of a call node (every child
// after the callee).
func (n *Node) CallArgs() []*Node {
	if n.Kind != KindCall || len(n.Children) < 2 {
		return nil
	}
	return n.Children[1:]
}

// CallName returns the simple name of the call: the callee's identifier
// name, or the member name if the callee is itself a member access
// (e.g. `Таблица.Найти(...)` resolves to "Найти").
func (n *Node) CallName() string {
	callee := n.CallCallee()
	if callee == nil {
		return n.Value
	}
	if callee.Kind == KindMember {
		return callee.Value
	}
	return callee.Name()
}

// CallReceiver returns the receiver expression when the call's callee is a
// member access (e.g. the `Таблица` in `Таблица.Найти(...)`), or nil for a
// bare function call.
func (n *Node) CallReceiver() *Node {
	callee := n.CallCallee()
	if callee == nil || callee.Kind != KindMember {
		return nil
	}
	if len(callee.Children) == 0 {
		return nil
	}
	return callee.Children[0]
}

// AssignmentTarget returns the assignment's first child (the target),
// per the invariant in §3/§4.A.
func (n *Node) AssignmentTarget() *Node {
	if n.Kind != KindAssignment || len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// AssignmentValue returns the assignment's second child (the value
// expression), if present.
func (n *Node) AssignmentValue() *Node {
	if n.Kind != KindAssignment || len(n.Children) < 2 {
		return nil
	}
	return n.Children[1]
}

// Walk performs a pre-order traversal of the tree rooted at n, invoking
// visit on each node. If visit returns false, n's children are skipped.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, visit)
	}
}
