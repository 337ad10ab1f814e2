package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(line, col, off int) Position { return Position{Line: line, Column: col, Offset: off} }

func TestNodeAddChildWidensSpan(t *testing.T) {
	parent := NewNode(KindBlock, Span{Start: pos(1, 1, 0), End: pos(1, 1, 0)})
	child1 := NewNode(KindAssignment, Span{Start: pos(1, 1, 0), End: pos(1, 10, 9)})
	child2 := NewNode(KindAssignment, Span{Start: pos(2, 1, 11), End: pos(2, 20, 30)})

	parent.AddChild(child1)
	require.Equal(t, child1.Span, parent.Span)

	parent.AddChild(child2)
	assert.Equal(t, pos(1, 1, 0), parent.Span.Start)
	assert.Equal(t, pos(2, 20, 30), parent.Span.End)
	assert.True(t, parent.Span.Contains(child1.Span))
	assert.True(t, parent.Span.Contains(child2.Span))
}

func TestNodeNameAndExport(t *testing.T) {
	proc := NewNode(KindProcedure, Span{})
	proc.Value = "TestProc"
	proc.SetAttribute("export", "true")

	assert.Equal(t, "TestProc", proc.Name())
	assert.True(t, proc.IsExport())

	other := NewNode(KindCall, Span{})
	assert.Equal(t, "", other.Name())
	assert.False(t, other.IsExport())
}

func TestNodeParameters(t *testing.T) {
	proc := NewNode(KindProcedure, Span{})
	list := NewNode(KindParameterList, Span{})
	p1 := NewNode(KindParameter, Span{})
	p1.Value = "A"
	p2 := NewNode(KindParameter, Span{})
	p2.Value = "B"
	list.AddChild(p1)
	list.AddChild(p2)
	proc.AddChild(list)

	params := proc.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, "A", params[0].Name())
	assert.Equal(t, "B", params[1].Name())
}

func TestFindAllOfKind(t *testing.T) {
	module := NewNode(KindModule, Span{})
	block := NewNode(KindBlock, Span{})
	a := NewNode(KindIdentifier, Span{})
	a.Value = "x"
	b := NewNode(KindIdentifier, Span{})
	b.Value = "y"
	block.AddChild(a)
	block.AddChild(b)
	module.AddChild(block)

	idents := module.FindAllOfKind(KindIdentifier)
	require.Len(t, idents, 2)
	assert.Equal(t, "x", idents[0].Value)
	assert.Equal(t, "y", idents[1].Value)
}

func TestFindFirstChildOfKind(t *testing.T) {
	proc := NewNode(KindProcedure, Span{})
	block := NewNode(KindBlock, Span{})
	proc.AddChild(block)

	assert.Equal(t, block, proc.FindFirstChildOfKind(KindBlock))
	assert.Nil(t, proc.FindFirstChildOfKind(KindIf))
}
