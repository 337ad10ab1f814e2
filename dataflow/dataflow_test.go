package dataflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/bslanalyzer/parser"
)

func TestDeclaredAssignedUsedVariable(t *testing.T) {
	src := "Перем TestVar;\nTestVar = \"Значение\";\nСообщить(TestVar);"
	module := parser.Parse(src)
	result := Analyze(module, "test.bsl")

	require.Contains(t, result.Variables, "TestVar")
	v := result.Variables["TestVar"]
	assert.True(t, v.Declared)
	assert.True(t, v.Initialized)
	assert.True(t, v.Used)
	assert.False(t, v.IsParameter)
	require.NotZero(t, v.FirstUseLine)
	assert.Greater(t, v.FirstUseLine, v.DeclarationLine)

	for _, d := range result.Diagnostics {
		assert.NotEqual(t, "error", string(d.Level))
	}
	var warnings int
	for _, d := range result.Diagnostics {
		if string(d.Level) == "warning" {
			warnings++
		}
	}
	assert.Zero(t, warnings)
}

func TestUsagesRecordsEveryReadInSourceOrder(t *testing.T) {
	src := `Перем X; X = 1; Сообщить(X); Сообщить(X);`
	module := parser.Parse(src)
	result := Analyze(module, "test.bsl")

	v := result.Variables["X"]
	require.Len(t, v.Usages, 2)
	assert.Equal(t, v.Usages[0].Line, v.FirstUseLine)
	assert.Equal(t, v.Usages[len(v.Usages)-1].Line, v.LastUseLine)
	assert.LessOrEqual(t, v.Usages[0].Offset, v.Usages[1].Offset)
}

func TestUndeclaredUseOnAssignmentLHS(t *testing.T) {
	src := `UndeclaredVar = 10;`
	module := parser.Parse(src)
	result := Analyze(module, "test.bsl")

	require.Len(t, result.Diagnostics, 1)
	d := result.Diagnostics[0]
	assert.Equal(t, "error", string(d.Level))
	assert.Contains(t, d.Message, "used in assignment but not declared")
	assert.Contains(t, d.Message, "UndeclaredVar")
}

func TestDeclaredInitializedButUnused(t *testing.T) {
	src := `Перем UnusedVar; UnusedVar = 10;`
	module := parser.Parse(src)
	result := Analyze(module, "test.bsl")

	var warnings []string
	for _, d := range result.Diagnostics {
		if string(d.Level) == "warning" {
			warnings = append(warnings, d.Message)
		}
	}
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "declared but never used")
	assert.Contains(t, warnings[0], "UnusedVar")

	assert.Contains(t, result.UnusedVariables(), "UnusedVar")
	assert.Empty(t, result.UninitializedVariables())
}

func TestProcedureParameterExemption(t *testing.T) {
	src := `Процедура Test(UnusedParam) КонецПроцедуры`
	module := parser.Parse(src)
	result := Analyze(module, "test.bsl")

	require.Contains(t, result.Variables, "UnusedParam")
	v := result.Variables["UnusedParam"]
	assert.True(t, v.IsParameter)
	assert.True(t, v.Initialized)

	for _, d := range result.Diagnostics {
		assert.NotContains(t, d.Message, "UnusedParam")
	}
	assert.NotContains(t, result.UnusedVariables(), "UnusedParam")
	assert.NotContains(t, result.UninitializedVariables(), "UnusedParam")
}

func TestDiagnosticsOrderedByDeclarationLineThenName(t *testing.T) {
	src := "Перем B;\nПерем A;\n"
	module := parser.Parse(src)
	result := Analyze(module, "test.bsl")

	require.Len(t, result.Diagnostics, 4)
	// B declared on line 1 sorts before A declared on line 2.
	assert.Contains(t, result.Diagnostics[0].Message, "B")
	assert.Contains(t, result.Diagnostics[1].Message, "B")
	assert.Contains(t, result.Diagnostics[2].Message, "A")
	assert.Contains(t, result.Diagnostics[3].Message, "A")
}

func TestEmptyModuleProducesNoDiagnostics(t *testing.T) {
	module := parser.Parse("")
	result := Analyze(module, "test.bsl")
	assert.Empty(t, result.Diagnostics)
	assert.Empty(t, result.Variables)
}
