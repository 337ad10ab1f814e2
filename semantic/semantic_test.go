package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/bslanalyzer/catalog"
	"github.com/oxhq/bslanalyzer/parser"
)

func TestScopeStackHygieneAfterAnalysis(t *testing.T) {
	src := `Процедура Test()
	Перем X;
	X = 1;
КонецПроцедуры`
	module := parser.Parse(src)
	a := New(catalog.New(), DefaultConfig(), "test.bsl")
	a.Analyze(module)
	assert.Equal(t, ScopeGlobal, a.scope.Kind)
	assert.Nil(t, a.scope.Parent)
}

func TestRedeclarationInSameScopeIsError(t *testing.T) {
	src := `Перем X; Перем X;`
	module := parser.Parse(src)
	a := New(catalog.New(), DefaultConfig(), "test.bsl")
	result := a.Analyze(module)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "redeclared")
}

func TestUnknownConstructorTypeIsError(t *testing.T) {
	src := `Перем X; X = Новый НесуществующийТип();`
	module := parser.Parse(src)
	a := New(catalog.New(), DefaultConfig(), "test.bsl")
	result := a.Analyze(module)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "Unknown object type")
	assert.Contains(t, result.Errors[0].Message, "НесуществующийТип")
}

func TestKnownConstructorTypeProducesNoError(t *testing.T) {
	cat := catalog.New()
	cat.AddType(&catalog.Type{ID: "Массив"})
	src := `Перем X; X = Новый Массив();`
	module := parser.Parse(src)
	a := New(cat, DefaultConfig(), "test.bsl")
	result := a.Analyze(module)
	assert.Empty(t, result.Errors)
}

func TestUndefinedIdentifierWarnsWithSuggestion(t *testing.T) {
	src := `Перем Таблица; Сообщить(Табица);`
	module := parser.Parse(src)
	a := New(catalog.New(), DefaultConfig(), "test.bsl")
	result := a.Analyze(module)
	var found bool
	for _, w := range result.Warnings {
		if w.Code == "undefined-variable" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestUnusedVariableWarningInGlobalScope(t *testing.T) {
	src := `Перем Неиспользуемая; Неиспользуемая = 1;`
	module := parser.Parse(src)
	a := New(catalog.New(), DefaultConfig(), "test.bsl")
	result := a.Analyze(module)
	var found bool
	for _, w := range result.Warnings {
		if w.Code == "unused-variable" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParameterNeverFlaggedUnusedOrUndefined(t *testing.T) {
	src := `Процедура Test(Парам) КонецПроцедуры`
	module := parser.Parse(src)
	a := New(catalog.New(), DefaultConfig(), "test.bsl")
	result := a.Analyze(module)
	for _, d := range append(result.Errors, result.Warnings...) {
		assert.NotContains(t, d.Message, "Парам")
	}
}

func TestDisablingUnusedCheckSuppressesWarning(t *testing.T) {
	src := `Перем Неиспользуемая; Неиспользуемая = 1;`
	module := parser.Parse(src)
	cfg := DefaultConfig()
	cfg.CheckUnusedVariables = false
	a := New(catalog.New(), cfg, "test.bsl")
	result := a.Analyze(module)
	for _, w := range result.Warnings {
		assert.NotEqual(t, "unused-variable", w.Code)
	}
}
