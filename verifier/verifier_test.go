package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/bslanalyzer/catalog"
)

func newTestCatalog() *catalog.Catalog {
	c := catalog.New()
	c.AddType(&catalog.Type{
		ID: "ТаблицаЗначений",
		Methods: map[string]catalog.Method{
			"Найти": {
				Name:       "Найти",
				ReturnType: "СтрокаТаблицыЗначений",
				IsFunction: true,
				Parameters: []catalog.Parameter{
					{Name: "Значение", Type: "Произвольный"},
					{Name: "Колонка", Type: "Строка", Optional: true},
				},
			},
			"Добавить": {Name: "Добавить"},
		},
	})
	return c
}

func TestVerifyAcceptsValidArgCounts(t *testing.T) {
	v := New(newTestCatalog())
	for _, n := range []int{1, 2} {
		argTypes := make([]string, n)
		for i := range argTypes {
			argTypes[i] = "Произвольный"
		}
		result := v.Verify("ТаблицаЗначений", "Найти", argTypes, 1)
		assert.True(t, result.OK, "expected arg count %d to be accepted", n)
	}
}

func TestVerifyTooFewArgs(t *testing.T) {
	v := New(newTestCatalog())
	result := v.Verify("ТаблицаЗначений", "Найти", nil, 1)
	require.False(t, result.OK)
	assert.Contains(t, result.Message, "too few")
}

func TestVerifyTooManyArgs(t *testing.T) {
	v := New(newTestCatalog())
	result := v.Verify("ТаблицаЗначений", "Найти", []string{"Произвольный", "Произвольный", "Произвольный"}, 1)
	require.False(t, result.OK)
	assert.Contains(t, result.Message, "too many")
}

func TestVerifyMethodNotFoundIncludesRealMethodNames(t *testing.T) {
	v := New(newTestCatalog())
	result := v.Verify("ТаблицаЗначений", "НеизвестныйМетод", nil, 1)
	require.False(t, result.OK)
	assert.Contains(t, result.Message, "method not found")
	assert.Contains(t, result.Suggestions, "Найти")
}

func TestVerifyTypeNotFound(t *testing.T) {
	v := New(newTestCatalog())
	result := v.Verify("НеизвестныйТип", "Метод", nil, 1)
	require.False(t, result.OK)
	assert.Contains(t, result.Message, "type not found")
}

func TestFormatFailureRendersSuggestions(t *testing.T) {
	r := Result{Message: "method not found: X.Y", Suggestions: []string{"A", "B"}}
	out := FormatFailure(r)
	assert.Contains(t, out, "Предложения:")
	assert.Contains(t, out, "• A")
	assert.Contains(t, out, "• B")
}

func TestInferLiteralType(t *testing.T) {
	cat := newTestCatalog()
	assert.Equal(t, "Строка", InferLiteralType(cat, `"hello"`))
	assert.Equal(t, "Число", InferLiteralType(cat, "42"))
	assert.Equal(t, "Булево", InferLiteralType(cat, "Истина"))
	assert.Equal(t, "Неопределено", InferLiteralType(cat, "Неопределено"))
	assert.Equal(t, "ТаблицаЗначений", InferLiteralType(cat, "Новый ТаблицаЗначений()"))
	assert.Equal(t, "Неопределено", InferLiteralType(cat, "Новый НеизвестныйТип()"))
}

func TestExistenceCacheIsReused(t *testing.T) {
	v := New(newTestCatalog())
	first := v.Verify("ТаблицаЗначений", "Найти", []string{"Произвольный"}, 1)
	second := v.Verify("ТаблицаЗначений", "Найти", []string{"Произвольный"}, 2)
	assert.True(t, first.OK)
	assert.True(t, second.OK)
	assert.Len(t, v.cache, 1)
}
