package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableValueMethod() Method {
	return Method{
		Name:       "Найти",
		ReturnType: "СтрокаТаблицыЗначений",
		IsFunction: true,
		Parameters: []Parameter{
			{Name: "Значение", Type: "Произвольный"},
			{Name: "Колонка", Type: "Строка", Optional: true},
		},
	}
}

func TestMethodSignatureFormat(t *testing.T) {
	sig := tableValueMethod().Signature()
	assert.Equal(t, "Найти(Значение:Произвольный, [Колонка:Строка]) -> СтрокаТаблицыЗначений", sig)
}

func TestSignatureRoundTrip(t *testing.T) {
	original := tableValueMethod()
	sig := FormatSignature(original)
	parsed, ok := ParseSignature(sig)
	require.True(t, ok)
	assert.Equal(t, original.Name, parsed.Name)
	assert.Equal(t, original.ReturnType, parsed.ReturnType)
	require.Len(t, parsed.Parameters, 2)
	assert.Equal(t, "Значение", parsed.Parameters[0].Name)
	assert.False(t, parsed.Parameters[0].Optional)
	assert.Equal(t, "Колонка", parsed.Parameters[1].Name)
	assert.True(t, parsed.Parameters[1].Optional)
}

func TestMethodCallValidationAcceptsRequiredToTotal(t *testing.T) {
	m := tableValueMethod()
	assert.NoError(t, ValidateCall(m, 1))
	assert.NoError(t, ValidateCall(m, 2))
	assert.Error(t, ValidateCall(m, 0))
	assert.Error(t, ValidateCall(m, 3))
}

func TestCompat(t *testing.T) {
	assert.True(t, Compat("Строка", "Строка"))
	assert.True(t, Compat("Произвольный", "Строка"))
	assert.True(t, Compat("Строка", "Произвольный"))
	assert.True(t, Compat("Неопределено", "Число"))
	assert.True(t, Compat("Число", "Строка"))
	assert.False(t, Compat("Булево", "Массив"))
}

func TestCatalogMethodLookupAndSuggestions(t *testing.T) {
	c := New()
	c.AddType(&Type{
		ID:          "ТаблицаЗначений",
		DisplayName: "ТаблицаЗначений",
		Methods: map[string]Method{
			"Найти":    tableValueMethod(),
			"Добавить": {Name: "Добавить"},
			"Очистить": {Name: "Очистить"},
		},
	})

	assert.True(t, c.Exists("ТаблицаЗначений"))
	m, ok := c.MethodInfo("ТаблицаЗначений", "Найти")
	require.True(t, ok)
	assert.Equal(t, "Найти", m.Name)

	_, ok = c.MethodInfo("ТаблицаЗначений", "НеизвестныйМетод")
	assert.False(t, ok)

	suggestions := SuggestSimilar("Найти", c.MethodList("ТаблицаЗначений"))
	assert.NotContains(t, suggestions, "Найти")
}

func TestSimilarityLevenshteinAndSubstring(t *testing.T) {
	assert.True(t, Similar("Сообщить", "сообщить"))
	assert.True(t, Similar("Найти", "найт"))
	assert.True(t, Similar("Foo", "FooBar"))
	assert.False(t, Similar("abc", "xyz987"))
}

func TestFormatSuggestionListTailsAfterTen(t *testing.T) {
	names := make([]string, 12)
	for i := range names {
		names[i] = "M"
	}
	out := FormatSuggestionList(names)
	require.Len(t, out, 11)
	assert.Equal(t, "+2 more", out[10])
}
