package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/bslanalyzer/catalog"
)

func sampleCatalog() *catalog.Catalog {
	cat := catalog.New()
	cat.AddType(&catalog.Type{
		ID:          "Массив",
		DisplayName: "Массив",
		EnglishName: "Array",
		Kind:        catalog.KindCollection,
		Methods: map[string]catalog.Method{
			"Добавить": {Name: "Добавить", EnglishName: "Add", Parameters: []catalog.Parameter{{Name: "Значение"}}},
		},
		Properties: map[string]catalog.Method{
			"Количество": {Name: "Количество", ReturnType: "Число"},
		},
	})
	cat.AddGlobalFunction(catalog.Method{Name: "Сообщить", EnglishName: "Message"})
	return cat
}

func TestExportWritesMainIndexWithAllCategories(t *testing.T) {
	dir := t.TempDir()
	cat := sampleCatalog()

	require.NoError(t, Export(cat, DefaultOptions(dir)))

	data, err := os.ReadFile(filepath.Join(dir, "main_index.json"))
	require.NoError(t, err)

	var main map[string]any
	require.NoError(t, json.Unmarshal(data, &main))

	total, ok := main["total_items"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, total, float64(4)) // 1 object + 1 method + 1 property + 1 function, plus the fixed operator set
	categories, ok := main["categories"].(map[string]any)
	require.True(t, ok)
	for _, name := range []string{"objects", "methods", "functions", "properties", "operators"} {
		_, ok := categories[name]
		assert.True(t, ok, "missing category %s", name)
	}
}

func TestExportChunksRespectMaxItemsPerFile(t *testing.T) {
	dir := t.TempDir()
	cat := catalog.New()
	for i := 0; i < 5; i++ {
		id := string(rune('A' + i))
		cat.AddType(&catalog.Type{ID: id, DisplayName: id, Kind: catalog.KindObject})
	}

	opts := DefaultOptions(dir)
	opts.MaxItemsPerFile = 2
	require.NoError(t, Export(cat, opts))

	indexData, err := os.ReadFile(filepath.Join(dir, "objects_index.json"))
	require.NoError(t, err)

	var idx map[string]any
	require.NoError(t, json.Unmarshal(indexData, &idx))
	chunks, ok := idx["chunks"].([]any)
	require.True(t, ok)
	require.Len(t, chunks, 3) // 2, 2, 1

	first := chunks[0].(map[string]any)
	assert.EqualValues(t, 2, first["items_count"])
}

func TestExportSkipsEmptyCategoryFiles(t *testing.T) {
	dir := t.TempDir()
	cat := catalog.New() // no types, no global functions -> objects/methods/functions/properties all empty

	require.NoError(t, Export(cat, DefaultOptions(dir)))

	_, err := os.Stat(filepath.Join(dir, "objects_index.json"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, "operators_index.json"))
	assert.NoError(t, err)
}

// TestExportIsStableAcrossRuns re-exports the same catalog into two
// directories and diffs their chunk-summary files (which, unlike the
// per-chunk payloads, carry no wall-clock timestamp) to confirm the
// chunking and item ordering are deterministic.
func TestExportIsStableAcrossRuns(t *testing.T) {
	cat := sampleCatalog()

	dirA := t.TempDir()
	require.NoError(t, Export(cat, DefaultOptions(dirA)))
	dirB := t.TempDir()
	require.NoError(t, Export(cat, DefaultOptions(dirB)))

	indexA, err := os.ReadFile(filepath.Join(dirA, "operators_index.json"))
	require.NoError(t, err)
	indexB, err := os.ReadFile(filepath.Join(dirB, "operators_index.json"))
	require.NoError(t, err)

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(indexA)),
		B:        difflib.SplitLines(string(indexB)),
		FromFile: "run-a/operators_index.json",
		ToFile:   "run-b/operators_index.json",
		Context:  3,
	}
	diffText, err := difflib.GetUnifiedDiffString(diff)
	require.NoError(t, err)
	assert.Empty(t, diffText, "expected identical chunk-summary output across runs, got diff:\n%s", diffText)
}
