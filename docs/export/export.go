// Package export writes the chunked documentation index (spec §6): a
// root main_index.json plus, per category, a set of item chunk files and
// a chunk-summary index file. The layout is designed to be re-read by the
// core without loading the whole index into memory at once.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/oxhq/bslanalyzer/catalog"
	"github.com/oxhq/bslanalyzer/token"
)

// Options configures Export's chunking and output location.
type Options struct {
	OutputDir       string
	MaxItemsPerFile int
	MaxFileSizeKB   int
	Mode            string
}

// DefaultOptions returns the chunking defaults: 500 items or 512KB per
// chunk file, whichever comes first.
func DefaultOptions(outputDir string) Options {
	return Options{
		OutputDir:       outputDir,
		MaxItemsPerFile: 500,
		MaxFileSizeKB:   512,
		Mode:            "full",
	}
}

// item is one documentation entry; ID is carried separately from Fields
// so chunk summaries can report first/last item IDs without re-parsing
// JSON.
type item struct {
	ID     string
	Fields map[string]any
}

func (it item) marshal() ([]byte, error) {
	return json.Marshal(it.Fields)
}

// Export builds the five fixed categories (objects, methods, functions,
// properties, operators) from cat and writes the chunked layout under
// opts.OutputDir.
func Export(cat *catalog.Catalog, opts Options) error {
	if opts.MaxItemsPerFile <= 0 {
		opts.MaxItemsPerFile = 500
	}
	if opts.MaxFileSizeKB <= 0 {
		opts.MaxFileSizeKB = 512
	}
	if opts.Mode == "" {
		opts.Mode = "full"
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("export: create output dir: %w", err)
	}

	categories := map[string][]item{
		"objects":    objectItems(cat),
		"methods":    methodItems(cat),
		"functions":  functionItems(cat),
		"properties": propertyItems(cat),
		"operators":  operatorItems(),
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	summary := make(map[string]categorySummary, len(categories))
	total := 0

	for _, name := range []string{"objects", "methods", "functions", "properties", "operators"} {
		items := categories[name]
		total += len(items)
		s, err := writeCategory(opts.OutputDir, name, items, opts, createdAt)
		if err != nil {
			return err
		}
		summary[name] = s
	}

	return writeMainIndex(opts, total, summary, createdAt)
}

type categorySummary struct {
	ItemsCount  int
	ChunksCount int
	Files       []string
}

func objectItems(cat *catalog.Catalog) []item {
	var items []item
	for _, id := range cat.TypeIDs() {
		t, ok := cat.Type(id)
		if !ok {
			continue
		}
		items = append(items, item{
			ID: t.ID,
			Fields: map[string]any{
				"id":           t.ID,
				"display_name": t.DisplayName,
				"english_name": t.EnglishName,
				"kind":         string(t.Kind),
				"description":  t.Description,
				"source":       t.Source,
			},
		})
	}
	return items
}

func methodItems(cat *catalog.Catalog) []item {
	var items []item
	for _, id := range cat.TypeIDs() {
		for _, name := range cat.MethodList(id) {
			m, ok := cat.MethodInfo(id, name)
			if !ok {
				continue
			}
			itemID := id + "." + name
			items = append(items, item{
				ID: itemID,
				Fields: map[string]any{
					"id":          itemID,
					"type_id":     id,
					"name":        m.Name,
					"signature":   m.Signature(),
					"is_function": m.IsFunction,
					"deprecated":  m.Deprecated,
				},
			})
		}
	}
	return items
}

func propertyItems(cat *catalog.Catalog) []item {
	var items []item
	for _, id := range cat.TypeIDs() {
		t, ok := cat.Type(id)
		if !ok {
			continue
		}
		for name, p := range t.Properties {
			itemID := id + "." + name
			items = append(items, item{
				ID: itemID,
				Fields: map[string]any{
					"id":      itemID,
					"type_id": id,
					"name":    name,
					"type":    p.ReturnType,
				},
			})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func functionItems(cat *catalog.Catalog) []item {
	var items []item
	for _, name := range cat.GlobalFunctionNames() {
		m, ok := cat.GlobalFunction(name)
		if !ok {
			continue
		}
		items = append(items, item{
			ID: name,
			Fields: map[string]any{
				"id":        name,
				"name":      m.Name,
				"signature": m.Signature(),
			},
		})
	}
	return items
}

func operatorItems() []item {
	var items []item
	for _, symbol := range token.OperatorSymbols() {
		items = append(items, item{
			ID:     symbol,
			Fields: map[string]any{"id": symbol, "symbol": symbol},
		})
	}
	return items
}
