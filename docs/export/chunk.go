package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oxhq/bslanalyzer/core"
)

var writer = core.NewAtomicWriter(core.DefaultAtomicConfig())

// writeCategory splits items into size/count-bounded chunks, writes one
// `<category>_NNN.json` file per chunk plus a `<category>_index.json`
// chunk summary, and returns the category's entry for main_index.json.
func writeCategory(outputDir, category string, items []item, opts Options, createdAt string) (categorySummary, error) {
	summary := categorySummary{ItemsCount: len(items)}
	if len(items) == 0 {
		return summary, nil
	}

	dir := filepath.Join(outputDir, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return summary, fmt.Errorf("export: create %s dir: %w", category, err)
	}

	chunks := chunkItems(items, opts.MaxItemsPerFile, opts.MaxFileSizeKB)
	summary.ChunksCount = len(chunks)

	var chunkSummaries []map[string]any
	for i, chunk := range chunks {
		chunkNumber := i + 1
		filename := fmt.Sprintf("%s_%03d.json", category, chunkNumber)

		payload := map[string]any{
			"items": fieldsOf(chunk),
			"metadata": map[string]any{
				"category":     category,
				"chunk":        chunkNumber,
				"total_chunks": len(chunks),
				"items_count":  len(chunk),
				"created_at":   createdAt,
			},
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return summary, fmt.Errorf("export: marshal %s chunk %d: %w", category, chunkNumber, err)
		}
		if err := writer.WriteFile(filepath.Join(dir, filename), string(data)); err != nil {
			return summary, fmt.Errorf("export: write %s chunk %d: %w", category, chunkNumber, err)
		}

		summary.Files = append(summary.Files, filename)
		chunkSummaries = append(chunkSummaries, map[string]any{
			"chunk_number":  chunkNumber,
			"filename":      filename,
			"items_count":   len(chunk),
			"first_item_id": chunk[0].ID,
			"last_item_id":  chunk[len(chunk)-1].ID,
			"size_kb":       float64(len(data)) / 1024,
		})
	}

	indexData, err := json.MarshalIndent(map[string]any{"chunks": chunkSummaries}, "", "  ")
	if err != nil {
		return summary, fmt.Errorf("export: marshal %s chunk index: %w", category, err)
	}
	indexPath := filepath.Join(outputDir, category+"_index.json")
	if err := writer.WriteFile(indexPath, string(indexData)); err != nil {
		return summary, fmt.Errorf("export: write %s chunk index: %w", category, err)
	}

	return summary, nil
}

func fieldsOf(items []item) []map[string]any {
	out := make([]map[string]any, len(items))
	for i, it := range items {
		out[i] = it.Fields
	}
	return out
}

// chunkItems accumulates items into chunks, closing a chunk once either
// maxItems or the serialized maxKB threshold would be exceeded. A single
// item is never split across chunks: if one item alone exceeds maxKB it
// still gets its own chunk rather than being dropped.
func chunkItems(items []item, maxItems, maxKB int) [][]item {
	var chunks [][]item
	var current []item
	currentBytes := 0
	maxBytes := maxKB * 1024

	for _, it := range items {
		data, err := it.marshal()
		size := len(data)
		if err != nil {
			size = 0
		}

		if len(current) > 0 && (len(current) >= maxItems || currentBytes+size > maxBytes) {
			chunks = append(chunks, current)
			current = nil
			currentBytes = 0
		}

		current = append(current, it)
		currentBytes += size
	}

	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

// writeMainIndex writes main_index.json summarizing every category.
func writeMainIndex(opts Options, total int, summary map[string]categorySummary, createdAt string) error {
	categories := make(map[string]any, len(summary))
	for name, s := range summary {
		categories[name] = map[string]any{
			"items_count":  s.ItemsCount,
			"chunks_count": s.ChunksCount,
			"files":        s.Files,
		}
	}

	payload := map[string]any{
		"total_items": total,
		"categories":  categories,
		"created_at":  createdAt,
		"mode":        opts.Mode,
		"settings": map[string]any{
			"max_file_size_kb":   opts.MaxFileSizeKB,
			"max_items_per_file": opts.MaxItemsPerFile,
		},
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal main index: %w", err)
	}
	return writer.WriteFile(filepath.Join(opts.OutputDir, "main_index.json"), string(data))
}
