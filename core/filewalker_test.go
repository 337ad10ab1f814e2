package core

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func TestFileWalkerFastScanFindsSourceModulesByDefault(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"CommonModules/Utils/Ext/Module.bsl": "Функция Ф() КонецФункции",
		"CommonModules/Utils/Ext/Module.os":  "Функция Ф() КонецФункции",
		"CommonModules/Utils/Ext/readme.txt": "not a module",
	})

	files, err := NewFileWalker().FastScan(context.Background(), FileScope{Path: root})
	if err != nil {
		t.Fatalf("FastScan: %v", err)
	}
	sort.Strings(files)

	if len(files) != 2 {
		t.Fatalf("expected 2 source modules, got %d: %v", len(files), files)
	}
}

func TestFileWalkerWalkReportsSourceModuleFlag(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Module.bsl": "Перем X;",
		"notes.md":   "# notes",
	})

	results, err := NewFileWalker().Walk(context.Background(), FileScope{
		Path:    root,
		Include: []string{"**/*"},
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	seen := map[string]bool{}
	for r := range results {
		if r.Error != nil {
			t.Fatalf("unexpected walk error: %v", r.Error)
		}
		seen[filepath.Base(r.Path)] = r.IsSourceModule
	}

	if !seen["Module.bsl"] {
		t.Error("expected Module.bsl to be flagged as a source module")
	}
	if seen["notes.md"] {
		t.Error("expected notes.md to not be flagged as a source module")
	}
}

func TestFileWalkerRespectsExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"CommonModules/Utils/Ext/Module.bsl":  "",
		"CommonModules/Vendor/Ext/Module.bsl": "",
	})

	files, err := NewFileWalker().FastScan(context.Background(), FileScope{
		Path:    root,
		Exclude: []string{"**/Vendor/**"},
	})
	if err != nil {
		t.Fatalf("FastScan: %v", err)
	}

	for _, f := range files {
		if filepath.Base(filepath.Dir(filepath.Dir(f))) == "Vendor" {
			t.Errorf("excluded file discovered: %s", f)
		}
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file after exclude, got %d: %v", len(files), files)
	}
}

func TestFileWalkerValidateScopeRejectsMissingPath(t *testing.T) {
	_, err := NewFileWalker().Walk(context.Background(), FileScope{})
	if err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestFileWalkerValidateScopeRejectsNonDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "module.bsl")
	if err := os.WriteFile(file, []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := NewFileWalker().Walk(context.Background(), FileScope{Path: file})
	if err == nil {
		t.Fatal("expected error when path is a file, not a directory")
	}
}

func TestFileWalkerRespectsMaxDepth(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.bsl":           "",
		"sub/b.bsl":       "",
		"sub/deep/c.bsl":  "",
	})

	files, err := NewFileWalker().FastScan(context.Background(), FileScope{Path: root, MaxDepth: 1})
	if err != nil {
		t.Fatalf("FastScan: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files within depth 1, got %d: %v", len(files), files)
	}
}
