// Package hbk implements the HBK ingester (spec §4.H): it opens a ZIP
// container of per-topic HTML help pages (the vendor's compressed help
// bundle) and turns each topic into a structured syntax-DB entry ready
// for conversion into the unified index.
package hbk

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Kind classifies one syntax-DB item (spec §4.H "Per-item classification").
type Kind string

const (
	KindFunction       Kind = "function"
	KindMethod         Kind = "method"
	KindProperty       Kind = "property"
	KindGlobalFunction Kind = "global-function"
	KindGlobalProperty Kind = "global-property"
	KindOperator       Kind = "operator"
	KindObject         Kind = "object"
	KindUnknown        Kind = "unknown"
)

// Parameter is one documented parameter of a method, function, or
// operator (spec §4.H).
type Parameter struct {
	Name        string
	Type        string
	Optional    bool
	Description string
}

// Topic is the raw extraction result for a single HTML page (spec §4.H).
type Topic struct {
	Path           string
	Title          string
	ObjectContext  string
	Category       string
	SyntaxVariants []string
	Description    string
	Parameters     []Parameter
	ReturnType     string
	Availability   []string
	Version        string
	Example        string
	MethodRefs     []string
	PropertyRefs   []string
	Kind           Kind
}

// SyntaxDB is the set of topics extracted from one HBK archive, plus the
// primitive-type entities and compilation directives harvested from its
// companion language archive, if one was found (spec §4.H).
type SyntaxDB struct {
	ArchivePath    string
	Version        string
	Topics         []Topic
	PrimitiveTypes []string
	Directives     []string
}

// Ingest opens archivePath as a ZIP container, extracts every HTML topic,
// and attempts to locate and parse a companion language archive by
// substituting `shcntx` for `shlang` in the filename (spec §4.H).
func Ingest(archivePath string) (*SyntaxDB, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open HBK archive %s: %w", archivePath, err)
	}
	defer r.Close()

	db := &SyntaxDB{ArchivePath: archivePath, Version: versionFromFilename(archivePath)}

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		lower := strings.ToLower(f.Name)
		if !strings.HasSuffix(lower, ".html") && !strings.HasSuffix(lower, ".htm") {
			continue
		}
		content, err := readZipEntry(f)
		if err != nil {
			continue
		}
		topic := parseTopic(f.Name, decodeContent(content))
		topic.Kind = classify(topic)
		db.Topics = append(db.Topics, topic)
	}
	sort.Slice(db.Topics, func(i, j int) bool { return db.Topics[i].Path < db.Topics[j].Path })

	languagePath := languageArchivePath(archivePath)
	if languagePath != "" {
		if lr, err := zip.OpenReader(languagePath); err == nil {
			defer lr.Close()
			db.PrimitiveTypes, db.Directives = parseLanguageArchive(lr)
		}
	}

	return db, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// decodeContent decodes raw HTML bytes as UTF-8; if the bytes are not
// valid UTF-8 it falls back to Windows-1251, the vendor's legacy encoding
// (spec §4.H / §6 input 2).
func decodeContent(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.Windows1251.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// languageArchivePath substitutes `shcntx` for `shlang` in archivePath's
// filename, returning "" if the substitution does not change anything
// (i.e. this archive is not a context archive at all). Absence of the
// resulting file is handled by the caller trying to open it and ignoring
// failure, matching the spec's "absence is non-fatal" rule.
func languageArchivePath(archivePath string) string {
	dir, file := path.Split(archivePath)
	if !strings.Contains(file, "shcntx") {
		return ""
	}
	return dir + strings.Replace(file, "shcntx", "shlang", 1)
}

func versionFromFilename(archivePath string) string {
	base := path.Base(archivePath)
	base = strings.TrimSuffix(base, path.Ext(base))
	return base
}

// categoryFromPath infers a topic's archive category from its internal
// path (spec §4.H).
func categoryFromPath(p string) string {
	lower := strings.ToLower(p)
	switch {
	case strings.Contains(lower, "/methods/"):
		return "methods"
	case strings.Contains(lower, "/properties/"):
		return "properties"
	case strings.Contains(lower, "tables/"):
		return "tables"
	case strings.Contains(lower, "objects/"):
		return "objects"
	default:
		return ""
	}
}
