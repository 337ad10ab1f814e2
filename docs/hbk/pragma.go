package hbk

import (
	"archive/zip"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// primitiveTypeFiles names the language archive's primitive-type entity
// files (spec §4.H).
var primitiveTypeFiles = []string{"def_String", "def_Number", "def_Date", "def_Boolean", "def_Undefined"}

// parseLanguageArchive extracts (a) primitive-type entities present among
// def_String/def_Number/def_Date/def_Boolean/def_Undefined and (b)
// compilation directives harvested from the Pragma page (spec §4.H). Files
// in the language archive have no extension.
func parseLanguageArchive(r *zip.ReadCloser) (primitiveTypes, directives []string) {
	byName := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		byName[baseNoExt(f.Name)] = f
	}

	for _, name := range primitiveTypeFiles {
		if _, ok := byName[name]; ok {
			primitiveTypes = append(primitiveTypes, strings.TrimPrefix(name, "def_"))
		}
	}

	if f, ok := byName["Pragma"]; ok {
		if content, err := readZipEntry(f); err == nil {
			directives = extractPragmaDirectives(decodeContent(content))
		}
	}
	return primitiveTypes, directives
}

func baseNoExt(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[:i]
	}
	return name
}

// extractPragmaDirectives harvests `<strong>` nodes whose text begins
// with `&`; a Russian/English pair in parentheses, e.g.
// "&НаКлиенте (&AtClient)", is emitted as two separate directive names
// (spec §4.H).
func extractPragmaDirectives(content string) []string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	for _, n := range findAll(doc, isElement("strong")) {
		text := textContent(n)
		if !strings.HasPrefix(text, "&") || len(text) <= 1 {
			continue
		}
		if strings.Contains(text, "(") && strings.Contains(text, ")") {
			parts := strings.SplitN(text, "(", 2)
			add(parts[0])
			add(strings.ReplaceAll(parts[1], ")", ""))
		} else {
			add(text)
		}
	}

	sort.Strings(out)
	return out
}
