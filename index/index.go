// Package index implements the unified index (spec §4.K): the merge
// point where the HBK ingester, metadata-report parser, and form XML
// parser converters all feed type entities, queried by the semantic pass
// and method verifier.
package index

import (
	"sort"
	"strings"

	"github.com/oxhq/bslanalyzer/catalog"
)

// Context is one availability context a type/method can be restricted to
// (spec §4.K).
type Context string

const (
	ContextClient              Context = "Client"
	ContextServer              Context = "Server"
	ContextExternalConnection  Context = "ExternalConnection"
	ContextMobileAppClient     Context = "MobileAppClient"
	ContextMobileAppServer     Context = "MobileAppServer"
	ContextThickClient         Context = "ThickClient"
	ContextThinClient          Context = "ThinClient"
	ContextWebClient           Context = "WebClient"
)

var contextAliases = map[string]Context{
	"client":              ContextClient,
	"server":              ContextServer,
	"externalconnection":  ContextExternalConnection,
	"mobileappclient":     ContextMobileAppClient,
	"mobileappserver":     ContextMobileAppServer,
	"thickclient":         ContextThickClient,
	"thinclient":          ContextThinClient,
	"webclient":           ContextWebClient,
}

// ParseAvailability splits a comma-separated availability string into the
// closed context enum, dropping unrecognized values (spec §4.K).
func ParseAvailability(raw string) []Context {
	var out []Context
	for _, part := range strings.Split(raw, ",") {
		key := strings.ToLower(strings.TrimSpace(part))
		key = strings.ReplaceAll(key, " ", "")
		if ctx, ok := contextAliases[key]; ok {
			out = append(out, ctx)
		}
	}
	return out
}

// builtinKinds hard-codes the entity kind for commonly named collection
// and primitive types; every other type defaults to KindSystem (spec §4.K).
var builtinKinds = map[string]catalog.Kind{
	"Массив":          catalog.KindCollection,
	"Array":           catalog.KindCollection,
	"Структура":       catalog.KindCollection,
	"Structure":       catalog.KindCollection,
	"Соответствие":    catalog.KindCollection,
	"Map":             catalog.KindCollection,
	"ТаблицаЗначений": catalog.KindCollection,
	"ValueTable":      catalog.KindCollection,
	"ДеревоЗначений":  catalog.KindCollection,
	"ValueTree":       catalog.KindCollection,
	"СписокЗначений":  catalog.KindCollection,
	"ValueList":       catalog.KindCollection,
	"Строка":          catalog.KindPrimitive,
	"String":          catalog.KindPrimitive,
	"Число":           catalog.KindPrimitive,
	"Number":          catalog.KindPrimitive,
	"Дата":            catalog.KindPrimitive,
	"Date":            catalog.KindPrimitive,
	"Булево":          catalog.KindPrimitive,
	"Boolean":         catalog.KindPrimitive,
	"Неопределено":    catalog.KindPrimitive,
	"Undefined":       catalog.KindPrimitive,
}

// KindFor returns the hard-coded entity kind for name, or KindSystem if
// name is not one of the commonly named built-ins.
func KindFor(name string) catalog.Kind {
	if kind, ok := builtinKinds[name]; ok {
		return kind
	}
	return catalog.KindSystem
}

const globalEntityID = "Global"

// GlobalEntityID returns the ID of the synthetic entity that collects
// global functions and global properties.
func GlobalEntityID() string { return globalEntityID }

// Index is the unified, mutable-during-build, then-immutable-after-build
// entity graph. Building tracks which IDs have already been added so that
// repeated conversion passes (HBK, then a report, then form XML) never
// double-add the same logical entity (spec §4.K / §9).
type Index struct {
	cat       *catalog.Catalog
	added     map[string]bool
	completions []completionItem
}

type completionItem struct {
	text   string
	kind   string // method, function, property, keyword
	typeID string
	insert string
}

// New creates an empty, mutable index.
func New() *Index {
	return &Index{
		cat:   catalog.New(),
		added: make(map[string]bool),
	}
}

// EnsureType returns the existing entity for id, creating an empty one
// on demand if absent — the "entities not present for a referenced
// object are created on demand" rule in §4.K.
func (idx *Index) EnsureType(id, displayName string) *catalog.Type {
	if t, ok := idx.cat.Type(id); ok {
		return t
	}
	t := &catalog.Type{ID: id, DisplayName: displayName, Kind: KindFor(id)}
	idx.AddType(t)
	return t
}

// AddType adds t exactly once: a repeat AddType for an ID already marked
// added is a no-op rather than an overwrite, avoiding the double-add bug
// called out in spec §9 when the same documentation source is converted
// more than once.
func (idx *Index) AddType(t *catalog.Type) {
	if idx.added[t.ID] {
		return
	}
	idx.added[t.ID] = true
	idx.cat.AddType(t)
	idx.indexTypeCompletions(t)
}

// AddGlobalFunction attaches fn as a method of the synthetic Global
// entity (created on demand) and registers it with the catalog's direct
// global-function lookup.
func (idx *Index) AddGlobalFunction(fn catalog.Method) {
	global := idx.EnsureType(globalEntityID, globalEntityID)
	if global.Methods == nil {
		global.Methods = make(map[string]catalog.Method)
	}
	global.Methods[fn.Name] = fn
	idx.cat.AddGlobalFunction(fn)
	idx.completions = append(idx.completions, completionItem{
		text: fn.Name, kind: "function", insert: insertionText(fn),
	})
}

func (idx *Index) indexTypeCompletions(t *catalog.Type) {
	for name, m := range t.Methods {
		idx.completions = append(idx.completions, completionItem{
			text: name, kind: "method", typeID: t.ID, insert: insertionText(m),
		})
	}
	for name, p := range t.Properties {
		idx.completions = append(idx.completions, completionItem{
			text: name, kind: "property", typeID: t.ID, insert: insertionText(p),
		})
	}
}

// insertionText renders a method/property as completion insert text with
// positional placeholders `${i:paramName}` for each parameter (spec §4.K).
func insertionText(m catalog.Method) string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("${")
		b.WriteString(itoa(i + 1))
		b.WriteByte(':')
		b.WriteString(p.Name)
		b.WriteByte('}')
	}
	b.WriteByte(')')
	return b.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// Catalog returns the backing catalog for query use by the semantic pass
// and method verifier.
func (idx *Index) Catalog() *catalog.Catalog {
	return idx.cat
}

// Completion is one completion-by-prefix candidate (spec §4.K).
type Completion struct {
	Text   string
	Kind   string
	TypeID string
	Insert string
}

// CompletionByPrefix returns every method/function/property/keyword whose
// text begins with prefix (case-sensitive, matching the bilingual
// identifier convention), sorted for deterministic output.
func (idx *Index) CompletionByPrefix(prefix string) []Completion {
	var out []Completion
	for _, c := range idx.completions {
		if strings.HasPrefix(c.text, prefix) {
			out = append(out, Completion{Text: c.text, Kind: c.kind, TypeID: c.typeID, Insert: c.insert})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Text != out[j].Text {
			return out[i].Text < out[j].Text
		}
		return out[i].TypeID < out[j].TypeID
	})
	return out
}

// EntityCount returns the number of distinct type entities in the index.
func (idx *Index) EntityCount() int {
	return len(idx.added)
}
