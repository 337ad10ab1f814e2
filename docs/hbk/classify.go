package hbk

import (
	"sort"
	"strings"

	"github.com/oxhq/bslanalyzer/catalog"
	"github.com/oxhq/bslanalyzer/index"
	"github.com/oxhq/bslanalyzer/token"
)

const (
	globalPropertiesPrefix = "Global context/properties/"
	globalMethodsPrefix    = "Global context/methods/"
)

// classify implements the per-item classification rules of spec §4.H.
func classify(t Topic) Kind {
	title := t.Title
	path := t.Path

	switch {
	case containsAny(title, "Функция", "function", "Function"):
		return KindFunction
	case strings.Contains(path, globalMethodsPrefix):
		return KindGlobalFunction
	case containsAny(title, "Метод", "method", "Method") || strings.Contains(path, "/methods/"):
		return KindMethod
	case strings.Contains(path, globalPropertiesPrefix):
		return KindGlobalProperty
	case containsAny(title, "Свойство", "property", "Property") || strings.Contains(path, "/properties/"):
		return KindProperty
	case containsAny(title, "Оператор", "operator", "Operator"):
		return KindOperator
	case strings.Contains(path, "objects/") && !strings.Contains(path, "/methods/") && !strings.Contains(path, "/properties/"):
		return KindObject
	default:
		return KindUnknown
	}
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// methodPrefixFromDottedName extracts the prefix before the last dot of a
// dotted method name (spec §4.H "else a prefix extracted from a dotted
// method name").
func methodPrefixFromDottedName(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return name[:i]
}

// Convert merges db's topics into idx (spec §4.K): methods, properties,
// and objects become catalog entities with source=HBK(version);
// function- and operator-kind topics are skipped; entities referenced but
// not otherwise present are created on demand; the synthetic Global entity
// collects global functions; global-context properties additionally synthesize a manager
// type, a base entity, and a global-property entity inheriting the
// manager's method names (spec §4.H / §9 "ownership of the type catalog").
func Convert(db *SyntaxDB, idx *index.Index) {
	source := "HBK(" + db.Version + ")"

	for _, t := range db.Topics {
		switch t.Kind {
		case KindFunction, KindOperator:
			continue // free-standing language constructs, not catalog entities
		case KindGlobalFunction:
			idx.AddGlobalFunction(toMethod(t))
		case KindMethod:
			owner := t.ObjectContext
			if owner == "" {
				owner = methodPrefixFromDottedName(t.Title)
			}
			if owner == "" {
				continue
			}
			ty := idx.EnsureType(owner, owner)
			ty.Source = source
			if ty.Methods == nil {
				ty.Methods = make(map[string]catalog.Method)
			}
			m := toMethod(t)
			ty.Methods[m.Name] = m
		case KindGlobalProperty:
			convertGlobalProperty(t, idx, source)
		case KindProperty:
			owner := t.ObjectContext
			if owner == "" {
				continue
			}
			ty := idx.EnsureType(owner, owner)
			ty.Source = source
			if ty.Properties == nil {
				ty.Properties = make(map[string]catalog.Method)
			}
			ty.Properties[t.Title] = toMethod(t)
		case KindObject:
			ty := idx.EnsureType(t.Title, t.Title)
			ty.Source = source
			if t.Description != "" {
				ty.Description = t.Description
			}
		}
	}

	for _, kw := range keywordEntries() {
		idx.AddGlobalFunction(catalog.Method{Name: kw})
	}
}

func toMethod(t Topic) catalog.Method {
	m := catalog.Method{
		Name:         t.Title,
		ReturnType:   t.ReturnType,
		IsFunction:   t.Kind == KindFunction || t.Kind == KindGlobalFunction && t.ReturnType != "",
		Availability: t.Availability,
	}
	for _, p := range t.Parameters {
		m.Parameters = append(m.Parameters, catalog.Parameter{
			Name:     p.Name,
			Type:     p.Type,
			Optional: p.Optional,
		})
	}
	return m
}

// typeFromDescriptionPattern extracts the declared type from a global
// property's description, e.g. "Тип: МенеджерПользователейИнформационнойБазы".
func typeFromDescriptionPattern(description string) string {
	const marker = "Тип:"
	i := strings.Index(description, marker)
	if i < 0 {
		return ""
	}
	rest := strings.TrimSpace(description[i+len(marker):])
	if sp := strings.IndexAny(rest, " \n\t."); sp > 0 {
		rest = rest[:sp]
	}
	return rest
}

// convertGlobalProperty implements the Global context/properties/
// synthesis rule: the declared manager type, a base entity named by
// stripping the "Менеджер" suffix, and a global-property entity that
// inherits the manager's method names as a point-in-time snapshot (spec
// §4.H / §9).
func convertGlobalProperty(t Topic, idx *index.Index, source string) {
	managerName := typeFromDescriptionPattern(t.Description)
	if managerName == "" {
		global := idx.EnsureType(index.GlobalEntityID(), index.GlobalEntityID())
		global.Source = source
		if global.Properties == nil {
			global.Properties = make(map[string]catalog.Method)
		}
		global.Properties[t.Title] = toMethod(t)
		return
	}

	manager := idx.EnsureType(managerName, managerName)
	manager.Source = source
	manager.Kind = catalog.KindManager

	baseName := strings.TrimSuffix(managerName, "Менеджер")
	base := idx.EnsureType(baseName, baseName)
	base.Source = source

	propertyEntity := idx.EnsureType(t.Title, t.Title)
	propertyEntity.Source = source
	propertyEntity.Kind = catalog.KindGlobalProp
	propertyEntity.Description = t.Description
	if propertyEntity.Methods == nil {
		propertyEntity.Methods = make(map[string]catalog.Method)
	}
	for name, m := range manager.Methods {
		propertyEntity.Methods[name] = m
	}

	global := idx.EnsureType(index.GlobalEntityID(), index.GlobalEntityID())
	if global.Properties == nil {
		global.Properties = make(map[string]catalog.Method)
	}
	global.Properties[t.Title] = toMethod(t)
}

// keywordEntries returns a deterministic set of every canonical keyword
// known to the lexer, merged into the syntax DB unconditionally (spec
// §4.H).
func keywordEntries() []string {
	seen := make(map[string]bool)
	var out []string
	for _, canon := range token.Keywords {
		if !seen[canon] {
			seen[canon] = true
			out = append(out, canon)
		}
	}
	sort.Strings(out)
	return out
}
