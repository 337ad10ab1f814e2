// Package catalog implements the immutable type catalog (spec §4.E): the
// set of known built-in primitives, object types, method signatures, and
// global functions that the semantic pass and method verifier validate
// identifiers and calls against.
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Parameter is one formal parameter of a method or global function.
type Parameter struct {
	Name     string
	Type     string
	Optional bool
	Default  string
}

// Method describes a callable member of a type, or a global function when
// stored in the Global entity.
type Method struct {
	Name         string
	EnglishName  string
	Parameters   []Parameter
	ReturnType   string
	IsFunction   bool
	Availability []string
	Deprecated   bool
}

// RequiredCount returns how many leading parameters are not optional.
func (m Method) RequiredCount() int {
	n := 0
	for _, p := range m.Parameters {
		if !p.Optional {
			n++
		}
	}
	return n
}

// Signature renders the method as `Name(param:Type[, opt:Type]) -> Return`,
// bracketing optional parameters and omitting the arrow when ReturnType is
// empty.
func (m Method) Signature() string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Optional {
			b.WriteByte('[')
			fmt.Fprintf(&b, "%s:%s", p.Name, p.Type)
			b.WriteByte(']')
		} else {
			fmt.Fprintf(&b, "%s:%s", p.Name, p.Type)
		}
	}
	b.WriteByte(')')
	if m.ReturnType != "" {
		fmt.Fprintf(&b, " -> %s", m.ReturnType)
	}
	return b.String()
}

// TypeInfo is a lightweight introspection summary of a type.
type TypeInfo struct {
	ID          string
	Description string
	Methods     map[string]Method
}

// Constructor describes one `Новый T(...)` overload accepted by a type.
type Constructor struct {
	Parameters []Parameter
}

// Kind classifies a type entity (spec §3's type-entity definition).
type Kind string

const (
	KindPrimitive     Kind = "primitive"
	KindCollection    Kind = "collection"
	KindSystem        Kind = "system"
	KindForm          Kind = "form"
	KindDatabase      Kind = "database"
	KindIO            Kind = "io"
	KindWeb           Kind = "web"
	KindConfiguration Kind = "configuration"
	KindReference     Kind = "reference"
	KindObject        Kind = "object"
	KindGlobal        Kind = "global"
	KindManager       Kind = "manager"
	KindGlobalProp    Kind = "global-property"
	KindGlobalContext Kind = "global-context"
	KindPrimitiveType Kind = "primitive-type"
)

// Type is one entity stored in the catalog: a primitive, object, system
// type, or the synthetic Global entity collecting globals.
type Type struct {
	ID           string
	DisplayName  string
	EnglishName  string
	Kind         Kind
	Description  string
	Methods      map[string]Method
	Properties   map[string]Method
	Constructors []Constructor
	Parents      []string
	Interfaces   []string
	Availability []string
	Source       string
}

// Catalog is the immutable, process-lifetime store of known types and
// global functions (spec §4.E).
type Catalog struct {
	types      map[string]*Type
	globalFunc map[string]Method
}

// New creates an empty catalog; callers normally build one via
// index.Convert (§4.K) rather than directly, but an empty catalog is valid
// for tests.
func New() *Catalog {
	return &Catalog{
		types:      make(map[string]*Type),
		globalFunc: make(map[string]Method),
	}
}

// AddType registers t in the catalog, keyed by its ID. Re-adding the same
// ID overwrites the previous entry — callers are responsible for ensuring
// each logical type is added exactly once (spec §9).
func (c *Catalog) AddType(t *Type) {
	if t.Methods == nil {
		t.Methods = make(map[string]Method)
	}
	if t.Properties == nil {
		t.Properties = make(map[string]Method)
	}
	c.types[t.ID] = t
}

// AddGlobalFunction registers a global function by name.
func (c *Catalog) AddGlobalFunction(m Method) {
	c.globalFunc[m.Name] = m
	if m.EnglishName != "" {
		c.globalFunc[m.EnglishName] = m
	}
}

// Exists reports whether typeID names a known type.
func (c *Catalog) Exists(typeID string) bool {
	_, ok := c.types[typeID]
	return ok
}

// Type returns the type entity for id, if known.
func (c *Catalog) Type(id string) (*Type, bool) {
	t, ok := c.types[id]
	return t, ok
}

// MethodInfo looks up a method by (type, name).
func (c *Catalog) MethodInfo(typeID, method string) (Method, bool) {
	t, ok := c.types[typeID]
	if !ok {
		return Method{}, false
	}
	m, ok := t.Methods[method]
	return m, ok
}

// MethodList returns the names of every method on typeID, sorted for
// deterministic output.
func (c *Catalog) MethodList(typeID string) []string {
	t, ok := c.types[typeID]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(t.Methods))
	for name := range t.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Methods returns the full method array of typeID, for introspection.
func (c *Catalog) Methods(typeID string) []Method {
	t, ok := c.types[typeID]
	if !ok {
		return nil
	}
	methods := make([]Method, 0, len(t.Methods))
	for _, m := range t.Methods {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })
	return methods
}

// Info returns a lightweight summary of typeID.
func (c *Catalog) Info(typeID string) (TypeInfo, bool) {
	t, ok := c.types[typeID]
	if !ok {
		return TypeInfo{}, false
	}
	return TypeInfo{ID: t.ID, Description: t.Description, Methods: t.Methods}, true
}

// IsGlobalFunction reports whether name is a known global function.
func (c *Catalog) IsGlobalFunction(name string) bool {
	_, ok := c.globalFunc[name]
	return ok
}

// GlobalFunction returns the global function named name.
func (c *Catalog) GlobalFunction(name string) (Method, bool) {
	m, ok := c.globalFunc[name]
	return m, ok
}

// TypeIDs returns every known type ID, sorted.
func (c *Catalog) TypeIDs() []string {
	ids := make([]string, 0, len(c.types))
	for id := range c.types {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GlobalFunctionNames returns every distinct registered global function,
// sorted and deduplicated (AddGlobalFunction registers both the Russian
// and English spelling for the same Method, so both names resolve to one
// entry here, keyed by the Method's own Name).
func (c *Catalog) GlobalFunctionNames() []string {
	seen := make(map[string]bool)
	var names []string
	for name, m := range c.globalFunc {
		key := m.Name
		if key == "" {
			key = name
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// Compat implements the permissive type-compatibility relation compat(src,
// tgt) from spec §4.E: reflexive; Any/Undefined on either side always
// compatible; numeric<->string admitted as an explicit conversion escape
// hatch; every other cross-kind pair is false.
func Compat(src, tgt string) bool {
	if src == tgt {
		return true
	}
	if isAnyOrUndefined(src) || isAnyOrUndefined(tgt) {
		return true
	}
	if isNumericOrString(src) && isNumericOrString(tgt) {
		return true
	}
	return false
}

func isAnyOrUndefined(t string) bool {
	switch t {
	case "Произвольный", "Any", "Неопределено", "Undefined", "":
		return true
	default:
		return false
	}
}

func isNumericOrString(t string) bool {
	switch t {
	case "Число", "Number", "Строка", "String":
		return true
	default:
		return false
	}
}

// ValidateCall checks (arg-count) against method's required/total
// parameter counts, per spec §4.E.
func ValidateCall(m Method, argCount int) error {
	required := m.RequiredCount()
	total := len(m.Parameters)
	if argCount < required {
		return fmt.Errorf("too few parameters: %s expects %d to %d, got %d", m.Name, required, total, argCount)
	}
	if argCount > total {
		return fmt.Errorf("too many parameters: %s expects %d to %d, got %d", m.Name, required, total, argCount)
	}
	return nil
}
