// Package verifier implements the method/call verifier (spec §4.G):
// receiver-type x method-name x argument validation against the type
// catalog.
package verifier

import (
	"fmt"
	"strings"

	"github.com/oxhq/bslanalyzer/catalog"
)

// existenceResult is the cacheable part of a verification: whether
// (receiver-type, method-name) exists at all. Argument-shape checks are
// never cached since they depend on the call site.
type existenceResult struct {
	typeFound   bool
	methodFound bool
	method      catalog.Method
}

// Verifier validates calls against a catalog, caching the basic
// existence check keyed on "receiver-type::method-name".
type Verifier struct {
	cat   *catalog.Catalog
	cache map[string]existenceResult
}

// New creates a verifier backed by cat.
func New(cat *catalog.Catalog) *Verifier {
	return &Verifier{cat: cat, cache: make(map[string]existenceResult)}
}

// Result is the outcome of verifying one call.
type Result struct {
	OK          bool
	Message     string
	Suggestions []string
}

// Verify checks (receiverType, methodName, args) against the catalog per
// spec §4.G's four steps.
func (v *Verifier) Verify(receiverType, methodName string, argTypes []string, line int) Result {
	existence := v.lookupExistence(receiverType, methodName)

	if !existence.typeFound {
		suggestions := catalog.SuggestSimilar(receiverType, v.cat.TypeIDs())
		return Result{
			Message:     fmt.Sprintf("type not found: %s", receiverType),
			Suggestions: suggestions,
		}
	}

	if !existence.methodFound {
		names := v.cat.MethodList(receiverType)
		suggestions := catalog.FormatSuggestionList(catalog.SuggestSimilar(methodName, names))
		return Result{
			Message:     fmt.Sprintf("method not found: %s.%s", receiverType, methodName),
			Suggestions: suggestions,
		}
	}

	m := existence.method
	if err := catalog.ValidateCall(m, len(argTypes)); err != nil {
		return Result{
			Message:     err.Error(),
			Suggestions: []string{m.Signature()},
		}
	}

	expected := m.ParameterTypes()
	for i, argType := range argTypes {
		if i >= len(expected) {
			break
		}
		if !catalog.Compat(argType, expected[i]) {
			return Result{
				Message:     fmt.Sprintf("argument %d of %s.%s: %s is not compatible with %s", i+1, receiverType, methodName, argType, expected[i]),
				Suggestions: []string{m.Signature()},
			}
		}
	}

	return Result{OK: true}
}

func (v *Verifier) lookupExistence(receiverType, methodName string) existenceResult {
	key := receiverType + "::" + methodName
	if cached, ok := v.cache[key]; ok {
		return cached
	}

	result := existenceResult{typeFound: v.cat.Exists(receiverType)}
	if result.typeFound {
		if m, ok := v.cat.MethodInfo(receiverType, methodName); ok {
			result.methodFound = true
			result.method = m
		}
	}
	v.cache[key] = result
	return result
}

// FormatFailure renders a failing Result as the diagnostic text specified
// in §4.G: "{message}\n\nПредложения:\n• s1\n• s2\n".
func FormatFailure(r Result) string {
	if r.OK || len(r.Suggestions) == 0 {
		return r.Message
	}
	var b strings.Builder
	b.WriteString(r.Message)
	b.WriteString("\n\nПредложения:\n")
	for _, s := range r.Suggestions {
		b.WriteString("• ")
		b.WriteString(s)
		b.WriteByte('\n')
	}
	return b.String()
}

// InferLiteralType infers the type of a literal expression's source text
// per spec §4.G: quoted strings -> Строка, numeric text -> Число,
// Истина/Ложь -> Булево, Неопределено -> Неопределено, `Новый T(...)` -> T
// if known else Неопределено.
func InferLiteralType(cat *catalog.Catalog, text string) string {
	trimmed := strings.TrimSpace(text)
	switch trimmed {
	case "Истина", "Ложь", "True", "False":
		return "Булево"
	case "Неопределено", "Undefined":
		return "Неопределено"
	}
	if len(trimmed) >= 2 && (trimmed[0] == '"' || trimmed[0] == '\'') {
		return "Строка"
	}
	if isNumericText(trimmed) {
		return "Число"
	}
	if strings.HasPrefix(trimmed, "Новый ") || strings.HasPrefix(trimmed, "New ") {
		rest := strings.TrimPrefix(trimmed, "Новый ")
		rest = strings.TrimPrefix(rest, "New ")
		if idx := strings.IndexByte(rest, '('); idx >= 0 {
			typeName := strings.TrimSpace(rest[:idx])
			if cat != nil && cat.Exists(typeName) {
				return typeName
			}
		}
		return "Неопределено"
	}
	return "Неопределено"
}

func isNumericText(s string) bool {
	if s == "" {
		return false
	}
	seenDigit := false
	seenDot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case r == '.' && !seenDot:
			seenDot = true
		case r == '-' && i == 0:
			// leading sign only
		default:
			return false
		}
	}
	return seenDigit
}
