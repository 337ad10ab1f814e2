package catalog

import (
	"regexp"
	"strings"
)

// FormatSignature and ParseSignature are a matched emitter/parser pair:
// changing one without the other breaks the stored-signature round-trip
// used by the method verifier (§4.G) to recover a parameter-type vector
// from a catalog entry's persisted signature string.

var paramPattern = regexp.MustCompile(`^\[?([^:\]]+):([^\]]+)\]?$`)

// FormatSignature renders m using Method.Signature.
func FormatSignature(m Method) string {
	return m.Signature()
}

// ParseSignature parses a signature string of the form
// `Name(param:Type[, opt:Type]) -> Return` back into a Method. Optional
// parameters are those wrapped in brackets.
func ParseSignature(sig string) (Method, bool) {
	openParen := strings.IndexByte(sig, '(')
	closeParen := strings.LastIndexByte(sig, ')')
	if openParen < 0 || closeParen < openParen {
		return Method{}, false
	}
	name := strings.TrimSpace(sig[:openParen])
	if name == "" {
		return Method{}, false
	}
	paramsPart := sig[openParen+1 : closeParen]
	rest := sig[closeParen+1:]

	m := Method{Name: name}
	if idx := strings.Index(rest, "->"); idx >= 0 {
		m.ReturnType = strings.TrimSpace(rest[idx+2:])
		m.IsFunction = true
	}

	paramsPart = strings.TrimSpace(paramsPart)
	if paramsPart != "" {
		for _, raw := range strings.Split(paramsPart, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			optional := strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]")
			match := paramPattern.FindStringSubmatch(raw)
			if match == nil {
				continue
			}
			m.Parameters = append(m.Parameters, Parameter{
				Name:     strings.TrimSpace(match[1]),
				Type:     strings.TrimSpace(match[2]),
				Optional: optional,
			})
		}
	}
	return m, true
}

// ParameterTypes returns the ordered list of parameter type names from m,
// the "parameter-type vector" referenced by §4.G argument validation.
func (m Method) ParameterTypes() []string {
	types := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		types[i] = p.Type
	}
	return types
}
