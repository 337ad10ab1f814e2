package report

import (
	"regexp"
	"strings"
)

// section names the structural bucket an attribute line belongs to.
type section string

const (
	sectionNone          section = ""
	sectionAttribute     section = "attribute"
	sectionDimension     section = "dimension"
	sectionResource      section = "resource"
	sectionTabularHeader section = "tabular-header"
	sectionTabularRow    section = "tabular-row"
)

// realParser holds the mutable state of the real-dialect state machine
// while walking a report line by line (spec §4.I).
type realParser struct {
	contracts map[string]*Contract
	order     []string

	current    *Contract
	curSection section
	curTSName  string
	curAttr    int // index of the attribute currently being described

	composing bool
	typeParts []string
}

var keyValueLinePattern = regexp.MustCompile(`^([А-Яа-яA-Za-zёЁ]+):\s*(.*)$`)

func parseReal(content, sourceFile string, enc Encoding) []Contract {
	p := &realParser{contracts: make(map[string]*Contract)}
	lines := strings.Split(content, "\n")

	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "-") {
			p.endComposing()
			p.handleHeaderLine(strings.TrimSpace(strings.TrimPrefix(trimmed, "-")))
			continue
		}

		if p.composing {
			if m := keyValueLinePattern.FindStringSubmatch(trimmed); m != nil {
				p.endComposing()
			} else {
				p.typeParts = append(p.typeParts, strings.TrimSuffix(trimmed, ","))
				continue
			}
		}

		p.handlePropertyLine(trimmed)
	}
	p.endComposing()

	out := make([]Contract, 0, len(p.order))
	for _, key := range p.order {
		c := p.contracts[key]
		c.SourceFile = sourceFile
		c.EncodingUsed = enc
		c.SearchKeywords = searchKeywords(c.Name)
		out = append(out, *c)
	}
	return out
}

// handleHeaderLine dispatches a `- ...` line: either a new object header
// (`Type.Name`) or an attribute/dimension/resource/tabular-section path
// rooted at an already-seen object (spec §4.I).
func (p *realParser) handleHeaderLine(path string) {
	parts := strings.Split(path, ".")
	if len(parts) < 2 {
		return
	}

	kind, ok := allowedRootTypes[cleanTypeString(parts[0])]
	if !ok {
		return
	}
	key := parts[0] + "." + parts[1]

	contract, exists := p.contracts[key]
	if !exists {
		contract = &Contract{Type: kind, Name: parts[1]}
		p.contracts[key] = contract
		p.order = append(p.order, key)
	}
	p.current = contract

	switch {
	case len(parts) == 2:
		p.curSection = sectionNone

	case len(parts) == 4 && parts[2] == "Реквизиты":
		p.curSection = sectionAttribute
		p.curAttr = p.appendAttribute(&p.current.Structure.Attributes, parts[3])

	case len(parts) == 4 && parts[2] == "Измерения":
		p.curSection = sectionDimension
		p.curAttr = p.appendAttribute(&p.current.Structure.Dimensions, parts[3])

	case len(parts) == 4 && parts[2] == "Ресурсы":
		p.curSection = sectionResource
		p.curAttr = p.appendAttribute(&p.current.Structure.Resources, parts[3])

	case len(parts) == 4 && parts[2] == "ТабличныеЧасти":
		p.curTSName = parts[3]
		p.ensureTabularSection(parts[3])
		p.curSection = sectionTabularHeader

	case len(parts) == 6 && parts[2] == "ТабличныеЧасти" && parts[4] == "Реквизиты":
		p.curTSName = parts[3]
		ts := p.ensureTabularSection(parts[3])
		p.curSection = sectionTabularRow
		p.curAttr = p.appendAttribute(&ts.Attributes, parts[5])
	}
}

func (p *realParser) ensureTabularSection(name string) *TabularSection {
	for i := range p.current.Structure.TabularSections {
		if p.current.Structure.TabularSections[i].Name == name {
			return &p.current.Structure.TabularSections[i]
		}
	}
	p.current.Structure.TabularSections = append(p.current.Structure.TabularSections, TabularSection{Name: name})
	return &p.current.Structure.TabularSections[len(p.current.Structure.TabularSections)-1]
}

func (p *realParser) appendAttribute(target *[]Attribute, name string) int {
	*target = append(*target, Attribute{Name: name})
	return len(*target) - 1
}

// activeAttribute returns the []Attribute slice the current property line
// should mutate, or nil when the current header was an object root (in
// which case property lines describe the object itself, not an attribute).
func (p *realParser) activeAttribute() *Attribute {
	if p.current == nil {
		return nil
	}
	switch p.curSection {
	case sectionAttribute:
		return &p.current.Structure.Attributes[p.curAttr]
	case sectionDimension:
		return &p.current.Structure.Dimensions[p.curAttr]
	case sectionResource:
		return &p.current.Structure.Resources[p.curAttr]
	case sectionTabularRow:
		ts := p.ensureTabularSection(p.curTSName)
		return &ts.Attributes[p.curAttr]
	default:
		return nil
	}
}

func (p *realParser) handlePropertyLine(line string) {
	m := keyValueLinePattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	key, value := m[1], strings.Trim(strings.TrimSpace(m[2]), `"`)

	switch p.curSection {
	case sectionNone:
		switch key {
		case "Имя":
			if p.current != nil && value != "" {
				p.current.Name = value
			}
		case "Комментарий":
			if p.current != nil {
				p.current.Structure.Comments = value
			}
		}
		return
	case sectionTabularHeader:
		// the tabular section's name already came from the header path;
		// its own Имя/Комментарий property lines carry no new information.
		return
	}

	attr := p.activeAttribute()
	if attr == nil {
		return
	}
	switch key {
	case "Имя":
		if value != "" {
			attr.Name = value
		}
	case "Тип":
		if value == "" {
			p.composing = true
			p.typeParts = nil
			return
		}
		p.setAttributeType(attr, value)
	case "Индексирование":
		attr.Indexing = parseIndexing(value)
	case "ПроверкаЗаполнения":
		attr.FillChecking = parseFillChecking(value)
	}
}

func (p *realParser) setAttributeType(attr *Attribute, raw string) {
	attr.DataType = raw
	attr.Length, attr.Precision = extractTypeConstraints(raw)
}

func (p *realParser) endComposing() {
	if !p.composing {
		return
	}
	p.composing = false
	if attr := p.activeAttribute(); attr != nil && len(p.typeParts) > 0 {
		p.setAttributeType(attr, strings.Join(p.typeParts, ", "))
	}
	p.typeParts = nil
}

// parseSimplified is the fallback indentation-based recognizer used when
// the report is neither the real nor the python-style dialect: it reads
// `- Type.Name` headers exactly like the real dialect but does not track
// attributes, tabular sections, or composite types (spec §4.I).
func parseSimplified(content, sourceFile string, enc Encoding) []Contract {
	var out []Contract
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "-") {
			continue
		}
		parts := strings.Split(strings.TrimSpace(strings.TrimPrefix(trimmed, "-")), ".")
		if len(parts) != 2 {
			continue
		}
		kind, ok := allowedRootTypes[cleanTypeString(parts[0])]
		if !ok {
			continue
		}
		out = append(out, Contract{
			Type:           kind,
			Name:           parts[1],
			SearchKeywords: searchKeywords(parts[1]),
			SourceFile:     sourceFile,
			EncodingUsed:   enc,
		})
	}
	return out
}
