package formxml

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// ParseFile reads and parses the Form.xml at path into a Form (spec
// §4.J). XML is streamed token by token rather than unmarshaled into a
// struct tree, since only a handful of tags carry meaning and the rest
// of the document (layout, styling, xmlns boilerplate) is irrelevant.
func ParseFile(path string) (*Form, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open form xml %s: %w", path, err)
	}
	defer f.Close()

	form := &Form{
		Name:       ExtractFormName(path),
		ObjectName: ExtractObjectName(path),
		SourceFile: path,
	}

	decoder := xml.NewDecoder(f)
	var tagStack []string
	var elementStack []*Element
	inChildItems := 0

	for {
		tok, err := decoder.Token()
		if err != nil {
			break // Eof, or a malformed trailing fragment; partial results stand
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			tagStack = append(tagStack, name)

			switch name {
			case "ChildItems":
				inChildItems++
			case "Event":
				if len(elementStack) > 0 {
					addEvent(elementStack[len(elementStack)-1], t)
				}
			default:
				if kind, ok := recognizedElements[name]; ok && inChildItems > 0 {
					elementStack = append(elementStack, &Element{Kind: kind})
				}
			}

		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" || len(elementStack) == 0 || len(tagStack) == 0 {
				continue
			}
			current := elementStack[len(elementStack)-1]
			switch tagStack[len(tagStack)-1] {
			case "DataPath":
				current.DataPath = text
			case "Title":
				current.Title = text
			}

		case xml.EndElement:
			name := t.Name.Local
			if len(tagStack) > 0 {
				tagStack = tagStack[:len(tagStack)-1]
			}

			switch name {
			case "ChildItems":
				if inChildItems > 0 {
					inChildItems--
				}
			default:
				if _, ok := recognizedElements[name]; ok && len(elementStack) > 0 {
					closed := elementStack[len(elementStack)-1]
					elementStack = elementStack[:len(elementStack)-1]
					form.Elements = append(form.Elements, *closed)
				}
			}
		}
	}

	form.Type = inferType(form.Name, form.ObjectName)
	return form, nil
}

func addEvent(el *Element, start xml.StartElement) {
	for _, attr := range start.Attr {
		if attr.Name.Local == "name" && attr.Value != "" {
			el.Events = append(el.Events, attr.Value)
			return
		}
	}
}

// ParseAll walks configDir for Form.xml files and parses every one found,
// skipping (and not failing on) any individual file that cannot be
// opened or decoded (spec §4.J).
func ParseAll(configDir string) ([]Form, error) {
	paths, err := FindFormFiles(configDir)
	if err != nil {
		return nil, err
	}

	var forms []Form
	for _, p := range paths {
		form, err := ParseFile(p)
		if err != nil {
			continue
		}
		forms = append(forms, *form)
	}
	return forms, nil
}
