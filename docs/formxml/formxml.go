// Package formxml implements the Form XML parser (spec §4.J): it walks a
// configuration tree for Form.xml files and extracts each form's element
// tree (fields, tables, buttons, groups, command bars) plus its inferred
// form type.
package formxml

import "strings"

// ElementKind is one of the recognized form control tags (spec §4.J).
type ElementKind string

const (
	ElementInputField              ElementKind = "InputField"
	ElementTable                    ElementKind = "Table"
	ElementRadioButtonField         ElementKind = "RadioButtonField"
	ElementCheckBoxField            ElementKind = "CheckBoxField"
	ElementButtonField              ElementKind = "ButtonField"
	ElementLabelField               ElementKind = "LabelField"
	ElementPictureField             ElementKind = "PictureField"
	ElementSpreadsheetDocumentField ElementKind = "SpreadsheetDocumentField"
	ElementTextDocumentField        ElementKind = "TextDocumentField"
	ElementFormattedDocumentField   ElementKind = "FormattedDocumentField"
	ElementPages                    ElementKind = "Pages"
	ElementPage                     ElementKind = "Page"
	ElementGroup                    ElementKind = "Group"
	ElementDecoration               ElementKind = "Decoration"
	ElementCommandBar               ElementKind = "CommandBar"
)

// recognizedElements is the closed set of child-item tags the walker
// turns into element nodes (spec §4.J); ButtonField and the bare Button
// tag both map to ElementButtonField.
var recognizedElements = map[string]ElementKind{
	"InputField":               ElementInputField,
	"Table":                    ElementTable,
	"RadioButtonField":         ElementRadioButtonField,
	"CheckBoxField":            ElementCheckBoxField,
	"ButtonField":              ElementButtonField,
	"Button":                   ElementButtonField,
	"LabelField":               ElementLabelField,
	"PictureField":             ElementPictureField,
	"SpreadsheetDocumentField": ElementSpreadsheetDocumentField,
	"TextDocumentField":        ElementTextDocumentField,
	"FormattedDocumentField":   ElementFormattedDocumentField,
	"Pages":                    ElementPages,
	"Page":                     ElementPage,
	"Group":                    ElementGroup,
	"Decoration":               ElementDecoration,
	"CommandBar":               ElementCommandBar,
}

// Element is one control in a form's structure list (spec §4.J).
type Element struct {
	Kind     ElementKind
	DataPath string
	Title    string
	Events   []string
}

// Type classifies a form by what it is for (spec §4.J).
type Type string

const (
	TypeListForm   Type = "ListForm"
	TypeObjectForm Type = "ObjectForm"
	TypeCommonForm Type = "CommonForm"
)

// Form is one parsed Form.xml, with the object it belongs to (if any) and
// its flattened element list (spec §4.J).
type Form struct {
	Name       string
	ObjectName string
	Type       Type
	Elements   []Element
	SourceFile string
}

// inferType implements the form-type inference rule: name containing
// "список"/"list" is a ListForm; otherwise ObjectForm when an owning
// object was recovered from the path, CommonForm otherwise (spec §4.J).
func inferType(name, objectName string) Type {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "список") || strings.Contains(lower, "list") {
		return TypeListForm
	}
	if objectName != "" {
		return TypeObjectForm
	}
	return TypeCommonForm
}
