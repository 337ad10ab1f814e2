package formxml

import (
	"github.com/oxhq/bslanalyzer/catalog"
	"github.com/oxhq/bslanalyzer/index"
)

// Convert registers each form as a form-kind type entity in idx, with one
// property per element carrying a data path (the element's exposed
// binding) (spec §4.J / §4.K).
func Convert(forms []Form, idx *index.Index) {
	for _, form := range forms {
		id := form.Name
		if form.ObjectName != "" {
			id = form.ObjectName + "." + form.Name
		}

		t := idx.EnsureType(id, form.Name)
		t.Kind = catalog.KindForm
		t.Source = "form-xml"

		for _, el := range form.Elements {
			if el.DataPath == "" {
				continue
			}
			t.Properties[el.DataPath] = catalog.Method{Name: el.DataPath}
		}
	}
}
