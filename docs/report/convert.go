package report

import (
	"fmt"

	"github.com/oxhq/bslanalyzer/catalog"
	"github.com/oxhq/bslanalyzer/index"
)

// standardMethods lists the methods every instance of a given object kind
// exposes in addition to its declared attributes, mirroring the manager
// API a configuration object gets for free (spec §4.I).
var standardMethods = map[ObjectKind][]catalog.Method{
	KindDirectory: {
		{Name: "НайтиПоКоду", EnglishName: "FindByCode", ReturnType: "", IsFunction: true,
			Parameters: []catalog.Parameter{{Name: "Код", Type: "Произвольный"}}},
		{Name: "НайтиПоНаименованию", EnglishName: "FindByDescription", IsFunction: true,
			Parameters: []catalog.Parameter{{Name: "Наименование", Type: "Строка"}}},
	},
	KindDocument: {
		{Name: "Провести", EnglishName: "Post", IsFunction: false},
		{Name: "ОтменитьПроведение", EnglishName: "UndoPosting", IsFunction: false},
		{Name: "Записать", EnglishName: "Write", IsFunction: false},
	},
	KindEnumeration: {
		{Name: "НайтиПоИмени", EnglishName: "FindByName", IsFunction: true,
			Parameters: []catalog.Parameter{{Name: "ИмяЗначения", Type: "Строка"}}},
	},
	KindInformationRegister: {
		{Name: "НаборЗаписей", EnglishName: "RecordSet", IsFunction: true},
	},
	KindAccumulationRegister: {
		{Name: "НаборЗаписей", EnglishName: "RecordSet", IsFunction: true},
	},
	KindChartOfAccounts: {
		{Name: "НайтиПоКоду", EnglishName: "FindByCode", IsFunction: true,
			Parameters: []catalog.Parameter{{Name: "Код", Type: "Произвольный"}}},
	},
	KindBusinessProcess: {
		{Name: "СоздатьЗадачи", EnglishName: "CreateTasks", IsFunction: false},
	},
	KindTask: {
		{Name: "Выполнить", EnglishName: "Perform", IsFunction: false},
	},
}

// Convert registers every extracted contract as a type entity in idx,
// adding an instance property per attribute/dimension/resource, one
// nested entity per tabular section, and the standard methods for the
// contract's object kind (spec §4.I, §4.K).
func Convert(contracts []Contract, idx *index.Index) {
	for _, c := range contracts {
		id := string(c.Type) + "." + c.Name
		t := idx.EnsureType(id, c.Name)
		t.Kind = kindToEntityKind(c.Type)
		t.Source = "Report"

		for _, attr := range c.Structure.Attributes {
			addAttributeProperty(t, attr)
		}
		for _, dim := range c.Structure.Dimensions {
			addAttributeProperty(t, dim)
		}
		for _, res := range c.Structure.Resources {
			addAttributeProperty(t, res)
		}
		for _, m := range standardMethods[c.Type] {
			t.Methods[m.Name] = m
		}

		for _, ts := range c.Structure.TabularSections {
			tsID := fmt.Sprintf("%s.ТабличнаяЧасть.%s", id, ts.Name)
			tsType := idx.EnsureType(tsID, ts.Name)
			tsType.Kind = catalog.KindCollection
			tsType.Source = "Report"
			for _, attr := range ts.Attributes {
				addAttributeProperty(tsType, attr)
			}
			t.Properties[ts.Name] = catalog.Method{Name: ts.Name, ReturnType: tsID}
		}
	}
}

func addAttributeProperty(t *catalog.Type, attr Attribute) {
	t.Properties[attr.Name] = catalog.Method{
		Name:       attr.Name,
		ReturnType: attr.DataType,
	}
}

func kindToEntityKind(k ObjectKind) catalog.Kind {
	switch k {
	case KindDirectory, KindDocument, KindChartOfAccounts, KindChartOfCharacteristicTypes,
		KindChartOfCalculationTypes, KindBusinessProcess, KindTask, KindExchangePlan, KindEnumeration:
		return catalog.KindReference
	case KindInformationRegister, KindAccumulationRegister, KindAccountingRegister, KindSequence, KindConstant:
		return catalog.KindDatabase
	case KindCommonForm:
		return catalog.KindForm
	default:
		return catalog.KindObject
	}
}
