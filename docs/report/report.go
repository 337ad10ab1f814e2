// Package report implements the metadata-report parser (spec §4.I): a
// plain-text, NOT XML, report produced by the 1C designer, describing
// configuration objects (directories, documents, registers, ...), their
// attributes, tabular sections, and structural metadata.
package report

import (
	"regexp"
	"strings"
)

// ObjectKind is the canonical (English) spelling of a configuration root
// type, regardless of which singular/plural Russian spelling named it in
// the report (spec §4.I).
type ObjectKind string

const (
	KindDirectory                   ObjectKind = "Directory"
	KindDocument                    ObjectKind = "Document"
	KindInformationRegister         ObjectKind = "InformationRegister"
	KindAccumulationRegister        ObjectKind = "AccumulationRegister"
	KindAccountingRegister          ObjectKind = "AccountingRegister"
	KindReport                      ObjectKind = "Report"
	KindDataProcessor               ObjectKind = "DataProcessor"
	KindEnumeration                 ObjectKind = "Enumeration"
	KindCommonModule                ObjectKind = "CommonModule"
	KindSubsystem                   ObjectKind = "Subsystem"
	KindRole                        ObjectKind = "Role"
	KindCommonAttribute             ObjectKind = "CommonAttribute"
	KindExchangePlan                ObjectKind = "ExchangePlan"
	KindFilterCriterion             ObjectKind = "FilterCriterion"
	KindSettingsStorage             ObjectKind = "SettingsStorage"
	KindFunctionalOption            ObjectKind = "FunctionalOption"
	KindDefinedType                 ObjectKind = "DefinedType"
	KindWebService                  ObjectKind = "WebService"
	KindHTTPService                 ObjectKind = "HTTPService"
	KindScheduledJob                ObjectKind = "ScheduledJob"
	KindConstant                    ObjectKind = "Constant"
	KindSequence                    ObjectKind = "Sequence"
	KindDocumentJournal             ObjectKind = "DocumentJournal"
	KindChartOfCharacteristicTypes  ObjectKind = "ChartOfCharacteristicTypes"
	KindChartOfAccounts             ObjectKind = "ChartOfAccounts"
	KindChartOfCalculationTypes     ObjectKind = "ChartOfCalculationTypes"
	KindBusinessProcess             ObjectKind = "BusinessProcess"
	KindTask                        ObjectKind = "Task"
	KindExternalDataSource          ObjectKind = "ExternalDataSource"
	KindCommonForm                  ObjectKind = "CommonForm"
	KindCommonCommand               ObjectKind = "CommonCommand"
	KindCommonPicture               ObjectKind = "CommonPicture"
	KindCommonTemplate              ObjectKind = "CommonTemplate"
	KindXDTOPackage                 ObjectKind = "XDTOPackage"
	KindStyle                       ObjectKind = "Style"
	KindStyleItem                   ObjectKind = "StyleItem"
)

// allowedRootTypes maps every recognized singular and plural Russian
// spelling to its canonical kind (spec §4.I).
var allowedRootTypes = map[string]ObjectKind{
	"Справочник": KindDirectory, "Справочники": KindDirectory,
	"Документ": KindDocument, "Документы": KindDocument,
	"РегистрСведений": KindInformationRegister, "РегистрыСведений": KindInformationRegister,
	"РегистрНакопления": KindAccumulationRegister, "РегистрыНакопления": KindAccumulationRegister,
	"РегистрБухгалтерии": KindAccountingRegister, "РегистрыБухгалтерии": KindAccountingRegister,
	"Отчет": KindReport, "Отчеты": KindReport,
	"Обработка": KindDataProcessor, "Обработки": KindDataProcessor,
	"Перечисление": KindEnumeration, "Перечисления": KindEnumeration,
	"ОбщийМодуль": KindCommonModule, "ОбщиеМодули": KindCommonModule,
	"Подсистема": KindSubsystem, "Подсистемы": KindSubsystem,
	"Роль": KindRole, "Роли": KindRole,
	"ОбщийРеквизит": KindCommonAttribute, "ОбщиеРеквизиты": KindCommonAttribute,
	"ПланОбмена": KindExchangePlan, "ПланыОбмена": KindExchangePlan,
	"КритерийОтбора": KindFilterCriterion, "КритерииОтбора": KindFilterCriterion,
	"ХранилищеНастроек": KindSettingsStorage, "ХранилищаНастроек": KindSettingsStorage,
	"ФункциональнаяОпция": KindFunctionalOption, "ФункциональныеОпции": KindFunctionalOption,
	"ОпределяемыйТип": KindDefinedType, "ОпределяемыеТипы": KindDefinedType,
	"WebСервис": KindWebService, "WebСервисы": KindWebService,
	"HTTPСервис": KindHTTPService, "HTTPСервисы": KindHTTPService,
	"РегламентноеЗадание": KindScheduledJob, "РегламентныеЗадания": KindScheduledJob,
	"Константа": KindConstant, "Константы": KindConstant,
	"Последовательность": KindSequence,
	"ЖурналДокументов": KindDocumentJournal, "ЖурналыДокументов": KindDocumentJournal,
	"ПланВидовХарактеристик": KindChartOfCharacteristicTypes, "ПланыВидовХарактеристик": KindChartOfCharacteristicTypes,
	"ПланСчетов": KindChartOfAccounts, "ПланыСчетов": KindChartOfAccounts,
	"ПланВидовРасчета": KindChartOfCalculationTypes, "ПланыВидовРасчета": KindChartOfCalculationTypes,
	"БизнесПроцесс": KindBusinessProcess, "БизнесПроцессы": KindBusinessProcess,
	"Задача": KindTask, "Задачи": KindTask,
	"ВнешнийИсточникДанных": KindExternalDataSource,
	"ОбщаяФорма": KindCommonForm, "ОбщиеФормы": KindCommonForm,
	"ОбщаяКоманда": KindCommonCommand, "ОбщиеКоманды": KindCommonCommand,
	"ОбщаяКартинка": KindCommonPicture, "ОбщиеКартинки": KindCommonPicture,
	"ОбщийМакет": KindCommonTemplate,
	"XDTOПакет": KindXDTOPackage, "XDTOПакеты": KindXDTOPackage,
	"Стиль": KindStyle, "Стили": KindStyle,
	"ЭлементСтиля": KindStyleItem, "ЭлементыСтиля": KindStyleItem,
}

// Indexing is the closed enum for an attribute's "Индексирование:" value
// (spec §4.I).
type Indexing string

const (
	IndexNone             Indexing = "DontIndex"
	IndexPlain            Indexing = "Index"
	IndexWithOrdering     Indexing = "IndexWithOrdering"
	IndexWithAdditionalOrder Indexing = "IndexWithAdditionalOrder"
)

// FillChecking is the closed enum for an attribute's
// "ПроверкаЗаполнения:" value (spec §4.I).
type FillChecking string

const (
	FillCheckNone    FillChecking = "DontCheck"
	FillCheckError   FillChecking = "ShowError"
	FillCheckWarning FillChecking = "ShowWarning"
)

// Attribute is one reqisite, dimension, resource, or tabular-section
// column (spec §4.I).
type Attribute struct {
	Name         string
	DataType     string
	Length       int
	Precision    int
	Indexing     Indexing
	FillChecking FillChecking
}

// TabularSection is one tabular part of an object, with its own attribute
// set (spec §4.I).
type TabularSection struct {
	Name       string
	Attributes []Attribute
}

// Structure is the full parsed body of one configuration object (spec
// §4.I).
type Structure struct {
	Attributes      []Attribute
	TabularSections []TabularSection
	Forms           []string
	Templates       []string
	Commands        []string
	Comments        string
	Dimensions      []Attribute
	Resources       []Attribute
}

// Contract is one object extracted from a metadata report, plus its
// generation metadata (spec §4.I).
type Contract struct {
	Type           ObjectKind
	Name           string
	Structure      Structure
	SearchKeywords []string
	SourceFile     string
	EncodingUsed   Encoding
}

// Dialect is one of the three report styles autodetected by scanning the
// first ~20 lines (spec §4.I).
type Dialect string

const (
	DialectReal       Dialect = "real"
	DialectPythonLike Dialect = "python-style"
	DialectSimplified Dialect = "simplified"
)

// DetectDialect scans the first 20 lines of content and classifies its
// dialect (spec §4.I).
func DetectDialect(content string) Dialect {
	lines := firstLines(content, 20)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- ") && strings.Contains(trimmed, ".") {
			return DialectReal
		}
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") && !strings.HasPrefix(trimmed, "- ") && strings.Contains(trimmed, ".") {
			return DialectPythonLike
		}
	}
	return DialectSimplified
}

func firstLines(content string, n int) []string {
	all := strings.Split(content, "\n")
	if len(all) > n {
		return all[:n]
	}
	return all
}

// Parse autodetects content's dialect and extracts every contract (spec
// §4.I). Only the real dialect is fully specified; python-style is not
// yet implemented in the original parser either and returns an empty
// list, and simplified falls back to an indentation-based recognizer.
func Parse(content, sourceFile string, enc Encoding) []Contract {
	switch DetectDialect(content) {
	case DialectReal:
		return parseReal(content, sourceFile, enc)
	case DialectSimplified:
		return parseSimplified(content, sourceFile, enc)
	default:
		return nil
	}
}

func cleanTypeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' || r == ' ' || isAlnum(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
		(r >= 'а' && r <= 'я') || (r >= 'А' && r <= 'Я') || r == 'ё' || r == 'Ё'
}

var camelFragmentPattern = regexp.MustCompile(`[А-ЯA-Z][а-яa-z]*`)

func searchKeywords(name string) []string {
	keywords := []string{name}
	keywords = append(keywords, camelFragmentPattern.FindAllString(name, -1)...)
	return keywords
}

var stringConstraintPattern = regexp.MustCompile(`Строка\((\d+)(?:,\s*(\w+))?\)`)
var numberConstraintPattern = regexp.MustCompile(`Число\((\d+)(?:,\s*(\d+))?\)`)

// extractTypeConstraints extracts length/precision from patterns like
// `Строка(10, Переменная)` and `Число(15, 2)` (spec §4.I), recursing into
// composite-type parts joined by commas.
func extractTypeConstraints(dataType string) (length, precision int) {
	if m := stringConstraintPattern.FindStringSubmatch(dataType); m != nil {
		return atoiOr(m[1], 0), 0
	}
	if m := numberConstraintPattern.FindStringSubmatch(dataType); m != nil {
		return atoiOr(m[1], 0), atoiOr(m[2], 0)
	}
	if strings.Contains(dataType, ",") {
		for _, part := range strings.Split(dataType, ",") {
			if l, p := extractTypeConstraints(strings.TrimSpace(part)); l != 0 || p != 0 {
				return l, p
			}
		}
	}
	return 0, 0
}

func atoiOr(s string, fallback int) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return fallback
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 && s == "" {
		return fallback
	}
	return n
}

func parseIndexing(value string) Indexing {
	switch value {
	case "Индексировать":
		return IndexPlain
	case "ИндексироватьСДопУпорядочиванием":
		return IndexWithOrdering
	case "ИндексироватьСДополнительнымПорядком":
		return IndexWithAdditionalOrder
	case "НеИндексировать":
		return IndexNone
	default:
		return IndexNone
	}
}

func parseFillChecking(value string) FillChecking {
	switch value {
	case "ВыдаватьОшибку":
		return FillCheckError
	case "ВыдаватьПредупреждение":
		return FillCheckWarning
	case "НеПроверять":
		return FillCheckNone
	default:
		return FillCheckNone
	}
}
