package report

import (
	"testing"

	"github.com/oxhq/bslanalyzer/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleDirectoryReport = `- Справочник.Номенклатура
  Имя: "Номенклатура"
  Комментарий: "Товары и услуги"
- Справочник.Номенклатура.Реквизиты.Артикул
  Имя: "Артикул"
  Тип: Строка(20)
  Индексирование: Индексировать
  ПроверкаЗаполнения: НеПроверять
- Справочник.Номенклатура.Реквизиты.ЕдиницаИзмерения
  Имя: "ЕдиницаИзмерения"
  Тип:
    СправочникСсылка.ЕдиницыИзмерения,
    Строка(10)
- Справочник.Номенклатура.ТабличныеЧасти.Штрихкоды
  Имя: "Штрихкоды"
- Справочник.Номенклатура.ТабличныеЧасти.Штрихкоды.Реквизиты.Штрихкод
  Имя: "Штрихкод"
  Тип: Строка(13)
`

func TestDetectDialectRecognizesRealFormat(t *testing.T) {
	assert.Equal(t, DialectReal, DetectDialect(simpleDirectoryReport))
}

func TestDetectDialectFallsBackToSimplified(t *testing.T) {
	assert.Equal(t, DialectSimplified, DetectDialect("just some plain text\nwith no dashes\n"))
}

func TestParseRealExtractsObjectHeaderAndAttributes(t *testing.T) {
	contracts := Parse(simpleDirectoryReport, "report.txt", EncodingUTF8)
	require.Len(t, contracts, 1)

	c := contracts[0]
	assert.Equal(t, KindDirectory, c.Type)
	assert.Equal(t, "Номенклатура", c.Name)
	assert.Equal(t, "Товары и услуги", c.Structure.Comments)
	require.Len(t, c.Structure.Attributes, 2)

	artikul := c.Structure.Attributes[0]
	assert.Equal(t, "Артикул", artikul.Name)
	assert.Equal(t, "Строка(20)", artikul.DataType)
	assert.Equal(t, 20, artikul.Length)
	assert.Equal(t, IndexPlain, artikul.Indexing)
	assert.Equal(t, FillCheckNone, artikul.FillChecking)
}

func TestParseRealCollectsCompositeType(t *testing.T) {
	contracts := Parse(simpleDirectoryReport, "report.txt", EncodingUTF8)
	require.Len(t, contracts, 1)

	unit := contracts[0].Structure.Attributes[1]
	assert.Equal(t, "ЕдиницаИзмерения", unit.Name)
	assert.Contains(t, unit.DataType, "СправочникСсылка.ЕдиницыИзмерения")
	assert.Contains(t, unit.DataType, "Строка(10)")
}

func TestParseRealBuildsTabularSection(t *testing.T) {
	contracts := Parse(simpleDirectoryReport, "report.txt", EncodingUTF8)
	require.Len(t, contracts, 1)
	require.Len(t, contracts[0].Structure.TabularSections, 1)

	ts := contracts[0].Structure.TabularSections[0]
	assert.Equal(t, "Штрихкоды", ts.Name)
	require.Len(t, ts.Attributes, 1)
	assert.Equal(t, "Штрихкод", ts.Attributes[0].Name)
	assert.Equal(t, 13, ts.Attributes[0].Length)
}

func TestParseRealGeneratesSearchKeywords(t *testing.T) {
	contracts := Parse(simpleDirectoryReport, "report.txt", EncodingUTF8)
	require.Len(t, contracts, 1)
	assert.Contains(t, contracts[0].SearchKeywords, "Номенклатура")
}

func TestParsePythonStyleReturnsEmpty(t *testing.T) {
	content := "-Справочник.Номенклатура.Реквизиты.Артикул\n  something\n"
	assert.Equal(t, DialectPythonLike, DetectDialect(content))
	assert.Empty(t, Parse(content, "report.txt", EncodingUTF8))
}

func TestExtractTypeConstraintsParsesStringAndNumber(t *testing.T) {
	length, precision := extractTypeConstraints("Строка(20)")
	assert.Equal(t, 20, length)
	assert.Equal(t, 0, precision)

	length, precision = extractTypeConstraints("Число(15, 2)")
	assert.Equal(t, 15, length)
	assert.Equal(t, 2, precision)
}

func TestParseIndexingDefaultsOnUnknownValue(t *testing.T) {
	assert.Equal(t, IndexNone, parseIndexing("ЧтоУгодно"))
	assert.Equal(t, IndexWithOrdering, parseIndexing("ИндексироватьСДопУпорядочиванием"))
}

func TestParseFillCheckingDefaultsOnUnknownValue(t *testing.T) {
	assert.Equal(t, FillCheckNone, parseFillChecking("ЧтоУгодно"))
	assert.Equal(t, FillCheckError, parseFillChecking("ВыдаватьОшибку"))
}

func TestDecodePrefersUTF8WhenValid(t *testing.T) {
	// odd byte length rules out a UTF-16LE misread before the UTF-8 check runs
	text, enc := Decode([]byte("Directory"))
	assert.Equal(t, EncodingUTF8, enc)
	assert.Equal(t, "Directory", text)
}

func TestConvertRegistersAttributesAndStandardMethods(t *testing.T) {
	contracts := Parse(simpleDirectoryReport, "report.txt", EncodingUTF8)
	idx := index.New()
	Convert(contracts, idx)

	typ, ok := idx.Catalog().Type("Справочник.Номенклатура")
	require.True(t, ok)
	_, hasArtikul := typ.Properties["Артикул"]
	assert.True(t, hasArtikul)
	_, hasFindByCode := typ.Methods["НайтиПоКоду"]
	assert.True(t, hasFindByCode)
}

func TestConvertRegistersTabularSectionAsNestedEntity(t *testing.T) {
	contracts := Parse(simpleDirectoryReport, "report.txt", EncodingUTF8)
	idx := index.New()
	Convert(contracts, idx)

	_, ok := idx.Catalog().Type("Справочник.Номенклатура.ТабличнаяЧасть.Штрихкоды")
	assert.True(t, ok)
}
