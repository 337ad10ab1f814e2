package formxml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oxhq/bslanalyzer/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFormXML = `<?xml version="1.0" encoding="UTF-8"?>
<Form xmlns="http://v8.1c.ru/8.3/xcf/logform">
  <ChildItems>
    <InputField name="Артикул">
      <DataPath>Object.Артикул</DataPath>
      <Title>Артикул</Title>
      <Events>
        <Event name="ПриИзменении"/>
      </Events>
    </InputField>
    <Group name="ОсновнаяГруппа">
      <ChildItems>
        <ButtonField name="Записать">
          <Title>Записать</Title>
        </ButtonField>
      </ChildItems>
    </Group>
  </ChildItems>
</Form>
`

func writeForm(t *testing.T, relDir string) string {
	_, path := writeFormIn(t, relDir)
	return path
}

func writeFormIn(t *testing.T, relDir string) (string, string) {
	t.Helper()
	root := t.TempDir()
	formDir := filepath.Join(root, relDir, "Ext")
	require.NoError(t, os.MkdirAll(formDir, 0o755))
	path := filepath.Join(formDir, "Form.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFormXML), 0o644))
	return root, path
}

func TestFindFormFilesRequiresFormsAndExt(t *testing.T) {
	root, path := writeFormIn(t, filepath.Join("Catalogs", "Номенклатура", "Forms", "ФормаЭлемента"))

	found, err := FindFormFiles(root)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, path, found[0])
}

func TestExtractFormNameIsGrandparentDirectory(t *testing.T) {
	path := writeForm(t, filepath.Join("Catalogs", "Номенклатура", "Forms", "ФормаЭлемента"))
	assert.Equal(t, "ФормаЭлемента", ExtractFormName(path))
}

func TestExtractObjectNameIsComponentBeforeForms(t *testing.T) {
	path := writeForm(t, filepath.Join("Catalogs", "Номенклатура", "Forms", "ФормаЭлемента"))
	assert.Equal(t, "Номенклатура", ExtractObjectName(path))
}

func TestExtractObjectNameEmptyWhenNoFormsComponent(t *testing.T) {
	assert.Equal(t, "", ExtractObjectName(filepath.Join("CommonForms", "MainForm", "Form.xml")))
}

func TestParseFileExtractsElementsAndEvents(t *testing.T) {
	path := writeForm(t, filepath.Join("Catalogs", "Номенклатура", "Forms", "ФормаЭлемента"))

	form, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ФормаЭлемента", form.Name)
	assert.Equal(t, "Номенклатура", form.ObjectName)
	// flattened in close order: InputField, then the nested ButtonField
	// (closes before its enclosing Group), then the Group itself
	require.Len(t, form.Elements, 3)

	input := form.Elements[0]
	assert.Equal(t, ElementInputField, input.Kind)
	assert.Equal(t, "Object.Артикул", input.DataPath)
	assert.Equal(t, "Артикул", input.Title)
	assert.Equal(t, []string{"ПриИзменении"}, input.Events)

	button := form.Elements[1]
	assert.Equal(t, ElementButtonField, button.Kind)
	assert.Equal(t, "Записать", button.Title)

	group := form.Elements[2]
	assert.Equal(t, ElementGroup, group.Kind)
}

func TestInferTypeRecognizesObjectAndListForms(t *testing.T) {
	assert.Equal(t, TypeListForm, inferType("СписокТоваров", "Товары"))
	assert.Equal(t, TypeListForm, inferType("ItemsList", ""))
	assert.Equal(t, TypeObjectForm, inferType("ФормаЭлемента", "Номенклатура"))
	assert.Equal(t, TypeCommonForm, inferType("Форма", ""))
}

func TestConvertRegistersFormAsTypeEntityWithDataPathProperties(t *testing.T) {
	path := writeForm(t, filepath.Join("Catalogs", "Номенклатура", "Forms", "ФормаЭлемента"))
	form, err := ParseFile(path)
	require.NoError(t, err)

	idx := index.New()
	Convert([]Form{*form}, idx)

	typ, ok := idx.Catalog().Type("Номенклатура.ФормаЭлемента")
	require.True(t, ok)
	_, hasDataPath := typ.Properties["Object.Артикул"]
	assert.True(t, hasDataPath)
}
