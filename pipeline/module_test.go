package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/bslanalyzer/catalog"
	"github.com/oxhq/bslanalyzer/semantic"
)

func TestAnalyzeModuleRunsDataflowAndSemanticPasses(t *testing.T) {
	src := `Перем X; Перем X;`
	result := AnalyzeModule("test.bsl", src, catalog.New(), semantic.DefaultConfig())
	require.Len(t, result.Diagnostics, 4)
	assert.Contains(t, result.Diagnostics[2].Message, "redeclared")
}

func TestAnalyzeModuleWarnsOnOversizedSource(t *testing.T) {
	src := strings.Repeat("// padding\n", maxSourceBytes/len("// padding\n")+1)
	result := AnalyzeModule("big.bsl", src, catalog.New(), semantic.DefaultConfig())

	var found bool
	for _, d := range result.Diagnostics {
		if d.Code == "oversized-file" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAnalyzeModuleWarnsOnControlCharacter(t *testing.T) {
	src := "Перем X;\x07"
	result := AnalyzeModule("ctrl.bsl", src, catalog.New(), semantic.DefaultConfig())

	var found bool
	for _, d := range result.Diagnostics {
		if d.Code == "control-character" {
			found = true
			assert.Equal(t, 1, d.Line)
		}
	}
	assert.True(t, found)
}

func TestAnalyzeModuleAllowsTabsNewlinesAndCarriageReturns(t *testing.T) {
	src := "Перем X;\r\n\tX = 1;\r\n"
	result := AnalyzeModule("clean.bsl", src, catalog.New(), semantic.DefaultConfig())

	for _, d := range result.Diagnostics {
		assert.NotEqual(t, "control-character", d.Code)
	}
}
