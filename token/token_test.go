package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperatorSymbolsIncludesMultiAndSingleChar(t *testing.T) {
	symbols := OperatorSymbols()
	assert.Contains(t, symbols, ":=")
	assert.Contains(t, symbols, "<>")
	assert.Contains(t, symbols, "+")
	assert.Contains(t, symbols, ";")
}

func TestIsKeywordMatchesEitherSpelling(t *testing.T) {
	ru := Token{Kind: KindKeyword, Literal: "Если"}
	en := Token{Kind: KindKeyword, Literal: "If"}
	assert.True(t, ru.IsKeyword("If"))
	assert.True(t, en.IsKeyword("If"))
	assert.False(t, ru.IsKeyword("Then"))
}
