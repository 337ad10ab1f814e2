package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/bslanalyzer/token"
)

func TestTokenizeBilingualKeywords(t *testing.T) {
	src := `Процедура Test(Парам) Экспорт
КонецПроцедуры`
	toks := Tokenize(src, Options{})
	require.NotEmpty(t, toks)
	assert.Equal(t, token.KindKeyword, toks[0].Kind)
	assert.Equal(t, "Процедура", toks[0].Literal)
	assert.Equal(t, token.KindIdentifier, toks[1].Kind)
	assert.Equal(t, "Test", toks[1].Literal)
}

func TestTokenizeDirective(t *testing.T) {
	toks := Tokenize("&НаКлиенте", Options{})
	require.Len(t, toks, 1)
	assert.Equal(t, token.KindKeyword, toks[0].Kind)
	assert.Equal(t, "&НаКлиенте", toks[0].Literal)
}

func TestTokenizeOperators(t *testing.T) {
	toks := Tokenize("a := b <> c <= d >= e", Options{})
	var ops []string
	for _, tk := range toks {
		if tk.Kind == token.KindOperator {
			ops = append(ops, tk.Literal)
		}
	}
	assert.Equal(t, []string{":=", "<>", "<=", ">="}, ops)
}

func TestTokenizeStringAndNumber(t *testing.T) {
	toks := Tokenize(`x = "hello" + 3.14`, Options{})
	var kinds []token.Kind
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	assert.Contains(t, kinds, token.KindString)
	assert.Contains(t, kinds, token.KindNumber)
}

func TestTokenizeUnknownByteNeverLoops(t *testing.T) {
	toks := Tokenize("a \x01 b", Options{})
	var found bool
	for _, tk := range toks {
		if tk.Kind == token.KindUnknown {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLexerTotalityAndPositions(t *testing.T) {
	src := "Перем X;\nX = 1;"
	toks := Tokenize(src, Options{KeepWhitespace: true, KeepNewlines: true})
	require.NotEmpty(t, toks)
	for _, tk := range toks {
		if tk.Kind == token.KindUnknown {
			continue
		}
		assert.GreaterOrEqual(t, tk.Position.Line, 1)
		assert.GreaterOrEqual(t, tk.Position.Column, 1)
		assert.NotEmpty(t, tk.Literal)
	}
}

func TestLexerAdvancesLineAcrossNewlines(t *testing.T) {
	src := "Перем X;\nX = 1;\nСообщить(X);"
	toks := Tokenize(src, Options{})

	var sawLine2, sawLine3 bool
	for _, tk := range toks {
		switch tk.Position.Line {
		case 2:
			sawLine2 = true
			if tk.Literal == "X" {
				assert.Equal(t, 1, tk.Position.Column)
			}
		case 3:
			sawLine3 = true
		}
	}
	assert.True(t, sawLine2, "expected a token on line 2")
	assert.True(t, sawLine3, "expected a token on line 3")
}

func TestLexerHandlesCRLFLineBreaks(t *testing.T) {
	src := "Перем X;\r\nX = 1;"
	toks := Tokenize(src, Options{})

	var sawLine2 bool
	for _, tk := range toks {
		if tk.Position.Line == 2 {
			sawLine2 = true
		}
	}
	assert.True(t, sawLine2, "expected a token on line 2 after a CRLF newline")
}

func TestTokenizeReconstructsInput(t *testing.T) {
	src := "Процедура Test(X)\n\tX = X + 1; // comment\nКонецПроцедуры"
	toks := Tokenize(src, Options{KeepWhitespace: true, KeepNewlines: true})
	var rebuilt string
	for _, tk := range toks {
		rebuilt += tk.Literal
	}
	assert.Equal(t, src, rebuilt)
}

func TestEmptySourceProducesNoTokens(t *testing.T) {
	toks := Tokenize("", Options{})
	assert.Empty(t, toks)
}
