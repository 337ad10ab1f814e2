// Package token defines the lexer's output vocabulary: token kinds and the
// closed, bilingual (Russian/English) keyword set.
package token

import "github.com/oxhq/bslanalyzer/ast"

// Kind identifies the lexical category of a token.
type Kind string

const (
	KindKeyword    Kind = "keyword"
	KindIdentifier Kind = "identifier"
	KindNumber     Kind = "number"
	KindString     Kind = "string"
	KindOperator   Kind = "operator"
	KindComment    Kind = "comment"
	KindNewline    Kind = "newline"
	KindWhitespace Kind = "whitespace"
	KindUnknown    Kind = "unknown"
	KindEOF        Kind = "eof"
)

// Token is one lexical unit with its source position and byte length.
type Token struct {
	Kind     Kind
	Literal  string
	Position ast.Position
	Length   int // byte length of Literal in the source
}

// IsKeyword reports whether t is a keyword matching one of the given
// canonical (English) spellings, case-sensitively, via the shared keyword
// table (t.Literal may be either the Russian or English spelling).
func (t Token) IsKeyword(canon ...string) bool {
	if t.Kind != KindKeyword {
		return false
	}
	id, ok := Keywords[t.Literal]
	if !ok {
		return false
	}
	for _, c := range canon {
		if id == c {
			return true
		}
	}
	return false
}

// KeywordID returns the canonical English identifier for a keyword token's
// literal text, or "" if the literal is not a recognized keyword.
func KeywordID(literal string) string {
	return Keywords[literal]
}

// multiCharOperators lists the two-character operators, tried before
// single-character ones.
var multiCharOperators = []string{":=", "<>", "<=", ">="}

// singleCharOperators is the closed set of one-character operators.
const singleCharOperators = "+-*/=<>()[]{}.,;:?"

// Keywords maps every recognized Russian or English spelling to a single
// canonical (English) identifier, so that bilingual source resolves to one
// token semantic regardless of spelling.
var Keywords = map[string]string{
	"Процедура": "Procedure", "Procedure": "Procedure",
	"КонецПроцедуры": "EndProcedure", "EndProcedure": "EndProcedure",
	"Функция": "Function", "Function": "Function",
	"КонецФункции": "EndFunction", "EndFunction": "EndFunction",
	"Если": "If", "If": "If",
	"Тогда": "Then", "Then": "Then",
	"Иначе": "Else", "Else": "Else",
	"ИначеЕсли": "ElseIf", "ElseIf": "ElseIf",
	"КонецЕсли": "EndIf", "EndIf": "EndIf",
	"Для": "For", "For": "For",
	"Каждого": "Each", "Each": "Each",
	"Из": "In", "In": "In",
	"По": "To", "To": "To",
	"Цикл": "Do", "Do": "Do",
	"КонецЦикла": "EndDo", "EndDo": "EndDo",
	"Пока": "While", "While": "While",
	"Попытка": "Try", "Try": "Try",
	"Исключение": "Except", "Except": "Except",
	"КонецПопытки": "EndTry", "EndTry": "EndTry",
	"Возврат": "Return", "Return": "Return",
	"Продолжить": "Continue", "Continue": "Continue",
	"Прервать": "Break", "Break": "Break",
	"Новый": "New", "New": "New",
	"Перем": "Var", "Var": "Var",
	"Экспорт": "Export", "Export": "Export",
	"Неопределено": "Undefined", "Undefined": "Undefined",
	"Истина": "True", "True": "True",
	"Ложь": "False", "False": "False",
	"Null": "Null",
	"И": "And", "And": "And",
	"Или": "Or", "Or": "Or",
	"НЕ": "Not", "Not": "Not",

	// Directives
	"&НаКлиенте": "&AtClient", "&AtClient": "&AtClient",
	"&НаСервере": "&AtServer", "&AtServer": "&AtServer",
	"&НаСервереБезКонтекста": "&AtServerNoContext", "&AtServerNoContext": "&AtServerNoContext",
	"&Область": "&Region", "&Region": "&Region",
	"&КонецОбласти": "&EndRegion", "&EndRegion": "&EndRegion",
}

// OperatorSymbols returns every recognized operator spelling, multi-char
// operators first, for callers (documentation export) that need the
// closed operator vocabulary without depending on lexer internals.
func OperatorSymbols() []string {
	symbols := make([]string, 0, len(multiCharOperators)+len(singleCharOperators))
	symbols = append(symbols, multiCharOperators...)
	for _, b := range []byte(singleCharOperators) {
		symbols = append(symbols, string(b))
	}
	return symbols
}
