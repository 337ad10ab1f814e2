package report

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names the encoding that successfully decoded a report (spec
// §4.I / §6 "generation metadata... encoding used").
type Encoding string

const (
	EncodingUTF16LE        Encoding = "UTF-16LE"
	EncodingUTF8           Encoding = "UTF-8"
	EncodingWindows1251    Encoding = "Windows-1251"
	EncodingUTF8WithErrors Encoding = "UTF-8 (with errors)"
)

// Decode tries UTF-16LE, UTF-8, then Windows-1251 in order, returning the
// first decoding that introduces no replacement errors; if all three
// fail it falls back to a lossy UTF-8 decode (spec §4.I).
func Decode(raw []byte) (string, Encoding) {
	if text, ok := decodeUTF16LE(raw); ok {
		return text, EncodingUTF16LE
	}
	if utf8.Valid(raw) {
		return string(raw), EncodingUTF8
	}
	if text, ok := decodeWindows1251(raw); ok {
		return text, EncodingWindows1251
	}
	return string(raw), EncodingUTF8WithErrors
}

func decodeUTF16LE(raw []byte) (string, bool) {
	if len(raw) < 2 || len(raw)%2 != 0 {
		return "", false
	}
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	decoded, err := decoder.Bytes(raw)
	if err != nil {
		return "", false
	}
	if !utf8.Valid(decoded) {
		return "", false
	}
	return string(decoded), true
}

func decodeWindows1251(raw []byte) (string, bool) {
	decoded, err := charmap.Windows1251.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}
