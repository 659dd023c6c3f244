package export

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sanitize normalizes a text field for document output: surrounding
// whitespace is trimmed and the first character is upper-cased. The result
// is stable under repeated application; empty and whitespace-only input
// yields "".
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
