package export

import (
	"strings"
	"unicode"
)

const (
	// maxFilenameRunes bounds the derived filename prefix.
	maxFilenameRunes = 50
	// DefaultFilename is used when a title yields no allowed characters.
	DefaultFilename = "presentation"
)

// Filename derives a download filename (without extension) from a deck
// title. Characters outside the allow-list (Latin and Cyrillic letters,
// digits, spaces) are stripped, the result is length-bounded, and an empty
// result falls back to DefaultFilename.
func Filename(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.Is(unicode.Latin, r) || unicode.Is(unicode.Cyrillic, r) ||
			unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	name := strings.TrimSpace(b.String())
	if runes := []rune(name); len(runes) > maxFilenameRunes {
		name = strings.TrimSpace(string(runes[:maxFilenameRunes]))
	}
	if name == "" {
		return DefaultFilename
	}
	return name
}
