package sentiment

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lowercases text and drops every rune that is neither a word
// character (letter, number, underscore) nor whitespace. Spacing is left as is.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// a Caser carries state, so each call gets its own
	lowered := cases.Lower(language.Und).String(text)

	return strings.Map(func(r rune) rune {
		if isWordRune(r) || isSpaceRune(r) {
			return r
		}
		return -1
	}, lowered)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// isSpaceRune is unicode.IsSpace plus the ASCII separators U+001C..U+001F.
func isSpaceRune(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
