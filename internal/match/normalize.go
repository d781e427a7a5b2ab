package match

import (
	"strings"
	"unicode"
)

// Normalize lower-cases text, replaces every rune that is not a letter, digit
// or underscore with a space, and collapses runs of whitespace.
func Normalize(text string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)
	return strings.Join(strings.Fields(mapped), " ")
}
