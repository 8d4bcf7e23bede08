// Package command classifies free-text player actions into intents using a
// fixed, ordered keyword table.
package command

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s, strips diacritics and collapses whitespace, so
// "¡Engañar  al GUARDIA!" and "¡enganar al guardia!" match the same rules.
//
// Postcondition: the result contains no combining marks and no runs of spaces.
func Normalize(s string) string {
	lower := strings.ToLower(s)
	// transform.Chain is stateful; build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, lower)
	if err != nil {
		folded = lower
	}
	return strings.Join(strings.Fields(folded), " ")
}

// Words splits normalized text into letter/digit tokens.
func Words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ContainsWord reports whether word occurs in text as a whole token.
func ContainsWord(text, word string) bool {
	for _, w := range Words(text) {
		if w == word {
			return true
		}
	}
	return false
}

// Mentions reports whether the normalized name occurs in text, either as a
// substring (multi-word names) or as a whole word.
func Mentions(text, name string) bool {
	n := Normalize(name)
	if n == "" {
		return false
	}
	if strings.ContainsRune(n, ' ') || len(n) > 3 {
		return strings.Contains(text, n)
	}
	return ContainsWord(text, n)
}
