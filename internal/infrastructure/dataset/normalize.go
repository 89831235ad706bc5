package dataset

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// NormalizeName canonicalizes a food name for substring matching: fold
// full-width variants to their canonical forms, lowercase, drop whitespace
// and parentheses, and convert hiragana to katakana so the two kana scripts
// compare equal.
func NormalizeName(s string) string {
	folded := width.Fold.String(s)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			continue
		// width.Fold has already mapped full-width parentheses to ASCII.
		case r == '(' || r == ')':
			continue
		case isHiragana(r):
			b.WriteRune(r + kanaOffset)
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// kanaOffset is the code-point distance between hiragana and katakana blocks.
const kanaOffset = 0x30A1 - 0x3041

func isHiragana(r rune) bool {
	return r >= 0x3041 && r <= 0x3096
}
