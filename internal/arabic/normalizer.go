// Package arabic provides Arabic-aware text normalization and query
// expansion for lexical matching over the knowledge store.
package arabic

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes Arabic-dominant UTF-8 text so that lexical
// matching is tolerant of common script variants: alef forms are unified,
// yaa forms are unified, taa marbuta is folded into haa, diacritics and
// tatweel are stripped, whitespace is collapsed, and Latin substrings are
// lowercased. Normalize is pure and idempotent.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := false
	for _, r := range s {
		switch {
		case isDiacritic(r):
			continue
		case r == tatweel:
			continue
		case unicode.IsSpace(r):
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		lastSpace = false
		b.WriteRune(foldRune(r))
	}

	return strings.TrimRight(b.String(), " ")
}

// Tokenize splits text into normalized whitespace-delimited tokens.
func Tokenize(s string) []string {
	return strings.Fields(Normalize(s))
}

const tatweel = 'ـ'

// foldRune maps equivalent Arabic letter variants to one canonical form
// and lowercases Latin letters.
func foldRune(r rune) rune {
	switch r {
	case 'آ', 'أ', 'إ', 'ٱ': // آ أ إ ٱ
		return 'ا' // ا
	case 'ى', 'ئ': // ى ئ
		return 'ي' // ي
	case 'ة': // ة
		return 'ه' // ه
	case 'ؤ': // ؤ
		return 'و' // و
	}
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return unicode.ToLower(r)
}

// isDiacritic reports whether r is an Arabic tashkeel mark.
func isDiacritic(r rune) bool {
	// Fathatan through wavy hamza below, plus the superscript alef.
	if r >= 'ً' && r <= 'ٟ' {
		return true
	}
	return r == 'ٰ'
}
