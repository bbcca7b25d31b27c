// Package keywords implements the Keyword Analyzer (C2, spec §4.2):
// tokenization, language detection, stop-word removal, frequency
// ranking, and best-effort autocomplete/trend enrichment under a
// bounded total deadline.
package keywords

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/creatorstack/strategist/internal/model"
)

// tokenize splits title text into lowercase word tokens; it does not
// strip accents (callers run stripAccents first). Punctuation and digits-only tokens are dropped; a token must
// contain at least one letter to survive.
func tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			tok := b.String()
			if hasLetter(tok) {
				tokens = append(tokens, tok)
			}
			b.Reset()
		}
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			b.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// stripAccents removes diacritical marks via Unicode NFD decomposition
// followed by mark removal and NFC recomposition, the same technique
// the pack's classifier uses to normalize place names.
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// detectLanguage classifies text as English, Bengali, or Other by
// character-class ratio: Bengali or Latin letters must exceed 60% of
// meaningful (letter) characters to claim the language, else Other.
// The ratio denominator is guarded: text with no letters at all
// defaults to English rather than dividing by zero.
func detectLanguage(text string) model.Language {
	var bengali, latin, otherLetters int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Bengali, r):
			bengali++
		case unicode.Is(unicode.Latin, r):
			latin++
		case unicode.IsLetter(r):
			otherLetters++
		}
	}
	total := bengali + latin + otherLetters
	if total == 0 {
		return model.LangEn
	}
	if float64(bengali)/float64(total) > 0.6 {
		return model.LangBn
	}
	if float64(latin)/float64(total) > 0.6 {
		return model.LangEn
	}
	return model.LangOther
}
