// Package security implements the hostile-content scan shared by the
// Tabular Input Validator (C1, spec §4.1) and the LLM prompt sanitizer
// (C4/C5, spec §4.5). Literal substrings are matched with a single
// Aho-Corasick automaton in one O(n+m) pass per cell, the same
// technique the pack's classifier service uses for rule matching;
// shape-based rules (leading formula characters, cell length) are
// layered on top with cheap scalar checks.
package security

import (
	"strings"
	"unicode"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// MaxCellChars is the default hard cap on a single cell's length before
// it is rejected outright as hostile, per spec §4.1. The pipeline's
// configured MaxCellRuns overrides this where applicable.
const MaxCellChars = 10_000

// hostileSubstrings are matched case-insensitively via the automaton.
// Patterns are lowercase; the scanner lowercases input before matching.
var hostileSubstrings = []string{
	"<script", "<iframe", "<object", "<embed",
	"javascript:", "vbscript:", "data:",
}

// promptInjectionSubstrings are additionally scanned for by
// SanitizePromptText (C4/C5); they are not cell-rejection triggers on
// their own for CSV cells, only for prompt text.
var promptInjectionSubstrings = []string{
	"ignore previous instructions", "ignore all previous instructions",
	"disregard previous instructions", "system:", "you are now",
	"new instructions:",
}

var cellMatcher = ahocorasick.NewStringMatcher(hostileSubstrings)
var promptMatcher = ahocorasick.NewStringMatcher(append(append([]string{}, hostileSubstrings...), promptInjectionSubstrings...))

// CellViolation describes why ScanCell rejected a value.
type CellViolation struct {
	Reason string
}

// ScanCell applies the mandatory CSV cell security policy of spec §4.1:
//   - leading '=', '+', '@', or '-' followed by a letter (formula injection)
//   - <script>/<iframe>/<object>/<embed> (case-insensitive)
//   - javascript:/vbscript:/data: URL protocols
//   - cell length over maxChars
//
// Legitimate negative numbers like "-500" are allowed: the '-' rule only
// fires when the character after it is a letter.
func ScanCell(raw string, maxChars int) (bool, CellViolation) {
	if maxChars <= 0 {
		maxChars = MaxCellChars
	}
	if utf8.RuneCountInString(raw) > maxChars {
		return false, CellViolation{Reason: "cell exceeds maximum length"}
	}

	trimmed := strings.TrimSpace(raw)
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '=', '+', '@':
			return false, CellViolation{Reason: "cell begins with a spreadsheet formula character"}
		case '-':
			if len(trimmed) > 1 && unicode.IsLetter(rune(trimmed[1])) {
				return false, CellViolation{Reason: "cell begins with '-' followed by a letter"}
			}
		}
	}

	if idx := cellMatcher.Match([]byte(strings.ToLower(raw))); len(idx) > 0 {
		return false, CellViolation{Reason: "cell contains a disallowed HTML/script or URL pattern"}
	}

	return true, CellViolation{}
}

// SanitizePromptText strips or flags prompt-injection and HTML-like
// content from text bound for the LLM (spec §4.5). It returns the
// cleaned text; callers that need to know whether anything was removed
// can compare length.
func SanitizePromptText(text string) string {
	lower := strings.ToLower(text)
	if idx := promptMatcher.Match([]byte(lower)); len(idx) > 0 {
		for _, pattern := range append(append([]string{}, hostileSubstrings...), promptInjectionSubstrings...) {
			text = replaceFold(text, pattern, "")
		}
	}
	return strings.TrimSpace(collapseWhitespace(text))
}

func replaceFold(s, pattern, repl string) string {
	lower := strings.ToLower(s)
	lp := strings.ToLower(pattern)
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(lower[i:], lp)
		if idx < 0 {
			b.WriteString(s[i:])
			break
		}
		b.WriteString(s[i : i+idx])
		b.WriteString(repl)
		i += idx + len(lp)
	}
	return b.String()
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
