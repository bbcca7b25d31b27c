// Package prompt implements the Prompt Enhancer (C4, spec §4.4): it
// assembles a deterministic, tone-conditioned LLM prompt from the
// creator's brief, mined keywords, and content gaps, then sanitizes and
// caps it before it leaves the process.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/creatorstack/strategist/internal/model"
	"github.com/creatorstack/strategist/internal/security"
)

// MaxPromptChars is the hard cap on rendered prompt length (spec §4.4).
const MaxPromptChars = 10_000

// TemplateVersion is bumped whenever the prompt's structural template
// changes in a way that would affect reproducibility of a past run.
const TemplateVersion = 1

// maxKeywordsInPrompt and maxGapsInPrompt bound how much of the mined
// data is actually quoted into the prompt text, independent of how
// much C2/C3 gathered.
const (
	maxKeywordsInPrompt = 15
	maxGapsInPrompt     = 8
)

// toneTriggers is the registry of psychological framing lines injected
// into the prompt per tone. The Emotion Optimizer (C6) does not read
// these lines; it scores titles against its own per-tone word lexicon.
var toneTriggers = map[model.Tone]string{
	model.ToneCuriosity:  "Create an information gap the viewer must click to close. Hint at a surprising reveal without giving it away.",
	model.ToneAuthority:  "Write with the confident, credentialed voice of someone who has already solved this problem for others.",
	model.ToneFear:       "Name a concrete, plausible cost of inaction, then pivot to the fix this video offers.",
	model.TonePersuasive: "Lead with the single biggest benefit the viewer gets from watching, stated as a direct promise.",
	model.ToneEngaging:   "Address the viewer directly and invite them into a shared moment or in-joke with the community.",
}

// Render assembles the C5-bound prompt text and its metadata. brief.Tone
// must already be validated against model.ValidTones by the caller.
func Render(brief model.Brief, kw model.KeywordBundle, gb *model.GapBundle) model.Prompt {
	var b strings.Builder
	var includedKeywords, includedGaps []string

	fmt.Fprintf(&b, "You are helping a content creator plan their next video.\n\n")
	fmt.Fprintf(&b, "Goal: %s\n", security.SanitizePromptText(brief.Goal))
	fmt.Fprintf(&b, "Audience: %s\n", security.SanitizePromptText(brief.Audience))
	fmt.Fprintf(&b, "Desired tone: %s\n\n", brief.Tone)

	if trigger, ok := toneTriggers[brief.Tone]; ok {
		fmt.Fprintf(&b, "Tone guidance: %s\n\n", trigger)
	}

	keywordTerms := topKeywordTerms(kw.Keywords, maxKeywordsInPrompt)
	if len(keywordTerms) > 0 {
		fmt.Fprintf(&b, "Frequently used keywords from the creator's past titles: %s\n", strings.Join(keywordTerms, ", "))
		includedKeywords = keywordTerms
	}
	if len(kw.Suggestions) > 0 {
		fmt.Fprintf(&b, "Related search suggestions: %s\n", strings.Join(kw.Suggestions, ", "))
	}
	b.WriteString("\n")

	if gb != nil && len(gb.Gaps) > 0 {
		gapTopics := topGapTopics(gb.Gaps, maxGapsInPrompt)
		fmt.Fprintf(&b, "Content gaps versus competitors (topics they cover more than you do): %s\n", strings.Join(gapTopics, ", "))
		includedGaps = gapTopics
		if len(gb.CreatorStrengths) > 0 {
			fmt.Fprintf(&b, "Your existing strengths: %s\n", strings.Join(gb.CreatorStrengths, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("Produce: 5 candidate video titles, 1 description, 5 tags, and 3 thumbnail text lines. ")
	b.WriteString("Titles must be 30 to 80 characters. Thumbnail lines must be at most 4 words each, in caps.\n")

	text := security.SanitizePromptText(b.String())
	text = truncateToFit(text, MaxPromptChars)

	return model.Prompt{
		Text: text,
		Metadata: model.PromptMetadata{
			Tone:             brief.Tone,
			TemplateVersion:  TemplateVersion,
			IncludedKeywords: includedKeywords,
			IncludedGaps:     includedGaps,
		},
	}
}

func topKeywordTerms(keywords []model.KeywordFreq, n int) []string {
	if len(keywords) > n {
		keywords = keywords[:n]
	}
	terms := make([]string, len(keywords))
	for i, kf := range keywords {
		terms[i] = kf.Term
	}
	return terms
}

func topGapTopics(gaps []model.Gap, n int) []string {
	sorted := make([]model.Gap, len(gaps))
	copy(sorted, gaps)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OpportunityScore > sorted[j].OpportunityScore
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	topics := make([]string, len(sorted))
	for i, g := range sorted {
		topics[i] = g.Topic
	}
	return topics
}

// truncateToFit trims text down to max characters without splitting a
// rune, walking back from the cap until it lands on a valid boundary.
func truncateToFit(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !isRuneStart(text[cut]) {
		cut--
	}
	return strings.TrimSpace(text[:cut])
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
