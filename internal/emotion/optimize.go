// Package emotion implements the Emotion Optimizer (C6, spec §4.6): a
// pure, deterministic pass over the LLM (or fallback) candidate set
// that enforces title length bands, reorders titles by tone-lexicon
// strength, and normalizes tags and thumbnail lines. It never calls
// the network.
package emotion

import (
	"sort"
	"strings"

	"github.com/creatorstack/strategist/internal/model"
)

const (
	minTitleChars = 30
	maxTitleChars = 80
	// minBandSurvivors is the clamp rule of spec §4.6: strict in-band
	// filtering only applies if at least this many titles would survive
	// it; otherwise every title is forced into the band instead of being
	// dropped, so a thin LLM response never empties the candidate set.
	minBandSurvivors = 5

	maxThumbnailWords = 4
	maxTags           = 15
)

// toneLexicon scores each tone's signature words; a title accrues one
// point per case-insensitive hit.
var toneLexicon = map[model.Tone][]string{
	model.ToneCuriosity:  {"secret", "truth", "nobody", "hidden", "surprising", "reveal", "why"},
	model.ToneAuthority:  {"guide", "expert", "proven", "complete", "master", "professional", "definitive"},
	model.ToneFear:       {"mistake", "warning", "stop", "danger", "costing", "wrong", "never"},
	model.TonePersuasive: {"best", "better", "today", "now", "changes everything", "easiest"},
	model.ToneEngaging:   {"you", "your", "let's", "together", "honest", "come"},
}

// Optimize returns a copy of candidates reordered and normalized for
// tone, and the psychological metadata describing what it did.
func Optimize(candidates model.CandidateSet, tone model.Tone) (model.CandidateSet, model.PsychologicalMetadata) {
	banded := clampTitleBand(candidates.Titles)

	ranked, deltas, triggers := rerankByTone(banded, tone)

	out := candidates
	out.Titles = ranked
	out.Tags = normalizeTags(candidates.Tags)
	out.ThumbnailLines = normalizeThumbnails(candidates.ThumbnailLines)

	return out, model.PsychologicalMetadata{
		Tone:            tone,
		TriggersApplied: triggers,
		RerankDeltas:    deltas,
	}
}

func clampTitleBand(titles []string) []string {
	var inBand []string
	for _, t := range titles {
		if len(t) >= minTitleChars && len(t) <= maxTitleChars {
			inBand = append(inBand, t)
		}
	}
	if len(inBand) >= minBandSurvivors {
		return inBand
	}

	out := make([]string, len(titles))
	for i, t := range titles {
		out[i] = forceToBand(t)
	}
	return out
}

func forceToBand(title string) string {
	title = strings.TrimSpace(title)
	if len(title) < minTitleChars {
		pad := " — Full Breakdown Inside"
		for len(title) < minTitleChars && len(pad) > 0 {
			title += pad
			pad = ""
		}
		if len(title) < minTitleChars {
			title = title + strings.Repeat(".", minTitleChars-len(title))
		}
	}
	if len(title) > maxTitleChars {
		cut := maxTitleChars
		for cut > 0 && title[cut-1] != ' ' {
			cut--
		}
		if cut == 0 {
			cut = maxTitleChars
		}
		title = strings.TrimSpace(title[:cut])
	}
	return title
}

// rerankByTone stable-sorts titles by descending tone-lexicon score and
// records, for each title in its new position, how many places it
// moved from its original index (positive = moved earlier).
func rerankByTone(titles []string, tone model.Tone) ([]string, []int, []string) {
	lexicon := toneLexicon[tone]

	type scored struct {
		title    string
		origIdx  int
		score    int
		triggers []string
	}

	items := make([]scored, len(titles))
	triggerSet := make(map[string]bool)
	for i, t := range titles {
		lower := strings.ToLower(t)
		var hits []string
		for _, word := range lexicon {
			if strings.Contains(lower, word) {
				hits = append(hits, word)
			}
		}
		items[i] = scored{title: t, origIdx: i, score: len(hits), triggers: hits}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	ranked := make([]string, len(items))
	deltas := make([]int, len(items))
	for newIdx, it := range items {
		ranked[newIdx] = it.title
		deltas[newIdx] = it.origIdx - newIdx
		for _, trig := range it.triggers {
			triggerSet[trig] = true
		}
	}

	triggers := make([]string, 0, len(triggerSet))
	for t := range triggerSet {
		triggers = append(triggers, t)
	}
	sort.Strings(triggers)

	return ranked, deltas, triggers
}

func normalizeThumbnails(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) > maxThumbnailWords {
			words = words[:maxThumbnailWords]
		}
		out = append(out, strings.ToUpper(strings.Join(words, " ")))
	}
	return out
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		norm := strings.ToLower(strings.TrimSpace(tag))
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
		if len(out) >= maxTags {
			break
		}
	}
	return out
}
