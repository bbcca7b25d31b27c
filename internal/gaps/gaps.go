// Package gaps implements the Content Gap Detector (C3, spec §4.3):
// it compares the creator's keyword frequencies against one or more
// competitor corpora and surfaces topics those competitors cover more
// heavily, plus the topics where the creator already leads.
package gaps

import (
	"fmt"
	"sort"

	"github.com/creatorstack/strategist/internal/keywords"
	"github.com/creatorstack/strategist/internal/model"
)

// maxGaps caps the number of gaps returned, highest opportunity first.
const maxGaps = 20

// maxStrengths caps the number of creator-strength terms returned.
const maxStrengths = 20

// topTermsPerBundle is the number of highest-frequency terms taken
// from each competitor bundle before computing the cross-bundle union,
// per spec §4.3 step 1.
const topTermsPerBundle = 50

// risingBonus is the additive opportunity-score bonus applied to a
// term flagged Rising in the creator's trends map, per spec §4.3 step 3.
const risingBonus = 0.2

// gapThreshold is the minimum opportunity_score a term must reach to
// be kept as a gap, per spec §4.3 step 4.
const gapThreshold = 0.3

// Detect compares the creator's row set against zero or more
// competitor bundles and returns the topics those competitors cover
// more than the creator, ranked by opportunity score, along with the
// topics the creator already leads on. An empty competitorBundles
// yields an empty GapBundle, never an error. trends may be nil; when
// present, a Rising entry adds risingBonus to that topic's score.
func Detect(creatorRows []model.CreatorRow, competitorBundles [][]model.CreatorRow, trends map[string]model.TrendInfo) model.GapBundle {
	if len(competitorBundles) == 0 {
		return model.GapBundle{}
	}

	creatorFreq := keywords.CountFrequencies(creatorRows)

	competitorFreqMaps := make([]map[string]int, len(competitorBundles))
	union := make(map[string]bool)
	for i, bundle := range competitorBundles {
		freq := keywords.CountFrequencies(bundle)
		competitorFreqMaps[i] = freq
		for _, term := range topTerms(freq, topTermsPerBundle) {
			union[term] = true
		}
	}

	maxCompetitorFreq := func(term string) int {
		max := 0
		for _, freq := range competitorFreqMaps {
			if f := freq[term]; f > max {
				max = f
			}
		}
		return max
	}

	var gaps []model.Gap
	for term := range union {
		cf := maxCompetitorFreq(term)
		mf := creatorFreq[term]

		denom := cf
		if denom < 1 {
			denom = 1
		}
		score := clamp(float64(cf-mf)/float64(denom), 0, 1)
		if t, ok := trends[term]; ok && t.Rising {
			score = clamp(score+risingBonus, 0, 1)
		}
		if score < gapThreshold {
			continue
		}

		gaps = append(gaps, model.Gap{
			Topic:               term,
			CompetitorFrequency: cf,
			CreatorFrequency:    mf,
			OpportunityScore:    score,
			Rationale:           rationale(term, cf, mf, trends),
		})
	}

	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].OpportunityScore != gaps[j].OpportunityScore {
			return gaps[i].OpportunityScore > gaps[j].OpportunityScore
		}
		if gaps[i].CompetitorFrequency != gaps[j].CompetitorFrequency {
			return gaps[i].CompetitorFrequency > gaps[j].CompetitorFrequency
		}
		return gaps[i].Topic < gaps[j].Topic
	})
	if len(gaps) > maxGaps {
		gaps = gaps[:maxGaps]
	}

	var strengths []string
	for term, mf := range creatorFreq {
		if mf > 0 && maxCompetitorFreq(term) == 0 {
			strengths = append(strengths, term)
		}
	}
	sort.Strings(strengths)
	if len(strengths) > maxStrengths {
		strengths = strengths[:maxStrengths]
	}

	return model.GapBundle{Gaps: gaps, CreatorStrengths: strengths}
}

// topTerms returns the n highest-frequency terms in freq, ties broken
// lexicographically for determinism.
func topTerms(freq map[string]int, n int) []string {
	terms := make([]string, 0, len(freq))
	for term := range freq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func rationale(term string, compFreq, creatorFreq int, trends map[string]model.TrendInfo) string {
	base := fmt.Sprintf("competitors cover %q in %d videos vs your %d", term, compFreq, creatorFreq)
	if t, ok := trends[term]; ok && t.Rising {
		return base + "; search interest is rising"
	}
	return base
}
