package keywords

import "github.com/creatorstack/strategist/internal/model"

// CountFrequencies tokenizes every title in rows and returns a plain
// term->count map, with stop words and accents removed the same way
// Analyze does. Exported for the Gap Detector (C3), which needs the
// same tokenization applied independently to creator and competitor
// row sets before it can compare them.
func CountFrequencies(rows []model.CreatorRow) map[string]int {
	freq := make(map[string]int)
	for _, row := range rows {
		for _, tok := range tokenize(row.Title) {
			tok = stripAccents(tok)
			if isStopWord(tok) || len(tok) < 2 {
				continue
			}
			freq[tok]++
		}
	}
	return freq
}
