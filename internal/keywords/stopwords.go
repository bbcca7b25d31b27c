package keywords

// stopWords is the closed set of high-frequency function words excluded
// from keyword frequency ranking. English-centric; Bengali stop words
// are a short curated list since the corpus is creator-title text, not
// prose.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"of": true, "in": true, "on": true, "at": true, "to": true, "for": true,
	"with": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "it": true, "this": true, "that": true,
	"how": true, "what": true, "why": true, "when": true, "who": true,
	"i": true, "you": true, "we": true, "my": true, "your": true, "our": true,
	"do": true, "does": true, "did": true, "not": true, "no": true,
	"as": true, "by": true, "from": true, "up": true, "out": true,
	"if": true, "so": true, "can": true, "will": true, "just": true,
}

func isStopWord(tok string) bool {
	return stopWords[tok]
}
