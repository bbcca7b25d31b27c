package keywords

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/creatorstack/strategist/internal/model"
)

// maxEnrichedKeywords bounds how many top keywords are sent to the
// autocomplete/trends providers; the corpus can yield thousands of
// distinct tokens and the providers are rate-sensitive, best-effort
// calls (spec §4.2).
const maxEnrichedKeywords = 20

// enrichConcurrency bounds the number of in-flight provider calls.
const enrichConcurrency = 5

// Analyzer runs the C2 keyword-mining pipeline step.
type Analyzer struct {
	autocomplete AutocompleteProvider
	trends       TrendsProvider
	cache        *memoCache
}

// NewAnalyzer builds an Analyzer. Pass NoopAutocomplete{}/NoopTrends{}
// when no external provider is configured.
func NewAnalyzer(autocomplete AutocompleteProvider, trends TrendsProvider, cacheCapacity int, cacheTTL time.Duration) *Analyzer {
	return &Analyzer{
		autocomplete: autocomplete,
		trends:       trends,
		cache:        newMemoCache(cacheCapacity, cacheTTL),
	}
}

// Result is the Analyzer's output: the mined bundle plus whether
// enrichment degraded (timed out or errored) before finishing.
type Result struct {
	Bundle   model.KeywordBundle
	Degraded bool
}

// Analyze mines keyword frequencies from rows, detects the dominant
// language, and enriches the top terms with autocomplete suggestions
// and trend signals, bounded by deadline. Enrichment failures degrade
// gracefully: the step still returns whatever it gathered before the
// deadline rather than failing the pipeline (spec §4.2, §7).
func (a *Analyzer) Analyze(ctx context.Context, rows []model.CreatorRow, deadline time.Duration) Result {
	freq := make(map[string]*model.KeywordFreq)
	var allText strings.Builder

	for rowIdx, row := range rows {
		allText.WriteString(row.Title)
		allText.WriteByte(' ')
		for _, tok := range tokenize(row.Title) {
			tok = stripAccents(tok)
			if isStopWord(tok) || len(tok) < 2 {
				continue
			}
			kf, ok := freq[tok]
			if !ok {
				kf = &model.KeywordFreq{Term: tok}
				freq[tok] = kf
			}
			kf.Frequency++
			kf.SourceRows = append(kf.SourceRows, rowIdx)
		}
	}

	keywords := make([]model.KeywordFreq, 0, len(freq))
	for _, kf := range freq {
		keywords = append(keywords, *kf)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Frequency != keywords[j].Frequency {
			return keywords[i].Frequency > keywords[j].Frequency
		}
		return keywords[i].Term < keywords[j].Term
	})

	language := detectLanguage(allText.String())

	enrichCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	topN := keywords
	if len(topN) > maxEnrichedKeywords {
		topN = topN[:maxEnrichedKeywords]
	}

	suggestions, trends, degraded := a.enrich(enrichCtx, topN)

	return Result{
		Bundle: model.KeywordBundle{
			Keywords:    keywords,
			Suggestions: suggestions,
			Trends:      trends,
			Language:    language,
		},
		Degraded: degraded,
	}
}

func (a *Analyzer) enrich(ctx context.Context, terms []model.KeywordFreq) ([]string, map[string]model.TrendInfo, bool) {
	type enrichResult struct {
		term        string
		suggestions []string
		trend       model.TrendInfo
		hasTrend    bool
	}

	results := make([]enrichResult, len(terms))
	sem := make(chan struct{}, enrichConcurrency)
	var wg sync.WaitGroup
	var degraded atomicBool

	for i, kf := range terms {
		i, term := i, kf.Term
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				degraded.set(true)
				return
			}

			sug, trend, ok := a.enrichOne(ctx, term)
			if !ok {
				degraded.set(true)
			}
			results[i] = enrichResult{term: term, suggestions: sug, trend: trend, hasTrend: ok}
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	var allSuggestions []string
	trends := make(map[string]model.TrendInfo)
	for _, r := range results {
		for _, s := range r.suggestions {
			if !seen[s] {
				seen[s] = true
				allSuggestions = append(allSuggestions, s)
			}
		}
		if r.hasTrend {
			trends[r.term] = r.trend
		}
	}

	if ctx.Err() != nil {
		degraded.set(true)
	}

	return allSuggestions, trends, degraded.get()
}

// enrichOne fetches suggestions and trend info for one term, consulting
// the memo cache first. Any provider error is swallowed and reported as
// a non-ok result: per-term enrichment failure never aborts the step.
func (a *Analyzer) enrichOne(ctx context.Context, term string) ([]string, model.TrendInfo, bool) {
	ok := true

	var suggestions []string
	if cached, hit := a.cache.get("ac:" + term); hit {
		suggestions, _ = cached.([]string)
	} else if s, err := a.autocomplete.Suggest(ctx, term); err == nil {
		suggestions = s
		a.cache.set("ac:"+term, s)
	} else {
		ok = false
	}

	var trend model.TrendInfo
	if cached, hit := a.cache.get("trend:" + term); hit {
		trend, _ = cached.(model.TrendInfo)
	} else if t, err := a.trends.Trend(ctx, term); err == nil {
		trend = t
		a.cache.set("trend:"+term, t)
	} else {
		ok = false
	}

	return suggestions, trend, ok
}

type atomicBool struct {
	mu sync.Mutex
	v  bool
}

func (b *atomicBool) set(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v {
		b.v = v
	}
}

func (b *atomicBool) get() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.v
}
