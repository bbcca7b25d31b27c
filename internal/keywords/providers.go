package keywords

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/creatorstack/strategist/internal/model"
)

// AutocompleteProvider returns search-suggestion completions for a
// seed term. Implementations are best-effort: a failure degrades the
// pipeline step rather than aborting it (spec §4.2, §7).
type AutocompleteProvider interface {
	Suggest(ctx context.Context, term string) ([]string, error)
}

// TrendsProvider returns an interest signal for a term over a recent
// window.
type TrendsProvider interface {
	Trend(ctx context.Context, term string) (model.TrendInfo, error)
}

// htmlAutocomplete scrapes a search suggestion endpoint's rendered HTML
// with goquery, the same library the pack's crawler uses for markup
// extraction, rather than parsing a provider-specific JSON contract
// that would tie this build to one vendor.
type htmlAutocomplete struct {
	client  *http.Client
	baseURL string
}

// NewHTMLAutocomplete builds an AutocompleteProvider against a
// configurable suggestion endpoint. baseURL must accept a "q" query
// parameter and return an HTML document whose suggestion items carry a
// "data-suggestion" attribute.
func NewHTMLAutocomplete(client *http.Client, baseURL string) AutocompleteProvider {
	return &htmlAutocomplete{client: client, baseURL: baseURL}
}

func (p *htmlAutocomplete) Suggest(ctx context.Context, term string) ([]string, error) {
	reqURL := fmt.Sprintf("%s?q=%s", p.baseURL, url.QueryEscape(term))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("autocomplete provider returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var suggestions []string
	doc.Find("[data-suggestion]").Each(func(_ int, s *goquery.Selection) {
		if text, ok := s.Attr("data-suggestion"); ok {
			text = strings.TrimSpace(text)
			if text != "" {
				suggestions = append(suggestions, text)
			}
		}
	})
	return suggestions, nil
}

// htmlTrends scrapes a best-effort public trends page. It never blocks
// the pipeline past the caller's context deadline.
type htmlTrends struct {
	client  *http.Client
	baseURL string
}

// NewHTMLTrends builds a TrendsProvider against a configurable trends
// endpoint.
func NewHTMLTrends(client *http.Client, baseURL string) TrendsProvider {
	return &htmlTrends{client: client, baseURL: baseURL}
}

func (p *htmlTrends) Trend(ctx context.Context, term string) (model.TrendInfo, error) {
	reqURL := fmt.Sprintf("%s?q=%s", p.baseURL, url.QueryEscape(term))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return model.TrendInfo{}, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return model.TrendInfo{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return model.TrendInfo{}, fmt.Errorf("trends provider returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return model.TrendInfo{}, err
	}

	var info model.TrendInfo
	if el := doc.Find("[data-avg-interest]").First(); el.Length() > 0 {
		if v, ok := el.Attr("data-avg-interest"); ok {
			fmt.Sscanf(v, "%f", &info.AvgInterest)
		}
	}
	if el := doc.Find("[data-peak-interest]").First(); el.Length() > 0 {
		if v, ok := el.Attr("data-peak-interest"); ok {
			fmt.Sscanf(v, "%f", &info.PeakInterest)
		}
	}
	info.Rising = info.PeakInterest > info.AvgInterest*1.2
	return info, nil
}

// NoopAutocomplete always returns no suggestions; used when no
// endpoint is configured so C2 still completes within its deadline.
type NoopAutocomplete struct{}

func (NoopAutocomplete) Suggest(_ context.Context, _ string) ([]string, error) { return nil, nil }

// NoopTrends always returns a zero-value trend.
type NoopTrends struct{}

func (NoopTrends) Trend(_ context.Context, _ string) (model.TrendInfo, error) {
	return model.TrendInfo{}, nil
}
