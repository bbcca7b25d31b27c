package keywords

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorstack/strategist/internal/model"
)

func TestAnalyze_FrequencyRanking(t *testing.T) {
	rows := []model.CreatorRow{
		{Title: "How to Cook Rice Fast"},
		{Title: "How to Cook Pasta Fast"},
		{Title: "Best Rice Recipes"},
	}
	a := NewAnalyzer(NoopAutocomplete{}, NoopTrends{}, 100, time.Minute)
	res := a.Analyze(context.Background(), rows, time.Second)

	require.NotEmpty(t, res.Bundle.Keywords)
	assert.Equal(t, "cook", res.Bundle.Keywords[0].Term)
	assert.Equal(t, 2, res.Bundle.Keywords[0].Frequency)
	assert.False(t, res.Degraded)
}

func TestAnalyze_LanguageDetection(t *testing.T) {
	rows := []model.CreatorRow{{Title: "How to Cook Rice"}}
	a := NewAnalyzer(NoopAutocomplete{}, NoopTrends{}, 100, time.Minute)
	res := a.Analyze(context.Background(), rows, time.Second)
	assert.Equal(t, model.LangEn, res.Bundle.Language)
}

func TestAnalyze_EmptyTitlesNoDivideByZero(t *testing.T) {
	rows := []model.CreatorRow{{Title: "123 456"}}
	a := NewAnalyzer(NoopAutocomplete{}, NoopTrends{}, 100, time.Minute)
	res := a.Analyze(context.Background(), rows, time.Second)
	assert.Equal(t, model.LangEn, res.Bundle.Language)
}

type erroringAutocomplete struct{}

func (erroringAutocomplete) Suggest(_ context.Context, _ string) ([]string, error) {
	return nil, assertErr
}

var assertErr = &testErr{"boom"}

type testErr struct{ msg string }

func (e *testErr) Error() string { return e.msg }

func TestAnalyze_DegradesOnProviderError(t *testing.T) {
	rows := []model.CreatorRow{{Title: "How to Cook Rice"}}
	a := NewAnalyzer(erroringAutocomplete{}, NoopTrends{}, 100, time.Minute)
	res := a.Analyze(context.Background(), rows, time.Second)
	assert.True(t, res.Degraded)
}
