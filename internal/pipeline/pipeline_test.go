package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorstack/strategist/internal/csvvalidate"
	"github.com/creatorstack/strategist/internal/keywords"
	"github.com/creatorstack/strategist/internal/llm"
	"github.com/creatorstack/strategist/internal/logger"
	"github.com/creatorstack/strategist/internal/model"
	"github.com/creatorstack/strategist/internal/store"
	"github.com/creatorstack/strategist/internal/telemetry"
)

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	s, err := store.New(t.TempDir())
	require.NoError(t, err)

	return &Coordinator{
		Validate:   csvvalidate.DefaultLimits(),
		Analyzer:   keywords.NewAnalyzer(keywords.NoopAutocomplete{}, keywords.NoopTrends{}, 100, time.Minute),
		C2Deadline: time.Second,
		LLM:        llm.New(nil, llm.Config{}, nil),
		Store:      s,
		Telemetry:  telemetry.NewProvider(),
		Log:        logger.NewNop(),
	}
}

func TestRun_EndToEnd(t *testing.T) {
	c := newTestCoordinator(t)
	input := Input{
		Brief:      model.Brief{Goal: "grow channel", Audience: "home cooks", Tone: model.ToneCuriosity},
		CreatorCSV: []byte("Title,Views\nHow to Cook Rice,1000\nHow to Cook Pasta,500\n"),
	}

	strategy, err := c.Run(context.Background(), input)
	require.NoError(t, err)
	assert.NotEmpty(t, strategy.ID)
	assert.NotEmpty(t, strategy.Candidates.Titles)
	assert.Equal(t, model.SourceFallback, strategy.Candidates.Source)
	assert.NotEmpty(t, strategy.CorrelationID)
}

func TestRun_InvalidTone(t *testing.T) {
	c := newTestCoordinator(t)
	input := Input{
		Brief:      model.Brief{Goal: "x", Audience: "y", Tone: "not-a-tone"},
		CreatorCSV: []byte("Title\nSomething\n"),
	}
	_, err := c.Run(context.Background(), input)
	require.Error(t, err)
}

func TestRun_WithCompetitorData(t *testing.T) {
	c := newTestCoordinator(t)
	input := Input{
		Brief:      model.Brief{Goal: "grow channel", Audience: "home cooks", Tone: model.ToneAuthority},
		CreatorCSV: []byte("Title\nMy Cooking Show\n"),
		CompetitorCSVs: [][]byte{
			[]byte("Title\nBudget Travel Tips\nBudget Travel Hacks\nBudget Travel Guide\n"),
		},
	}
	strategy, err := c.Run(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, strategy.Gaps)
	assert.NotEmpty(t, strategy.Gaps.Gaps)
}

func TestRun_WithMultipleCompetitorFiles(t *testing.T) {
	c := newTestCoordinator(t)
	input := Input{
		Brief:      model.Brief{Goal: "grow channel", Audience: "home cooks", Tone: model.ToneAuthority},
		CreatorCSV: []byte("Title\nMy Cooking Show\n"),
		CompetitorCSVs: [][]byte{
			[]byte("Title\nBudget Travel Tips\nBudget Travel Hacks\nBudget Travel Guide\n"),
			[]byte("Title\nBudget Travel Secrets\nBudget Travel Review\n"),
		},
	}
	strategy, err := c.Run(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, strategy.Gaps)
	assert.NotEmpty(t, strategy.Gaps.Gaps)
}

func TestRun_OneBadCompetitorFileDegradesWithoutAbortingRun(t *testing.T) {
	c := newTestCoordinator(t)
	input := Input{
		Brief:      model.Brief{Goal: "grow channel", Audience: "home cooks", Tone: model.ToneAuthority},
		CreatorCSV: []byte("Title\nMy Cooking Show\n"),
		CompetitorCSVs: [][]byte{
			[]byte("Title\nBudget Travel Tips\nBudget Travel Hacks\nBudget Travel Guide\n"),
			[]byte("NotTitle\nx\n"), // missing title column: validation fails
		},
	}
	strategy, err := c.Run(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, strategy.Gaps)
	assert.NotEmpty(t, strategy.Gaps.Gaps)
	assert.Contains(t, strategy.Pipeline.DegradedSteps, "validate_competitor")
}
