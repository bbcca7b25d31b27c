package store

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorstack/strategist/internal/errorkit"
	"github.com/creatorstack/strategist/internal/model"
)

func TestPutAndGet(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	strategy := model.Strategy{
		CreatedAt:        time.Now(),
		InputFingerprint: "fp-1",
		Brief:            model.Brief{Goal: "grow channel", Tone: model.ToneCuriosity},
	}
	saved, err := s.Put(strategy)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	loaded, err := s.Get(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "grow channel", loaded.Brief.Goal)
}

func TestGet_MalformedIDRejected(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get("../../etc/passwd")
	require.Error(t, err)
	assert.Equal(t, errorkit.InvalidInput, errorkit.KindOf(err))
}

func TestGet_UnknownIDRejected(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get("deadbeef")
	require.Error(t, err)
	assert.Equal(t, errorkit.InvalidInput, errorkit.KindOf(err))
}

func TestList_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	first := time.Now().Add(-time.Hour)
	second := time.Now()

	_, err = s.Put(model.Strategy{CreatedAt: first, InputFingerprint: "a", Brief: model.Brief{Goal: "first"}})
	require.NoError(t, err)
	_, err = s.Put(model.Strategy{CreatedAt: second, InputFingerprint: "b", Brief: model.Brief{Goal: "second"}})
	require.NoError(t, err)

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Goal)
}

func TestSearch_MatchesGoal(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Put(model.Strategy{CreatedAt: time.Now(), InputFingerprint: "a", Brief: model.Brief{Goal: "grow cooking channel"}})
	require.NoError(t, err)
	_, err = s.Put(model.Strategy{CreatedAt: time.Now(), InputFingerprint: "b", Brief: model.Brief{Goal: "launch travel vlog"}})
	require.NoError(t, err)

	results, err := s.Search("cooking")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "grow cooking channel", results[0].Goal)
}

func TestPutAndGet_RoundTripPreservesFullStruct(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	strategy := model.Strategy{
		CreatedAt:        time.Now(),
		InputFingerprint: "fp-full",
		Brief:            model.Brief{Goal: "grow channel", Audience: "home cooks", Tone: model.ToneCuriosity},
		Keywords: model.KeywordBundle{
			Keywords: []model.KeywordFreq{{Term: "rice", Frequency: 3}},
			Language: model.LangEn,
		},
		Gaps: &model.GapBundle{
			Gaps: []model.Gap{{Topic: "instant pot", CompetitorFrequency: 5, CreatorFrequency: 1, OpportunityScore: 4, Rationale: "competitor covers this 5x"}},
		},
		Candidates: model.CandidateSet{
			Titles:     []string{"How to Cook Rice Perfectly"},
			Tags:       []string{"rice", "cooking"},
			Source:     model.SourceLLM,
			Confidence: 0.85,
		},
		PsychologicalMetadata: model.PsychologicalMetadata{Tone: model.ToneCuriosity, TriggersApplied: []string{"curiosity_gap"}},
		Pipeline:              model.PipelineTiming{DurationMs: 120, StepTimingsMs: map[string]int64{"c1": 10}},
		Version:               model.CurrentVersion,
		Prompt:                model.PromptMetadata{Tone: model.ToneCuriosity, TemplateVersion: 1},
		CorrelationID:         "11111111-1111-1111-1111-111111111111",
	}

	saved, err := s.Put(strategy)
	require.NoError(t, err)

	loaded, err := s.Get(saved.ID)
	require.NoError(t, err)

	if diff := cmp.Diff(saved, loaded); diff != "" {
		t.Errorf("round-tripped strategy differs (-put +get):\n%s", diff)
	}
}

func TestPut_CollisionSuffix(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	same := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first, err := s.Put(model.Strategy{CreatedAt: same, InputFingerprint: "same", Brief: model.Brief{Goal: "one"}})
	require.NoError(t, err)
	second, err := s.Put(model.Strategy{CreatedAt: same, InputFingerprint: "same", Brief: model.Brief{Goal: "two"}})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}
