// Package model holds the data types shared across the pipeline (spec §3).
// CreatorRow through CandidateSet are created, consumed within a single
// pipeline invocation, and discarded; Strategy is the persisted artifact.
package model

import "time"

// CreatorRow is one validated, sanitized row of a creator or competitor
// CSV/XLSX, after C1. Only Title is required; absence of an optional
// numeric field is distinguished from zero.
type CreatorRow struct {
	VideoID           string     `json:"video_id,omitempty"`
	Title             string     `json:"title"`
	Views             *int64     `json:"views,omitempty"`
	Likes             *int64     `json:"likes,omitempty"`
	Comments          *int64     `json:"comments,omitempty"`
	PublishedAt       *time.Time `json:"published_at,omitempty"`
	Country           string     `json:"country,omitempty"`
	CTR               *float64   `json:"ctr,omitempty"`
	AvgViewDurationS  *float64   `json:"avg_view_duration_s,omitempty"`
	Impressions       *int64     `json:"impressions,omitempty"`
}

// Language is the closed set of languages C2 can detect.
type Language string

const (
	LangEn    Language = "en"
	LangBn    Language = "bn"
	LangOther Language = "other"
)

// KeywordFreq is one mined term with its frequency and the source row
// indices it came from.
type KeywordFreq struct {
	Term       string `json:"term"`
	Frequency  int    `json:"frequency"`
	SourceRows []int  `json:"source_rows"`
}

// TrendInfo is the best-effort trend signal for one keyword.
type TrendInfo struct {
	AvgInterest  float64 `json:"avg_interest"`
	PeakInterest float64 `json:"peak_interest"`
	Rising       bool    `json:"rising"`
}

// KeywordBundle is the C2 output.
type KeywordBundle struct {
	Keywords    []KeywordFreq        `json:"keywords"`
	Suggestions []string             `json:"suggestions"`
	Trends      map[string]TrendInfo `json:"trends"`
	Language    Language             `json:"language"`
}

// Gap is one topic the competitor set covers more than the creator does.
type Gap struct {
	Topic               string  `json:"topic"`
	CompetitorFrequency int     `json:"competitor_frequency"`
	CreatorFrequency    int     `json:"creator_frequency"`
	OpportunityScore    float64 `json:"opportunity_score"`
	Rationale           string  `json:"rationale"`
}

// GapBundle is the C3 output.
type GapBundle struct {
	Gaps              []Gap    `json:"gaps"`
	CreatorStrengths  []string `json:"creator_strengths"`
}

// Tone is the closed set of psychological-style selectors (spec §9).
type Tone string

const (
	ToneCuriosity  Tone = "curiosity"
	ToneAuthority  Tone = "authority"
	ToneFear       Tone = "fear"
	TonePersuasive Tone = "persuasive"
	ToneEngaging   Tone = "engaging"
)

// ValidTones enumerates the canonical set; any other string is an error.
var ValidTones = map[Tone]bool{
	ToneCuriosity: true, ToneAuthority: true, ToneFear: true,
	TonePersuasive: true, ToneEngaging: true,
}

// Brief is the creator's creative intent.
type Brief struct {
	Goal          string `json:"goal"`
	Audience      string `json:"audience"`
	Tone          Tone   `json:"tone"`
	LanguageHint  string `json:"language_hint,omitempty"`
}

// PromptMetadata describes how a Prompt was assembled.
type PromptMetadata struct {
	Tone            Tone     `json:"tone"`
	TemplateVersion int      `json:"template_version"`
	IncludedKeywords []string `json:"included_keywords"`
	IncludedGaps    []string `json:"included_gaps"`
	ExamplesUsed    []string `json:"examples_used"`
}

// Prompt is the C4 output: the opaque rendered prompt text plus its
// construction metadata.
type Prompt struct {
	Text     string         `json:"text"`
	Metadata PromptMetadata `json:"metadata"`
}

// CandidateSource distinguishes an LLM-produced CandidateSet from the
// deterministic fallback one.
type CandidateSource string

const (
	SourceLLM      CandidateSource = "llm"
	SourceFallback CandidateSource = "fallback"
)

// CandidateSet is the C5 output, later reshaped by C6.
type CandidateSet struct {
	Titles          []string        `json:"titles"`
	Descriptions    []string        `json:"descriptions"`
	Tags            []string        `json:"tags"`
	ThumbnailLines  []string        `json:"thumbnail_lines"`
	Source          CandidateSource `json:"source"`
	Confidence      float64         `json:"confidence"`
}

// PsychologicalMetadata records which triggers C6 applied and how it
// reordered the LLM's candidate titles.
type PsychologicalMetadata struct {
	Tone            Tone  `json:"tone"`
	TriggersApplied []string `json:"triggers_applied"`
	RerankDeltas    []int `json:"rerank_deltas"`
}

// PipelineTiming records per-step wall-clock duration and which steps
// degraded to best-effort/fallback behavior.
type PipelineTiming struct {
	DurationMs    int64            `json:"duration_ms"`
	StepTimingsMs map[string]int64 `json:"step_timings_ms"`
	DegradedSteps []string         `json:"degraded_steps"`
}

// Strategy is the complete persisted artifact of one pipeline run
// (spec §3). Once persisted it is read-only; corrections are new
// records, never in-place edits.
type Strategy struct {
	ID                    string                `json:"id"`
	CreatedAt             time.Time             `json:"created_at"`
	Brief                 Brief                 `json:"brief"`
	InputFingerprint      string                `json:"input_fingerprint"`
	Keywords              KeywordBundle         `json:"keywords"`
	Gaps                  *GapBundle            `json:"gaps,omitempty"`
	Candidates            CandidateSet          `json:"candidates"`
	PsychologicalMetadata PsychologicalMetadata `json:"psychological_metadata"`
	Pipeline              PipelineTiming        `json:"pipeline"`
	Version               int                   `json:"version"`
	Prompt                PromptMetadata        `json:"prompt"`
	CorrelationID         string                `json:"correlation_id"`
}

// Summary is the lightweight index record listed by the Strategy Store.
type Summary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Goal        string    `json:"goal"`
	Tone        Tone      `json:"tone"`
	Fingerprint string    `json:"fingerprint"`
	FilePath    string    `json:"file_path"`
}

// CurrentVersion is the Strategy schema version written by this build.
const CurrentVersion = 1
