// Package pipeline implements the Pipeline Coordinator (C8, spec
// §4.8): it runs C1 through C7 in strict order for one analysis
// request, carries a correlation id through every step, records
// per-step timing and degradation, and applies the partial-failure
// policy of spec §4.8/§7 (a step may degrade to a best-effort result,
// but a hard failure in C1, C2's core tokenization, or C7 aborts the
// whole run).
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/creatorstack/strategist/internal/csvvalidate"
	"github.com/creatorstack/strategist/internal/emotion"
	"github.com/creatorstack/strategist/internal/errorkit"
	"github.com/creatorstack/strategist/internal/gaps"
	"github.com/creatorstack/strategist/internal/keywords"
	"github.com/creatorstack/strategist/internal/llm"
	"github.com/creatorstack/strategist/internal/logger"
	"github.com/creatorstack/strategist/internal/model"
	"github.com/creatorstack/strategist/internal/prompt"
	"github.com/creatorstack/strategist/internal/store"
	"github.com/creatorstack/strategist/internal/telemetry"
)

// Input is one analysis request.
type Input struct {
	Brief          model.Brief
	CreatorCSV     []byte
	CompetitorCSVs [][]byte // optional: empty skips the Gap Detector step
}

// Coordinator wires the pipeline steps together.
type Coordinator struct {
	Validate    csvvalidate.Limits
	Analyzer    *keywords.Analyzer
	C2Deadline  time.Duration
	LLM         *llm.Client
	Store       *store.Store
	Telemetry   *telemetry.Provider
	Log         logger.Logger
}

// Run executes one full pipeline invocation and persists the result.
func (c *Coordinator) Run(ctx context.Context, input Input) (model.Strategy, error) {
	idBytes := uuid.New()
	correlationID := hex.EncodeToString(idBytes[:8])
	log := c.Log.With(logger.String("correlation_id", correlationID))
	runStart := time.Now()

	if !model.ValidTones[input.Brief.Tone] {
		return model.Strategy{}, errorkit.New(errorkit.InvalidInput, "brief tone is not a recognized value")
	}

	ctx, rootSpan := c.Telemetry.StartSpan(ctx, "pipeline.run", attribute.String("correlation_id", correlationID))
	defer rootSpan.End()

	timings := map[string]int64{}
	var degradedSteps []string

	recordStep := func(name string, start time.Time, degraded bool) {
		d := time.Since(start)
		timings[name] = d.Milliseconds()
		c.Telemetry.Metrics.StepDuration.WithLabelValues(name).Observe(d.Seconds())
		if degraded {
			degradedSteps = append(degradedSteps, name)
			c.Telemetry.Metrics.StepDegraded.WithLabelValues(name).Inc()
		}
	}

	if err := ctx.Err(); err != nil {
		return model.Strategy{}, errorkit.Wrap(errorkit.Cancelled, "run cancelled before start", err)
	}

	// C1: validate creator rows. A hard failure here aborts the run.
	c1Start := time.Now()
	creatorResult, err := csvvalidate.Validate(input.CreatorCSV, c.Validate)
	if err != nil {
		recordStep("validate_creator", c1Start, false)
		log.Error("creator csv validation failed", logger.Error(err))
		return model.Strategy{}, err
	}
	recordStep("validate_creator", c1Start, false)
	for _, w := range creatorResult.Warnings {
		log.Warn("creator csv warning", logger.String("warning", w))
	}

	// C1 validates each competitor CSV too; a failure on an individual
	// competitor degrades that one file rather than the whole run
	// (spec §4.8 step 3). Validation fans out across competitors, the
	// one place besides C2's provider calls where parallelism is
	// allowed within a single invocation (spec §5).
	var competitorBundles [][]model.CreatorRow
	if len(input.CompetitorCSVs) > 0 {
		type competitorOutcome struct {
			rows []model.CreatorRow
			err  error
		}
		outcomes := make([]competitorOutcome, len(input.CompetitorCSVs))
		var wg sync.WaitGroup
		for i, csv := range input.CompetitorCSVs {
			wg.Add(1)
			go func(i int, csv []byte) {
				defer wg.Done()
				res, err := csvvalidate.Validate(csv, c.Validate)
				if err != nil {
					outcomes[i] = competitorOutcome{err: err}
					return
				}
				outcomes[i] = competitorOutcome{rows: res.Rows}
			}(i, csv)
		}
		wg.Wait()

		for _, o := range outcomes {
			if o.err != nil {
				log.Warn("competitor csv validation failed, skipping that competitor", logger.Error(o.err))
				degradedSteps = append(degradedSteps, "validate_competitor")
				continue
			}
			competitorBundles = append(competitorBundles, o.rows)
		}
	}

	if err := ctx.Err(); err != nil {
		return model.Strategy{}, errorkit.Wrap(errorkit.Cancelled, "run cancelled after validation", err)
	}

	// C2: keyword mining. Tokenization/frequency is pure and cannot
	// fail; only the enrichment half can degrade.
	c2Start := time.Now()
	kwResult := c.Analyzer.Analyze(ctx, creatorResult.Rows, c.effectiveC2Deadline())
	recordStep("keywords", c2Start, kwResult.Degraded)

	if err := ctx.Err(); err != nil {
		return model.Strategy{}, errorkit.Wrap(errorkit.Cancelled, "run cancelled after keyword mining", err)
	}

	// C3: gap detection, only when at least one competitor bundle
	// validated.
	var gapBundle *model.GapBundle
	if len(competitorBundles) > 0 {
		c3Start := time.Now()
		gb := gaps.Detect(creatorResult.Rows, competitorBundles, kwResult.Bundle.Trends)
		gapBundle = &gb
		recordStep("gaps", c3Start, false)
	}

	// C4: prompt assembly. Pure and deterministic; cannot degrade.
	c4Start := time.Now()
	renderedPrompt := prompt.Render(input.Brief, kwResult.Bundle, gapBundle)
	recordStep("prompt", c4Start, false)

	if err := ctx.Err(); err != nil {
		return model.Strategy{}, errorkit.Wrap(errorkit.Cancelled, "run cancelled after prompt assembly", err)
	}

	// C5: LLM generation, with its own retry/circuit-breaker/fallback.
	c5Start := time.Now()
	candidates := c.LLM.Generate(ctx, renderedPrompt)
	recordStep("generate", c5Start, candidates.Source == model.SourceFallback)

	// C6: emotion/tone optimization. Pure; cannot degrade.
	c6Start := time.Now()
	optimized, psychMeta := emotion.Optimize(candidates, input.Brief.Tone)
	recordStep("optimize", c6Start, false)

	strategy := model.Strategy{
		CreatedAt:             time.Now(),
		Brief:                 input.Brief,
		InputFingerprint:      fingerprint(input.CreatorCSV, input.CompetitorCSVs),
		Keywords:              kwResult.Bundle,
		Gaps:                  gapBundle,
		Candidates:            optimized,
		PsychologicalMetadata: psychMeta,
		Prompt:                renderedPrompt.Metadata,
		CorrelationID:         correlationID,
	}

	// The timing summary is attached before the write so the persisted
	// record carries the same pipeline block as the returned one.
	strategy.Pipeline = model.PipelineTiming{
		DurationMs:    time.Since(runStart).Milliseconds(),
		StepTimingsMs: maps.Clone(timings),
		DegradedSteps: degradedSteps,
	}

	// C7: persistence. A hard failure here aborts the run: an
	// unpersisted strategy is not a usable result.
	c7Start := time.Now()
	saved, err := c.Store.Put(strategy)
	if err != nil {
		recordStep("store", c7Start, false)
		c.Telemetry.Metrics.RunsTotal.WithLabelValues("storage_failure").Inc()
		log.Error("failed to persist strategy", logger.Error(err))
		return model.Strategy{}, err
	}
	recordStep("store", c7Start, false)

	c.Telemetry.Metrics.RunsTotal.WithLabelValues("success").Inc()
	c.Telemetry.Metrics.RunDuration.Observe(time.Since(runStart).Seconds())
	log.Info("pipeline run completed",
		logger.String("strategy_id", saved.ID),
		logger.Duration("duration", time.Since(runStart)),
		logger.Strings("degraded_steps", degradedSteps))

	return saved, nil
}

func (c *Coordinator) effectiveC2Deadline() time.Duration {
	if c.C2Deadline > 0 {
		return c.C2Deadline
	}
	return 8 * time.Second
}

// fingerprint derives a stable identity for one input, used both for
// strategy id derivation and for detecting re-runs on unchanged input.
// Competitor CSVs are hashed in the order supplied: callers are
// expected to pass a stable order (e.g. the CLI's comma-separated
// list, or the HTTP form's field order) so identical inputs yield
// identical fingerprints per spec §8.
func fingerprint(creatorCSV []byte, competitorCSVs [][]byte) string {
	h := sha256.New()
	h.Write(creatorCSV)
	for _, csv := range competitorCSVs {
		h.Write([]byte{0})
		h.Write(csv)
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}
