package main

import (
	"fmt"

	"github.com/creatorstack/strategist/internal/config"
	"github.com/creatorstack/strategist/internal/csvvalidate"
	"github.com/creatorstack/strategist/internal/errorkit"
	"github.com/creatorstack/strategist/internal/httpclient"
	"github.com/creatorstack/strategist/internal/keywords"
	"github.com/creatorstack/strategist/internal/llm"
	"github.com/creatorstack/strategist/internal/logger"
	"github.com/creatorstack/strategist/internal/pipeline"
	"github.com/creatorstack/strategist/internal/store"
	"github.com/creatorstack/strategist/internal/telemetry"
)

// app bundles everything a command needs after bootstrap, mirroring
// the phased Start() the pack's source-manager service uses (load
// config, build logger, wire dependencies, hand back a ready object).
type app struct {
	Options   *config.Options
	Log       logger.Logger
	Coord     *pipeline.Coordinator
	Store     *store.Store
	Telemetry *telemetry.Provider
}

func newApp(configPath string) (*app, error) {
	opts, err := config.LoadOptions(config.GetConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(opts.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	strategyStore, err := store.New(opts.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to open strategy store: %w", err)
	}

	httpClient := httpclient.New(httpclient.Config{Timeout: opts.LLMTimeout})

	var autocomplete keywords.AutocompleteProvider = keywords.NoopAutocomplete{}
	if opts.AutocompleteURL != "" {
		autocomplete = keywords.NewHTMLAutocomplete(httpClient, opts.AutocompleteURL)
	}
	var trends keywords.TrendsProvider = keywords.NoopTrends{}
	if opts.TrendsURL != "" {
		trends = keywords.NewHTMLTrends(httpClient, opts.TrendsURL)
	}

	analyzer := keywords.NewAnalyzer(
		autocomplete,
		trends,
		opts.CacheCapacity,
		opts.CacheTTL,
	)

	llmClient := llm.New(httpClient, llm.Config{
		Endpoint:    opts.LLMEndpoint,
		APIKey:      opts.LLMAPIKey,
		Timeout:     opts.LLMTimeout,
		MaxAttempts: opts.LLMMaxAttempts,
	}, log)

	telemetryProvider := telemetry.NewProvider()

	coord := &pipeline.Coordinator{
		Validate: csvvalidate.Limits{
			MaxBytes:    opts.MaxCSVBytes,
			MaxRows:     opts.MaxCSVRows,
			MaxCellRuns: opts.MaxCellRuns,
		},
		Analyzer:   analyzer,
		C2Deadline: opts.C2TotalDeadline,
		LLM:        llmClient,
		Store:      strategyStore,
		Telemetry:  telemetryProvider,
		Log:        log,
	}

	return &app{
		Options:   opts,
		Log:       log,
		Coord:     coord,
		Store:     strategyStore,
		Telemetry: telemetryProvider,
	}, nil
}

// exitCodeFor maps a returned error to a process exit code: rejected
// input (InvalidInput or HostileInput) exits 2 and TooLarge exits 3;
// the other kinds of the closed error taxonomy get their own stable,
// scriptable codes instead of every failure collapsing to a bare "1".
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	switch errorkit.KindOf(err) {
	case errorkit.InvalidInput, errorkit.HostileInput:
		return 2
	case errorkit.TooLarge:
		return 3
	case errorkit.UpstreamUnavailable, errorkit.UpstreamRejected:
		return 4
	case errorkit.StorageFailure:
		return 5
	case errorkit.Cancelled:
		return 130
	default:
		return 1
	}
}
