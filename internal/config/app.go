package config

import (
	"errors"
	"time"

	"github.com/creatorstack/strategist/internal/logger"
)

// Options is the closed set of recognized configuration options for the
// strategy pipeline, per spec §9. No other options exist; anything the
// pipeline needs to be tunable lives here, nowhere else.
type Options struct {
	StorageRoot string `env:"STORAGE_ROOT" yaml:"storage_root"`

	LLMEndpoint    string        `env:"LLM_ENDPOINT"      yaml:"llm_endpoint"`
	LLMAPIKey      string        `env:"LLM_API_KEY"       yaml:"llm_api_key"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT"       yaml:"llm_timeout"`
	LLMMaxAttempts int           `env:"LLM_MAX_ATTEMPTS"  yaml:"llm_max_attempts"`

	C2TotalDeadline time.Duration `env:"C2_TOTAL_DEADLINE" yaml:"c2_total_deadline"`

	MaxCSVBytes int64 `env:"MAX_CSV_BYTES" yaml:"max_csv_bytes"`
	MaxCSVRows  int   `env:"MAX_CSV_ROWS"  yaml:"max_csv_rows"`
	MaxCellRuns int   `env:"MAX_CELL_CHARS" yaml:"max_cell_chars"`

	CacheTTL      time.Duration `env:"CACHE_TTL_S"      yaml:"cache_ttl_s"`
	CacheCapacity int           `env:"CACHE_CAPACITY"   yaml:"cache_capacity"`

	// AutocompleteURL and TrendsURL are best-effort enrichment endpoints
	// for C2 (spec §4.2). Empty means the step runs in Noop mode:
	// keyword extraction still completes, just without enrichment, and
	// never counts as a degradation since nothing was attempted.
	AutocompleteURL string `env:"AUTOCOMPLETE_URL" yaml:"autocomplete_url"`
	TrendsURL       string `env:"TRENDS_URL"        yaml:"trends_url"`

	Log    logger.Config `yaml:"log"`
	Server ServerOptions `yaml:"server"`
}

// ServerOptions configures the loopback-only HTTP playground.
type ServerOptions struct {
	Host         string        `env:"SERVER_HOST" yaml:"host"`
	Port         int           `env:"SERVER_PORT" yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// Default values, per spec §9.
const (
	DefaultLLMTimeout           = 60 * time.Second
	DefaultLLMMaxAttempts       = 3
	DefaultC2Deadline           = 8 * time.Second
	DefaultMaxCSVBytes    int64 = 52_428_800
	DefaultMaxCSVRows           = 100_000
	DefaultMaxCellChars         = 10_000
	DefaultCacheTTL             = 5 * time.Minute
	DefaultCacheCapacity        = 1000
)

// SetDefaults fills every unset Options field with its spec-mandated
// default.
func SetDefaults(o *Options) {
	if o.StorageRoot == "" {
		o.StorageRoot = "./data"
	}
	if o.LLMTimeout == 0 {
		o.LLMTimeout = DefaultLLMTimeout
	}
	if o.LLMMaxAttempts == 0 {
		o.LLMMaxAttempts = DefaultLLMMaxAttempts
	}
	if o.C2TotalDeadline == 0 {
		o.C2TotalDeadline = DefaultC2Deadline
	}
	if o.MaxCSVBytes == 0 {
		o.MaxCSVBytes = DefaultMaxCSVBytes
	}
	if o.MaxCSVRows == 0 {
		o.MaxCSVRows = DefaultMaxCSVRows
	}
	if o.MaxCellRuns == 0 {
		o.MaxCellRuns = DefaultMaxCellChars
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.CacheCapacity == 0 {
		o.CacheCapacity = DefaultCacheCapacity
	}
	o.Log.SetDefaults()
	if o.Server.Host == "" {
		o.Server.Host = "127.0.0.1"
	}
	if o.Server.Port == 0 {
		o.Server.Port = 8099
	}
	if o.Server.ReadTimeout == 0 {
		o.Server.ReadTimeout = 30 * time.Second
	}
	if o.Server.WriteTimeout == 0 {
		o.Server.WriteTimeout = 30 * time.Second
	}
	if o.Server.IdleTimeout == 0 {
		o.Server.IdleTimeout = 60 * time.Second
	}
}

// Validate checks the options that must be non-empty for the pipeline to
// run at all. LLM credentials are intentionally NOT required here: their
// absence forces the LLM step straight to fallback, per spec §6.
func (o *Options) Validate() error {
	if o.StorageRoot == "" {
		return errors.New("storage_root is required")
	}
	return nil
}

// LoadOptions loads Options from path, applying defaults and environment
// overrides.
func LoadOptions(path string) (*Options, error) {
	return LoadWithDefaults(path, SetDefaults)
}
