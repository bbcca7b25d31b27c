// Package llm implements the LLM Client (C5, spec §4.5): it calls the
// configured text-generation endpoint with retry and circuit-breaker
// protection, and falls back to a deterministic candidate set when the
// endpoint is unavailable or returns something unusable.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/creatorstack/strategist/internal/circuitbreaker"
	"github.com/creatorstack/strategist/internal/errorkit"
	"github.com/creatorstack/strategist/internal/logger"
	"github.com/creatorstack/strategist/internal/model"
	"github.com/creatorstack/strategist/internal/retry"
)

// Config configures Client.
type Config struct {
	Endpoint    string
	APIKey      string
	Timeout     time.Duration
	MaxAttempts int
}

// Client calls the LLM endpoint for candidate generation.
type Client struct {
	httpClient *http.Client
	cfg        Config
	breaker    *circuitbreaker.Breaker
	log        logger.Logger
}

// New builds a Client. httpClient should come from internal/httpclient
// so the connection pool is shared with the rest of the pipeline.
func New(httpClient *http.Client, cfg Config, log logger.Logger) *Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if log == nil {
		log = logger.NewNop()
	}
	breaker := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          60 * time.Second,
		OnStateChange: func(from, to circuitbreaker.State) {
			log.Warn("llm circuit breaker state change", logger.String("from", from.String()), logger.String("to", to.String()))
		},
	})
	return &Client{httpClient: httpClient, cfg: cfg, breaker: breaker, log: log}
}

// errNoTitles is a soft failure: the endpoint answered successfully but
// gave nothing usable. Spec §4.5 allows one retry on this case before
// falling back, same as a transient network error.
var errNoTitles = errors.New("llm response carried no titles")

// apiRequest is the wire shape sent to the configured endpoint.
type apiRequest struct {
	Prompt string `json:"prompt"`
}

// apiResponse is the wire shape the endpoint is expected to return.
// A response missing Titles is treated as unusable and triggers one
// soft-failure retry per spec §4.5, then falls back.
type apiResponse struct {
	Titles         []string `json:"titles"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	ThumbnailLines []string `json:"thumbnail_lines"`
}

// Generate calls the LLM for a candidate set. It never returns an
// error: an unavailable or malformed response yields the deterministic
// Fallback set instead, with Source and Confidence reflecting that.
func (c *Client) Generate(ctx context.Context, p model.Prompt) model.CandidateSet {
	if c.cfg.Endpoint == "" {
		c.log.Info("no llm endpoint configured, using fallback candidates")
		return Fallback(p)
	}

	var resp apiResponse
	var usable bool

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = c.cfg.MaxAttempts
	softRetried := false
	retryCfg.IsRetryable = func(err error) bool {
		if errors.Is(err, errNoTitles) {
			if softRetried {
				return false
			}
			softRetried = true
			return true
		}
		return retry.DefaultIsRetryable(err)
	}

	err := retry.Do(ctx, retryCfg, func(attempt int) error {
		breakerErr := c.breaker.Execute(func() error {
			callCtx, cancel := context.WithTimeout(ctx, c.effectiveTimeout())
			defer cancel()

			r, callErr := c.call(callCtx, p.Text)
			if callErr != nil {
				return callErr
			}
			if len(r.Titles) == 0 {
				return errNoTitles
			}
			resp = r
			usable = true
			return nil
		})
		return breakerErr
	})

	if err != nil || !usable {
		c.log.Warn("llm generation failed, using fallback candidates", logger.Error(err))
		return Fallback(p)
	}

	return model.CandidateSet{
		Titles:         resp.Titles,
		Descriptions:   []string{resp.Description},
		Tags:           resp.Tags,
		ThumbnailLines: resp.ThumbnailLines,
		Source:         model.SourceLLM,
		Confidence:     0.85,
	}
}

func (c *Client) effectiveTimeout() time.Duration {
	if c.cfg.Timeout > 0 {
		return c.cfg.Timeout
	}
	return 60 * time.Second
}

func (c *Client) call(ctx context.Context, promptText string) (apiResponse, error) {
	body, err := json.Marshal(apiRequest{Prompt: promptText})
	if err != nil {
		return apiResponse{}, errorkit.Wrap(errorkit.InvalidInput, "failed to encode llm request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return apiResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return apiResponse{}, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return apiResponse{}, err
	}

	if httpResp.StatusCode >= 500 {
		return apiResponse{}, fmt.Errorf("llm endpoint returned %d: %s", httpResp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if httpResp.StatusCode >= 400 {
		return apiResponse{}, errorkit.New(errorkit.UpstreamRejected,
			fmt.Sprintf("llm endpoint rejected request: %d %s", httpResp.StatusCode, strings.TrimSpace(string(raw))))
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return apiResponse{}, fmt.Errorf("llm response was not valid JSON: %w", err)
	}
	return parsed, nil
}
