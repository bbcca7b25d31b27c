package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorstack/strategist/internal/model"
)

func TestGenerate_NoEndpointUsesFallback(t *testing.T) {
	c := New(http.DefaultClient, Config{}, nil)
	p := model.Prompt{Text: "prompt", Metadata: model.PromptMetadata{Tone: model.ToneCuriosity}}
	set := c.Generate(context.Background(), p)
	assert.Equal(t, model.SourceFallback, set.Source)
	assert.LessOrEqual(t, set.Confidence, 0.5)
	require.NotEmpty(t, set.Titles)
}

func TestGenerate_SuccessfulResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiResponse{
			Titles:         []string{"A Great Title About Rice Cooking Techniques"},
			Description:    "desc",
			Tags:           []string{"rice"},
			ThumbnailLines: []string{"RICE", "TIME", "NOW"},
		})
	}))
	defer srv.Close()

	c := New(http.DefaultClient, Config{Endpoint: srv.URL, Timeout: 5 * time.Second, MaxAttempts: 1}, nil)
	p := model.Prompt{Text: "prompt", Metadata: model.PromptMetadata{Tone: model.ToneCuriosity}}
	set := c.Generate(context.Background(), p)

	assert.Equal(t, model.SourceLLM, set.Source)
	assert.Equal(t, []string{"A Great Title About Rice Cooking Techniques"}, set.Titles)
}

func TestGenerate_EmptyTitlesFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiResponse{})
	}))
	defer srv.Close()

	c := New(http.DefaultClient, Config{Endpoint: srv.URL, Timeout: 2 * time.Second, MaxAttempts: 1}, nil)
	p := model.Prompt{Text: "prompt", Metadata: model.PromptMetadata{Tone: model.ToneFear}}
	set := c.Generate(context.Background(), p)

	assert.Equal(t, model.SourceFallback, set.Source)
}

func TestGenerate_ServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(http.DefaultClient, Config{Endpoint: srv.URL, Timeout: 2 * time.Second, MaxAttempts: 2}, nil)
	p := model.Prompt{Text: "prompt", Metadata: model.PromptMetadata{Tone: model.ToneAuthority}}
	set := c.Generate(context.Background(), p)

	assert.Equal(t, model.SourceFallback, set.Source)
}
