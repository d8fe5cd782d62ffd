package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsmostafa/chapterfix/internal/config"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```markdown\n## 5.1 Intro\ntext\n```", "## 5.1 Intro\ntext"},
		{"  ## 5.1 Intro  ", "## 5.1 Intro"},
		{"```md\nbody\n```", "body"},
		{"body\n```", "body"},
	}
	for _, tt := range tests {
		if got := StripCodeFence(tt.in); got != tt.want {
			t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCost(t *testing.T) {
	assert.InDelta(t, 1.25+10.0, Cost("gemini-2.5-pro", 1_000_000, 1_000_000), 1e-9)
	assert.InDelta(t, 4.0+20.0, Cost("gemini-2.5-pro-exp", 1_000_000, 1_000_000), 1e-9)
	assert.InDelta(t, Cost("gemini-2.5-pro", 500, 200), Cost("unknown-model", 500, 200), 1e-12)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "Empty section - no content to summarize.", Summarize("## Heading\n\n"))
	assert.Equal(t, "[Fallback summary] First para\nline two", Summarize("## H\nFirst para\nline two\n\nSecond"))

	long := strings.Repeat("é", 450)
	got := Summarize(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, len([]rune(fallbackPrefix))+400+3, len([]rune(got)))
}

func TestExtractiveUsesSource(t *testing.T) {
	resp, err := Extractive{}.Generate(context.Background(), Request{Prompt: "instructions", Source: "Body text."})
	require.NoError(t, err)
	assert.Equal(t, "[Fallback summary] Body text.", resp.Text)
	assert.Zero(t, resp.TotalTokens())
}

func TestExtractJSON(t *testing.T) {
	type pair struct {
		A int `json:"a"`
	}
	got, err := ExtractJSON[pair]("```json\n{\"a\": 3,}\n```")
	require.NoError(t, err)
	assert.Equal(t, 3, got.A)

	_, err = ExtractJSON[pair]("not json")
	assert.Error(t, err)
}

func TestAnthropicGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))

		var req anthropicRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 500, req.MaxTokens)
		assert.Equal(t, "summarize", req.Messages[0].Content)

		w.Write([]byte(`{"content":[{"type":"text","text":"A summary."}],"usage":{"input_tokens":12,"output_tokens":4}}`))
	}))
	defer srv.Close()

	a, err := NewAnthropic("key", "claude-test", srv.URL)
	require.NoError(t, err)
	resp, err := a.Generate(context.Background(), Request{Prompt: "summarize", MaxOutputTokens: 500})
	require.NoError(t, err)
	assert.Equal(t, "A summary.", resp.Text)
	assert.Equal(t, 16, resp.TotalTokens())
}

func TestAnthropicRateLimitIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	a, err := NewAnthropic("key", "claude-test", srv.URL)
	require.NoError(t, err)
	_, err = a.Generate(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
}

func TestOpenAIRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}],"usage":{"prompt_tokens":3,"completion_tokens":1}}`))
	}))
	defer srv.Close()

	p, err := NewOpenAI("key", "gpt-test", srv.URL)
	require.NoError(t, err)
	p.retryDelay = time.Millisecond

	resp, err := p.Generate(context.Background(), Request{Prompt: "hi", System: "be brief"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 3, resp.InputTokens)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAIGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad"))
	}))
	defer srv.Close()

	p, err := NewOpenAI("key", "gpt-test", srv.URL)
	require.NoError(t, err)
	p.maxRetries = 2
	p.retryDelay = time.Millisecond

	_, err = p.Generate(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.Contains(t, err.Error(), "status 400")
}

func TestNewMissingKeys(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLM.Provider = "openai"
	_, err := New(context.Background(), cfg, "gpt")
	assert.Error(t, err)

	cfg.LLM.Provider = "extractive"
	g, err := New(context.Background(), cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "extractive", g.Model())

	cfg.LLM.Provider = "nope"
	_, err = New(context.Background(), cfg, "")
	assert.Error(t, err)

	cfg.LLM.Provider = "gemini"
	cfg.LLM.GeminiAPIKey = ""
	assert.Equal(t, "extractive", NewSummarizer(context.Background(), cfg).Model())
}
