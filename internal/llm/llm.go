// Package llm provides text generation backends used to reorganize and
// summarize chapters.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itsmostafa/chapterfix/internal/config"
)

// Generator produces text for a prompt.
type Generator interface {
	// Generate sends one request and returns the text with its token usage.
	Generate(ctx context.Context, req Request) (Response, error)

	// Model returns the model identifier being used.
	Model() string
}

// Request is a single generation request.
type Request struct {
	System string
	Prompt string
	// Source is the raw text the prompt is about. Local backends work from
	// it instead of the prompt.
	Source          string
	Temperature     float64
	MaxOutputTokens int
}

// Response is the generated text and token usage reported by the backend.
type Response struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// TotalTokens returns input plus output tokens.
func (r Response) TotalTokens() int {
	return r.InputTokens + r.OutputTokens
}

// RetryableError indicates a transient failure (rate limit or server error).
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable reports whether err wraps a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// New returns the generator selected by cfg.LLM.Provider using model.
func New(ctx context.Context, cfg *config.Config, model string) (Generator, error) {
	l := cfg.LLM
	switch strings.ToLower(l.Provider) {
	case "gemini":
		return NewGemini(ctx, l.GeminiAPIKey, model)
	case "anthropic":
		return NewAnthropic(l.AnthropicAPIKey, model, l.BaseURL)
	case "openai":
		return NewOpenAI(l.OpenAIAPIKey, model, l.BaseURL)
	case "extractive":
		return Extractive{}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", l.Provider)
	}
}

// NewSummarizer returns the generator used for section summaries: Anthropic
// when a key is configured, otherwise the provider from cfg, falling back to
// Extractive when no remote backend can be built.
func NewSummarizer(ctx context.Context, cfg *config.Config) Generator {
	if cfg.LLM.AnthropicAPIKey != "" {
		if g, err := NewAnthropic(cfg.LLM.AnthropicAPIKey, cfg.LLM.SummaryModel, cfg.LLM.BaseURL); err == nil {
			return g
		}
	}
	if g, err := New(ctx, cfg, cfg.LLM.Model); err == nil {
		return g
	}
	return Extractive{}
}

// StripCodeFence removes a leading "```markdown" (or "```md") line and a
// trailing "```" from a model response.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```markdown") {
		s = strings.TrimSpace(s[len("```markdown"):])
	} else if strings.HasPrefix(s, "```md\n") {
		s = strings.TrimSpace(s[len("```md"):])
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(s[:len(s)-3])
	}
	return s
}

// ExtractJSON extracts and parses JSON from an LLM response.
// It handles responses wrapped in ```json ... ``` blocks.
func ExtractJSON[T any](content string) (T, error) {
	var result T

	content = strings.TrimSpace(content)
	if startIdx := strings.Index(content, "```json"); startIdx != -1 {
		startIdx += 7
		if endIdx := strings.LastIndex(content, "```"); endIdx > startIdx {
			content = content[startIdx:endIdx]
		}
	} else if startIdx := strings.Index(content, "```"); startIdx != -1 {
		startIdx += 3
		if endIdx := strings.LastIndex(content[startIdx:], "```"); endIdx != -1 {
			content = content[startIdx : startIdx+endIdx]
		}
	}

	content = strings.TrimSpace(content)
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		content = strings.ReplaceAll(content, ",]", "]")
		content = strings.ReplaceAll(content, ",}", "}")
		if err := json.Unmarshal([]byte(content), &result); err != nil {
			return result, fmt.Errorf("failed to parse JSON: %w (content: %s)", err, truncate(content, 200))
		}
	}
	return result, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
