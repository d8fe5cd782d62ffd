package embed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	defaultBatchSize = 50
	embedBatchDelay  = 700 * time.Millisecond
	embedRetryDelay  = 6 * time.Second
	embedMaxRetries  = 5
)

// embedFunc is the single batch call, swapped out in tests.
type embedFunc func(ctx context.Context, batch []string) ([][]float32, error)

// Gemini implements Embedder using the Gemini embeddings API.
type Gemini struct {
	model      string
	dimension  int
	batchSize  int
	batchDelay time.Duration
	retryDelay time.Duration
	call       embedFunc
}

// NewGemini creates a Gemini embedder. A dimension of 0 keeps the model
// default.
func NewGemini(ctx context.Context, apiKey, model string, dim, batchSize int) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	var cfg *genai.EmbedContentConfig
	if dim > 0 {
		d := int32(dim)
		cfg = &genai.EmbedContentConfig{OutputDimensionality: &d}
	}
	g := newGemini(model, dim, batchSize)
	g.call = func(ctx context.Context, batch []string) ([][]float32, error) {
		contents := make([]*genai.Content, 0, len(batch))
		for _, text := range batch {
			contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		}
		res, err := client.Models.EmbedContent(ctx, model, contents, cfg)
		if err != nil {
			return nil, err
		}
		out := make([][]float32, 0, len(res.Embeddings))
		for _, emb := range res.Embeddings {
			out = append(out, emb.Values)
		}
		return out, nil
	}
	return g, nil
}

func newGemini(model string, dim, batchSize int) *Gemini {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Gemini{
		model:      model,
		dimension:  dim,
		batchSize:  batchSize,
		batchDelay: embedBatchDelay,
		retryDelay: embedRetryDelay,
	}
}

// Name returns the provider and model.
func (g *Gemini) Name() string {
	return "gemini:" + g.model
}

// Embed sends texts in batches, pausing between batches and retrying
// rate-limited calls.
func (g *Gemini) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var results [][]float32
	for i := 0; i < len(texts); i += g.batchSize {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.batchDelay):
			}
		}

		end := i + g.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[i:end]

		var vecs [][]float32
		var err error
		for attempt := 0; attempt <= embedMaxRetries; attempt++ {
			vecs, err = g.call(ctx, batch)
			if err == nil {
				break
			}
			if !isRateLimitError(err) || attempt == embedMaxRetries {
				return nil, fmt.Errorf("failed to embed text: %w", err)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.retryDelay):
			}
		}

		if len(vecs) != len(batch) {
			return nil, fmt.Errorf("embedding count mismatch: got %d, expected %d", len(vecs), len(batch))
		}
		results = append(results, vecs...)
	}
	return results, nil
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "429") || strings.Contains(s, "RESOURCE_EXHAUSTED") || strings.Contains(s, "quota")
}
