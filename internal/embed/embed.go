// Package embed turns section text into vectors for clustering.
package embed

import (
	"context"
	"fmt"
	"strings"

	"github.com/itsmostafa/chapterfix/internal/config"
)

// Embedder converts texts into vectors of equal length.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Name() string
}

// New returns the embedder selected by cfg.Embed.Provider.
func New(ctx context.Context, cfg *config.Config) (Embedder, error) {
	switch strings.ToLower(cfg.Embed.Provider) {
	case "gemini":
		return NewGemini(ctx, cfg.LLM.GeminiAPIKey, cfg.Embed.Model, cfg.Embed.Dimension, cfg.Embed.BatchSize)
	case "tfidf":
		return &TFIDF{MaxFeatures: cfg.Embed.Dimension}, nil
	default:
		return nil, fmt.Errorf("unknown embed provider %q", cfg.Embed.Provider)
	}
}
