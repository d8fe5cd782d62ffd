package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/itsmostafa/chapterfix/internal/cluster"
	"github.com/itsmostafa/chapterfix/internal/embed"
	"github.com/itsmostafa/chapterfix/internal/outline"
)

// DefaultMinChars is the body length a section needs to be clustered.
const DefaultMinChars = 50

// Options tunes Run.
type Options struct {
	MinK     int
	MaxK     int
	MinChars int
	Logger   *slog.Logger
}

// Coherence is the result of clustering one document's sections.
type Coherence struct {
	SourceMarkdown  string            `json:"source_markdown"`
	TotalSections   int               `json:"total_sections"`
	NumClusters     int               `json:"num_clusters"`
	Silhouette      float64           `json:"silhouette_score"`
	EmbeddingMethod string            `json:"embedding_method"`
	EmbeddingDim    int               `json:"embedding_dim"`
	Clusters        []cluster.Cluster `json:"clusters"`
}

// Run embeds the body of every level 2 and 3 section longer than
// opts.MinChars and clusters them.
func Run(ctx context.Context, emb embed.Embedder, source string, lines []string, opts Options) (*Coherence, error) {
	if opts.MinK == 0 {
		opts.MinK = cluster.MinK
	}
	if opts.MaxK == 0 {
		opts.MaxK = cluster.MaxK
	}
	if opts.MinChars == 0 {
		opts.MinChars = DefaultMinChars
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	var texts []string
	var items []cluster.Item
	for _, s := range outline.FilterLevels(outline.ExtractSections(lines), MinLevel, MaxLevel) {
		body := s.Body()
		if len(body) <= opts.MinChars {
			continue
		}
		texts = append(texts, body)
		items = append(items, cluster.Item{
			SectionID:   s.ID,
			Heading:     s.Heading,
			Level:       s.Level,
			ContentType: outline.ContentTypes(s.Heading, s.Content),
			Audience:    outline.Audience(s.Content),
		})
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("no sections with more than %d characters of content", opts.MinChars)
	}
	log.Info("generating embeddings", "sections", len(texts), "embedder", emb.Name())

	vecs, err := emb.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding sections: %w", err)
	}
	res, err := cluster.Analyze(vecs, items, opts.MinK, opts.MaxK)
	if err != nil {
		return nil, err
	}
	log.Info("clustering done", "clusters", res.K, "silhouette", res.Silhouette)

	dim := 0
	if len(vecs) > 0 {
		dim = len(vecs[0])
	}
	return &Coherence{
		SourceMarkdown:  source,
		TotalSections:   len(texts),
		NumClusters:     res.K,
		Silhouette:      res.Silhouette,
		EmbeddingMethod: emb.Name(),
		EmbeddingDim:    dim,
		Clusters:        res.Clusters,
	}, nil
}

// WriteJSON encodes the result as indented JSON.
func (c *Coherence) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(c)
}

// AverageCoherence returns the mean coherence over clusters.
func (c *Coherence) AverageCoherence() float64 {
	if len(c.Clusters) == 0 {
		return 0
	}
	var sum float64
	for _, cl := range c.Clusters {
		sum += cl.Coherence
	}
	return sum / float64(len(c.Clusters))
}

// TotalOutliers counts outliers across clusters.
func (c *Coherence) TotalOutliers() int {
	n := 0
	for _, cl := range c.Clusters {
		n += len(cl.Outliers)
	}
	return n
}
