// Package analysis summarizes chapter sections and measures how coherently
// they group by topic.
package analysis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/itsmostafa/chapterfix/internal/llm"
	"github.com/itsmostafa/chapterfix/internal/outline"
)

// Section levels that are summarized and clustered. Level 1 is the chapter
// title and deeper levels are too granular.
const (
	MinLevel = 2
	MaxLevel = 3
)

const summaryMaxTokens = 500

// Summary is the summary of one section.
type Summary struct {
	SectionID    string   `yaml:"section_id"`
	Heading      string   `yaml:"heading"`
	Level        int      `yaml:"level"`
	LineRange    [2]int   `yaml:"line_range,flow"`
	Summary      string   `yaml:"summary"`
	Audience     []string `yaml:"age_groups_mentioned"`
	ContentType  []string `yaml:"content_type"`
	Completeness string   `yaml:"completeness"`
	Fallback     bool     `yaml:"fallback,omitempty"`
}

// Summaries is the YAML document written by Summarize.
type Summaries struct {
	SourceMarkdown string    `yaml:"source_markdown"`
	Model          string    `yaml:"model"`
	TotalSummaries int       `yaml:"total_summaries"`
	Summaries      []Summary `yaml:"summaries"`
}

// SummarizeOptions tunes Summarize.
type SummarizeOptions struct {
	RequestsPerMinute int // 0 disables the limiter
	Logger            *slog.Logger
}

// SummaryPrompt returns the prompt asking for a short structured summary.
func SummaryPrompt(s outline.Section) string {
	return fmt.Sprintf(`Analyze this section from an Early Learning manual and provide a concise summary.

Section: %s (Level %d)

Content:
%s

Provide a structured summary covering:
1. Main topic/purpose (1-2 sentences)
2. Key activities or concepts described
3. Target age groups mentioned (if any)
4. Notable features or important details

Keep the summary concise but informative (3-5 sentences total).`, s.Heading, s.Level, s.Content)
}

// Summarize asks gen for a summary of every level 2 and 3 section. A failed
// call falls back to the extractive summary so one bad section does not stop
// the run; only cancellation is returned as an error.
func Summarize(ctx context.Context, gen llm.Generator, source string, sections []outline.Section, opts SummarizeOptions) (*Summaries, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	majors := outline.FilterLevels(sections, MinLevel, MaxLevel)
	out := &Summaries{SourceMarkdown: source, Model: gen.Model(), Summaries: []Summary{}}

	for i, s := range majors {
		log.Info(fmt.Sprintf("[%d/%d] Summarizing: %s - %s", i+1, len(majors), s.ID, s.Heading))
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		sum := Summary{
			SectionID:    s.ID,
			Heading:      s.Heading,
			Level:        s.Level,
			LineRange:    [2]int{s.LineStart, s.LineEnd},
			Audience:     outline.Audience(s.Content),
			ContentType:  outline.ContentTypes(s.Heading, s.Content),
			Completeness: outline.Assess(s),
		}
		resp, err := gen.Generate(ctx, llm.Request{
			Prompt:          SummaryPrompt(s),
			Source:          s.Content,
			MaxOutputTokens: summaryMaxTokens,
		})
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			log.Warn("summary failed, using local fallback", "section", s.ID, "error", err)
			sum.Summary = llm.Summarize(s.Content)
			sum.Fallback = true
		default:
			sum.Summary = strings.TrimSpace(resp.Text)
		}
		out.Summaries = append(out.Summaries, sum)
	}
	out.TotalSummaries = len(out.Summaries)
	return out, nil
}

// WriteYAML encodes the summaries as YAML.
func (s *Summaries) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding summaries: %w", err)
	}
	return enc.Close()
}
