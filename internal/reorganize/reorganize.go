// Package reorganize rebuilds a chapter section by section from an
// outline plan using an LLM, running sections in parallel.
package reorganize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/itsmostafa/chapterfix/internal/llm"
)

// Defaults for Job fields left at zero.
const (
	DefaultWorkers         = 8
	DefaultTemperature     = 0.2
	DefaultMaxOutputTokens = 50000
	DefaultMaxRetries      = 3
	DefaultRetryDelay      = 6 * time.Second
)

// Section is one target section of the new structure.
type Section struct {
	Number string
	Title  string
}

func (s Section) String() string {
	return s.Number + ": " + s.Title
}

// ParseSections parses "5.1:Introduction,5.2:Principles". Items without a
// colon are skipped.
func ParseSections(list string) ([]Section, error) {
	var out []Section
	for _, item := range strings.Split(list, ",") {
		num, title, ok := strings.Cut(strings.TrimSpace(item), ":")
		if !ok {
			continue
		}
		num, title = strings.TrimSpace(num), strings.TrimSpace(title)
		if num == "" {
			continue
		}
		out = append(out, Section{Number: num, Title: title})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no sections in %q (want \"5.1:Title,5.2:Title\")", list)
	}
	return out, nil
}

// Job describes one reorganization run.
type Job struct {
	Original string
	Plan     string
	Sections []Section

	Temperature       float64
	MaxOutputTokens   int
	Workers           int
	RequestsPerMinute int // 0 disables the limiter
	MaxRetries        int // extra attempts on retryable errors
	RetryDelay        time.Duration

	Logger *slog.Logger
}

func (j *Job) setDefaults() {
	if j.Workers < 1 {
		j.Workers = DefaultWorkers
	}
	if j.Temperature == 0 {
		j.Temperature = DefaultTemperature
	}
	if j.MaxOutputTokens <= 0 {
		j.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if j.MaxRetries < 0 {
		j.MaxRetries = 0
	}
	if j.RetryDelay <= 0 {
		j.RetryDelay = DefaultRetryDelay
	}
	if j.Logger == nil {
		j.Logger = slog.New(slog.DiscardHandler)
	}
}

// SectionResult is the outcome of generating one section.
type SectionResult struct {
	Section
	Content      string
	Words        int
	InputTokens  int
	OutputTokens int
	Cost         float64
	Duration     time.Duration
	Err          error
}

// OK reports whether the section was generated.
func (r SectionResult) OK() bool {
	return r.Err == nil
}

// Result is the combined output of a run.
type Result struct {
	RunID        string
	Model        string
	Sections     []SectionResult // in requested order
	Text         string
	InputWords   int
	OutputWords  int
	InputTokens  int
	OutputTokens int
	Cost         float64
	Duration     time.Duration
}

// Missing returns the sections that failed.
func (r *Result) Missing() []Section {
	var out []Section
	for _, s := range r.Sections {
		if !s.OK() {
			out = append(out, s.Section)
		}
	}
	return out
}

// Retention returns output words as a percentage of input words.
func (r *Result) Retention() float64 {
	if r.InputWords == 0 {
		return 0
	}
	return float64(r.OutputWords) / float64(r.InputWords) * 100
}

// Run generates every section with a bounded pool of workers and joins the
// successful ones in the requested order. A failed section is logged as
// MISSING and does not stop the others. Run returns an error only for an
// empty job or a cancelled context.
func Run(ctx context.Context, gen llm.Generator, job Job) (*Result, error) {
	if len(job.Sections) == 0 {
		return nil, errors.New("no sections to generate")
	}
	job.setDefaults()
	log := job.Logger

	res := &Result{
		RunID:      uuid.NewString(),
		Model:      gen.Model(),
		Sections:   make([]SectionResult, len(job.Sections)),
		InputWords: len(strings.Fields(job.Original)),
	}
	start := time.Now()

	log.Info("reorganization started",
		"run", res.RunID, "model", res.Model, "sections", len(job.Sections),
		"workers", job.Workers, "input_words", res.InputWords)

	var limiter *rate.Limiter
	if job.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(job.RequestsPerMinute)), 1)
	}

	type work struct {
		index   int
		section Section
	}
	type done struct {
		index  int
		result SectionResult
	}
	jobs := make(chan work, len(job.Sections))
	results := make(chan done, len(job.Sections))

	var wg sync.WaitGroup
	workers := job.Workers
	if workers > len(job.Sections) {
		workers = len(job.Sections)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- done{index: j.index, result: generate(ctx, gen, limiter, &job, j.section, j.index == 0)}
			}
		}()
	}

	for i, s := range job.Sections {
		jobs <- work{index: i, section: s}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for d := range results {
		res.Sections[d.index] = d.result
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var parts []string
	for _, r := range res.Sections {
		if !r.OK() {
			log.Warn(fmt.Sprintf("✗ %s: %s (MISSING)", r.Number, r.Title), "error", r.Err)
			continue
		}
		parts = append(parts, r.Content)
		res.OutputWords += r.Words
		res.InputTokens += r.InputTokens
		res.OutputTokens += r.OutputTokens
		res.Cost += r.Cost
		log.Info(fmt.Sprintf("✓ %s: %s (%s words)", r.Number, r.Title, formatNumber(r.Words)))
	}
	res.Text = llm.StripCodeFence(strings.Join(parts, "\n\n"))
	res.Duration = time.Since(start)
	return res, nil
}

func generate(ctx context.Context, gen llm.Generator, limiter *rate.Limiter, job *Job, s Section, first bool) (out SectionResult) {
	out.Section = s
	start := time.Now()
	defer func() { out.Duration = time.Since(start) }()

	job.Logger.Info("starting section", "section", s.Number, "title", s.Title)

	req := llm.Request{
		Prompt:          BuildPrompt(job.Plan, job.Original, s, first),
		Source:          job.Original,
		Temperature:     job.Temperature,
		MaxOutputTokens: job.MaxOutputTokens,
	}

	var resp llm.Response
	var err error
	for attempt := 0; attempt <= job.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				out.Err = ctx.Err()
				return out
			case <-time.After(job.RetryDelay):
			}
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				out.Err = err
				return out
			}
		}
		resp, err = gen.Generate(ctx, req)
		if err == nil || !llm.IsRetryable(err) {
			break
		}
		job.Logger.Debug("retrying section", "section", s.Number, "attempt", attempt+1, "error", err)
	}
	if err != nil {
		job.Logger.Error(fmt.Sprintf("✗ Failed %s: %v", s.Number, err))
		out.Err = err
		return out
	}

	out.Content = llm.StripCodeFence(resp.Text)
	out.Words = len(strings.Fields(out.Content))
	out.InputTokens = resp.InputTokens
	out.OutputTokens = resp.OutputTokens
	out.Cost = llm.Cost(gen.Model(), resp.InputTokens, resp.OutputTokens)

	job.Logger.Info(fmt.Sprintf("✓ %s: %s words | Tokens: %sin + %sout = %s | Cost: $%.4f",
		s.Number, formatNumber(out.Words), formatNumber(out.InputTokens),
		formatNumber(out.OutputTokens), formatNumber(resp.TotalTokens()), out.Cost))
	return out
}

// formatNumber formats an integer with comma separators.
func formatNumber(n int) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
