package reorganize

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/itsmostafa/chapterfix/internal/llm"
)

// LogPath returns the log file written next to output: "<dir>/<stem>.log".
func LogPath(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + ".log"
}

// OpenLog creates the log file for output and returns a logger writing to
// both it and console. The returned close function closes the file.
func OpenLog(output string, console io.Writer, level slog.Level) (*slog.Logger, func() error, error) {
	path := LogPath(output)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating log file: %w", err)
	}
	h := slog.NewTextHandler(io.MultiWriter(console, f), &slog.HandlerOptions{Level: level})
	return slog.New(h), f.Close, nil
}

// Files names the inputs and output of a file-based run.
type Files struct {
	Input  string
	Plan   string
	Output string
}

// RunFiles reads the original and the plan, runs the job and writes the
// combined Markdown to files.Output. Job.Original and Job.Plan are replaced
// by the file contents.
func RunFiles(ctx context.Context, gen llm.Generator, files Files, job Job) (*Result, error) {
	original, err := os.ReadFile(files.Input)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	plan, err := os.ReadFile(files.Plan)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}
	job.Original = string(original)
	job.Plan = string(plan)

	res, err := Run(ctx, gen, job)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(files.Output), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(files.Output, []byte(res.Text), 0o644); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}
	return res, nil
}

// WriteSummary prints the run metrics.
func (r *Result) WriteSummary(w io.Writer) {
	p := llm.Pricing[r.Model]
	if p == (llm.Price{}) {
		p = llm.Pricing[llm.DefaultPricingModel]
	}
	fmt.Fprintf(w, "Run: %s\n", r.RunID)
	fmt.Fprintf(w, "Sections: %d generated, %d missing\n", len(r.Sections)-len(r.Missing()), len(r.Missing()))
	fmt.Fprintf(w, "Words: %s of %s (retention %.1f%%)\n", formatNumber(r.OutputWords), formatNumber(r.InputWords), r.Retention())
	fmt.Fprintf(w, "Tokens: %s in + %s out = %s\n",
		formatNumber(r.InputTokens), formatNumber(r.OutputTokens), formatNumber(r.InputTokens+r.OutputTokens))
	fmt.Fprintf(w, "Estimated cost: $%.4f (%s @ $%.2f/M in, $%.2f/M out)\n",
		r.Cost, r.Model, p.Input*1_000_000, p.Output*1_000_000)
	for _, s := range r.Missing() {
		fmt.Fprintf(w, "  ✗ %s: %s (MISSING)\n", s.Number, s.Title)
	}
}
