// Package render turns finished chapter Markdown into PDF.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/itsmostafa/chapterfix/internal/config"
	"github.com/itsmostafa/chapterfix/internal/runner"
)

// Renderer writes a PDF for a Markdown document.
type Renderer interface {
	// Name identifies the backend in logs ("pandoc", "native").
	Name() string

	// Render preprocesses markdown and writes the PDF to output.
	Render(ctx context.Context, markdown, output string) error
}

// Options are the layout settings shared by the backends.
type Options struct {
	PDFEngine string
	TOC       bool
	Margin    string
	FontSize  string
}

// New returns the renderer named by cfg.Render.Engine.
func New(cfg *config.Config, logger *slog.Logger) (Renderer, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts := Options{
		PDFEngine: cfg.Render.PDFEngine,
		TOC:       cfg.Render.TOC,
		Margin:    cfg.Render.Margin,
		FontSize:  "11pt",
	}
	switch strings.ToLower(cfg.Render.Engine) {
	case "", "pandoc":
		return &PandocRenderer{Runner: runner.Pandoc, Options: opts, Logger: logger}, nil
	case "native":
		return &NativeRenderer{Options: opts}, nil
	}
	return nil, fmt.Errorf("unknown render engine %q", cfg.Render.Engine)
}

// PandocRenderer shells out to pandoc.
type PandocRenderer struct {
	Runner  runner.Runner
	Options Options
	Logger  *slog.Logger
}

// Name returns "pandoc".
func (p *PandocRenderer) Name() string { return "pandoc" }

// Render writes the preprocessed Markdown next to output and runs pandoc
// on it. The temporary file is always removed.
func (p *PandocRenderer) Render(ctx context.Context, markdown, output string) error {
	if err := runner.Available(p.Runner); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(output), "*_temp.md")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(Preprocess(markdown)); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	res, err := runner.Run(ctx, p.Runner, p.args(tmp.Name(), output)...)
	if err != nil {
		return fmt.Errorf("generating %s: %w", filepath.Base(output), err)
	}
	if p.Logger != nil {
		p.Logger.Debug("pandoc finished", "output", output, "duration_ms", res.DurationMs)
	}
	return nil
}

func (p *PandocRenderer) args(input, output string) []string {
	args := []string{"--from", "markdown-yaml_metadata_block", input, "-o", output}
	if p.Options.Margin != "" {
		args = append(args, "-V", "geometry:margin="+p.Options.Margin)
	}
	if p.Options.FontSize != "" {
		args = append(args, "-V", "fontsize="+p.Options.FontSize)
	}
	if p.Options.PDFEngine != "" {
		args = append(args, "--pdf-engine="+p.Options.PDFEngine)
	}
	if p.Options.TOC {
		args = append(args, "--toc")
	}
	return append(args, "--number-sections")
}

// Terminal renders markdown for display in a terminal. style is a glamour
// standard style name such as "dark" or "notty"; "auto" picks one from
// the terminal background.
func Terminal(markdown, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}
