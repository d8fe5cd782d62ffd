// Package pipeline runs the repair passes over directories of chapter files.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/itsmostafa/chapterfix/internal/bullets"
	"github.com/itsmostafa/chapterfix/internal/document"
	"github.com/itsmostafa/chapterfix/internal/numbering"
	"github.com/itsmostafa/chapterfix/internal/report"
	"github.com/itsmostafa/chapterfix/internal/validate"
	"github.com/itsmostafa/chapterfix/internal/xref"
)

// Report file names written by RepairAll.
const (
	ValidationReportName = "VALIDATION_REPORT.md"
	RepairReportName     = "REPAIR_REPORT.md"
)

// ErrNoFiles is returned when discovery finds nothing to process.
var ErrNoFiles = errors.New("no matching files")

// Config holds the pipeline configuration
type Config struct {
	InputDir  string
	OutputDir string // "" writes files back in place
	Pattern   string
	// Files overrides discovery when set.
	Files []string
	// Chapters narrows the batch to these chapter numbers when set.
	Chapters []int
	// SourceDir holds the pre-repair files used for the completeness check.
	SourceDir string
	// ReportPath is where ValidateFiles writes its report; "" skips it.
	ReportPath string

	DryRun  bool
	Verbose bool
	Strict  bool

	Bullets  bullets.Options
	XrefMode xref.Mode
	Checkers []validate.Checker

	Output io.Writer
	Logger *slog.Logger
	// Now stamps reports; defaults to time.Now.
	Now func() time.Time
}

func (c *Config) setDefaults() {
	if c.Output == nil {
		c.Output = os.Stdout
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Pattern == "" {
		c.Pattern = document.DefaultPattern
	}
}

// Inputs returns the files to process: Files when given, otherwise the
// pattern matches in InputDir, narrowed to Chapters.
func (c *Config) Inputs() ([]string, error) {
	files := c.Files
	if len(files) == 0 {
		var err error
		files, err = document.Discover(c.InputDir, c.Pattern)
		if err != nil {
			return nil, err
		}
	}
	if len(c.Chapters) > 0 {
		var kept []string
		for _, n := range c.Chapters {
			kept = append(kept, document.FilterChapter(files, n)...)
		}
		files = kept
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w for %q in %s", ErrNoFiles, c.Pattern, c.InputDir)
	}
	return files, nil
}

func (c *Config) outputPath(path string) string {
	if c.OutputDir == "" {
		return path
	}
	return filepath.Join(c.OutputDir, filepath.Base(path))
}

// Run is the outcome of a batch.
type Run struct {
	Mode       string
	Reports    *report.Aggregate
	Validation []*validate.Result
	Written    []string
	Duration   time.Duration
}

// OK reports whether every file was processed and validated without errors.
func (r *Run) OK() bool {
	for _, v := range r.Validation {
		if !v.Passed() {
			return false
		}
	}
	for _, p := range r.Reports.Reports {
		if !p.OK() {
			return false
		}
	}
	return true
}

// step is one pass over a loaded document. check validates the pass's own
// output when the batch runs no full validation.
type step struct {
	name  string
	apply func(ctx context.Context, cfg *Config, doc *document.Document, rep *report.Processing) error
	check func(lines []string) []validate.Issue
}

var (
	numberStep = step{name: "number", apply: applyNumbering, check: validate.SectionNumbering}
	bulletStep = step{name: "bullets", apply: applyBullets, check: validate.BulletHierarchy}
)

// NumberFiles renumbers every header and rewrites cross-references.
func NumberFiles(ctx context.Context, cfg Config) (*Run, error) {
	return run(ctx, cfg, "number", []step{numberStep}, false)
}

// RepairBulletFiles repairs list indentation, markers and depth.
func RepairBulletFiles(ctx context.Context, cfg Config) (*Run, error) {
	return run(ctx, cfg, "bullets", []step{bulletStep}, false)
}

// RepairAll renumbers, repairs bullets, validates against the original
// file and writes VALIDATION_REPORT.md and REPAIR_REPORT.md to OutputDir.
func RepairAll(ctx context.Context, cfg Config) (*Run, error) {
	return run(ctx, cfg, "repair", []step{numberStep, bulletStep}, true)
}

// ValidateFiles checks every file read-only. With SourceDir set, each file
// is compared against the file of the same name there.
func ValidateFiles(ctx context.Context, cfg Config) (*Run, error) {
	cfg.setDefaults()
	files, err := cfg.Inputs()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	FormatHeader(cfg.Output, &cfg, "validate", len(files))

	res := &Run{Mode: "validate", Reports: report.NewAggregate(cfg.Now())}
	opts := validate.Options{Strict: cfg.Strict, Extra: cfg.Checkers}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		source := ""
		if cfg.SourceDir != "" {
			source = filepath.Join(cfg.SourceDir, filepath.Base(path))
		}
		v := validate.File(ctx, path, source, opts)
		res.Validation = append(res.Validation, v)
		FormatValidation(cfg.Output, v, cfg.Verbose)
	}
	res.Duration = time.Since(start)

	if cfg.ReportPath != "" && !cfg.DryRun {
		if err := writeFile(cfg.ReportPath, validate.Report(res.Validation, cfg.Now())); err != nil {
			return res, err
		}
		res.Written = append(res.Written, cfg.ReportPath)
	}
	FormatValidationSummary(cfg.Output, validate.Summarize(res.Validation))
	return res, nil
}

func run(ctx context.Context, cfg Config, mode string, steps []step, full bool) (*Run, error) {
	cfg.setDefaults()
	files, err := cfg.Inputs()
	if err != nil {
		return nil, err
	}
	if !cfg.DryRun && cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	start := time.Now()
	FormatHeader(cfg.Output, &cfg, mode, len(files))
	res := &Run{Mode: mode, Reports: report.NewAggregate(cfg.Now())}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rep, v := processFile(ctx, &cfg, path, steps, full)
		res.Reports.Add(rep)
		if v != nil {
			res.Validation = append(res.Validation, v)
		}
		if len(rep.Errors) == 0 && !cfg.DryRun {
			res.Written = append(res.Written, cfg.outputPath(path))
		}
		FormatFileResult(cfg.Output, rep)
	}
	res.Duration = time.Since(start)

	if full && !cfg.DryRun {
		dir := cfg.OutputDir
		if dir == "" {
			dir = cfg.InputDir
		}
		reports := map[string]string{
			ValidationReportName: validate.Report(res.Validation, cfg.Now()),
			RepairReportName:     res.Reports.Markdown(),
		}
		for _, name := range []string{ValidationReportName, RepairReportName} {
			p := filepath.Join(dir, name)
			if err := writeFile(p, reports[name]); err != nil {
				return res, err
			}
			res.Written = append(res.Written, p)
		}
	}
	FormatSummary(cfg.Output, res)
	return res, nil
}

// processFile runs steps over one file. Failures are recorded on the
// returned report and never stop the batch.
func processFile(ctx context.Context, cfg *Config, path string, steps []step, full bool) (*report.Processing, *validate.Result) {
	rep := report.New(path, document.ChapterNumber(path), cfg.Now())
	cfg.Logger.Debug("processing file", "path", path)

	doc, err := document.Load(path)
	if err != nil {
		rep.AddError(err)
		return rep, nil
	}
	original := append([]string(nil), doc.Lines...)

	for _, s := range steps {
		if err := s.apply(ctx, cfg, doc, rep); err != nil {
			rep.AddError(err)
			cfg.Logger.Warn("step failed", "path", path, "step", s.name, "error", err)
			return rep, nil
		}
	}

	var v *validate.Result
	if full {
		v = validate.Document(ctx, cfg.outputPath(path), doc.Lines, validate.Options{
			Strict: cfg.Strict,
			Source: original,
			Extra:  cfg.Checkers,
		})
		rep.ValidationPassed = v.Passed()
	} else {
		rep.ValidationPassed = true
		for _, s := range steps {
			issues := s.check(doc.Lines)
			if cfg.Strict {
				issues = validate.Promote(issues)
			}
			if hasErrors(issues) {
				rep.ValidationPassed = false
			}
		}
	}

	if !cfg.DryRun {
		if err := doc.Save(cfg.outputPath(path)); err != nil {
			rep.AddError(err)
		}
	}
	return rep, v
}

func applyNumbering(_ context.Context, cfg *Config, doc *document.Document, rep *report.Processing) error {
	res, err := numbering.Renumber(doc.Lines)
	if err != nil {
		return fmt.Errorf("numbering %s: %w", doc.Name(), err)
	}
	rw := xref.NewRewriter(cfg.XrefMode)
	renumbered := 0
	for _, c := range res.Changes {
		if !c.Renumbered() {
			continue
		}
		renumbered++
		rw.Record(c.OldNumber, c.NewNumber, c.Title)
		if cfg.Verbose {
			FormatChange(cfg.Output, c.Line+1, c.OldLine, c.NewLine)
		}
	}
	lines, refs := rw.Update(res.Lines)
	doc.Lines = lines

	rep.SectionsRenumbered = renumbered
	if renumbered > 0 {
		rep.AddRepair("Renumbered %d of %d sections", renumbered, res.Headers)
	}
	if refs > 0 {
		rep.AddRepair("Updated cross-references on %d lines", refs)
	}
	return nil
}

func applyBullets(_ context.Context, cfg *Config, doc *document.Document, rep *report.Processing) error {
	res := bullets.RepairDocument(doc.Lines, cfg.Bullets)
	doc.Lines = res.Lines

	rep.BulletsRepaired = res.Total.IndentsChanged + res.Total.MarkersChanged
	if rep.BulletsRepaired > 0 {
		rep.AddRepair("Repaired %d bullet items in %d lists (%d indents, %d markers)",
			res.Total.OriginalItems, len(res.Blocks), res.Total.IndentsChanged, res.Total.MarkersChanged)
	}
	if res.Total.ItemsFlattened > 0 {
		rep.AddRepair("Flattened %d items deeper than the depth limit", res.Total.ItemsFlattened)
	}
	if cfg.Verbose {
		for _, b := range res.Blocks {
			for _, w := range b.Warnings {
				FormatNote(cfg.Output, fmt.Sprintf("lines %d-%d: %s", b.Block.Start+1, b.Block.End, w))
			}
		}
	}
	return nil
}

func hasErrors(issues []validate.Issue) bool {
	for _, i := range issues {
		if i.Severity == validate.SeverityError {
			return true
		}
	}
	return false
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
