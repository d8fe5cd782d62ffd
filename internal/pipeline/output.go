package pipeline

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/itsmostafa/chapterfix/internal/report"
	"github.com/itsmostafa/chapterfix/internal/validate"
)

var (
	// titleStyle for bold red headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// warnStyle for warnings
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for summary box with rounded border
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)

	// headerBoxStyle for the header
	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)
)

// FormatHeader renders the batch header with configuration info
func FormatHeader(w io.Writer, cfg *Config, mode string, files int) {
	output := cfg.OutputDir
	if output == "" {
		output = "(in place)"
	}
	content := fmt.Sprintf("%s %s  %s %d\n%s %s\n%s %s",
		dimStyle.Render("Mode:"), titleStyle.Render(mode),
		dimStyle.Render("Files:"), files,
		dimStyle.Render("Input:"), cfg.InputDir,
		dimStyle.Render("Output:"), output,
	)
	if cfg.DryRun {
		content += "\n" + warnStyle.Render("DRY RUN - no files will be written")
	}
	if cfg.Strict {
		content += "\n" + dimStyle.Render("Strict: warnings count as errors")
	}
	fmt.Fprintln(w, headerBoxStyle.Render(content))
}

// FormatFileResult renders one line per processed file
func FormatFileResult(w io.Writer, rep *report.Processing) {
	name := filepath.Base(rep.Path)
	if len(rep.Errors) > 0 {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗"), name)
		for _, e := range rep.Errors {
			fmt.Fprintf(w, "  %s\n", errorStyle.Render(e))
		}
		return
	}
	mark := successStyle.Render("✓")
	if !rep.ValidationPassed {
		mark = warnStyle.Render("⚠")
	}
	fmt.Fprintf(w, "%s %s  %s %d  %s %d\n", mark, name,
		dimStyle.Render("sections:"), rep.SectionsRenumbered,
		dimStyle.Render("bullets:"), rep.BulletsRepaired,
	)
}

// FormatChange renders a verbose before/after line
func FormatChange(w io.Writer, line int, before, after string) {
	fmt.Fprintf(w, "  %s %s\n  %s %s\n",
		dimStyle.Render(fmt.Sprintf("%5d -", line)), before,
		dimStyle.Render("      +"), after,
	)
}

// FormatNote renders a muted detail line
func FormatNote(w io.Writer, msg string) {
	fmt.Fprintln(w, "  "+dimStyle.Render(msg))
}

// FormatValidation renders one validation result, with issues when verbose
func FormatValidation(w io.Writer, v *validate.Result, verbose bool) {
	name := filepath.Base(v.Path)
	status := successStyle.Render(string(v.Status()))
	if !v.Passed() {
		status = errorStyle.Render(string(v.Status()))
	}
	fmt.Fprintf(w, "%s %s  %s %d  %s %d\n", status, name,
		dimStyle.Render("errors:"), v.Errors(),
		dimStyle.Render("warnings:"), v.Warnings(),
	)
	if !verbose {
		return
	}
	for _, i := range v.Issues {
		style := warnStyle
		if i.Severity == validate.SeverityError {
			style = errorStyle
		}
		fmt.Fprintf(w, "  %s\n", style.Render(i.String()))
	}
}

// FormatValidationSummary renders the validation totals box
func FormatValidationSummary(w io.Writer, s validate.Summary) {
	status := successStyle.Render("PASS")
	if s.Failed > 0 {
		status = errorStyle.Render("FAIL")
	}
	line := fmt.Sprintf("%s %d  %s %d  %s %d  %s %s  %s %s  %s",
		dimStyle.Render("Documents:"), s.Documents,
		dimStyle.Render("Passed:"), s.Passed,
		dimStyle.Render("Failed:"), s.Failed,
		dimStyle.Render("Errors:"), formatNumber(s.Errors),
		dimStyle.Render("Warnings:"), formatNumber(s.Warnings),
		status,
	)
	fmt.Fprintln(w, boxStyle.Render(titleStyle.Render("Validation Complete")+"\n"+line))
}

// FormatSummary renders the batch summary box
func FormatSummary(w io.Writer, res *Run) {
	t := res.Reports.Totals()

	status := successStyle.Render("OK")
	if !res.OK() {
		status = errorStyle.Render("FAILED")
	}

	line1 := fmt.Sprintf("%s %.1fs  %s %d  %s %d/%d",
		dimStyle.Render("Duration:"), res.Duration.Seconds(),
		dimStyle.Render("Files:"), t.Chapters,
		dimStyle.Render("Validated:"), t.ValidationPassed, t.Chapters,
	)
	line2 := fmt.Sprintf("%s %s  %s %s  %s %d  %s",
		dimStyle.Render("Sections:"), formatNumber(t.SectionsRenumbered),
		dimStyle.Render("Bullets:"), formatNumber(t.BulletsRepaired),
		dimStyle.Render("Errors:"), t.Errors,
		status,
	)
	content := titleStyle.Render("Batch Complete") + "\n" + line1 + "\n" + line2
	if len(res.Written) > 0 {
		content += "\n" + dimStyle.Render(fmt.Sprintf("Wrote %d files", len(res.Written)))
	}
	fmt.Fprintln(w, boxStyle.Render(content))
}

// formatNumber adds commas to large numbers for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return fmt.Sprintf("%d,%03d,%03d", n/1000000, (n/1000)%1000, n%1000)
}
