// Package report renders per-chapter processing reports and the batch
// repair report.
package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultTitle heads the aggregate report.
const DefaultTitle = "Document Structure Repair Report"

// Processing summarizes the repairs applied to one document.
type Processing struct {
	Path               string
	Chapter            int
	Repairs            []string
	SectionsRenumbered int
	BulletsRepaired    int
	ContentRestored    bool
	ValidationPassed   bool
	Errors             []string
	Generated          time.Time
}

// New starts a report for path.
func New(path string, chapter int, now time.Time) *Processing {
	return &Processing{Path: path, Chapter: chapter, Generated: now}
}

// AddRepair records a repair description.
func (p *Processing) AddRepair(format string, args ...any) {
	p.Repairs = append(p.Repairs, fmt.Sprintf(format, args...))
}

// AddError records an error. A nil err is ignored.
func (p *Processing) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err.Error())
	}
}

// OK reports whether the document validated with no errors.
func (p *Processing) OK() bool {
	return p.ValidationPassed && len(p.Errors) == 0
}

// Markdown renders the report.
func (p *Processing) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Processing Report: Chapter %s\n\n", chapterLabel(p))
	fmt.Fprintf(&b, "**Document**: `%s`\n", filepath.Base(p.Path))
	fmt.Fprintf(&b, "**Generated**: %s\n\n", p.Generated.Format("2006-01-02 15:04:05"))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Sections Renumbered**: %d\n", p.SectionsRenumbered)
	fmt.Fprintf(&b, "- **Bullets Repaired**: %d\n", p.BulletsRepaired)
	fmt.Fprintf(&b, "- **Content Restored**: %s\n", yesNo(p.ContentRestored))
	if p.ValidationPassed {
		b.WriteString("- **Validation Status**: ✓ PASSED\n")
	} else {
		b.WriteString("- **Validation Status**: ✗ FAILED\n")
	}

	if len(p.Repairs) > 0 {
		b.WriteString("\n## Repairs Applied\n\n")
		for _, r := range p.Repairs {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	if len(p.Errors) > 0 {
		b.WriteString("\n## Errors\n\n")
		for _, e := range p.Errors {
			fmt.Fprintf(&b, "- ❌ %s\n", e)
		}
	}
	return b.String()
}

// Totals are the sums over an Aggregate.
type Totals struct {
	Chapters           int
	SectionsRenumbered int
	BulletsRepaired    int
	ContentRestored    int
	ValidationPassed   int
	Errors             int
}

// Aggregate combines the processing reports of a batch.
type Aggregate struct {
	Title     string
	Reports   []*Processing
	Generated time.Time
}

// NewAggregate returns an empty aggregate with the default title.
func NewAggregate(now time.Time) *Aggregate {
	return &Aggregate{Title: DefaultTitle, Generated: now}
}

// Add appends a processing report.
func (a *Aggregate) Add(p *Processing) {
	a.Reports = append(a.Reports, p)
}

// Totals sums the reports.
func (a *Aggregate) Totals() Totals {
	t := Totals{Chapters: len(a.Reports)}
	for _, r := range a.Reports {
		t.SectionsRenumbered += r.SectionsRenumbered
		t.BulletsRepaired += r.BulletsRepaired
		if r.ContentRestored {
			t.ContentRestored++
		}
		if r.ValidationPassed {
			t.ValidationPassed++
		}
		t.Errors += len(r.Errors)
	}
	return t
}

// Success reports whether every chapter validated and nothing errored.
func (a *Aggregate) Success() bool {
	t := a.Totals()
	return t.ValidationPassed == t.Chapters && t.Errors == 0
}

// Markdown renders the aggregate report with one table row per chapter,
// ordered by chapter number.
func (a *Aggregate) Markdown() string {
	t := a.Totals()

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Title)
	fmt.Fprintf(&b, "**Generated**: %s\n\n", a.Generated.Format("2006-01-02 15:04:05"))

	b.WriteString("## Overall Summary\n\n")
	fmt.Fprintf(&b, "- **Total Chapters Processed**: %d\n", t.Chapters)
	fmt.Fprintf(&b, "- **Total Sections Renumbered**: %d\n", t.SectionsRenumbered)
	fmt.Fprintf(&b, "- **Total Bullets Repaired**: %d\n", t.BulletsRepaired)
	fmt.Fprintf(&b, "- **Chapters with Content Restored**: %d\n", t.ContentRestored)
	fmt.Fprintf(&b, "- **Chapters Passing Validation**: %d/%d\n", t.ValidationPassed, t.Chapters)
	fmt.Fprintf(&b, "- **Total Errors**: %d\n\n", t.Errors)

	if a.Success() {
		b.WriteString("**Overall Status**: ✓ SUCCESS\n\n")
	} else {
		b.WriteString("**Overall Status**: ⚠ WARNINGS OR ERRORS\n\n")
	}

	reports := make([]*Processing, len(a.Reports))
	copy(reports, a.Reports)
	sort.SliceStable(reports, func(i, j int) bool { return reports[i].Chapter < reports[j].Chapter })

	b.WriteString("## Chapter Details\n\n")
	b.WriteString("| Chapter | Sections | Bullets | Content | Validation | Errors |\n")
	b.WriteString("|---------|----------|---------|---------|------------|--------|\n")
	for _, r := range reports {
		content := "-"
		if r.ContentRestored {
			content = "✓"
		}
		validation := "✗"
		if r.ValidationPassed {
			validation = "✓"
		}
		errs := "0"
		if n := len(r.Errors); n > 0 {
			errs = fmt.Sprintf("⚠ %d", n)
		}
		fmt.Fprintf(&b, "| %s | %d | %d | %s | %s | %s |\n",
			chapterLabel(r), r.SectionsRenumbered, r.BulletsRepaired, content, validation, errs)
	}

	var withErrors []*Processing
	for _, r := range reports {
		if len(r.Errors) > 0 {
			withErrors = append(withErrors, r)
		}
	}
	if len(withErrors) > 0 {
		b.WriteString("\n## Error Details\n")
		for _, r := range withErrors {
			fmt.Fprintf(&b, "\n### Chapter %s\n\n", chapterLabel(r))
			for _, e := range r.Errors {
				fmt.Fprintf(&b, "- %s\n", e)
			}
		}
	}
	return b.String()
}

// chapterLabel falls back to the file name for documents without a
// chapter number.
func chapterLabel(p *Processing) string {
	if p.Chapter < 0 {
		return filepath.Base(p.Path)
	}
	return fmt.Sprintf("%d", p.Chapter)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
