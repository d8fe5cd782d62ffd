// Package merge combines chapter files that were extracted in several parts.
package merge

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/itsmostafa/chapterfix/internal/mdline"
)

// sparseThreshold is the number of content lines below which a section
// counts as sparse.
const sparseThreshold = 3

// Section is a header line and the lines up to the next header.
type Section struct {
	Heading string
	Level   int
	Number  string
	Title   string
	Content []string
}

// Sparse reports whether the section has fewer than three non-blank,
// non-heading lines.
func (s Section) Sparse() bool {
	n := 0
	for _, l := range s.Content {
		t := strings.TrimSpace(l)
		if t != "" && !strings.HasPrefix(t, "#") {
			n++
		}
	}
	return n < sparseThreshold
}

// Lines returns the heading followed by the content.
func (s Section) Lines() []string {
	return append([]string{s.Heading}, s.Content...)
}

// ParseSections splits lines at every header. Lines before the first header
// are returned as the preamble.
func ParseSections(lines []string) (preamble []string, sections []Section) {
	var fence mdline.FenceTracker
	var cur *Section
	for _, line := range lines {
		inCode := fence.Step(line)
		level, isHeader := mdline.HeaderLevel(line)
		if inCode || !isHeader {
			if cur == nil {
				preamble = append(preamble, line)
			} else {
				cur.Content = append(cur.Content, line)
			}
			continue
		}
		if cur != nil {
			sections = append(sections, *cur)
		}
		text := mdline.HeaderText(line)
		number, title, ok := mdline.SplitNumber(text)
		if !ok {
			number, title = "", text
		}
		cur = &Section{Heading: line, Level: level, Number: number, Title: title}
	}
	if cur != nil {
		sections = append(sections, *cur)
	}
	return preamble, sections
}

// Duplicate is a removed repeat of an already seen section number.
type Duplicate struct {
	Number string
	Title  string
	Line   int // 1-based line of the removed heading
}

// Dedupe keeps the first section for every section number and drops later
// repeats together with their content. Unnumbered headers stay attached to
// the numbered section before them.
func Dedupe(lines []string) ([]string, []Duplicate) {
	var out []string
	var dups []Duplicate
	seen := make(map[string]bool)
	var fence mdline.FenceTracker

	skipping := false
	for i, line := range lines {
		inCode := fence.Step(line)
		if !inCode && mdline.IsHeader(line) {
			number, title, ok := mdline.SplitNumber(mdline.HeaderText(line))
			if ok && number != "" {
				if seen[number] {
					skipping = true
					dups = append(dups, Duplicate{Number: number, Title: title, Line: i + 1})
					continue
				}
				seen[number] = true
				skipping = false
			}
		}
		if !skipping {
			out = append(out, line)
		}
	}
	return out, dups
}

// Result describes a MergeParts run.
type Result struct {
	Lines     []string
	Primary   int
	Secondary int
	Merged    []Section
	Enriched  []Section // sparse primary sections replaced by the secondary
	Appended  []Section // sections only the secondary had
}

// MergeParts merges two parts section by section. The primary wins unless
// its section is sparse and the secondary's is not. Numbered sections only
// the secondary has are appended in numeric order.
func MergeParts(primary, secondary []string) *Result {
	preamble, first := ParseSections(primary)
	_, second := ParseSections(secondary)

	byNumber := make(map[string]Section, len(second))
	for _, s := range second {
		if s.Number != "" {
			if _, ok := byNumber[s.Number]; !ok {
				byNumber[s.Number] = s
			}
		}
	}

	r := &Result{Primary: len(first), Secondary: len(second)}
	have := make(map[string]bool, len(first))
	for _, s := range first {
		if s.Number != "" {
			have[s.Number] = true
		}
		if s.Number != "" && s.Sparse() {
			if alt, ok := byNumber[s.Number]; ok && !alt.Sparse() {
				r.Merged = append(r.Merged, alt)
				r.Enriched = append(r.Enriched, s)
				continue
			}
		}
		r.Merged = append(r.Merged, s)
	}

	var extra []Section
	for number, s := range byNumber {
		if !have[number] {
			extra = append(extra, s)
		}
	}
	sort.Slice(extra, func(i, j int) bool {
		return CompareNumbers(extra[i].Number, extra[j].Number) < 0
	})
	r.Merged = append(r.Merged, extra...)
	r.Appended = extra

	lines := append([]string{}, preamble...)
	for _, s := range r.Merged {
		lines = append(lines, s.Lines()...)
	}
	r.Lines = CleanStructure(lines)
	return r
}

// CleanStructure collapses every run of blank lines to a single blank line.
func CleanStructure(lines []string) []string {
	out := make([]string, 0, len(lines))
	prevBlank := false
	for _, l := range lines {
		blank := mdline.IsBlank(l)
		if blank && prevBlank {
			continue
		}
		prevBlank = blank
		out = append(out, l)
	}
	return out
}

// CompareNumbers orders dotted section numbers part by part.
func CompareNumbers(a, b string) int {
	pa, pb := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		x, _ := strconv.Atoi(pa[i])
		y, _ := strconv.Atoi(pb[i])
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return len(pa) - len(pb)
}

// Report renders a Markdown merge report.
func (r *Result) Report(title, date string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if date != "" {
		fmt.Fprintf(&b, "**Date**: %s\n\n", date)
	}
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Part 1 sections: %d\n", r.Primary)
	fmt.Fprintf(&b, "- Part 2 sections: %d\n", r.Secondary)
	fmt.Fprintf(&b, "- Merged sections: %d\n\n", len(r.Merged))

	b.WriteString("## Sections Enriched from Part 2\n\n")
	for _, s := range r.Enriched {
		fmt.Fprintf(&b, "- %s %s\n", s.Number, s.Title)
	}
	fmt.Fprintf(&b, "\n**Total sections enriched**: %d\n\n", len(r.Enriched))

	if len(r.Appended) > 0 {
		b.WriteString("## Sections Added from Part 2\n\n")
		for _, s := range r.Appended {
			fmt.Fprintf(&b, "- %s %s\n", s.Number, s.Title)
		}
		b.WriteString("\n")
	}

	sparse := 0
	for _, s := range r.Merged {
		if s.Sparse() {
			sparse++
		}
	}
	b.WriteString("## Statistics\n\n")
	fmt.Fprintf(&b, "- Total headings: %d\n", len(r.Merged))
	fmt.Fprintf(&b, "- Sections with substantial content: %d\n", len(r.Merged)-sparse)
	fmt.Fprintf(&b, "- Sections still sparse: %d\n", sparse)
	return b.String()
}
