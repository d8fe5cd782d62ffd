// Package reformat turns raw PDF-extracted chapter text into clean Markdown.
package reformat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/itsmostafa/chapterfix/internal/bullets"
	"github.com/itsmostafa/chapterfix/internal/mdline"
)

var (
	pageMarkerPattern   = regexp.MustCompile(`Page \d+ of [X\d]+`)
	numberedLinePattern = regexp.MustCompile(`^(\d+(?:\.\d+)*)\s+(.+)`)
)

// Options configures Chapter.
type Options struct {
	// Chapter is the chapter number whose repeated headings are dropped; -1
	// disables that step.
	Chapter int
	// FooterMarkers are substrings identifying running footer lines.
	FooterMarkers []string
}

// Stats counts what Chapter changed.
type Stats struct {
	PageMarkersRemoved int `json:"page_markers_removed"`
	DuplicateHeadings  int `json:"duplicate_headings_removed"`
	BulletsConverted   int `json:"bullets_converted"`
	HeadingsNormalized int `json:"headings_normalized"`
	Headings           int `json:"headings"`
	ListItems          int `json:"list_items"`
}

// Chapter runs every cleanup step in order: page markers, repeated chapter
// headings, unicode bullets, numbered headings, list spacing, then general
// spacing.
func Chapter(lines []string, opts Options) ([]string, Stats) {
	var st Stats
	lines, st.PageMarkersRemoved = RemovePageMarkers(lines, opts.FooterMarkers)
	if opts.Chapter >= 0 {
		lines, st.DuplicateHeadings = RemoveDuplicateChapterHeadings(lines, opts.Chapter)
	}
	lines, st.BulletsConverted = bullets.ConvertUnicode(lines)
	lines, st.HeadingsNormalized = NormalizeHeadings(lines)
	lines = CleanListSpacing(lines)
	lines = ApplySpacing(lines)

	for _, l := range lines {
		switch {
		case mdline.IsHeader(l):
			st.Headings++
		case mdline.IsBulletItem(l):
			st.ListItems++
		}
	}
	return lines, st
}

// RemovePageMarkers drops "Page X of Y" lines and lines containing any of
// the footer markers.
func RemovePageMarkers(lines []string, footers []string) ([]string, int) {
	out := make([]string, 0, len(lines))
	removed := 0
	for _, l := range lines {
		if pageMarkerPattern.MatchString(l) || containsAny(l, footers) {
			removed++
			continue
		}
		out = append(out, l)
	}
	return out, removed
}

// RemoveDuplicateChapterHeadings keeps the first "CHAPTER n:" or
// "n. TITLE" line and drops the repeats printed on later pages.
func RemoveDuplicateChapterHeadings(lines []string, chapter int) ([]string, int) {
	patterns := []*regexp.Regexp{
		regexp.MustCompile(fmt.Sprintf(`(?i)^CHAPTER %d[:.]`, chapter)),
		regexp.MustCompile(fmt.Sprintf(`(?i)^%d\.\s+[A-Z\s]+`, chapter)),
	}

	out := make([]string, 0, len(lines))
	seen := false
	removed := 0
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if patterns[0].MatchString(t) || patterns[1].MatchString(t) {
			if seen {
				removed++
				continue
			}
			seen = true
		}
		out = append(out, l)
	}
	return out, removed
}

// NormalizeHeadings turns plain "2.1.3 Title" lines into headers whose level
// is the number's depth, capped at 6, with a blank line on either side.
func NormalizeHeadings(lines []string) ([]string, int) {
	out := make([]string, 0, len(lines))
	converted := 0
	var fence mdline.FenceTracker

	for i, l := range lines {
		if fence.Step(l) {
			out = append(out, l)
			continue
		}
		m := numberedLinePattern.FindStringSubmatch(strings.TrimSpace(l))
		if m == nil {
			out = append(out, l)
			continue
		}
		level := strings.Count(m[1], ".") + 1
		if level > mdline.MaxHeaderLevel {
			level = mdline.MaxHeaderLevel
		}
		if len(out) > 0 && !mdline.IsBlank(out[len(out)-1]) {
			out = append(out, "")
		}
		out = append(out, strings.Repeat("#", level)+" "+m[1]+" "+strings.TrimSpace(m[2]))
		if i < len(lines)-1 {
			out = append(out, "")
		}
		converted++
	}
	return out, converted
}

// CleanListSpacing removes blank lines between list items and makes sure a
// list has one blank line before and after it.
func CleanListSpacing(lines []string) []string {
	out := make([]string, 0, len(lines))
	inList := false
	prevBlank := false

	for i, l := range lines {
		item := mdline.IsBulletItem(l)
		blank := mdline.IsBlank(l)
		switch {
		case item:
			if !inList && len(out) > 0 && !prevBlank {
				out = append(out, "")
			}
			inList = true
			prevBlank = false
			out = append(out, l)
		case inList && blank:
			if i+1 < len(lines) && mdline.IsBulletItem(lines[i+1]) {
				continue
			}
			out = append(out, "")
			inList = false
			prevBlank = true
		default:
			if inList && len(out) > 0 && !prevBlank {
				out = append(out, "")
			}
			inList = false
			out = append(out, l)
			prevBlank = blank
		}
	}
	return out
}

// ApplySpacing trims trailing whitespace, keeps at most two consecutive
// blank lines and ends the document with exactly one newline.
func ApplySpacing(lines []string) []string {
	out := make([]string, 0, len(lines))
	blanks := 0
	for _, l := range lines {
		l = strings.TrimRight(l, " \t")
		if l == "" {
			blanks++
			if blanks > 2 {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, l)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return append(out, "")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
