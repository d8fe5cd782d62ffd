package outline

import (
	"fmt"
	"strings"

	"github.com/itsmostafa/chapterfix/internal/mdline"
)

// TOCHeading is the header of a generated table of contents.
const TOCHeading = "## Table of Contents"

// Anchor returns the link target for a numbered heading: the number and
// title slugified together with dots removed, "1.2 Safety Rules" becomes
// "12-safety-rules".
func Anchor(number, title string) string {
	text := strings.TrimSpace(number + " " + title)
	return mdline.Slugify(strings.ReplaceAll(text, ".", ""))
}

// GenerateTOC lists numbered headings from H2 to maxLevel as a nested
// Markdown list. It returns nil when there are none.
func GenerateTOC(lines []string, maxLevel int) []string {
	if maxLevel <= 0 || maxLevel > mdline.MaxHeaderLevel {
		maxLevel = mdline.MaxHeaderLevel
	}

	var entries []string
	var fence mdline.FenceTracker
	for _, line := range lines {
		if fence.Step(line) {
			continue
		}
		level, ok := mdline.HeaderLevel(line)
		if !ok || level < 2 || level > maxLevel {
			continue
		}
		number, title, ok := mdline.SplitNumber(mdline.HeaderText(line))
		if !ok || number == "" || strings.EqualFold(mdline.HeaderText(line), "Table of Contents") {
			continue
		}
		indent := strings.Repeat("  ", level-2)
		label := strings.TrimSpace(number + " " + title)
		entries = append(entries, fmt.Sprintf("%s- [%s](#%s)", indent, label, Anchor(number, title)))
	}
	if len(entries) == 0 {
		return nil
	}

	toc := []string{TOCHeading, ""}
	toc = append(toc, entries...)
	return append(toc, "", "---", "")
}

// RemoveTOC drops an existing table of contents: its header through the
// closing "---" line and one blank line after it.
func RemoveTOC(lines []string) ([]string, bool) {
	start := -1
	for i, l := range lines {
		if strings.EqualFold(strings.TrimSpace(l), TOCHeading) {
			start = i
			break
		}
	}
	if start < 0 {
		return lines, false
	}
	end := -1
	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end < 0 {
		return lines, false
	}
	if end+1 < len(lines) && mdline.IsBlank(lines[end+1]) {
		end++
	}
	out := append([]string{}, lines[:start]...)
	return append(out, lines[end+1:]...), true
}

// InsertTOC places toc after the first H1 and the blank lines that follow
// it, or at the top when there is no H1. An existing table of contents is
// replaced.
func InsertTOC(lines, toc []string) []string {
	if len(toc) == 0 {
		return lines
	}
	lines, _ = RemoveTOC(lines)

	at := 0
	for i, l := range lines {
		if level, ok := mdline.HeaderLevel(l); ok && level == 1 {
			at = i + 1
			for at < len(lines) && mdline.IsBlank(lines[at]) {
				at++
			}
			break
		}
	}

	out := make([]string, 0, len(lines)+len(toc))
	out = append(out, lines[:at]...)
	out = append(out, toc...)
	return append(out, lines[at:]...)
}
