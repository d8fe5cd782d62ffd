// Package outline extracts the section hierarchy of a Markdown document.
package outline

import (
	"strings"

	"github.com/itsmostafa/chapterfix/internal/mdline"
	"github.com/itsmostafa/chapterfix/internal/numbering"
)

// Section is a header and everything up to the next header of the same or a
// shallower level, so a section's content includes its subsections.
type Section struct {
	ID        string // hierarchical position such as "1.2.3"
	Heading   string // header text without hashes
	Level     int
	LineStart int // 1-based, the header line
	LineEnd   int // 1-based, inclusive
	Content   string
	Parent    int // index into the slice, -1 for top-level sections
	Children  []int
	Tokens    int
}

// LineCount returns the number of lines the section spans.
func (s Section) LineCount() int {
	return s.LineEnd - s.LineStart + 1
}

// Body returns the content without header lines.
func (s Section) Body() string {
	var out []string
	for _, l := range strings.Split(s.Content, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(l), "#") {
			out = append(out, l)
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

type heading struct {
	line  int
	level int
	text  string
}

// ExtractSections returns every header outside fenced code as a Section.
func ExtractSections(lines []string) []Section {
	var heads []heading
	var fence mdline.FenceTracker
	for i, line := range lines {
		if fence.Step(line) {
			continue
		}
		if level, ok := mdline.HeaderLevel(line); ok {
			heads = append(heads, heading{line: i, level: level, text: mdline.HeaderText(line)})
		}
	}

	numberer := numbering.NewNumberer()
	sections := make([]Section, len(heads))
	var stack []int

	for idx, h := range heads {
		end := len(lines) - 1
		for _, next := range heads[idx+1:] {
			if next.level <= h.level {
				end = next.line - 1
				break
			}
		}
		id, _ := numberer.ProcessHeader(h.level)
		content := strings.Join(lines[h.line:end+1], "\n")

		for len(stack) > 0 && sections[stack[len(stack)-1]].Level >= h.level {
			stack = stack[:len(stack)-1]
		}
		parent := -1
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
			sections[parent].Children = append(sections[parent].Children, idx)
		}
		stack = append(stack, idx)

		sections[idx] = Section{
			ID:        id,
			Heading:   h.text,
			Level:     h.level,
			LineStart: h.line + 1,
			LineEnd:   end + 1,
			Content:   content,
			Parent:    parent,
			Tokens:    CountTokens(content),
		}
	}
	return sections
}

// FilterLevels keeps sections whose level is within [lo, hi].
func FilterLevels(sections []Section, lo, hi int) []Section {
	var out []Section
	for _, s := range sections {
		if s.Level >= lo && s.Level <= hi {
			out = append(out, s)
		}
	}
	return out
}
