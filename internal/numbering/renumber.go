package numbering

import (
	"fmt"
	"strings"

	"github.com/itsmostafa/chapterfix/internal/mdline"
)

// DefaultMaxHeadingLevel is the deepest heading FlattenHeadings keeps.
const DefaultMaxHeadingLevel = 4

// Change describes one header rewritten by Renumber.
type Change struct {
	Line      int // 0-based line index
	Level     int
	OldNumber string // "" when the header had no number
	NewNumber string
	Title     string
	OldLine   string
	NewLine   string
}

// Renumbered reports whether the header's number changed.
func (c Change) Renumbered() bool {
	return c.OldNumber != c.NewNumber
}

// Result is the output of a renumbering pass.
type Result struct {
	Lines   []string
	Changes []Change
	Headers int
}

// Renumber rewrites every header outside fenced code with a fresh number.
// Existing numeric prefixes are replaced. The input slice is not modified.
func Renumber(lines []string) (*Result, error) {
	n := NewNumberer()
	out := make([]string, len(lines))
	copy(out, lines)

	res := &Result{Lines: out}
	var fence mdline.FenceTracker
	for i, line := range lines {
		if fence.Step(line) {
			continue
		}
		level, ok := mdline.HeaderLevel(line)
		if !ok {
			continue
		}
		number, err := n.ProcessHeader(level)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		res.Headers++

		text := mdline.HeaderText(line)
		oldNumber, _, hasNumber := mdline.SplitNumber(text)
		if !hasNumber && isNumber(text) {
			oldNumber, hasNumber = strings.TrimRight(text, "."), true
		}
		if !hasNumber {
			oldNumber = ""
		}
		title := mdline.StripNumber(text)

		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		newLine := indent + strings.Repeat("#", level) + " " + number
		if title != "" {
			newLine += " " + title
		}
		out[i] = newLine

		if newLine != line {
			res.Changes = append(res.Changes, Change{
				Line:      i,
				Level:     level,
				OldNumber: oldNumber,
				NewNumber: number,
				Title:     title,
				OldLine:   line,
				NewLine:   newLine,
			})
		}
	}
	return res, nil
}

// Preview returns the changes Renumber would make without keeping the output.
func Preview(lines []string) ([]Change, error) {
	res, err := Renumber(lines)
	if err != nil {
		return nil, err
	}
	return res.Changes, nil
}

// FlattenHeadings rewrites headers deeper than maxLevel to maxLevel.
// It returns the new lines and the number of headers changed.
func FlattenHeadings(lines []string, maxLevel int) ([]string, int) {
	if maxLevel < 1 || maxLevel > mdline.MaxHeaderLevel {
		maxLevel = DefaultMaxHeadingLevel
	}
	out := make([]string, len(lines))
	copy(out, lines)

	changed := 0
	var fence mdline.FenceTracker
	for i, line := range lines {
		if fence.Step(line) {
			continue
		}
		level, ok := mdline.HeaderLevel(line)
		if !ok || level <= maxLevel {
			continue
		}
		out[i] = strings.Repeat("#", maxLevel) + " " + mdline.HeaderText(line)
		changed++
	}
	return out, changed
}

func isNumber(s string) bool {
	s = strings.TrimRight(s, ".")
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
