// Package mdline classifies single Markdown lines.
//
// Every function here looks at one line in isolation. Callers that need to
// skip fenced code keep a FenceTracker alongside their own loop.
package mdline

import (
	"regexp"
	"strings"
)

// MaxHeaderLevel is the deepest ATX header level.
const MaxHeaderLevel = 6

// TabWidth is the number of spaces a tab counts for in indentation.
const TabWidth = 4

var (
	headerPattern      = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	codeFencePattern   = regexp.MustCompile("^(```|~~~)")
	sectionNumPattern  = regexp.MustCompile(`^([\d.]+)\s+(.*)$`)
	numberPrefixRegexp = regexp.MustCompile(`^\d+(\.\d+)*\.?(\s+|$)`)
	orderedItemPattern = regexp.MustCompile(`^\d+[.)]\s`)
)

// HeaderLevel returns the ATX level of line and whether it is a header.
func HeaderLevel(line string) (int, bool) {
	m := headerPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0, false
	}
	return len(m[1]), true
}

// IsHeader reports whether line is an ATX header.
func IsHeader(line string) bool {
	_, ok := HeaderLevel(line)
	return ok
}

// HeaderText returns the text after the leading hashes, trimmed.
func HeaderText(line string) string {
	m := headerPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[2])
}

// SplitNumber splits "1.2.3 Title" into its number and title.
// A trailing dot on the number is dropped.
func SplitNumber(text string) (number, title string, ok bool) {
	m := sectionNumPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", "", false
	}
	return strings.TrimRight(m[1], "."), strings.TrimSpace(m[2]), true
}

// StripNumber removes a leading "1.2.3" or "1.2.3." prefix from header text.
func StripNumber(text string) string {
	return strings.TrimSpace(numberPrefixRegexp.ReplaceAllString(strings.TrimSpace(text), ""))
}

// IsBulletItem reports whether line is a "-", "*" or "+" list item.
func IsBulletItem(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	switch s[0] {
	case '-', '*', '+':
		return len(s) == 1 || s[1] == ' ' || s[1] == '\t'
	}
	return false
}

// IsListItem reports whether line is a bullet or ordered list item.
func IsListItem(line string) bool {
	return IsBulletItem(line) || orderedItemPattern.MatchString(strings.TrimSpace(line))
}

// IsCodeFence reports whether line opens or closes a fenced code block.
func IsCodeFence(line string) bool {
	return codeFencePattern.MatchString(strings.TrimSpace(line))
}

// IsBlank reports whether line has no visible characters.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// LeadingSpaces counts indentation, with tabs worth TabWidth spaces.
func LeadingSpaces(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += TabWidth
		default:
			return n
		}
	}
	return n
}

// Marker returns the bullet character of a list item, or "" for other lines.
func Marker(line string) string {
	if !IsBulletItem(line) {
		return ""
	}
	return strings.TrimSpace(line)[:1]
}

// ItemContent returns the text after the bullet marker and one space.
func ItemContent(line string) string {
	s := strings.TrimLeft(line, " \t")
	if !IsBulletItem(s) {
		return s
	}
	if len(s) <= 2 {
		return ""
	}
	return s[2:]
}

// FenceTracker follows fenced code blocks across a sequence of lines.
type FenceTracker struct {
	open bool
}

// Step consumes line and reports whether it is fenced code (fence lines included).
func (f *FenceTracker) Step(line string) bool {
	if IsCodeFence(line) {
		f.open = !f.open
		return true
	}
	return f.open
}

// InCode reports whether the tracker is inside a fence.
func (f *FenceTracker) InCode() bool {
	return f.open
}

// Slugify turns heading text into a Markdown anchor.
func Slugify(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r == ' ' || r == '_':
			b.WriteByte('-')
		case r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NonBlankCount counts lines with visible content.
func NonBlankCount(lines []string) int {
	n := 0
	for _, l := range lines {
		if !IsBlank(l) {
			n++
		}
	}
	return n
}
