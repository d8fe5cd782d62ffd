// Package numbering assigns hierarchical section numbers to Markdown headers.
package numbering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/itsmostafa/chapterfix/internal/mdline"
)

// InvalidLevelError is returned for header levels outside 1..6.
type InvalidLevelError struct {
	Level int
}

func (e *InvalidLevelError) Error() string {
	return fmt.Sprintf("invalid header level %d: must be between 1 and %d", e.Level, mdline.MaxHeaderLevel)
}

// Numberer is a counter stack producing "1.2.3" style numbers.
// Use one Numberer per document.
type Numberer struct {
	counters [mdline.MaxHeaderLevel]int
	current  int
}

// NewNumberer returns a Numberer with all counters at zero.
func NewNumberer() *Numberer {
	return &Numberer{}
}

// Reset zeroes every counter.
func (n *Numberer) Reset() {
	n.counters = [mdline.MaxHeaderLevel]int{}
	n.current = 0
}

// ProcessHeader increments the counter at level, zeroes deeper counters and
// returns the number for that level.
//
// Skipped levels are not filled in: after "1", a level 3 header yields "1.0.1".
func (n *Numberer) ProcessHeader(level int) (string, error) {
	if level < 1 || level > mdline.MaxHeaderLevel {
		return "", &InvalidLevelError{Level: level}
	}
	n.counters[level-1]++
	for i := level; i < mdline.MaxHeaderLevel; i++ {
		n.counters[i] = 0
	}
	n.current = level
	return n.format(level), nil
}

// Current returns the most recently produced number, or "" before any header.
func (n *Numberer) Current() string {
	if n.current == 0 {
		return ""
	}
	return n.format(n.current)
}

func (n *Numberer) format(level int) string {
	parts := make([]string, level)
	for i := 0; i < level; i++ {
		parts[i] = strconv.Itoa(n.counters[i])
	}
	return strings.Join(parts, ".")
}
