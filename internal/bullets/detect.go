// Package bullets detects Markdown bullet lists and rewrites them into a
// canonical indentation and marker scheme.
package bullets

import (
	"github.com/itsmostafa/chapterfix/internal/mdline"
)

// Block is a half-open line range [Start, End) holding one bullet list.
type Block struct {
	Start int
	End   int
}

// Len returns the number of lines in the block.
func (b Block) Len() int {
	return b.End - b.Start
}

// Lines returns the block's slice of lines.
func (b Block) Lines(lines []string) []string {
	return lines[b.Start:b.End]
}

// DetectBlocks finds maximal runs of bullet items.
//
// A blank line stays inside a run only when the next non-blank line is an
// item. A non-blank line indented deeper than the previous item is a
// continuation line and stays inside the run. Fenced code ends a run and is
// never scanned for items.
func DetectBlocks(lines []string) []Block {
	var (
		blocks     []Block
		fence      mdline.FenceTracker
		start      = -1
		last       = -1
		lastIndent = 0
	)

	flush := func() {
		if start >= 0 {
			blocks = append(blocks, Block{Start: start, End: last + 1})
			start = -1
		}
	}

	for i, line := range lines {
		if fence.Step(line) {
			flush()
			continue
		}
		if mdline.IsBulletItem(line) {
			if start < 0 {
				start = i
			}
			last = i
			lastIndent = mdline.LeadingSpaces(line)
			continue
		}
		if start < 0 {
			continue
		}
		if mdline.IsBlank(line) {
			if next := nextNonBlank(lines, i+1); next >= 0 && mdline.IsBulletItem(lines[next]) {
				continue
			}
			flush()
			continue
		}
		if mdline.LeadingSpaces(line) > lastIndent {
			last = i
			continue
		}
		flush()
	}
	flush()

	return blocks
}

// ContinuationLines returns the indices (relative to block) of non-item,
// non-blank lines inside a block.
func ContinuationLines(block []string) []int {
	var idx []int
	for i, line := range block {
		if !mdline.IsBlank(line) && !mdline.IsBulletItem(line) {
			idx = append(idx, i)
		}
	}
	return idx
}

func nextNonBlank(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if !mdline.IsBlank(lines[i]) {
			return i
		}
	}
	return -1
}
