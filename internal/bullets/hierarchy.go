package bullets

import (
	"fmt"
	"sort"

	"github.com/itsmostafa/chapterfix/internal/mdline"
)

const (
	// DefaultBaseIndent is used when the base indent cannot be inferred.
	DefaultBaseIndent = 2
	// maxBaseIndent bounds a believable inferred indent unit.
	maxBaseIndent = 8
	// maxDistinctIndents is the point where ValidateHierarchy complains.
	maxDistinctIndents = 6
)

// Item is one bullet in a List. Parent and Children index into List.Items.
type Item struct {
	Line     int // index into the lines the list was built from
	Indent   int
	Level    int
	Marker   string
	Content  string
	Parent   int // -1 for top-level items
	Children []int
}

// List is a bullet block with its items stored in an arena.
type List struct {
	Block      Block
	BaseIndent int
	MaxDepth   int // deepest level observed, 0-based
	Items      []Item
}

// DetectBaseIndent infers the number of spaces per nesting level as the GCD
// of the differences between distinct item indents.
func DetectBaseIndent(block []string) int {
	return detectBaseIndent(block, DefaultBaseIndent)
}

// detectBaseIndent returns fallback when fewer than two distinct indents
// exist or the GCD is not a believable unit.
func detectBaseIndent(block []string, fallback int) int {
	seen := make(map[int]bool)
	var indents []int
	for _, line := range block {
		if !mdline.IsBulletItem(line) {
			continue
		}
		n := mdline.LeadingSpaces(line)
		if !seen[n] {
			seen[n] = true
			indents = append(indents, n)
		}
	}
	if len(indents) < 2 {
		return fallback
	}
	sort.Ints(indents)

	g := 0
	for i := 1; i < len(indents); i++ {
		g = gcd(g, indents[i]-indents[i-1])
	}
	if g < 1 || g > maxBaseIndent {
		return fallback
	}
	return g
}

// AnalyzeHierarchy maps each item in block to its nesting level.
// A baseIndent <= 0 is inferred with DetectBaseIndent.
func AnalyzeHierarchy(block []string, baseIndent int) []Item {
	if baseIndent <= 0 {
		baseIndent = DetectBaseIndent(block)
	}
	var items []Item
	for i, line := range block {
		if !mdline.IsBulletItem(line) {
			continue
		}
		indent := mdline.LeadingSpaces(line)
		items = append(items, Item{
			Line:    i,
			Indent:  indent,
			Level:   indent / baseIndent,
			Marker:  mdline.Marker(line),
			Content: mdline.ItemContent(line),
			Parent:  -1,
		})
	}
	return items
}

// BuildList analyzes the block of lines and links every item to the nearest
// preceding item with a shallower level.
func BuildList(lines []string, b Block) *List {
	block := b.Lines(lines)
	base := DetectBaseIndent(block)
	items := AnalyzeHierarchy(block, base)

	var stack []int
	maxDepth := 0
	for i := range items {
		items[i].Line += b.Start
		for len(stack) > 0 && items[stack[len(stack)-1]].Level >= items[i].Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			items[i].Parent = parent
			items[parent].Children = append(items[parent].Children, i)
		}
		stack = append(stack, i)
		if items[i].Level > maxDepth {
			maxDepth = items[i].Level
		}
	}

	return &List{
		Block:      b,
		BaseIndent: base,
		MaxDepth:   maxDepth,
		Items:      items,
	}
}

// Roots returns the indices of top-level items.
func (l *List) Roots() []int {
	var roots []int
	for i, it := range l.Items {
		if it.Parent < 0 {
			roots = append(roots, i)
		}
	}
	return roots
}

// Path returns the chain of item indices from the root down to item i.
func (l *List) Path(i int) []int {
	var path []int
	for ; i >= 0; i = l.Items[i].Parent {
		path = append([]int{i}, path...)
	}
	return path
}

// ValidateHierarchy reports structural oddities in a list: level jumps of
// more than one, mixed markers at one level, and too many distinct indents.
func ValidateHierarchy(l *List) []string {
	var warnings []string

	markers := make(map[int]map[string]bool)
	indents := make(map[int]bool)
	prev := -1
	for _, it := range l.Items {
		if prev >= 0 && it.Level > prev+1 {
			warnings = append(warnings, fmt.Sprintf("line %d: level jumps from %d to %d", it.Line+1, prev, it.Level))
		}
		if markers[it.Level] == nil {
			markers[it.Level] = make(map[string]bool)
		}
		markers[it.Level][it.Marker] = true
		indents[it.Indent] = true
		prev = it.Level
	}

	levels := make([]int, 0, len(markers))
	for level := range markers {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	for _, level := range levels {
		if len(markers[level]) > 1 {
			warnings = append(warnings, fmt.Sprintf("level %d mixes %d marker styles", level, len(markers[level])))
		}
	}
	if len(indents) > maxDistinctIndents {
		warnings = append(warnings, fmt.Sprintf("%d distinct indent widths in one list", len(indents)))
	}
	return warnings
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}
