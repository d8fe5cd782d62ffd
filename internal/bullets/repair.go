package bullets

import (
	"sort"
	"strings"

	"github.com/itsmostafa/chapterfix/internal/mdline"
)

// Depth limits. A MaxDepth of 0 means no limit beyond HardMaxDepth.
const (
	DefaultMaxDepth = 4
	HardMaxDepth    = 6
)

// DefaultMarkers is the cyclic marker sequence indexed by level.
var DefaultMarkers = []string{"-", "*", "+", "-", "*", "+"}

// Options controls Repair.
type Options struct {
	SpacesPerLevel int      // output indent per level, 1..8
	Markers        []string // marker per level, cycled
	MaxDepth       int      // levels >= MaxDepth are clamped; 0 or above HardMaxDepth means HardMaxDepth
	BaseIndent     int      // input indent unit; 0 infers it per block
}

// DefaultOptions returns two-space indents, rotating markers and a depth of four levels.
func DefaultOptions() Options {
	return Options{
		SpacesPerLevel: DefaultBaseIndent,
		Markers:        DefaultMarkers,
		MaxDepth:       DefaultMaxDepth,
	}
}

func (o Options) normalized() Options {
	if o.SpacesPerLevel < 1 || o.SpacesPerLevel > maxBaseIndent {
		o.SpacesPerLevel = DefaultBaseIndent
	}
	if len(o.Markers) == 0 {
		o.Markers = DefaultMarkers
	}
	if o.MaxDepth <= 0 || o.MaxDepth > HardMaxDepth {
		o.MaxDepth = HardMaxDepth
	}
	return o
}

// Stats summarizes what Repair changed in one block.
type Stats struct {
	OriginalItems      int `json:"original_items"`
	BaseIndentDetected int `json:"base_indent_detected"`
	IndentsChanged     int `json:"indents_changed"`
	MarkersChanged     int `json:"markers_changed"`
	ItemsFlattened     int `json:"items_flattened"`
}

// Add accumulates counts from other. BaseIndentDetected keeps the first value seen.
func (s *Stats) Add(other Stats) {
	s.OriginalItems += other.OriginalItems
	s.IndentsChanged += other.IndentsChanged
	s.MarkersChanged += other.MarkersChanged
	s.ItemsFlattened += other.ItemsFlattened
	if s.BaseIndentDetected == 0 {
		s.BaseIndentDetected = other.BaseIndentDetected
	}
}

// Changed reports whether any line was rewritten.
func (s Stats) Changed() bool {
	return s.IndentsChanged > 0 || s.MarkersChanged > 0 || s.ItemsFlattened > 0
}

// Repair standardizes indentation, limits depth, closes level gaps that
// share a common factor and applies the marker sequence, in that order.
// Lines that are not bullet items are returned as is. Repairing the output
// again changes nothing.
func Repair(block []string, opts Options) ([]string, Stats) {
	opts = opts.normalized()
	base := opts.BaseIndent
	if base <= 0 {
		base = detectBaseIndent(block, opts.SpacesPerLevel)
	}

	out := StandardizeIndentation(block, base, opts.SpacesPerLevel)
	out, flattened := LimitDepth(out, opts.MaxDepth, opts.SpacesPerLevel, nil)
	out = CompactLevels(out, opts.SpacesPerLevel)
	out = ApplyMarkers(out, opts.SpacesPerLevel, opts.Markers)

	stats := Stats{BaseIndentDetected: base, ItemsFlattened: flattened}
	for i, line := range block {
		if !mdline.IsBulletItem(line) {
			continue
		}
		stats.OriginalItems++
		if indentOf(line) != indentOf(out[i]) {
			stats.IndentsChanged++
		}
		if mdline.Marker(line) != mdline.Marker(out[i]) {
			stats.MarkersChanged++
		}
	}
	return out, stats
}

// StandardizeIndentation re-indents every item to level*spacesPerLevel,
// where level is its indent divided by baseIndent.
func StandardizeIndentation(block []string, baseIndent, spacesPerLevel int) []string {
	if baseIndent <= 0 {
		baseIndent = DefaultBaseIndent
	}
	out := make([]string, len(block))
	for i, line := range block {
		if !mdline.IsBulletItem(line) {
			out[i] = line
			continue
		}
		level := mdline.LeadingSpaces(line) / baseIndent
		out[i] = buildItem(level*spacesPerLevel, mdline.Marker(line), mdline.ItemContent(line))
	}
	return out
}

// CompactLevels divides the gaps between the distinct item levels by their
// GCD, keeping the shallowest level, so "0, 4" becomes "0, 1" and "1, 3, 7"
// becomes "1, 2, 4". The block must already use spacesPerLevel indentation.
func CompactLevels(block []string, spacesPerLevel int) []string {
	seen := make(map[int]bool)
	var levels []int
	for _, line := range block {
		if !mdline.IsBulletItem(line) {
			continue
		}
		level := mdline.LeadingSpaces(line) / spacesPerLevel
		if !seen[level] {
			seen[level] = true
			levels = append(levels, level)
		}
	}
	if len(levels) < 2 {
		return block
	}
	sort.Ints(levels)
	g := 0
	for i := 1; i < len(levels); i++ {
		g = gcd(g, levels[i]-levels[i-1])
	}
	if g <= 1 {
		return block
	}

	low := levels[0]
	out := make([]string, len(block))
	for i, line := range block {
		if !mdline.IsBulletItem(line) {
			out[i] = line
			continue
		}
		level := mdline.LeadingSpaces(line) / spacesPerLevel
		level = low + (level-low)/g
		out[i] = buildItem(level*spacesPerLevel, mdline.Marker(line), mdline.ItemContent(line))
	}
	return out
}

// ApplyMarkers sets each item's marker from markers, cycled by level.
// The block must already use spacesPerLevel indentation.
func ApplyMarkers(block []string, spacesPerLevel int, markers []string) []string {
	out := make([]string, len(block))
	for i, line := range block {
		if !mdline.IsBulletItem(line) || len(markers) == 0 {
			out[i] = line
			continue
		}
		indent := mdline.LeadingSpaces(line)
		level := indent / spacesPerLevel
		out[i] = buildItem(indent, markers[level%len(markers)], mdline.ItemContent(line))
	}
	return out
}

// LimitDepth clamps items at level >= maxDepth to maxDepth-1 and returns how
// many items it moved. Clamped items take the marker of their new level
// when markers is non-empty.
func LimitDepth(block []string, maxDepth, spacesPerLevel int, markers []string) ([]string, int) {
	if maxDepth <= 0 {
		maxDepth = HardMaxDepth
	}
	out := make([]string, len(block))
	flattened := 0
	for i, line := range block {
		if !mdline.IsBulletItem(line) {
			out[i] = line
			continue
		}
		level := mdline.LeadingSpaces(line) / spacesPerLevel
		if level < maxDepth {
			out[i] = line
			continue
		}
		newLevel := maxDepth - 1
		marker := mdline.Marker(line)
		if len(markers) > 0 {
			marker = markers[newLevel%len(markers)]
		}
		out[i] = buildItem(newLevel*spacesPerLevel, marker, mdline.ItemContent(line))
		flattened++
	}
	return out, flattened
}

// BlockResult is the outcome of repairing one block of a document.
type BlockResult struct {
	Block    Block
	Stats    Stats
	Warnings []string
}

// DocumentResult is the outcome of RepairDocument.
type DocumentResult struct {
	Lines  []string
	Blocks []BlockResult
	Total  Stats
}

// RepairDocument detects every list block in lines and repairs it in place
// of the original. Hierarchy warnings are taken from the unrepaired block.
func RepairDocument(lines []string, opts Options) *DocumentResult {
	out := make([]string, len(lines))
	copy(out, lines)

	res := &DocumentResult{Lines: out}
	for _, b := range DetectBlocks(lines) {
		warnings := ValidateHierarchy(BuildList(lines, b))
		repaired, stats := Repair(b.Lines(lines), opts)
		copy(out[b.Start:b.End], repaired)
		res.Blocks = append(res.Blocks, BlockResult{Block: b, Stats: stats, Warnings: warnings})
		res.Total.Add(stats)
	}
	return res
}

func buildItem(indent int, marker, content string) string {
	if content == "" {
		return strings.Repeat(" ", indent) + marker
	}
	return strings.Repeat(" ", indent) + marker + " " + content
}

func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
