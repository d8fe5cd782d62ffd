package bullets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsmostafa/chapterfix/internal/mdline"
)

func TestDetectBaseIndent(t *testing.T) {
	tests := []struct {
		name  string
		block []string
		want  int
	}{
		{"two spaces", []string{"- a", "  - b", "    - c"}, 2},
		{"three spaces", []string{"- a", "   - b", "      - c"}, 3},
		{"single indent", []string{"- a", "- b"}, DefaultBaseIndent},
		{"empty", nil, DefaultBaseIndent},
		{"gcd too large", []string{"- a", "          - b"}, DefaultBaseIndent},
		{"uneven steps", []string{"- a", "    - b", "      - c"}, 2},
		{"tabs count as four", []string{"- a", "\t- b", "\t\t- c"}, 4},
		{"ignores non items", []string{"- a", "   text", "  - b"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectBaseIndent(tt.block))
		})
	}
}

func TestAnalyzeHierarchy(t *testing.T) {
	block := []string{"- a", "   - b", "      - c", "   - d"}
	items := AnalyzeHierarchy(block, 0)
	require.Len(t, items, 4)

	levels := make([]int, len(items))
	for i, it := range items {
		levels[i] = it.Level
	}
	assert.Equal(t, []int{0, 1, 2, 1}, levels)
	assert.Equal(t, "c", items[2].Content)
}

func TestDetectBlocks(t *testing.T) {
	lines := []string{
		"Intro paragraph.",   // 0
		"- one",              // 1
		"  - nested",         // 2
		"",                   // 3
		"- two",              // 4
		"    continued text", // 5
		"",                   // 6
		"Closing paragraph.", // 7
		"```",                // 8
		"- not a list",       // 9
		"```",                // 10
		"* last",             // 11
	}

	blocks := DetectBlocks(lines)
	require.Len(t, blocks, 2)
	assert.Equal(t, Block{Start: 1, End: 6}, blocks[0])
	assert.Equal(t, Block{Start: 11, End: 12}, blocks[1])
	assert.Equal(t, []int{4}, ContinuationLines(blocks[0].Lines(lines)))
}

func TestBuildListParents(t *testing.T) {
	lines := []string{"- a", "  - b", "    - c", "  - d", "- e"}
	l := BuildList(lines, Block{Start: 0, End: len(lines)})

	require.Len(t, l.Items, 5)
	assert.Equal(t, 2, l.BaseIndent)
	assert.Equal(t, 2, l.MaxDepth)
	assert.Equal(t, -1, l.Items[0].Parent)
	assert.Equal(t, 0, l.Items[1].Parent)
	assert.Equal(t, 1, l.Items[2].Parent)
	assert.Equal(t, 0, l.Items[3].Parent)
	assert.Equal(t, -1, l.Items[4].Parent)
	assert.Equal(t, []int{1, 3}, l.Items[0].Children)
	assert.Equal(t, []int{0, 4}, l.Roots())
	assert.Equal(t, []int{0, 1, 2}, l.Path(2))
}

func TestValidateHierarchy(t *testing.T) {
	lines := []string{"- a", "  - b", "      - jump", "* c"}
	l := BuildList(lines, Block{Start: 0, End: len(lines)})
	warnings := ValidateHierarchy(l)
	assert.Len(t, warnings, 2)
}

func TestRepairCanonicalBlock(t *testing.T) {
	block := []string{"- a", "  - b", "    - c"}

	t.Run("single marker keeps block unchanged", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Markers = []string{"-"}
		out, stats := Repair(block, opts)
		assert.Equal(t, block, out)
		assert.False(t, stats.Changed())
		assert.Equal(t, 3, stats.OriginalItems)
	})

	t.Run("default markers rotate by level", func(t *testing.T) {
		out, stats := Repair(block, DefaultOptions())
		assert.Equal(t, []string{"- a", "  * b", "    + c"}, out)
		assert.Equal(t, 0, stats.IndentsChanged)
		assert.Equal(t, 2, stats.MarkersChanged)
	})
}

func TestRepairStandardizes(t *testing.T) {
	block := []string{
		"* a",
		"    + b",
		"        - c",
		"            * d",
		"",
		"* e",
	}
	out, stats := Repair(block, DefaultOptions())

	want := []string{
		"- a",
		"  * b",
		"    + c",
		"      - d",
		"",
		"- e",
	}
	assert.Equal(t, want, out)
	assert.Equal(t, 5, stats.OriginalItems)
	assert.Equal(t, 4, stats.BaseIndentDetected)
	assert.Equal(t, 3, stats.IndentsChanged)
	assert.Equal(t, 0, stats.ItemsFlattened)
}

func TestRepairIsIdempotent(t *testing.T) {
	inputs := [][]string{
		{"* a", "    + b", "        - c", "", "* e"},
		{"- a", "   - b", "      - c", "         - d", "            - e", "               - f"},
		{"+ a", "\t- b", "\t\t* c", "    continuation"},
		{"- a", "  - b", "    - c", "      - d", "        - e", "          - f", "            - g"},
		{"- a", "         - b"},
		{"   - a", "            - b"},
		{"- a", "    - b", "      - c"},
		{"    - a"},
	}

	for _, block := range inputs {
		opts := DefaultOptions()
		opts.MaxDepth = 4
		first, _ := Repair(block, opts)
		second, stats := Repair(first, opts)
		assert.Equal(t, first, second)
		assert.Equal(t, 0, stats.IndentsChanged, "indents changed on second pass of %q", block)
		assert.Equal(t, 0, stats.MarkersChanged, "markers changed on second pass of %q", block)
		assert.Equal(t, 0, stats.ItemsFlattened)
	}
}

func TestRepairUnbelievableIndentUnit(t *testing.T) {
	out, stats := Repair([]string{"- a", "         - b"}, DefaultOptions())
	assert.Equal(t, []string{"- a", "  * b"}, out)
	assert.Equal(t, 2, stats.BaseIndentDetected)
	assert.Equal(t, 1, stats.ItemsFlattened)

	out, _ = Repair([]string{"   - a", "            - b"}, DefaultOptions())
	assert.Equal(t, []string{"  * a", "    + b"}, out)
}

func TestRepairMaxDepthZeroUsesHardCap(t *testing.T) {
	block := []string{"- a", "  - b", "    - c", "      - d", "        - e", "          - f", "            - g"}
	opts := DefaultOptions()
	opts.MaxDepth = 0
	out, stats := Repair(block, opts)
	assert.Equal(t, 1, stats.ItemsFlattened)
	assert.Equal(t, "          + g", out[6])

	_, stats = Repair(block, DefaultOptions())
	assert.Equal(t, 3, stats.ItemsFlattened, "default depth keeps four levels")
}

func TestCompactLevels(t *testing.T) {
	tests := []struct {
		name  string
		block []string
		want  []string
	}{
		{"gap of four", []string{"- a", "        - b"}, []string{"- a", "  - b"}},
		{"shared factor above the top level", []string{"  - a", "      - b", "              - c"}, []string{"  - a", "    - b", "        - c"}},
		{"already compact", []string{"- a", "    - b", "      - c"}, []string{"- a", "    - b", "      - c"}},
		{"single level", []string{"    - a", "text"}, []string{"    - a", "text"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompactLevels(tt.block, 2))
		})
	}
}

func TestLimitDepth(t *testing.T) {
	block := []string{"- a", "  * b", "    + c", "      - d", "        * e", "          + f"}
	out, flattened := LimitDepth(block, 4, 2, DefaultMarkers)

	assert.Equal(t, 2, flattened)
	for _, line := range out {
		assert.Less(t, mdline.LeadingSpaces(line)/2, 4, "line %q exceeds max depth", line)
	}
	assert.Equal(t, "      - e", out[4])
	assert.Equal(t, "      - f", out[5])
}

func TestRepairPassesNonItemsThrough(t *testing.T) {
	block := []string{"- a", "    still part of a", "", "  - b"}
	out, _ := Repair(block, DefaultOptions())
	assert.Equal(t, "    still part of a", out[1])
	assert.Equal(t, "", out[2])
}

func TestRepairDocument(t *testing.T) {
	lines := []string{
		"# Title",
		"",
		"* a",
		"    * b",
		"",
		"Text.",
		"- c",
	}
	res := RepairDocument(lines, DefaultOptions())
	require.Len(t, res.Blocks, 2)
	assert.Equal(t, []string{"# Title", "", "- a", "  * b", "", "Text.", "- c"}, res.Lines)
	assert.Equal(t, 3, res.Total.OriginalItems)
	assert.Equal(t, "* a", lines[2], "input must not be modified")
}

func TestConvertUnicode(t *testing.T) {
	lines := []string{
		"Materials needed:",
		"● Paper",
		"○ White",
		"■ A4",
		"● Glue",
		"",
		"```",
		"● kept in code",
		"```",
	}
	out, n := ConvertUnicode(lines)
	assert.Equal(t, 4, n)
	assert.Equal(t, []string{
		"Materials needed:",
		"",
		"- Paper",
		"  - White",
		"    - A4",
		"- Glue",
		"",
		"```",
		"● kept in code",
		"```",
	}, out)
}
