package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	t.Run("whitespace and case insensitive", func(t *testing.T) {
		a := Fingerprint("  The Quick\tbrown   fox  ")
		b := Fingerprint("the quick brown\nFOX")
		assert.Equal(t, a, b)
	})

	t.Run("content sensitive", func(t *testing.T) {
		a := Fingerprint("the quick brown fox")
		b := Fingerprint("the quick red fox")
		assert.NotEqual(t, a, b)
	})

	t.Run("long text shares preview but not hash", func(t *testing.T) {
		prefix := strings.Repeat("a", 60)
		a := Fingerprint(prefix + " one")
		b := Fingerprint(prefix + " two")
		assert.Equal(t, a[:50], b[:50])
		assert.NotEqual(t, a, b)
	})

	t.Run("format", func(t *testing.T) {
		fp := Fingerprint("Hello World")
		parts := strings.Split(fp, "|")
		require.Len(t, parts, 2)
		assert.Equal(t, "hello world", parts[0])
		assert.Len(t, parts[1], 8)
	})
}

func TestParseBlocks(t *testing.T) {
	lines := []string{
		"# 1 Intro",      // 0
		"First para",     // 1
		"continues here", // 2
		"",               // 3
		"- item one",     // 4
		"- item two",     // 5
		"## 1.1 Details", // 6
		"| a | b |",      // 7
		"",               // 8
		"",               // 9
		"Tail",           // 10
	}

	blocks := ParseBlocks(lines)
	require.Len(t, blocks, 6)

	assert.Equal(t, TypeSection, blocks[0].Type)
	assert.Equal(t, "1", blocks[0].Section)

	assert.Equal(t, TypeParagraph, blocks[1].Type)
	assert.Equal(t, 1, blocks[1].Start)
	assert.Equal(t, 2, blocks[1].End)
	assert.Equal(t, "First para\ncontinues here", blocks[1].Content)

	assert.Equal(t, TypeList, blocks[2].Type)
	assert.Equal(t, 4, blocks[2].Start)
	assert.Equal(t, 5, blocks[2].End)

	assert.Equal(t, TypeSection, blocks[3].Type)
	assert.Equal(t, "1.1", blocks[3].Section)

	assert.Equal(t, TypeOther, blocks[4].Type)
	assert.Equal(t, "1.1", blocks[4].Section)

	assert.Equal(t, TypeParagraph, blocks[5].Type)
	assert.Equal(t, 10, blocks[5].Start)
	assert.Equal(t, 10, blocks[5].End)
}

func TestFindMissing(t *testing.T) {
	source := ParseBlocks([]string{"# A", "alpha", "", "beta", "", "gamma"})

	t.Run("identical target", func(t *testing.T) {
		missing, set := FindMissing(source, source)
		assert.Empty(t, missing)
		assert.Len(t, set, len(source))
	})

	t.Run("empty target", func(t *testing.T) {
		missing, _ := FindMissing(source, nil)
		assert.Equal(t, source, missing)
	})

	t.Run("reformatted block still matches", func(t *testing.T) {
		target := ParseBlocks([]string{"# A", "ALPHA  ", "", "gamma"})
		missing, _ := FindMissing(source, target)
		require.Len(t, missing, 1)
		assert.Equal(t, "beta", missing[0].Content)
	})
}

func TestMergeSourceBlocks(t *testing.T) {
	part1 := ParseBlocks([]string{"shared", "", "only one"})
	part2 := ParseBlocks([]string{"SHARED", "", "only two"})

	merged := MergeSourceBlocks(part1, part2)
	require.Len(t, merged, 3)
	assert.Equal(t, "shared", merged[0].Content, "first part wins")
	assert.Equal(t, "only one", merged[1].Content)
	assert.Equal(t, "only two", merged[2].Content)

	reversed := MergeSourceBlocks(part2, part1)
	assert.Equal(t, "SHARED", reversed[0].Content)
}

func TestAnalyzeAndRestore(t *testing.T) {
	parts := []Part{
		{Name: "Part 1", Lines: []string{"# 5 Chapter", "Intro text.", "", "Shared text."}},
		{Name: "Part 2", Lines: []string{"Shared text.", "", "Lost paragraph."}},
	}
	target := []string{"# 5 Chapter", "Intro text.", "", "Shared text.", ""}

	a := Analyze("Chapter 5 Content Analysis", parts, target)
	assert.False(t, a.Complete())
	assert.Equal(t, 4, a.SourceBlocks)
	require.Len(t, a.Missing, 1)
	assert.Equal(t, "Lost paragraph.", a.Missing[0].Content)

	report := a.Report()
	assert.Contains(t, report, "# Chapter 5 Content Analysis")
	assert.Contains(t, report, "- **Part 2 Blocks**: 2")
	assert.Contains(t, report, "INCOMPLETE - 1 blocks missing")

	restored := Restore(target, a.Missing)
	assert.Contains(t, restored, RestoredHeading)
	assert.Contains(t, restored, "Lost paragraph.")

	again := Analyze("", parts, restored)
	assert.True(t, again.Complete())
	assert.Contains(t, again.Report(), "No action needed")
}

func TestRestoreNothingMissing(t *testing.T) {
	target := []string{"a", "b"}
	assert.Equal(t, target, Restore(target, nil))
}
