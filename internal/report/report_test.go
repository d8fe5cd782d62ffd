package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestProcessingMarkdown(t *testing.T) {
	p := New("out/chapter_05.md", 5, now)
	p.SectionsRenumbered = 12
	p.BulletsRepaired = 40
	p.ValidationPassed = true
	p.AddRepair("Renumbered %d sections", 12)
	p.AddError(nil)

	got := p.Markdown()
	for _, want := range []string{
		"# Processing Report: Chapter 5",
		"**Document**: `chapter_05.md`",
		"**Generated**: 2025-03-14 09:30:00",
		"- **Sections Renumbered**: 12",
		"- **Bullets Repaired**: 40",
		"- **Content Restored**: No",
		"- **Validation Status**: ✓ PASSED",
		"## Repairs Applied\n\n- Renumbered 12 sections",
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "## Errors")
	assert.True(t, p.OK())

	p.AddError(errors.New("line 3: invalid header level 7"))
	assert.False(t, p.OK())
	assert.Contains(t, p.Markdown(), "- ❌ line 3: invalid header level 7")
}

func TestAggregate(t *testing.T) {
	a := NewAggregate(now)

	ch5 := New("chapter_05.md", 5, now)
	ch5.SectionsRenumbered = 3
	ch5.BulletsRepaired = 7
	ch5.ContentRestored = true
	ch5.ValidationPassed = true

	ch1 := New("chapter_01.md", 1, now)
	ch1.SectionsRenumbered = 2
	ch1.AddError(errors.New("reading chapter_01.md: permission denied"))

	a.Add(ch5)
	a.Add(ch1)

	tot := a.Totals()
	assert.Equal(t, Totals{Chapters: 2, SectionsRenumbered: 5, BulletsRepaired: 7, ContentRestored: 1, ValidationPassed: 1, Errors: 1}, tot)
	assert.False(t, a.Success())

	got := a.Markdown()
	assert.Contains(t, got, "# Document Structure Repair Report")
	assert.Contains(t, got, "- **Chapters Passing Validation**: 1/2")
	assert.Contains(t, got, "**Overall Status**: ⚠ WARNINGS OR ERRORS")
	assert.Contains(t, got, "| 1 | 2 | 0 | - | ✗ | ⚠ 1 |")
	assert.Contains(t, got, "| 5 | 3 | 7 | ✓ | ✓ | 0 |")
	assert.Less(t, strings.Index(got, "| 1 |"), strings.Index(got, "| 5 |"), "rows sorted by chapter")
	assert.Contains(t, got, "## Error Details\n\n### Chapter 1\n\n- reading chapter_01.md: permission denied")
}

func TestAggregateSuccess(t *testing.T) {
	a := NewAggregate(now)
	p := New("notes.md", -1, now)
	p.ValidationPassed = true
	a.Add(p)

	assert.True(t, a.Success())
	got := a.Markdown()
	assert.Contains(t, got, "**Overall Status**: ✓ SUCCESS")
	assert.Contains(t, got, "| notes.md | 0 | 0 | - | ✓ | 0 |")
	assert.NotContains(t, got, "Error Details")
}
