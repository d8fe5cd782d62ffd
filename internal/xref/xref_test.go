package xref

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestRewriter(mode Mode) *Rewriter {
	r := NewRewriter(mode)
	r.Record("2", "1.2", "Setup")
	r.Record("2.1", "1.2.1", "Install")
	r.Record("3", "1.3", "Usage")
	r.Record("1.3", "1.3", "Unchanged") // ignored
	r.Record("", "1.4", "Unnumbered")   // ignored
	return r
}

func TestRecord(t *testing.T) {
	r := newTestRewriter(ModeCompat)
	assert.Equal(t, 3, r.Len())

	n, ok := r.NumberForTitle("  SETUP ")
	assert.True(t, ok)
	assert.Equal(t, "1.2", n)

	_, ok = r.NumberForTitle("Unchanged")
	assert.False(t, ok)

	maps := r.Mappings()
	assert.Equal(t, Mapping{Old: "2", New: "1.2", Title: "Setup"}, maps[0])
}

func TestUpdateAnchors(t *testing.T) {
	r := newTestRewriter(ModeStrict)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"section dash anchor", "[x](#section-2.1)", "[x](#section-1.2.1)"},
		{"bare anchor", "[x](#2)", "[x](#section-1.2)"},
		{"section without dots", "[x](#section21)", "[x](#section-1.2.1)"},
		{"unknown anchor untouched", "[x](#section-9)", "[x](#section-9)"},
		{"strict ignores mentions", "See section 2 for details", "See section 2 for details"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := r.Update([]string{tt.in})
			assert.Equal(t, tt.want, out[0])
		})
	}
}

func TestUpdateMentions(t *testing.T) {
	r := newTestRewriter(ModeCompat)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"see triggers", "See 2.1 for install steps", "See 1.2.1 for install steps"},
		{"section triggers", "As in Section 3, run it", "As in Section 1.3, run it"},
		{"no trigger word", "Step 2 of 3", "Step 2 of 3"},
		{"no chained rewrite", "see 2 and 3", "see 1.2 and 1.3"},
		{"anchor and mention", "see [setup](#2) or section 3", "see [setup](#section-1.2) or section 1.3"},
		{"blind substring", "see page 32", "see page 1.31.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := r.Update([]string{tt.in})
			assert.Equal(t, tt.want, out[0])
		})
	}
}

func TestUpdateSkipsHeadersAndCounts(t *testing.T) {
	r := newTestRewriter(ModeCompat)
	lines := []string{
		"## 1.3 See also",
		"plain text",
		"see 3",
	}
	out, changed := r.Update(lines)
	assert.Equal(t, "## 1.3 See also", out[0])
	assert.Equal(t, "see 1.3", out[2])
	assert.Equal(t, 1, changed)
	assert.Equal(t, "see 3", lines[2], "input must not be modified")
}

func TestUpdateSkipsFencedCode(t *testing.T) {
	r := newTestRewriter(ModeCompat)
	lines := []string{
		"see section 3",
		"```",
		"see section 3",
		"[x](#2)",
		"```",
		"see section 3",
	}
	out, changed := r.Update(lines)
	assert.Equal(t, []string{
		"see section 1.3",
		"```",
		"see section 3",
		"[x](#2)",
		"```",
		"see section 1.3",
	}, out)
	assert.Equal(t, 2, changed)
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("STRICT")
	assert.True(t, ok)
	assert.Equal(t, ModeStrict, m)

	m, ok = ParseMode("")
	assert.True(t, ok)
	assert.Equal(t, ModeCompat, m)

	_, ok = ParseMode("fuzzy")
	assert.False(t, ok)
}
