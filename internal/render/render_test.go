package render

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsmostafa/chapterfix/internal/config"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"smart quotes", "“Safe” sleep’s rules…", `"Safe" sleep's rules...`},
		{"dashes", "ages 2–5 — always", "ages 2--5 --- always"},
		{"brackets", "˹optional˺", "[optional]"},
		{"bullets", "• item", "- item"},
		{"checkboxes", "☐ open ☑ done", "[ ] open [x] done"},
		{"emoji", "Great job 🎉", "Great job [symbol]"},
		{"ligature", "ﬁre drill", "fire drill"},
		{"latin1 kept", "Café ½", "Café ½"},
		{"yaml opener", "---\n\n# Title", "# Title"},
		{"leading blanks", "\n\n# Title", "# Title"},
		{"bold colon", "**Purpose**: keep safe", `**Purpose**\: keep safe`},
		{"deep heading", "###### 1.2.3.4.5.6 Deep", "#### 1.2.3.4.5.6 Deep"},
		{"shallow heading", "### 1.2 Ok", "### 1.2 Ok"},
		{"deep list", "            - six levels", "        - six levels"},
		{"list at cap", "        - four levels", "        - four levels"},
		{"fenced code untouched", "```\n###### raw\n```", "```\n###### raw\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preprocess(tt.in); got != tt.want {
				t.Errorf("Preprocess(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMarginMM(t *testing.T) {
	assert.InDelta(t, 25.4, marginMM("1in"), 1e-9)
	assert.InDelta(t, 20, marginMM("2cm"), 1e-9)
	assert.InDelta(t, 15, marginMM("15mm"), 1e-9)
	assert.InDelta(t, 25.4, marginMM("72pt"), 1e-9)
	assert.InDelta(t, defaultEdge, marginMM("wide"), 1e-9)
}

func TestNew(t *testing.T) {
	cfg := config.DefaultConfig()
	r, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "pandoc", r.Name())

	cfg.Render.Engine = "native"
	r, err = New(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "native", r.Name())

	cfg.Render.Engine = "weasyprint"
	_, err = New(cfg, nil)
	assert.Error(t, err)
}

const chapter = `# 5 Enrichment

Children learn through “play”.

## 5.1 Outdoor Play

- Climbing
  - Low frames only
- Running

1. Check the yard
2. Open the gate

> Supervise at all times.

` + "```\nsign-in sheet\n```\n"

func TestNativeWrite(t *testing.T) {
	var buf bytes.Buffer
	n := &NativeRenderer{Options: Options{Margin: "1in"}}
	require.NoError(t, n.Write(&buf, chapter))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestNativeRender(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chapter_05.pdf")
	n := &NativeRenderer{}
	require.NoError(t, n.Render(context.Background(), chapter, out))
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Render(ctx, chapter, out), context.Canceled)
}

// recordingRunner runs "true" and keeps the arguments and the temp file
// content it was handed.
type recordingRunner struct {
	args  []string
	input string
}

func (r *recordingRunner) Name() string { return "true" }

func (r *recordingRunner) Command(ctx context.Context, args ...string) *exec.Cmd {
	r.args = args
	if data, err := os.ReadFile(args[2]); err == nil {
		r.input = string(data)
	}
	return exec.CommandContext(ctx, "true")
}

func TestPandocRender(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "chapter_05.pdf")
	rr := &recordingRunner{}
	p := &PandocRenderer{Runner: rr, Options: Options{PDFEngine: "xelatex", TOC: true, Margin: "1in", FontSize: "11pt"}}

	require.NoError(t, p.Render(context.Background(), "—\n###### Deep", out))

	assert.Equal(t, []string{"--from", "markdown-yaml_metadata_block"}, rr.args[:2])
	assert.Equal(t, []string{"-o", out, "-V", "geometry:margin=1in", "-V", "fontsize=11pt", "--pdf-engine=xelatex", "--toc", "--number-sections"}, rr.args[3:])
	assert.Equal(t, "---\n#### Deep", rr.input)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp markdown is removed")
}

func TestPandocMissing(t *testing.T) {
	p := &PandocRenderer{Runner: missingRunner{}}
	err := p.Render(context.Background(), "# x", filepath.Join(t.TempDir(), "x.pdf"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "not found"))
}

type missingRunner struct{}

func (missingRunner) Name() string { return "chapterfix-no-such-tool" }

func (missingRunner) Command(ctx context.Context, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, "chapterfix-no-such-tool", args...)
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("# Report\n\nAll **good**.", "notty", 80)
	require.NoError(t, err)
	assert.Contains(t, out, "Report")
	assert.Contains(t, out, "good")
}
