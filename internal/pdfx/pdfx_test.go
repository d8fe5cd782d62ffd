package pdfx

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoRunner prints a fixed output no matter the arguments.
type echoRunner struct {
	out  string
	args *[]string
}

func (r echoRunner) Name() string { return "echo-runner" }

func (r echoRunner) Command(ctx context.Context, args ...string) *exec.Cmd {
	if r.args != nil {
		*r.args = args
	}
	return exec.CommandContext(ctx, "printf", "%s", r.out)
}

func notAPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manual.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a pdf"), 0o644))
	return path
}

func TestExtractPagesFallback(t *testing.T) {
	var args []string
	e := NewExtractor(nil)
	e.Pdftotext = echoRunner{out: "CHAPTER 1\nIntro\f\f  \fCHAPTER 2\nMore\f", args: &args}

	pages, err := e.ExtractPages(context.Background(), notAPDF(t), 4, 9)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, Page{Number: 4, Text: "CHAPTER 1\nIntro"}, pages[0])
	assert.Equal(t, 7, pages[1].Number)
	assert.Equal(t, []string{"-layout", "-f", "5", "-l", "10"}, args[:5])
	assert.Equal(t, "-", args[len(args)-1])
}

func TestPageCountFallback(t *testing.T) {
	e := NewExtractor(nil)
	e.Pdfinfo = echoRunner{out: "Title: Manual\nPages:          42\n"}
	n, err := e.PageCount(context.Background(), notAPDF(t))
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	e.Pdfinfo = echoRunner{out: "Title: Manual\n"}
	_, err = e.PageCount(context.Background(), notAPDF(t))
	assert.Error(t, err)
}

func TestDetectHeadings(t *testing.T) {
	text := "SAFE SLEEP\n1.2. Cribs and Mattresses\nShort title\n\nThis line is ordinary body text that runs on and on."
	got := DetectHeadings(text, 3)
	require.Len(t, got, 3)

	assert.Equal(t, "all_caps", got[0].Type)
	assert.Equal(t, 0.8, got[0].Confidence)
	assert.Equal(t, 3, got[0].PageNumber)

	assert.Equal(t, "numbered", got[1].Type)
	assert.Equal(t, "1.2.", got[1].Number)
	assert.Equal(t, 1, got[1].LineNumber)

	assert.Equal(t, "short_line", got[2].Type)
	assert.Equal(t, "Short title", got[2].Text)
}

func TestFindChapters(t *testing.T) {
	pages := []Page{
		{Number: 0, Text: "Contents"},
		{Number: 2, Text: "\n  CHAPTER 1\nWelcome"},
		{Number: 3, Text: "body"},
		{Number: 5, Text: "Section IV\nRules"},
		{Number: 6, Text: "a\nb\nc\nd\ne\nChapter 9"},
	}
	got := FindChapters(pages)
	require.Len(t, got, 2)
	assert.Equal(t, Chapter{Marker: "CHAPTER 1", Type: "CHAPTER", Number: "1", StartPage: 2, EndPage: 4}, got[0])
	assert.Equal(t, Chapter{Marker: "Section IV", Type: "Section", Number: "IV", StartPage: 5, EndPage: -1}, got[1])

	own := got[0].Pages(pages)
	require.Len(t, own, 2)
	assert.Equal(t, 3, own[1].Number)
	assert.Len(t, got[1].Pages(pages), 2)
}

func TestFileNames(t *testing.T) {
	chapters := []Chapter{{Number: "1"}, {Number: "2"}, {Number: "2"}, {Number: "3"}}
	assert.Equal(t, []string{"chapter_1.md", "chapter_2_part1.md", "chapter_2_part2.md", "chapter_3.md"}, FileNames(chapters))
}

func TestCleanPageText(t *testing.T) {
	text := "Café hours\nPage 4 of 120\nLicensing Manual 2024\nend"
	got := CleanPageText(text, []string{"Licensing Manual"})
	assert.Equal(t, "Café hours\nend", got)
}

func TestExtractAndMarkdown(t *testing.T) {
	pages := []Page{
		{Number: 1, Text: "CHAPTER 3\nSTAFFING\nPage 1 of 9\nStaff must be trained."},
		{Number: 2, Text: "3.1 Ratios\n● One adult per four infants"},
	}
	chapters := FindChapters(pages)
	require.Len(t, chapters, 1)

	data := Extract(chapters[0], pages, nil)
	assert.Equal(t, "CHAPTER 3", data.Name)
	assert.Equal(t, 2, data.PageCount)
	assert.NotContains(t, data.FullText, "Page 1 of 9")
	assert.NotEmpty(t, data.Headings)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, data))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "CHAPTER 3", decoded["chapter_name"])
	assert.Equal(t, float64(-1), decoded["end_page"])

	md, st := data.ToMarkdown(chapters[0], nil)
	joined := strings.Join(md, "\n")
	assert.Contains(t, joined, "- One adult per four infants")
	assert.Equal(t, 1, st.BulletsConverted)
}
