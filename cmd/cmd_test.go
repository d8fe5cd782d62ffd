package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeChapter(t *testing.T, dir, name, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "chapterfix dev")
}

func TestNumberCommand(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	out := filepath.Join(root, "out")
	writeChapter(t, in, "chapter_04.md", "# Nutrition\n## Menus\nSee section 9 later.\n## 9 Allergies\n")

	stdout, err := execute(t, "number", "--input-dir", in, "--output-dir", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Batch Complete")

	data, err := os.ReadFile(filepath.Join(out, "chapter_04.md"))
	require.NoError(t, err)
	assert.Equal(t, "# 1 Nutrition\n## 1.1 Menus\nSee section 1.2 later.\n## 1.2 Allergies\n", string(data))
}

func TestTOCCommand(t *testing.T) {
	root := t.TempDir()
	path := writeChapter(t, root, "chapter_02.md", "# 2 Safety\n\n## 2.1 Exits\nKeep clear.\n")
	out := filepath.Join(root, "out")

	stdout, err := execute(t, "toc", path, "--output-dir", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "chapter_02.md: table of contents")

	data, err := os.ReadFile(filepath.Join(out, "chapter_02.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Table of Contents")
	assert.Contains(t, string(data), "(#21-exits)")
}

func TestCompareReportsMissing(t *testing.T) {
	root := t.TempDir()
	part := writeChapter(t, root, "part1.md", "# 1 Safety\n\nWash hands before every meal and after outdoor play.\n\nCheck exits daily before children arrive.\n")
	target := writeChapter(t, root, "merged.md", "# 1 Safety\n\nWash hands before every meal and after outdoor play.\n")

	stdout, err := execute(t, "compare", part, "--target", target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
	assert.Contains(t, stdout, "INCOMPLETE")
}

func TestTransformContinuesPastFailedFiles(t *testing.T) {
	root := t.TempDir()
	first := writeChapter(t, root, "chapter_01.md", "# 1 A\n##### 1.1.1.1.1 Deep\n")
	third := writeChapter(t, root, "chapter_03.md", "# 3 C\n###### 3.1.1.1.1.1 Deeper\n")
	missing := filepath.Join(root, "missing.md")
	out := filepath.Join(root, "out")

	stdout, err := execute(t, "flatten", "--output-dir", out, first, missing, third)
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, stdout, "✗ missing.md")
	assert.Contains(t, stdout, "1 of 3 files failed")

	data, err := os.ReadFile(filepath.Join(out, "chapter_03.md"))
	require.NoError(t, err)
	assert.Equal(t, "# 3 C\n#### 3.1.1.1.1.1 Deeper\n", string(data))
	assert.FileExists(t, filepath.Join(out, "chapter_01.md"))
}
