// Package document loads and saves chapter Markdown files.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches chapter files in an input directory.
const DefaultPattern = "chapter_*.md"

var chapterPattern = regexp.MustCompile(`(?i)chapter[_\s]?(\d+)`)

// Document is one Markdown file held as lines.
type Document struct {
	Path string
	// Chapter is the chapter number parsed from the file name, -1 if none.
	Chapter int
	Lines   []string
}

// Load reads path. Lines are split on "\n" so Save writes the file back
// byte for byte.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &Document{
		Path:    path,
		Chapter: ChapterNumber(path),
		Lines:   strings.Split(string(data), "\n"),
	}, nil
}

// New builds a document from text without touching the filesystem.
func New(path, text string) *Document {
	return &Document{Path: path, Chapter: ChapterNumber(path), Lines: strings.Split(text, "\n")}
}

// Text joins the lines with "\n".
func (d *Document) Text() string {
	return strings.Join(d.Lines, "\n")
}

// Save writes the document to path, creating parent directories.
func (d *Document) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(d.Text()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Name returns the base file name.
func (d *Document) Name() string {
	return filepath.Base(d.Path)
}

// ChapterNumber parses "chapter_5", "Chapter 5" or "chapter5" from the file
// name. Chapters outside 0 to 9 and unmatched names return -1.
func ChapterNumber(path string) int {
	m := chapterPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return -1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 || n > 9 {
		return -1
	}
	return n
}

// Discover returns the files in dir matching pattern, sorted by chapter
// number then name. The pattern is a doublestar glob relative to dir.
func Discover(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", pattern, err)
	}

	files := matches[:0]
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	SortByChapter(files)
	return files, nil
}

// SortByChapter orders paths by chapter number, unnumbered files last.
func SortByChapter(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		ci, cj := ChapterNumber(paths[i]), ChapterNumber(paths[j])
		if ci != cj {
			if ci < 0 {
				return false
			}
			if cj < 0 {
				return true
			}
			return ci < cj
		}
		return paths[i] < paths[j]
	})
}

// FilterChapter keeps only the paths whose chapter number is n.
func FilterChapter(paths []string, n int) []string {
	var out []string
	for _, p := range paths {
		if ChapterNumber(p) == n {
			out = append(out, p)
		}
	}
	return out
}

// Match reports whether a path's base name matches a doublestar pattern.
func Match(pattern, path string) bool {
	ok, err := doublestar.Match(pattern, filepath.Base(path))
	return err == nil && ok
}
