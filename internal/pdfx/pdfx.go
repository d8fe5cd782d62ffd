// Package pdfx extracts chapter text from the manual PDF.
package pdfx

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/itsmostafa/chapterfix/internal/runner"
)

// Page is the text of one PDF page. Number is 0-based.
type Page struct {
	Number int    `json:"page_number"`
	Text   string `json:"text"`
}

// Extractor reads page text with the pure Go reader and falls back to
// pdftotext when that fails.
type Extractor struct {
	Pdftotext runner.Runner
	Pdfinfo   runner.Runner
	Logger    *slog.Logger
}

// NewExtractor returns an Extractor using the poppler tools on PATH.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{Pdftotext: runner.Pdftotext, Pdfinfo: runner.Pdfinfo, Logger: logger}
}

// ExtractPages returns the non-empty pages in [first, last], 0-based and
// inclusive. A negative last means the final page.
func (e *Extractor) ExtractPages(ctx context.Context, path string, first, last int) ([]Page, error) {
	if first < 0 {
		first = 0
	}
	pages, err := readPages(path, first, last)
	if err == nil {
		return pages, nil
	}
	e.Logger.Warn("go pdf reader failed, falling back to pdftotext", "path", path, "error", err)

	pages, ferr := e.pdftotext(ctx, path, first, last)
	if ferr != nil {
		return nil, fmt.Errorf("extract pdf text: %w (pdftotext: %v)", err, ferr)
	}
	return pages, nil
}

// PageCount returns the number of pages, asking pdfinfo when the Go reader
// cannot open the file.
func (e *Extractor) PageCount(ctx context.Context, path string) (int, error) {
	if n, err := numPages(path); err == nil {
		return n, nil
	}
	res, err := runner.Run(ctx, e.Pdfinfo, path)
	if err != nil {
		return 0, err
	}
	for _, line := range strings.Split(res.Stdout, "\n") {
		if v, ok := strings.CutPrefix(line, "Pages:"); ok {
			return strconv.Atoi(strings.TrimSpace(v))
		}
	}
	return 0, fmt.Errorf("pdfinfo: no page count for %s", path)
}

func numPages(path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading %s: %v", path, r)
		}
	}()
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return reader.NumPage(), nil
}

// readPages recovers from panics raised by the reader on malformed streams.
func readPages(path string, first, last int) (pages []Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading %s: %v", path, r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	total := reader.NumPage()
	if last < 0 || last >= total {
		last = total - 1
	}
	for i := first; i <= last; i++ {
		p := reader.Page(i + 1)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, Page{Number: i, Text: text})
	}
	return pages, nil
}

func (e *Extractor) pdftotext(ctx context.Context, path string, first, last int) ([]Page, error) {
	args := []string{"-layout", "-f", strconv.Itoa(first + 1)}
	if last >= 0 {
		args = append(args, "-l", strconv.Itoa(last+1))
	}
	args = append(args, path, "-")

	res, err := runner.Run(ctx, e.Pdftotext, args...)
	if err != nil {
		return nil, err
	}
	var pages []Page
	for i, text := range strings.Split(res.Stdout, "\f") {
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, Page{Number: first + i, Text: text})
	}
	return pages, nil
}

// Heading is a line that looks like a heading in extracted page text.
type Heading struct {
	Text       string  `json:"text"`
	LineNumber int     `json:"line_number"`
	PageNumber int     `json:"page_number"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Number     string  `json:"number,omitempty"`
}

var numberedHeadingPattern = regexp.MustCompile(`^((?:\d+\.)+)\s+(.+)$`)

// DetectHeadings finds all-caps lines (0.8), "1.2. Title" lines (0.9) and
// short lines followed by a blank line (0.6).
func DetectHeadings(text string, page int) []Heading {
	var out []Heading
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		n := len([]rune(s))
		switch {
		case n > 2 && isUpper(s):
			out = append(out, Heading{Text: s, LineNumber: i, PageNumber: page, Type: "all_caps", Confidence: 0.8})
		case numberedHeadingPattern.MatchString(s):
			m := numberedHeadingPattern.FindStringSubmatch(s)
			out = append(out, Heading{Text: s, LineNumber: i, PageNumber: page, Type: "numbered", Confidence: 0.9, Number: m[1]})
		case n > 2 && n < 80 && i+1 < len(lines) && strings.TrimSpace(lines[i+1]) == "":
			out = append(out, Heading{Text: s, LineNumber: i, PageNumber: page, Type: "short_line", Confidence: 0.6})
		}
	}
	return out
}

// isUpper reports whether s has at least one cased letter and no lowercase
// letters.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if r != unicode.ToUpper(r) {
			return false
		}
		if r != unicode.ToLower(r) {
			cased = true
		}
	}
	return cased
}
