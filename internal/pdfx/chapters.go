package pdfx

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/itsmostafa/chapterfix/internal/reformat"
)

var chapterMarkerPattern = regexp.MustCompile(`^(CHAPTER|Chapter|SECTION|Section)\s+(\d+|[IVXLCDM]+)`)

// markerLines is how many lines at the top of a page are searched for a
// chapter marker.
const markerLines = 5

// Chapter is a chapter boundary found in the PDF. EndPage is -1 for the last
// chapter, which runs to the end of the document.
type Chapter struct {
	Marker    string `json:"chapter_marker"`
	Type      string `json:"chapter_type"`
	Number    string `json:"chapter_number"`
	StartPage int    `json:"page_number"`
	EndPage   int    `json:"end_page"`
}

// FindChapters scans the first lines of each page for "CHAPTER n" or
// "Section IV" markers. A chapter ends on the page before the next marker.
func FindChapters(pages []Page) []Chapter {
	var chapters []Chapter
	for _, p := range pages {
		lines := strings.Split(p.Text, "\n")
		if len(lines) > markerLines {
			lines = lines[:markerLines]
		}
		for _, l := range lines {
			l = strings.TrimSpace(l)
			if m := chapterMarkerPattern.FindStringSubmatch(l); m != nil {
				chapters = append(chapters, Chapter{Marker: l, Type: m[1], Number: m[2], StartPage: p.Number})
				break
			}
		}
	}
	for i := range chapters {
		if i+1 < len(chapters) {
			chapters[i].EndPage = chapters[i+1].StartPage - 1
		} else {
			chapters[i].EndPage = -1
		}
	}
	return chapters
}

// Pages returns the pages that belong to c.
func (c Chapter) Pages(pages []Page) []Page {
	var out []Page
	for _, p := range pages {
		if p.Number >= c.StartPage && (c.EndPage < 0 || p.Number <= c.EndPage) {
			out = append(out, p)
		}
	}
	return out
}

// FileNames assigns an output name to every chapter: chapter_N.md, or
// chapter_N_partK.md when the same number starts more than once.
func FileNames(chapters []Chapter) []string {
	total := map[string]int{}
	for _, c := range chapters {
		total[c.Number]++
	}
	seen := map[string]int{}
	names := make([]string, len(chapters))
	for i, c := range chapters {
		seen[c.Number]++
		if total[c.Number] > 1 {
			names[i] = fmt.Sprintf("chapter_%s_part%d.md", c.Number, seen[c.Number])
		} else {
			names[i] = fmt.Sprintf("chapter_%s.md", c.Number)
		}
	}
	return names
}

// CleanPageText drops "Page X of Y" lines and footer lines, then
// normalizes the text to NFC.
func CleanPageText(text string, footers []string) string {
	lines, _ := reformat.RemovePageMarkers(strings.Split(text, "\n"), footers)
	return norm.NFC.String(strings.Join(lines, "\n"))
}

// ChapterData is the JSON metadata written for an extracted chapter.
type ChapterData struct {
	Name      string    `json:"chapter_name"`
	StartPage int       `json:"start_page"`
	EndPage   int       `json:"end_page"`
	PageCount int       `json:"page_count"`
	Headings  []Heading `json:"headings"`
	FullText  string    `json:"full_text"`
}

// Extract collects the cleaned text and detected headings of c.
func Extract(c Chapter, pages []Page, footers []string) ChapterData {
	own := c.Pages(pages)
	data := ChapterData{
		Name:      c.Marker,
		StartPage: c.StartPage,
		EndPage:   c.EndPage,
		PageCount: len(own),
		Headings:  []Heading{},
	}
	var b strings.Builder
	for _, p := range own {
		text := CleanPageText(p.Text, footers)
		b.WriteString(text)
		b.WriteString("\n\n")
		data.Headings = append(data.Headings, DetectHeadings(text, p.Number)...)
	}
	data.FullText = b.String()
	return data
}

// WriteJSON encodes v as indented JSON without HTML escaping.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// ToMarkdown converts chapter text to Markdown with the reformat pipeline.
// Chapter numbers that are not decimal skip duplicate-heading removal.
func (d ChapterData) ToMarkdown(c Chapter, footers []string) ([]string, reformat.Stats) {
	num, err := strconv.Atoi(c.Number)
	if err != nil {
		num = -1
	}
	return reformat.Chapter(strings.Split(d.FullText, "\n"), reformat.Options{Chapter: num, FooterMarkers: footers})
}
