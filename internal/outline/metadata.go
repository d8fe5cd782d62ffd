package outline

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Completeness values.
const (
	Orphaned = "orphaned"
	Partial  = "partial"
	Complete = "complete"
)

// minBodyChars is the body length below which a section is orphaned.
const minBodyChars = 50

var incompleteMarkers = []string{
	"todo", "[incomplete]", "[pending]", "...", "to be continued", "see below",
}

var audiencePatterns = []string{
	"infant", "toddler", "preschool", "school-age",
	"0-18 months", "18-36 months", "3-5 years", "5-12 years",
	"babies", "young children", "older children",
}

var contentTypeKeywords = []struct {
	kind     string
	keywords []string
}{
	{"activities", []string{"activity", "activities", "game", "exercise"}},
	{"examples", []string{"example", "examples", "sample"}},
	{"theory", []string{"introduction", "overview", "theory", "concept", "principle"}},
	{"guidelines", []string{"guideline", "tip", "recommendation", "best practice"}},
}

// Assess classifies a section as orphaned, partial or complete.
func Assess(s Section) string {
	body := s.Body()
	if len(body) < minBodyChars {
		return Orphaned
	}
	lower := strings.ToLower(s.Content)
	for _, m := range incompleteMarkers {
		if strings.Contains(lower, m) {
			return Partial
		}
	}
	switch body[len(body)-1] {
	case '.', '!', '?':
		return Complete
	}
	return Partial
}

// Audience returns the audience keywords mentioned in the content, sorted.
func Audience(content string) []string {
	lower := strings.ToLower(content)
	var found []string
	for _, p := range audiencePatterns {
		if strings.Contains(lower, p) {
			found = append(found, p)
		}
	}
	sort.Strings(found)
	return found
}

// ContentTypes classifies a section from heading keywords, with
// "procedures" when the content mentions steps and "general" otherwise.
func ContentTypes(heading, content string) []string {
	h := strings.ToLower(heading)
	var types []string
	for _, ct := range contentTypeKeywords {
		for _, kw := range ct.keywords {
			if strings.Contains(h, kw) {
				types = append(types, ct.kind)
				break
			}
		}
	}
	c := strings.ToLower(content)
	if strings.Contains(c, "step") || strings.Contains(c, "procedure") {
		types = append(types, "procedures")
	}
	if len(types) == 0 {
		types = append(types, "general")
	}
	return types
}

// Metadata is the serialized description of one section.
type Metadata struct {
	SectionID     string   `yaml:"section_id" json:"section_id"`
	Heading       string   `yaml:"heading" json:"heading"`
	Level         int      `yaml:"level" json:"level"`
	LineRange     [2]int   `yaml:"line_range,flow" json:"line_range"`
	LineCount     int      `yaml:"line_count" json:"line_count"`
	TokenEstimate int      `yaml:"token_estimate" json:"token_estimate"`
	ParentID      string   `yaml:"parent_id,omitempty" json:"parent_id,omitempty"`
	Subsections   []string `yaml:"subsections" json:"subsections"`
	Audience      []string `yaml:"audience_mentioned" json:"audience_mentioned"`
	ContentType   []string `yaml:"content_type" json:"content_type"`
	Completeness  string   `yaml:"completeness" json:"completeness"`
}

// Index is the serialized outline of a document.
type Index struct {
	SourceFile    string     `yaml:"source_file" json:"source_file"`
	TotalSections int        `yaml:"total_sections" json:"total_sections"`
	Sections      []Metadata `yaml:"sections" json:"sections"`
}

// Describe builds the metadata index for sections.
func Describe(source string, sections []Section) Index {
	idx := Index{SourceFile: source, TotalSections: len(sections)}
	for _, s := range sections {
		m := Metadata{
			SectionID:     s.ID,
			Heading:       s.Heading,
			Level:         s.Level,
			LineRange:     [2]int{s.LineStart, s.LineEnd},
			LineCount:     s.LineCount(),
			TokenEstimate: s.Tokens,
			Subsections:   []string{},
			Audience:      Audience(s.Content),
			ContentType:   ContentTypes(s.Heading, s.Content),
			Completeness:  Assess(s),
		}
		if s.Parent >= 0 {
			m.ParentID = sections[s.Parent].ID
		}
		for _, c := range s.Children {
			m.Subsections = append(m.Subsections, sections[c].ID)
		}
		idx.Sections = append(idx.Sections, m)
	}
	return idx
}

// WriteYAML encodes the index as YAML.
func (idx Index) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(idx); err != nil {
		return fmt.Errorf("encoding outline: %w", err)
	}
	return enc.Close()
}

// CompletenessCounts tallies the completeness values of an index.
func (idx Index) CompletenessCounts() map[string]int {
	counts := make(map[string]int)
	for _, s := range idx.Sections {
		counts[s.Completeness]++
	}
	return counts
}
