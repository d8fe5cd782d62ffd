// Package xref rewrites in-document references after sections are renumbered.
package xref

import (
	"regexp"
	"sort"
	"strings"

	"github.com/itsmostafa/chapterfix/internal/mdline"
)

// Mode selects how aggressively references are rewritten.
type Mode int

const (
	// ModeCompat rewrites link anchors and, on lines mentioning "section" or
	// "see", every occurrence of an old number. The second rule can touch
	// unrelated numbers such as page numbers.
	ModeCompat Mode = iota
	// ModeStrict rewrites link anchors only.
	ModeStrict
)

// ParseMode maps "compat" or "strict" to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(s) {
	case "", "compat":
		return ModeCompat, true
	case "strict":
		return ModeStrict, true
	}
	return ModeCompat, false
}

var (
	anchorPattern  = regexp.MustCompile(`#section-(\d+(?:\.\d+)*)|#section(\d+)|#(\d+(?:\.\d+)*)`)
	triggerPattern = regexp.MustCompile(`(?i)section|see`)
)

// Mapping is one recorded renumbering.
type Mapping struct {
	Old   string `json:"old"`
	New   string `json:"new"`
	Title string `json:"title"`
}

// Rewriter collects old to new section numbers and applies them to text.
type Rewriter struct {
	mode     Mode
	sections map[string]string
	digits   map[string]string // old number without dots -> new number
	titles   map[string]string // lowercased title -> new number
	order    []Mapping
	mention  *regexp.Regexp
}

// NewRewriter returns an empty Rewriter.
func NewRewriter(mode Mode) *Rewriter {
	return &Rewriter{
		mode:     mode,
		sections: make(map[string]string),
		digits:   make(map[string]string),
		titles:   make(map[string]string),
	}
}

// Record stores a renumbering. Unchanged or empty numbers are ignored.
func (r *Rewriter) Record(oldNumber, newNumber, title string) {
	if oldNumber == "" || oldNumber == newNumber {
		return
	}
	if _, exists := r.sections[oldNumber]; exists {
		return
	}
	r.sections[oldNumber] = newNumber
	r.digits[strings.ReplaceAll(oldNumber, ".", "")] = newNumber
	if title != "" {
		r.titles[strings.ToLower(title)] = newNumber
	}
	r.order = append(r.order, Mapping{Old: oldNumber, New: newNumber, Title: title})
	r.mention = nil
}

// Len returns the number of recorded mappings.
func (r *Rewriter) Len() int {
	return len(r.order)
}

// Mappings returns the recorded mappings in recording order.
func (r *Rewriter) Mappings() []Mapping {
	out := make([]Mapping, len(r.order))
	copy(out, r.order)
	return out
}

// NumberForTitle returns the new number recorded for a title.
func (r *Rewriter) NumberForTitle(title string) (string, bool) {
	n, ok := r.titles[strings.ToLower(strings.TrimSpace(title))]
	return n, ok
}

// Update rewrites references in lines and returns the new lines and the
// count of lines changed. Header lines and fenced code are left alone. Each
// line is rewritten in a single pass, so a replacement is never rewritten
// again.
func (r *Rewriter) Update(lines []string) ([]string, int) {
	out := make([]string, len(lines))
	copy(out, lines)
	if len(r.order) == 0 {
		return out, 0
	}

	changed := 0
	var fence mdline.FenceTracker
	for i, line := range lines {
		if fence.Step(line) || mdline.IsHeader(line) {
			continue
		}
		updated := r.updateLine(line)
		if updated != line {
			out[i] = updated
			changed++
		}
	}
	return out, changed
}

func (r *Rewriter) updateLine(line string) string {
	mentions := r.mode == ModeCompat && triggerPattern.MatchString(line)

	anchors := anchorPattern.FindAllStringSubmatchIndex(line, -1)
	if len(anchors) == 0 && !mentions {
		return line
	}

	var b strings.Builder
	last := 0
	for _, m := range anchors {
		b.WriteString(r.rewriteMentions(line[last:m[0]], mentions))
		b.WriteString(r.rewriteAnchor(line, m))
		last = m[1]
	}
	b.WriteString(r.rewriteMentions(line[last:], mentions))
	return b.String()
}

func (r *Rewriter) rewriteAnchor(line string, m []int) string {
	whole := line[m[0]:m[1]]
	var newNumber string
	var ok bool
	switch {
	case m[2] >= 0:
		newNumber, ok = r.sections[line[m[2]:m[3]]]
	case m[4] >= 0:
		newNumber, ok = r.digits[line[m[4]:m[5]]]
	case m[6] >= 0:
		newNumber, ok = r.sections[line[m[6]:m[7]]]
	}
	if !ok {
		return whole
	}
	return "#section-" + newNumber
}

func (r *Rewriter) rewriteMentions(text string, enabled bool) string {
	if !enabled || text == "" {
		return text
	}
	re := r.mentionPattern()
	return re.ReplaceAllStringFunc(text, func(old string) string {
		return r.sections[old]
	})
}

// mentionPattern matches any old number, longest first so "1.2.3" wins over "1.2".
func (r *Rewriter) mentionPattern() *regexp.Regexp {
	if r.mention != nil {
		return r.mention
	}
	olds := make([]string, 0, len(r.sections))
	for old := range r.sections {
		olds = append(olds, old)
	}
	sort.Slice(olds, func(i, j int) bool {
		if len(olds[i]) != len(olds[j]) {
			return len(olds[i]) > len(olds[j])
		}
		return olds[i] < olds[j]
	})
	quoted := make([]string, len(olds))
	for i, o := range olds {
		quoted[i] = regexp.QuoteMeta(o)
	}
	r.mention = regexp.MustCompile(strings.Join(quoted, "|"))
	return r.mention
}
