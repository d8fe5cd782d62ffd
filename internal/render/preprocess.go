package render

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/itsmostafa/chapterfix/internal/mdline"
)

// Depth limits for rendered documents. LaTeX fails on deeper list nesting.
const (
	MaxListDepth    = 4
	MaxHeadingLevel = 4
)

// Symbol replaces characters the PDF fonts cannot draw.
const Symbol = "[symbol]"

var replacer = strings.NewReplacer(
	"˹", "[", "˺", "]",
	"–", "--", "—", "---",
	"“", `"`, "”", `"`, "„", `"`,
	"‘", "'", "’", "'", "‚", "'",
	"…", "...",
	"•", "-", "●", "-", "○", "-", "■", "-", "▪", "-", "◦", "-",
	"☐", "[ ]", "☑", "[x]", "☒", "[x]", "✓", "[x]", "✔", "[x]",
)

var boldColonPattern = regexp.MustCompile(`(\*\*[^*]+\*\*):`)

// Preprocess makes Markdown safe for the PDF engines: punctuation and
// bullet glyphs become ASCII, other characters outside Latin-1 are
// NFKC-folded or replaced with Symbol, list nesting is capped at
// MaxListDepth and headings at MaxHeadingLevel.
func Preprocess(content string) string {
	content = replacer.Replace(norm.NFC.String(content))
	content = foldUnicode(content)

	// A bare "---" opener is read by pandoc as a YAML block.
	content = strings.TrimPrefix(content, "---\n\n")
	content = strings.TrimLeft(content, "\n")
	content = boldColonPattern.ReplaceAllString(content, `$1\:`)

	lines := strings.Split(content, "\n")
	var fence mdline.FenceTracker
	for i, l := range lines {
		if fence.Step(l) {
			continue
		}
		lines[i] = capLine(l)
	}
	return strings.Join(lines, "\n")
}

func foldUnicode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r <= unicode.MaxLatin1 {
			b.WriteRune(r)
			continue
		}
		if folded := norm.NFKC.String(string(r)); folded != string(r) && latin1(folded) {
			b.WriteString(folded)
			continue
		}
		if unicode.Is(unicode.So, r) || r >= 0x2B00 {
			b.WriteString(Symbol)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func latin1(s string) bool {
	for _, r := range s {
		if r > unicode.MaxLatin1 {
			return false
		}
	}
	return true
}

func capLine(l string) string {
	if level, ok := mdline.HeaderLevel(l); ok {
		if level > MaxHeadingLevel {
			return strings.Repeat("#", MaxHeadingLevel) + " " + mdline.HeaderText(l)
		}
		return l
	}
	if mdline.IsBulletItem(l) && mdline.LeadingSpaces(l)/2 > MaxListDepth {
		return strings.Repeat(" ", MaxListDepth*2) + strings.TrimLeft(l, " \t")
	}
	return l
}
