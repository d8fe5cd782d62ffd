package bullets

import (
	"strings"
	"unicode/utf8"

	"github.com/itsmostafa/chapterfix/internal/mdline"
)

// unicodeLevels maps PDF bullet glyphs to list levels.
var unicodeLevels = map[rune]int{
	'●': 0,
	'○': 1,
	'■': 2,
}

// ConvertUnicode rewrites lines that start with ●, ○ or ■ as "-" items at
// levels 0, 1 and 2. A blank line is inserted when a converted list directly
// follows a paragraph line. It returns the new lines and the number of items
// converted.
func ConvertUnicode(lines []string) ([]string, int) {
	out := make([]string, 0, len(lines))
	converted := 0
	var fence mdline.FenceTracker

	for _, line := range lines {
		if fence.Step(line) {
			out = append(out, line)
			continue
		}
		trimmed := strings.TrimSpace(line)
		level, ok := unicodeBullet(trimmed)
		if !ok {
			out = append(out, line)
			continue
		}

		if len(out) > 0 {
			prev := out[len(out)-1]
			if !mdline.IsBlank(prev) && !mdline.IsListItem(prev) && !mdline.IsHeader(prev) {
				out = append(out, "")
			}
		}

		_, size := utf8.DecodeRuneInString(trimmed)
		content := strings.TrimSpace(trimmed[size:])
		out = append(out, buildItem(level*DefaultBaseIndent, "-", content))
		converted++
	}
	return out, converted
}

func unicodeBullet(trimmed string) (int, bool) {
	r, _ := utf8.DecodeRuneInString(trimmed)
	level, ok := unicodeLevels[r]
	return level, ok
}
