package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/itsmostafa/chapterfix/internal/mdline"
)

const (
	// completenessRatio is the share of source lines the output must keep.
	completenessRatio = 0.9
	// maxIndentJump is the largest indent increase between consecutive items.
	maxIndentJump = 4
)

var (
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	numberLikePattern = regexp.MustCompile(`^\d+(\.\d+)*$`)
)

// SectionNumbering checks that numbered headers follow each other: the
// same level incremented by one, one level deeper starting at 1, or a
// shallower header continuing an ancestor of the previous number.
func SectionNumbering(lines []string) []Issue {
	var issues []Issue
	var prev []int
	var fence mdline.FenceTracker

	for i, line := range lines {
		if fence.Step(line) {
			continue
		}
		level, ok := mdline.HeaderLevel(line)
		if !ok {
			continue
		}
		number, _, ok := mdline.SplitNumber(mdline.HeaderText(line))
		if !ok || number == "" {
			continue
		}

		parts, err := parseNumber(number)
		if err != nil {
			issues = append(issues, Issue{
				Check:    CheckSectionNumbering,
				Severity: SeverityError,
				Line:     i + 1,
				Message:  fmt.Sprintf("Invalid section number format: %s", number),
			})
			continue
		}

		if len(parts) != level {
			issues = append(issues, Issue{
				Check:    CheckSectionNumbering,
				Severity: SeverityWarning,
				Line:     i + 1,
				Message:  fmt.Sprintf("Section number depth (%d) doesn't match header level (%d): %s", len(parts), level, number),
			})
		}

		if prev != nil && !follows(prev, parts) {
			issues = append(issues, Issue{
				Check:    CheckSectionNumbering,
				Severity: SeverityError,
				Line:     i + 1,
				Message:  fmt.Sprintf("Non-sequential section number: %s -> %s", joinNumber(prev), number),
			})
		}
		prev = parts
	}
	return issues
}

func follows(prev, cur []int) bool {
	switch {
	case len(cur) == len(prev):
		return equalInts(cur[:len(cur)-1], prev[:len(prev)-1]) && cur[len(cur)-1] == prev[len(prev)-1]+1
	case len(cur) == len(prev)+1:
		return equalInts(cur[:len(cur)-1], prev) && cur[len(cur)-1] == 1
	case len(cur) < len(prev):
		common := len(cur) - 1
		return equalInts(cur[:common], prev[:common])
	}
	return false
}

// HeadingLevels warns when a header is more than one level deeper than the
// header before it, the shape that yields gap numbers such as "1.0.1".
func HeadingLevels(lines []string) []Issue {
	var issues []Issue
	var fence mdline.FenceTracker
	prev := 0
	for i, line := range lines {
		if fence.Step(line) {
			continue
		}
		level, ok := mdline.HeaderLevel(line)
		if !ok {
			continue
		}
		if prev > 0 && level > prev+1 {
			issues = append(issues, Issue{
				Check:    CheckHeadingLevels,
				Severity: SeverityWarning,
				Line:     i + 1,
				Message:  fmt.Sprintf("Header level skips from H%d to H%d", prev, level),
			})
		}
		prev = level
	}
	return issues
}

// BulletHierarchy warns about lists that start indented and about indent
// increases of more than four spaces between consecutive items.
func BulletHierarchy(lines []string) []Issue {
	var issues []Issue
	var fence mdline.FenceTracker
	inList := false
	prevIndent := 0

	for i, line := range lines {
		if fence.Step(line) {
			inList = false
			continue
		}
		if !mdline.IsListItem(line) {
			if inList && !mdline.IsBlank(line) {
				inList = false
			}
			continue
		}
		indent := mdline.LeadingSpaces(line)
		if !inList {
			inList = true
			if indent != 0 {
				issues = append(issues, Issue{
					Check:    CheckBulletHierarchy,
					Severity: SeverityWarning,
					Line:     i + 1,
					Message:  fmt.Sprintf("List starts with non-zero indent: %d spaces", indent),
				})
			}
			prevIndent = indent
			continue
		}
		if indent-prevIndent > maxIndentJump {
			issues = append(issues, Issue{
				Check:    CheckBulletHierarchy,
				Severity: SeverityWarning,
				Line:     i + 1,
				Message:  fmt.Sprintf("Large indent jump: %d -> %d spaces", prevIndent, indent),
			})
		}
		prevIndent = indent
	}
	return issues
}

// Completeness fails when output keeps fewer than 90% of the source's
// non-blank lines.
func Completeness(source, output []string) []Issue {
	src := mdline.NonBlankCount(source)
	out := mdline.NonBlankCount(output)
	if float64(out) >= float64(src)*completenessRatio {
		return nil
	}
	return []Issue{{
		Check:    CheckCompleteness,
		Severity: SeverityError,
		Message:  fmt.Sprintf("Output has significantly fewer lines (%d) than source (%d)", out, src),
	}}
}

// CrossReferences warns about internal links whose target is neither a
// section number nor a heading anchor of the document.
func CrossReferences(lines []string) []Issue {
	known := SectionIdentifiers(lines)

	var issues []Issue
	var fence mdline.FenceTracker
	for i, line := range lines {
		if fence.Step(line) {
			continue
		}
		for _, m := range linkPattern.FindAllStringSubmatch(line, -1) {
			text, target := m[1], m[2]
			if !strings.HasPrefix(target, "#") && !numberLikePattern.MatchString(target) {
				continue
			}
			clean := strings.TrimSpace(strings.TrimLeft(target, "#"))
			if clean == "" || known[clean] {
				continue
			}
			issues = append(issues, Issue{
				Check:    CheckCrossReferences,
				Severity: SeverityWarning,
				Line:     i + 1,
				Message:  fmt.Sprintf("Potentially broken internal link: [%s](%s)", text, target),
			})
		}
	}
	return issues
}

// SectionIdentifiers returns every anchor a link may point at: section
// numbers, "section-<number>", slugified titles and slugified
// "<number> <title>" with the dots removed.
func SectionIdentifiers(lines []string) map[string]bool {
	ids := make(map[string]bool)
	var fence mdline.FenceTracker
	for _, line := range lines {
		if fence.Step(line) || !mdline.IsHeader(line) {
			continue
		}
		text := mdline.HeaderText(line)
		number, title, ok := mdline.SplitNumber(text)
		if !ok {
			title = text
		}
		if number != "" {
			ids[number] = true
			ids["section-"+number] = true
		}
		if slug := mdline.Slugify(title); slug != "" {
			ids[slug] = true
		}
		if slug := mdline.Slugify(strings.ReplaceAll(text, ".", "")); slug != "" {
			ids[slug] = true
		}
	}
	return ids
}

func parseNumber(number string) ([]int, error) {
	fields := strings.Split(number, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		parts[i] = n
	}
	return parts, nil
}

func joinNumber(parts []int) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = strconv.Itoa(p)
	}
	return strings.Join(s, ".")
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
