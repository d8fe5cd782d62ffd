package validate

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Summary aggregates several results.
type Summary struct {
	Documents int
	Passed    int
	Failed    int
	Errors    int
	Warnings  int
}

// Summarize totals results.
func Summarize(results []*Result) Summary {
	var s Summary
	for _, r := range results {
		s.Documents++
		if r.Passed() {
			s.Passed++
		} else {
			s.Failed++
		}
		s.Errors += r.Errors()
		s.Warnings += r.Warnings()
	}
	return s
}

// Report renders results as a Markdown validation report.
func Report(results []*Result, now time.Time) string {
	s := Summarize(results)
	overall := "PASS"
	if s.Failed > 0 {
		overall = "FAIL"
	}

	var b strings.Builder
	b.WriteString("# Document Structure Validation Report\n\n")
	fmt.Fprintf(&b, "**Generated**: %s\n\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Documents Validated**: %d\n\n", s.Documents)

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Overall Status**: %s\n", overall)
	fmt.Fprintf(&b, "- **Documents Passed**: %d\n", s.Passed)
	fmt.Fprintf(&b, "- **Documents Failed**: %d\n", s.Failed)
	fmt.Fprintf(&b, "- **Total Errors**: %d\n", s.Errors)
	fmt.Fprintf(&b, "- **Total Warnings**: %d\n\n", s.Warnings)

	b.WriteString("## Document Results\n\n")
	for _, r := range results {
		mark := "✓"
		if !r.Passed() {
			mark = "✗"
		}
		fmt.Fprintf(&b, "### %s %s\n\n", mark, filepath.Base(r.Path))
		fmt.Fprintf(&b, "- **Status**: %s\n", r.Status())
		fmt.Fprintf(&b, "- **Checks Passed**: %d\n", r.ChecksPassed)
		fmt.Fprintf(&b, "- **Checks Failed**: %d\n", r.ChecksFailed)
		fmt.Fprintf(&b, "- **Errors**: %d\n", r.Errors())
		fmt.Fprintf(&b, "- **Warnings**: %d\n\n", r.Warnings())

		if len(r.Issues) == 0 {
			b.WriteString("**No issues found.**\n\n")
			continue
		}

		var order []string
		byCheck := make(map[string][]Issue)
		for _, i := range r.Issues {
			if _, seen := byCheck[i.Check]; !seen {
				order = append(order, i.Check)
			}
			byCheck[i.Check] = append(byCheck[i.Check], i)
		}
		for _, check := range order {
			issues := byCheck[check]
			fmt.Fprintf(&b, "#### %s (%d issues)\n\n", check, len(issues))
			for _, i := range issues {
				if i.Line > 0 {
					fmt.Fprintf(&b, "- **%s** (line %d): %s\n", i.Severity, i.Line, i.Message)
				} else {
					fmt.Fprintf(&b, "- **%s**: %s\n", i.Severity, i.Message)
				}
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
